package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	annotateOut     string
	annotateInPlace bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <in.docx>",
	Short: "Comment every dictionary term occurrence",
	Long: "Removes the author's previous comments, then attaches one comment per\n" +
		"term occurrence. Tables are processed before body paragraphs.",
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringVarP(&annotateOut, "output", "o", "", "output file (default: <in>.annotated.docx)")
	annotateCmd.Flags().BoolVar(&annotateInPlace, "in-place", false, "overwrite the input file")
}

// defaultOutput derives report.annotated.docx from report.docx.
func defaultOutput(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + ".annotated" + ext
}

func resolveOutput(in, out string, inPlace bool) (string, error) {
	switch {
	case inPlace && out != "":
		return "", fmt.Errorf("--in-place and --output are mutually exclusive")
	case inPlace:
		return in, nil
	case out != "":
		return out, nil
	}
	return defaultOutput(in), nil
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	in := args[0]
	out, err := resolveOutput(in, annotateOut, annotateInPlace)
	if err != nil {
		return err
	}
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Annotate(in, out)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatReport(rep, useColor()))
	return nil
}
