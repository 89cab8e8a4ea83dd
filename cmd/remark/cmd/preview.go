package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [text]",
	Short: "Show where comments would be placed, without a document",
	Long: "Annotates plain text and marks each comment range as [id>...<id].\n" +
		"Lines are paragraphs; '|' splits a paragraph into runs. Reads stdin\n" +
		"when no text is given.",
	Example: `  remark preview -t "fund=x" "a fu|nd raising plan"`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	var text string
	switch {
	case len(args) == 1:
		text = args[0]
	case isStdinPipe():
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\n")
	default:
		return fmt.Errorf("no text given")
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out, st := a.Preview(text)
	fmt.Fprintln(cmd.OutOrStdout(), out)
	log.Debug().Int("comments", len(st.Placements)).Int("splits", st.Splits).Msg("preview")
	return nil
}
