package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/remark/internal/domain/dictionary"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Inspect the dictionary",
}

var dictStrict bool

var dictCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report terms that occur inside other terms",
	Long: "Terms contained in other terms produce nested or overlapping comments;\n" +
		"terms equal after case folding are duplicates and only the first is used.",
	Args: cobra.NoArgs,
	RunE: runDictCheck,
}

var dictInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example dictionary (default: terms.yaml, - for stdout)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDictInit,
}

func init() {
	dictCheckCmd.Flags().BoolVar(&dictStrict, "strict", false, "exit non-zero when overlaps are found")
	dictCmd.AddCommand(dictCheckCmd)
	dictCmd.AddCommand(dictInitCmd)
}

func runDictInit(cmd *cobra.Command, args []string) error {
	path := "terms.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(dictionary.Starter())
		return err
	}
	if err := dictionary.WriteStarter(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ wrote %s\n", path)
	return nil
}

func runDictCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	overlaps := a.Overlaps()
	fmt.Fprint(cmd.OutOrStdout(), formatOverlaps(a.Dictionary().Len(), overlaps, useColor()))
	if dictStrict && len(overlaps) > 0 {
		return fmt.Errorf("%d overlapping terms", len(overlaps))
	}
	return nil
}
