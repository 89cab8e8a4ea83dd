package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyForget bool

var historyCmd = &cobra.Command{
	Use:   "history [document]",
	Short: "Show recorded annotation runs",
	Long:  "Without a document, lists every document with history.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyForget, "forget", false, "delete the document's history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		docs, err := a.Documents()
		if err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Fprintln(out, d)
		}
		return nil
	}

	if historyForget {
		if err := a.ForgetHistory(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, "⚡ history deleted")
		return nil
	}

	runs, err := a.History(args[0])
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}
	fmt.Fprint(out, formatHistory(runs, useColor()))
	return nil
}
