package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <in.docx>",
	Short: "List the comments in a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	comments, err := a.Comments(args[0])
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no comments")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatComments(comments, useColor()))
	return nil
}
