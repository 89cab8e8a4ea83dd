package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/remark/internal/ports"
)

var (
	clearOut string
	clearAll bool
)

var clearCmd = &cobra.Command{
	Use:   "clear <in.docx>",
	Short: "Remove comments and their ranges",
	Long: "Removes the comments written by --author (default: the configured\n" +
		"author) together with their range markers. --all removes every comment.",
	Args: cobra.ExactArgs(1),
	RunE: runClear,
}

func init() {
	clearCmd.Flags().StringVarP(&clearOut, "output", "o", "", "output file (default: overwrite the input)")
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "remove comments of every author")
}

func runClear(cmd *cobra.Command, args []string) error {
	in := args[0]
	out := clearOut
	if out == "" {
		out = in
	}
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	who := a.Author()
	if clearAll {
		who = ports.AnyAuthor
	}
	ids, err := a.Clear(in, out, who)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ %d comments removed\n", len(ids))
	return nil
}
