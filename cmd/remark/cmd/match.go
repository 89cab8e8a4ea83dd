package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/remark/internal/domain/automaton"
)

var matchCmd = &cobra.Command{
	Use:   "match <text>...",
	Short: "Show where dictionary terms occur in text",
	Long:  "Prints each matched term with its start offsets (runes, case-insensitive).",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMatch,
}

var filterCmd = &cobra.Command{
	Use:   "filter <text>...",
	Short: "Mask dictionary terms in text with '*'",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFilter,
}

func buildAutomaton() (*automaton.Automaton, []string, error) {
	a, err := newApp(false)
	if err != nil {
		return nil, nil, err
	}
	defer a.Close()
	terms := a.Dictionary().Terms()
	return automaton.New(terms...), terms, nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	auto, terms, err := buildAutomaton()
	if err != nil {
		return err
	}
	matches := auto.Match(strings.Join(args, " "))
	if len(matches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no matches")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatMatches(terms, matches, useColor()))
	return nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	auto, _, err := buildAutomaton()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), auto.Filter(strings.Join(args, " ")))
	return nil
}
