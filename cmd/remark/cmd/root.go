package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/corey/remark/internal/app"
	"github.com/corey/remark/internal/logger"
)

var (
	dictPath    string
	inlineTerms []string
	author      string
	initials    string
	logLevel    string
	prettyLogs  bool
	workspace   string
	noHistory   bool
	noColor     bool

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "remark",
	Short: "remark — comment flagged terms in Word documents",
	Long: "Finds every occurrence of a dictionary of flagged terms in a .docx\n" +
		"and attaches a Word comment to exactly each matched span.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logger.Config{
			Level:  logLevel,
			Pretty: prettyLogs,
			Output: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

// workspaceRoot returns the directory holding .remark/ (cwd by default).
func workspaceRoot() string {
	if workspace != "" {
		return workspace
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// newApp builds the App from the global flags. withHistory opens the
// workspace's history database unless --no-history is set.
func newApp(withHistory bool) (*app.App, error) {
	paths := app.NewPaths(workspaceRoot())
	cfg := app.Config{
		DictionaryPath: dictPath,
		InlineTerms:    inlineTerms,
		Author:         author,
		Initials:       initials,
		Logger:         log,
	}
	if withHistory && !noHistory {
		if err := paths.EnsureDirs(); err != nil {
			return nil, fmt.Errorf("create %s: %w", paths.Root, err)
		}
		cfg.HistoryPath = paths.DB
		cfg.MetricsPath = paths.Metrics
	}
	a, err := app.New(cfg)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(paths.DB))
		}
		return nil, err
	}
	return a, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&dictPath, "dict", "d", "", "YAML dictionary of terms and comments")
	pf.StringArrayVarP(&inlineTerms, "term", "t", nil, `extra entry "term=comment" (repeatable, appended after --dict)`)
	pf.StringVar(&author, "author", "", "comment author (default: dictionary author, then \"robot\")")
	pf.StringVar(&initials, "initials", "", "comment author initials")
	pf.StringVar(&logLevel, "log-level", "warn", "debug, info, warn, error or off")
	pf.BoolVar(&prettyLogs, "pretty", false, "human-readable logs")
	pf.StringVar(&workspace, "workspace", "", "directory holding .remark/ (default: current directory)")
	pf.BoolVar(&noHistory, "no-history", false, "don't record runs or write metrics")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
}
