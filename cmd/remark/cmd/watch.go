package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	fsw "github.com/corey/remark/internal/adapters/fsnotify"
	"github.com/corey/remark/internal/app"
)

var (
	watchOut      string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <in.docx>",
	Short: "Re-annotate whenever the document or dictionary changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOut, "output", "o", "", "output file (default: <in>.annotated.docx)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", fsw.DefaultDebounce, "quiet period before a change triggers a run")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchDebounce <= 0 {
		return fmt.Errorf("--debounce must be positive")
	}
	in := args[0]
	out := watchOut
	if out == "" {
		out = defaultOutput(in)
	}
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := fsw.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	w.SetDebounce(watchDebounce)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	color := useColor()
	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "⚡ watching %s (Ctrl-C to stop)\n", filepath.Base(in))
	return a.Watch(ctx, w, in, out, func(r app.WatchResult) {
		if r.Trigger != "" {
			fmt.Fprintf(stdout, "%s changed\n", filepath.Base(r.Trigger))
		}
		if r.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", r.Err)
			return
		}
		fmt.Fprint(stdout, formatReport(r.Report, color))
	})
}
