package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/corey/remark/internal/ports"
)

// WatchResult is delivered after every run triggered by Watch.
type WatchResult struct {
	Trigger string // absolute path of the file that changed; empty for the first run
	Report  *Report
	Err     error
}

// Watch annotates in into out, then again every time in or the dictionary
// file changes, until ctx is done. A dictionary change reloads the
// dictionary first; if that fails the run is skipped and the error reported.
// out must differ from in, or every save would trigger another run.
func (a *App) Watch(ctx context.Context, w ports.Watcher, in, out string, results func(WatchResult)) error {
	inAbs, outAbs := absPath(in), absPath(out)
	if inAbs == outAbs {
		return fmt.Errorf("watch: output must differ from input %s", in)
	}
	paths := []string{inAbs}
	dictAbs := ""
	if a.cfg.DictionaryPath != "" {
		dictAbs = absPath(a.cfg.DictionaryPath)
		paths = append(paths, dictAbs)
	}

	rep, err := a.Annotate(inAbs, outAbs)
	results(WatchResult{Report: rep, Err: err})

	// Runs are queued so a slow run never blocks the watcher's callback.
	changes := make(chan string, 16)
	if err := w.Watch(paths, func(path string) {
		select {
		case changes <- path:
		default:
			a.log.Warn().Str("file", path).Msg("change queue full, dropping event")
		}
	}); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			results(a.onFileChanged(path, dictAbs, inAbs, outAbs))
		}
	}
}

// onFileChanged handles a debounced change of the input or the dictionary.
func (a *App) onFileChanged(path, dictPath, in, out string) WatchResult {
	a.log.Debug().Str("file", filepath.Base(path)).Msg("change detected")
	if path == dictPath {
		if err := a.Reload(); err != nil {
			a.log.Warn().Err(err).Msg("dictionary reload failed, keeping previous")
			return WatchResult{Trigger: path, Err: err}
		}
	}
	rep, err := a.Annotate(in, out)
	return WatchResult{Trigger: path, Report: rep, Err: err}
}
