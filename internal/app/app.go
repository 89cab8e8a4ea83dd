// Package app wires together all adapters and domain logic.
// It runs annotation passes over .docx files: open, clear, annotate, save,
// then record the run in history and metrics.
package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/corey/remark/internal/adapters/ahocorasick"
	"github.com/corey/remark/internal/adapters/bbolt"
	"github.com/corey/remark/internal/adapters/docx"
	"github.com/corey/remark/internal/adapters/plaintext"
	"github.com/corey/remark/internal/domain/annotate"
	"github.com/corey/remark/internal/domain/dictionary"
	"github.com/corey/remark/internal/logger"
	"github.com/corey/remark/internal/metrics"
	"github.com/corey/remark/internal/ports"
)

// Config holds initialization parameters for the App.
type Config struct {
	// Dictionary is used as is when set. Otherwise it is loaded from
	// DictionaryPath with InlineTerms ("term=comment") appended, and
	// reloaded the same way by Reload.
	Dictionary     *dictionary.Dictionary
	DictionaryPath string
	InlineTerms    []string

	Author   string // default: the dictionary's author, then docx.DefaultAuthor
	Initials string

	HistoryPath string // bbolt file; empty disables history
	MetricsPath string // textfile written after each run; empty disables

	Logger zerolog.Logger
	Now    func() time.Time // default: time.Now
}

// App is the top-level container wiring all components together.
type App struct {
	cfg     Config
	log     zerolog.Logger
	now     func() time.Time
	history ports.HistoryStore // nil when history is disabled
	closer  func() error
	Metrics *metrics.Metrics

	mu   sync.Mutex // serializes runs; watch mode calls from the watcher goroutine
	dict *dictionary.Dictionary
}

// Report describes one completed annotation run.
type Report struct {
	Run        *ports.RunRecord
	Previous   *ports.RunRecord // last recorded run of the same document, if any
	Placements []annotate.Placement
	Splits     int
}

// New creates an App with all dependencies wired.
func New(cfg Config) (*App, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	a := &App{
		cfg:     cfg,
		log:     logger.Component(cfg.Logger, "app"),
		now:     cfg.Now,
		closer:  func() error { return nil },
		Metrics: metrics.New(),
		dict:    cfg.Dictionary,
	}
	if a.dict == nil {
		d, err := LoadDictionary(cfg.DictionaryPath, cfg.InlineTerms)
		if err != nil {
			return nil, err
		}
		a.dict = d
	}
	a.Metrics.DictionaryEntries.Set(float64(a.dict.Len()))

	if cfg.HistoryPath != "" {
		store, err := bbolt.NewStore(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.history = store
		a.closer = store.Close
	}
	return a, nil
}

// LoadDictionary reads the YAML dictionary at path (skipped when empty) and
// appends the inline "term=comment" entries.
func LoadDictionary(path string, inline []string) (*dictionary.Dictionary, error) {
	d := dictionary.New()
	if path != "" {
		loaded, err := dictionary.Load(path)
		if err != nil {
			return nil, err
		}
		d = loaded
	}
	for _, s := range inline {
		if err := d.AddInline(s); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Close releases the history store.
func (a *App) Close() error {
	return a.closer()
}

// Dictionary returns the dictionary currently in use.
func (a *App) Dictionary() *dictionary.Dictionary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dict
}

// Reload re-reads the dictionary from Config.DictionaryPath. On error the
// previous dictionary stays in use.
func (a *App) Reload() error {
	d, err := LoadDictionary(a.cfg.DictionaryPath, a.cfg.InlineTerms)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.dict = d
	a.mu.Unlock()
	a.Metrics.DictionaryEntries.Set(float64(d.Len()))
	a.log.Info().Int("terms", d.Len()).Msg("dictionary reloaded")
	return nil
}

// Author returns the author new comments are attributed to.
func (a *App) Author() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.author()
}

func (a *App) author() string {
	switch {
	case a.cfg.Author != "":
		return a.cfg.Author
	case a.dict.Author != "":
		return a.dict.Author
	}
	return docx.DefaultAuthor
}

func (a *App) open(path string) (*docx.Package, error) {
	return docx.Open(path, docx.Options{
		Author:   a.author(),
		Initials: a.initials(),
		Logger:   logger.Component(a.cfg.Logger, "docx").With().Str("document", filepath.Base(path)).Logger(),
		Now:      a.now,
	})
}

// initials defaults to the first letter of each word of the author.
func (a *App) initials() string {
	if a.cfg.Initials != "" {
		return a.cfg.Initials
	}
	var sb strings.Builder
	for _, w := range strings.Fields(a.author()) {
		r := []rune(w)
		sb.WriteString(strings.ToUpper(string(r[0])))
	}
	return sb.String()
}

// Annotate clears the author's previous comments from in, annotates every
// paragraph and writes the result to out. in and out may be the same file.
func (a *App) Annotate(in, out string) (*Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	started := a.now()
	rep, err := a.annotate(in, out, started)
	if err != nil {
		a.Metrics.RecordFailure()
		a.log.Error().Err(err).Str("document", in).Msg("annotate failed")
		return nil, err
	}

	a.Metrics.RecordRun(metrics.RunStats{
		Paragraphs:  rep.Run.Paragraphs,
		Splits:      rep.Splits,
		Annotations: rep.Run.Annotations,
		Cleared:     rep.Run.Cleared,
		PerTerm:     rep.Run.PerTerm,
		Duration:    rep.Run.Duration,
		Finished:    started.Add(rep.Run.Duration),
	})
	if a.history != nil {
		prev, err := a.history.LastRun(rep.Run.Document)
		if err != nil {
			return rep, fmt.Errorf("read history: %w", err)
		}
		rep.Previous = prev
		if err := a.history.SaveRun(rep.Run); err != nil {
			return rep, fmt.Errorf("record run: %w", err)
		}
	}
	if err := a.writeMetrics(); err != nil {
		return rep, err
	}

	a.log.Info().
		Str("document", in).
		Str("output", out).
		Int("paragraphs", rep.Run.Paragraphs).
		Int("annotations", rep.Run.Annotations).
		Int("cleared", rep.Run.Cleared).
		Dur("duration", rep.Run.Duration).
		Msg("annotated")
	return rep, nil
}

func (a *App) annotate(in, out string, started time.Time) (*Report, error) {
	pkg, err := a.open(in)
	if err != nil {
		return nil, err
	}
	author := a.author()
	ann := annotate.New(a.dict, pkg.Comments())
	cleared := ann.Clear(pkg, author)
	st := ann.Document(pkg)
	if err := pkg.Save(out); err != nil {
		return nil, err
	}

	run := &ports.RunRecord{
		ID:          uuid.NewString(),
		Document:    absPath(in),
		Output:      absPath(out),
		Author:      author,
		StartedAt:   started.UTC(),
		Duration:    a.now().Sub(started),
		Paragraphs:  st.Paragraphs,
		Annotations: len(st.Placements),
		Cleared:     len(cleared),
		PerTerm:     st.PerTerm,
	}
	if n := len(st.Placements); n > 0 {
		run.FirstID = st.Placements[0].ID
		run.LastID = st.Placements[n-1].ID
	}
	return &Report{Run: run, Placements: st.Placements, Splits: st.Splits}, nil
}

// Clear removes author's comments and their markers from in and writes the
// result to out. ports.AnyAuthor removes every comment.
func (a *App) Clear(in, out, author string) ([]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pkg, err := a.open(in)
	if err != nil {
		return nil, err
	}
	ids := annotate.New(a.dict, pkg.Comments()).Clear(pkg, author)
	if err := pkg.Save(out); err != nil {
		return nil, err
	}
	a.Metrics.ClearedTotal.Add(float64(len(ids)))
	a.log.Info().Str("document", in).Str("author", author).Int("cleared", len(ids)).Msg("cleared")
	return ids, a.writeMetrics()
}

// Comments lists the comments already present in a document.
func (a *App) Comments(in string) ([]ports.Annotation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	pkg, err := a.open(in)
	if err != nil {
		return nil, err
	}
	return pkg.Comments().Annotations(), nil
}

// Images lists the pictures embedded in a document's paragraphs.
func (a *App) Images(in string) ([]docx.Image, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	pkg, err := a.open(in)
	if err != nil {
		return nil, err
	}
	return pkg.Images(), nil
}

// ExtractImages writes a document's pictures into dir.
func (a *App) ExtractImages(in, dir string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	pkg, err := a.open(in)
	if err != nil {
		return nil, err
	}
	return pkg.ExtractImages(dir)
}

// Preview annotates plain text without touching any file. Each line is a
// paragraph and "|" separates runs; the result marks every annotated span
// as "[id>...<id]".
func (a *App) Preview(text string) (string, *annotate.Stats) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var doc plaintext.Document
	for _, line := range strings.Split(text, "\n") {
		doc = append(doc, plaintext.Parse(line))
	}
	st := annotate.New(a.dict, plaintext.NewStore(a.author())).Document(doc)
	lines := make([]string, len(doc))
	for i, p := range doc {
		lines[i] = p.Render()
	}
	return strings.Join(lines, "\n"), st
}

// Overlaps reports dictionary terms that occur inside other terms.
func (a *App) Overlaps() []ports.Overlap {
	a.mu.Lock()
	defer a.mu.Unlock()
	var finder ports.OverlapFinder = ahocorasick.Finder{}
	return finder.Overlaps(a.dict.Terms())
}

// History returns the recorded runs for a document, oldest first.
func (a *App) History(document string) ([]*ports.RunRecord, error) {
	if a.history == nil {
		return nil, fmt.Errorf("history is disabled")
	}
	return a.history.Runs(absPath(document))
}

// ForgetHistory deletes every recorded run for a document.
func (a *App) ForgetHistory(document string) error {
	if a.history == nil {
		return fmt.Errorf("history is disabled")
	}
	return a.history.DeleteDocument(absPath(document))
}

// Documents lists every document with recorded history.
func (a *App) Documents() ([]string, error) {
	store, ok := a.history.(*bbolt.Store)
	if !ok {
		return nil, fmt.Errorf("history is disabled")
	}
	return store.Documents()
}

func (a *App) writeMetrics() error {
	if a.cfg.MetricsPath == "" {
		return nil
	}
	return a.Metrics.WriteTextfile(a.cfg.MetricsPath)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
