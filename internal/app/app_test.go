package app

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/remark/internal/domain/dictionary"
	"github.com/corey/remark/internal/ports"
)

// =============================================================================
// App — end-to-end annotation runs over real .docx files
// Expectation: a run clears the author's previous comments, annotates every
// occurrence, saves, and leaves a history record and a metrics textfile.
// =============================================================================

const testDictYAML = `author: robot
terms:
  - term: fund
    comment: say "money" instead
  - term: raising
    comment: informal
`

func writeDocx(t *testing.T, path string, paragraphs ...string) {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`)
	}
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `<w:sectPr/></w:body></w:document>`},
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	zw := zip.NewWriter(f)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(p.data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
}

type testEnv struct {
	dir   string
	paths *Paths
	dict  string
	in    string
	out   string
}

func newTestEnv(t *testing.T, paragraphs ...string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:   dir,
		paths: NewPaths(dir),
		dict:  filepath.Join(dir, "terms.yaml"),
		in:    filepath.Join(dir, "report.docx"),
		out:   filepath.Join(dir, "report.reviewed.docx"),
	}
	require.NoError(t, env.paths.EnsureDirs())
	require.NoError(t, os.WriteFile(env.dict, []byte(testDictYAML), 0644))
	writeDocx(t, env.in, paragraphs...)
	return env
}

func (e *testEnv) config() Config {
	return Config{
		DictionaryPath: e.dict,
		HistoryPath:    e.paths.DB,
		MetricsPath:    e.paths.Metrics,
		Logger:         zerolog.Nop(),
		Now:            fixedNow,
	}
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAnnotate_EndToEnd(t *testing.T) {
	env := newTestEnv(t, "a fund raising plan", "no terms here", "FUND again")
	a := newTestApp(t, env.config())

	rep, err := a.Annotate(env.in, env.out)
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Run.Paragraphs)
	assert.Equal(t, 3, rep.Run.Annotations)
	assert.Equal(t, 0, rep.Run.Cleared)
	assert.Equal(t, map[string]int{"fund": 2, "raising": 1}, rep.Run.PerTerm)
	assert.Equal(t, 1, rep.Run.FirstID)
	assert.Equal(t, 3, rep.Run.LastID)
	assert.Equal(t, "robot", rep.Run.Author)
	assert.Equal(t, fixedNow(), rep.Run.StartedAt)
	assert.NotEmpty(t, rep.Run.ID)
	assert.Positive(t, rep.Splits)

	comments, err := a.Comments(env.out)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, ports.Annotation{ID: 1, Author: "robot", Text: `say "money" instead`}, comments[0])

	// Input is untouched.
	orig, err := a.Comments(env.in)
	require.NoError(t, err)
	assert.Empty(t, orig)

	runs, err := a.History(env.in)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rep.Run.ID, runs[0].ID)

	prom, err := os.ReadFile(env.paths.Metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "remark_annotations_created_total 3")
	assert.Contains(t, string(prom), "remark_dictionary_entries 2")
}

func TestAnnotate_RerunReplacesOwnComments(t *testing.T) {
	env := newTestEnv(t, "a fund raising plan")
	a := newTestApp(t, env.config())

	_, err := a.Annotate(env.in, env.out)
	require.NoError(t, err)
	rep, err := a.Annotate(env.out, env.out)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Run.Cleared)
	assert.Equal(t, 2, rep.Run.Annotations)
	// Ids continue after the cleared ones.
	assert.Equal(t, 3, rep.Run.FirstID)

	comments, err := a.Comments(env.out)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	docs, err := a.Documents()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{env.in, env.out}, docs)
}

func TestAnnotate_MissingInput(t *testing.T) {
	env := newTestEnv(t, "x")
	a := newTestApp(t, env.config())
	_, err := a.Annotate(filepath.Join(env.dir, "nope.docx"), env.out)
	assert.Error(t, err)
	_, statErr := os.Stat(env.out)
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestClear(t *testing.T) {
	env := newTestEnv(t, "fund fund")
	a := newTestApp(t, env.config())
	_, err := a.Annotate(env.in, env.out)
	require.NoError(t, err)

	ids, err := a.Clear(env.out, env.out, "someone else")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = a.Clear(env.out, env.out, ports.AnyAuthor)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)

	comments, err := a.Comments(env.out)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestAuthorResolution(t *testing.T) {
	d := dictionary.New()
	_, err := d.Add("fund", "x")
	require.NoError(t, err)

	a := newTestApp(t, Config{Dictionary: d, Logger: zerolog.Nop()})
	assert.Equal(t, "robot", a.Author())

	d.Author = "Legal Review"
	assert.Equal(t, "Legal Review", a.Author())
	assert.Equal(t, "LR", a.initials())

	a = newTestApp(t, Config{Dictionary: d, Author: "ana", Logger: zerolog.Nop()})
	assert.Equal(t, "ana", a.Author())
}

func TestNew_InlineTerms(t *testing.T) {
	env := newTestEnv(t)
	cfg := env.config()
	cfg.InlineTerms = []string{"plan=vague", "fund=ignored duplicate"}
	a := newTestApp(t, cfg)
	assert.Equal(t, []string{"fund", "raising", "plan"}, a.Dictionary().Terms())

	cfg.InlineTerms = []string{"no separator"}
	_, err := New(cfg)
	assert.ErrorIs(t, err, dictionary.ErrMalformed)
}

func TestPreview(t *testing.T) {
	a := newTestApp(t, Config{InlineTerms: []string{"fund=x", "raising=y"}, Logger: zerolog.Nop()})
	out, st := a.Preview("a fu|nd raising plan\nnothing")
	assert.Equal(t, "a [1>fund<1] [2>raising<2] plan\nnothing", out)
	assert.Equal(t, 2, st.Paragraphs)
	assert.Len(t, st.Placements, 2)
}

func TestOverlaps(t *testing.T) {
	a := newTestApp(t, Config{InlineTerms: []string{"fund raising=x", "fund=y"}, Logger: zerolog.Nop()})
	assert.Equal(t, []ports.Overlap{
		{Outer: "fund raising", Inner: "fund", Offset: 0, Prefix: true},
	}, a.Overlaps())
}

func TestHistory_Disabled(t *testing.T) {
	a := newTestApp(t, Config{Logger: zerolog.Nop()})
	_, err := a.History("x.docx")
	assert.Error(t, err)
	assert.Error(t, a.ForgetHistory("x.docx"))
	_, err = a.Documents()
	assert.Error(t, err)
}

func TestForgetHistory(t *testing.T) {
	env := newTestEnv(t, "fund")
	a := newTestApp(t, env.config())
	_, err := a.Annotate(env.in, env.out)
	require.NoError(t, err)
	require.NoError(t, a.ForgetHistory(env.in))
	runs, err := a.History(env.in)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

// fakeWatcher hands the registered callback to the test.
type fakeWatcher struct {
	mu       sync.Mutex
	paths    []string
	onChange func(string)
	stopped  bool
	ready    chan struct{}
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{ready: make(chan struct{})}
}

func (f *fakeWatcher) Watch(paths []string, onChange func(string)) error {
	f.mu.Lock()
	f.paths, f.onChange = paths, onChange
	f.mu.Unlock()
	close(f.ready)
	return nil
}

func (f *fakeWatcher) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeWatcher) fire(path string) {
	f.mu.Lock()
	cb := f.onChange
	f.mu.Unlock()
	cb(path)
}

func TestWatch_RerunsOnChange(t *testing.T) {
	env := newTestEnv(t, "a fund raising plan")
	a := newTestApp(t, env.config())
	w := newFakeWatcher()

	results := make(chan WatchResult, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, w, env.in, env.out, func(r WatchResult) { results <- r })
	}()

	first := <-results
	require.NoError(t, first.Err)
	assert.Empty(t, first.Trigger)
	assert.Equal(t, 2, first.Report.Run.Annotations)

	<-w.ready
	assert.ElementsMatch(t, []string{env.in, env.dict}, w.paths)

	// Dictionary edit: reload, then re-run with the new term set.
	require.NoError(t, os.WriteFile(env.dict, []byte("terms:\n  - term: plan\n    comment: vague\n"), 0644))
	w.fire(env.dict)
	second := <-results
	require.NoError(t, second.Err)
	assert.Equal(t, env.dict, second.Trigger)
	assert.Equal(t, map[string]int{"plan": 1}, second.Report.Run.PerTerm)

	// Broken dictionary: previous one stays, no run.
	require.NoError(t, os.WriteFile(env.dict, []byte("terms: [{comment: no term}]"), 0644))
	w.fire(env.dict)
	third := <-results
	assert.ErrorIs(t, third.Err, dictionary.ErrEmptyTerm)
	assert.Nil(t, third.Report)
	assert.Equal(t, []string{"plan"}, a.Dictionary().Terms())

	// Document edit re-runs with the current dictionary.
	w.fire(env.in)
	fourth := <-results
	require.NoError(t, fourth.Err)
	assert.Equal(t, 1, fourth.Report.Run.Annotations)

	cancel()
	require.NoError(t, <-done)
	assert.True(t, w.stopped)

	runs, err := a.History(env.in)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestWatch_RejectsInPlace(t *testing.T) {
	env := newTestEnv(t, "fund")
	a := newTestApp(t, env.config())
	err := a.Watch(context.Background(), newFakeWatcher(), env.in, env.in, func(WatchResult) {})
	assert.ErrorContains(t, err, "output must differ")
}

func TestAnnotate_ReportsPreviousRun(t *testing.T) {
	env := newTestEnv(t, "fund fund raising")
	a := newTestApp(t, env.config())

	first, err := a.Annotate(env.in, env.out)
	require.NoError(t, err)
	assert.Nil(t, first.Previous)

	second, err := a.Annotate(env.in, env.out)
	require.NoError(t, err)
	require.NotNil(t, second.Previous)
	assert.Equal(t, first.Run.ID, second.Previous.ID)
	assert.Equal(t, 3, second.Previous.Annotations)
}
