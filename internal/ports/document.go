package ports

// Document is a paragraph-structured text container. The concrete
// implementation (docx) lives in internal/adapters/docx.
type Document interface {
	// Paragraphs returns every paragraph to annotate, in processing order:
	// paragraphs of table cells first (table, row, cell order), then the
	// top-level body paragraphs, all in document declaration order.
	Paragraphs() []Paragraph
}

// Paragraph exposes an ordered sequence of independently styled runs.
// Splitting and marking mutate the underlying document in place.
type Paragraph interface {
	// Runs returns the paragraph's text runs in order. Runs removed by
	// tracked changes are excluded. The slice is a snapshot: runs created
	// by Split or AppendRun after the call are not in it.
	Runs() []Run

	// AppendRun adds an empty run at the end of the paragraph and returns it.
	AppendRun() Run

	// Mark attaches a range marker for annotation id to run r. A RangeStart
	// marker precedes the run; a RangeEnd marker follows it and is paired
	// with a reference to the annotation on the same run.
	Mark(r Run, kind MarkerKind, id int)
}

// Run is a maximal piece of uniformly styled text.
type Run interface {
	// Text returns the run's visible text.
	Text() string

	// Split cuts the run at rune offset k (0 < k < len). The receiver keeps
	// [0,k); the returned run holds [k,len), carries a verbatim copy of the
	// receiver's style, and is placed immediately after it.
	Split(k int) Run
}

// MarkerKind distinguishes the two ends of an annotated range.
type MarkerKind int

const (
	RangeStart MarkerKind = iota
	RangeEnd
)

func (k MarkerKind) String() string {
	if k == RangeStart {
		return "start"
	}
	return "end"
}

// MarkerRemover is implemented by documents that can drop range markers and
// references left behind by annotations that were cleared from the store.
type MarkerRemover interface {
	// RemoveMarkers deletes every range start, range end and reference
	// carrying one of ids and returns how many elements were removed.
	RemoveMarkers(ids []int) int
}
