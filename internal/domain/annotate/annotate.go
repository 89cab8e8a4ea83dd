// Package annotate places one annotation on every dictionary term occurrence
// in a document. For each paragraph it matches the flat text, splits runs so
// every occurrence starts and ends on a run boundary, and attaches range
// markers to the runs at those boundaries.
//
// Occurrences are handled term by term in dictionary order, and within a
// term by ascending start offset. Markers are decided in memory first and
// written only after the paragraph's last split, so a later split never moves
// a marker already placed.
package annotate

import (
	"unicode/utf8"

	"github.com/corey/remark/internal/domain/automaton"
	"github.com/corey/remark/internal/domain/dictionary"
	"github.com/corey/remark/internal/domain/segment"
	"github.com/corey/remark/internal/ports"
)

// Placement records where one annotation was attached, in flat-text rune
// offsets of its paragraph captured before any split. End is inclusive.
type Placement struct {
	ID        int
	Term      string
	Paragraph int
	Start     int
	End       int
}

// Stats summarizes an annotation pass.
type Stats struct {
	Paragraphs int
	Splits     int
	Placements []Placement
	PerTerm    map[string]int
}

// Annotator ties a built automaton to the dictionary it came from and the
// store that hands out annotation ids.
type Annotator struct {
	auto  *automaton.Automaton
	dict  *dictionary.Dictionary
	store ports.AnnotationStore
}

// New builds the automaton for dict. The automaton is read-only afterwards
// and can be shared.
func New(dict *dictionary.Dictionary, store ports.AnnotationStore) *Annotator {
	return &Annotator{
		auto:  automaton.New(dict.Terms()...),
		dict:  dict,
		store: store,
	}
}

// Clear removes author's annotations from the store, and their markers from
// doc when it supports that. It returns the removed ids.
func (a *Annotator) Clear(doc ports.Document, author string) []int {
	ids := a.store.ClearByAuthor(author)
	if rm, ok := doc.(ports.MarkerRemover); ok && len(ids) > 0 {
		rm.RemoveMarkers(ids)
	}
	return ids
}

// Document annotates every paragraph of doc in processing order.
func (a *Annotator) Document(doc ports.Document) *Stats {
	st := &Stats{PerTerm: make(map[string]int)}
	for i, p := range doc.Paragraphs() {
		placed, splits := a.Paragraph(p, i)
		st.Paragraphs++
		st.Splits += splits
		for _, pl := range placed {
			st.PerTerm[pl.Term]++
		}
		st.Placements = append(st.Placements, placed...)
	}
	return st
}

// Paragraph annotates a single paragraph, recording index as its position
// in the document. It returns the placements and the number of splits.
// Paragraphs of one document may be annotated concurrently only with a store
// that tolerates concurrent Create calls.
func (a *Annotator) Paragraph(p ports.Paragraph, index int) ([]Placement, int) {
	if a.auto.Len() == 0 {
		return nil, 0
	}
	ins := newInserter(p)
	matches := a.auto.Match(ins.m.Text())
	if len(matches) == 0 {
		return nil, 0
	}

	var placed []Placement
	for _, e := range a.dict.Entries() {
		term := e.Term
		starts, ok := matches[term]
		if !ok {
			continue
		}
		n := utf8.RuneCountInString(term)
		for _, start := range starts {
			id := a.store.Create(term, e.Comment)
			end := start + n - 1
			ins.place(id, start, end)
			placed = append(placed, Placement{ID: id, Term: term, Paragraph: index, Start: start, End: end})
		}
	}
	ins.flush()
	return placed, ins.m.Splits()
}

// inserter holds one paragraph's pending markers, keyed by segment.
type inserter struct {
	para   ports.Paragraph
	m      *segment.Map
	starts map[*segment.Segment][]int
	ends   map[*segment.Segment][]int
}

func newInserter(p ports.Paragraph) *inserter {
	return &inserter{
		para:   p,
		m:      segment.New(p),
		starts: make(map[*segment.Segment][]int),
		ends:   make(map[*segment.Segment][]int),
	}
}

// place records the markers for one occurrence spanning [start, end].
func (in *inserter) place(id, start, end int) {
	var first *segment.Segment
	if in.m.StartsAt(start) {
		first = in.m.Owner(start)
	} else {
		first = in.split(start)
	}
	in.starts[first] = append(in.starts[first], id)

	if end == in.m.Len()-1 {
		in.m.Trailing()
	}
	last := in.m.Owner(end)
	if !in.m.EndsAt(end) {
		in.split(end + 1)
	}
	in.ends[last] = append(in.ends[last], id)
}

// split cuts at off. End markers pending on the cut segment belong to its
// original last rune, which now lives in the right-hand piece.
func (in *inserter) split(off int) *segment.Segment {
	if off == in.m.Len() {
		return in.m.Trailing()
	}
	left := in.m.Owner(off)
	right := in.m.SplitAt(off)
	if right != left {
		if ids, ok := in.ends[left]; ok {
			in.ends[right] = ids
			delete(in.ends, left)
		}
	}
	return right
}

func (in *inserter) flush() {
	segs := in.m.Segments()
	for _, s := range segs {
		for _, id := range in.starts[s] {
			in.para.Mark(s.Run, ports.RangeStart, id)
		}
	}
	for _, s := range segs {
		for _, id := range in.ends[s] {
			in.para.Mark(s.Run, ports.RangeEnd, id)
		}
	}
}
