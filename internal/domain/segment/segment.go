// Package segment maps a paragraph's flat text onto its runs and splits runs
// at flat-text offsets without changing the text.
//
// A Map is built once per paragraph and owned by a single caller for the
// duration of that paragraph. It is not safe for concurrent use.
package segment

import (
	"fmt"
	"strings"

	"github.com/corey/remark/internal/ports"
)

// Segment is one run of the paragraph together with its position in the
// current run order. Order indices are dense and renumbered after every split.
type Segment struct {
	Run   ports.Run
	Order int
	text  []rune
}

// Text returns the segment's current text.
func (s *Segment) Text() string {
	return string(s.text)
}

// Map is the per-paragraph offset bookkeeping: flat offset → owning segment,
// and segment → ascending list of owned offsets.
type Map struct {
	para     ports.Paragraph
	segments []*Segment       // in order index order
	owner    []*Segment       // flat offset → segment
	offsets  map[*Segment][]int
	trailing *Segment // empty segment appended past the last rune, if any
	splits   int
}

// New flattens p's runs in order.
func New(p ports.Paragraph) *Map {
	runs := p.Runs()
	m := &Map{
		para:     p,
		segments: make([]*Segment, 0, len(runs)),
		offsets:  make(map[*Segment][]int, len(runs)),
	}
	for i, r := range runs {
		s := &Segment{Run: r, Order: i, text: []rune(r.Text())}
		m.segments = append(m.segments, s)
		offs := make([]int, len(s.text))
		for k := range s.text {
			offs[k] = len(m.owner)
			m.owner = append(m.owner, s)
		}
		m.offsets[s] = offs
	}
	return m
}

// Len returns the flat text length in runes.
func (m *Map) Len() int {
	return len(m.owner)
}

// Text returns the concatenation of all segment texts in order.
func (m *Map) Text() string {
	var sb strings.Builder
	for _, s := range m.segments {
		sb.WriteString(string(s.text))
	}
	return sb.String()
}

// Segments returns the segments in order index order.
func (m *Map) Segments() []*Segment {
	out := make([]*Segment, len(m.segments))
	copy(out, m.segments)
	return out
}

// Splits returns how many segments were created by splitting or appending.
func (m *Map) Splits() int {
	return m.splits
}

// Owner returns the segment owning flat offset off.
func (m *Map) Owner(off int) *Segment {
	m.check(off, m.Len()-1)
	return m.owner[off]
}

// StartsAt reports whether off is the first offset of its owning segment.
func (m *Map) StartsAt(off int) bool {
	offs := m.offsets[m.Owner(off)]
	return offs[0] == off
}

// EndsAt reports whether off is the last offset of its owning segment.
func (m *Map) EndsAt(off int) bool {
	offs := m.offsets[m.Owner(off)]
	return offs[len(offs)-1] == off
}

// SplitAt makes off a segment boundary and returns the segment that begins
// there. If off already starts a segment nothing changes. off == Len()
// yields the trailing empty segment, appending it on first use.
// off outside [0, Len()] is a caller bug and panics.
func (m *Map) SplitAt(off int) *Segment {
	m.check(off, m.Len())
	if off == m.Len() {
		return m.Trailing()
	}

	left := m.owner[off]
	offs := m.offsets[left]
	k := off - offs[0]
	if k == 0 {
		return left
	}

	right := &Segment{
		Run:   left.Run.Split(k),
		Order: left.Order + 1,
		text:  append([]rune(nil), left.text[k:]...),
	}
	left.text = left.text[:k:k]

	m.segments = append(m.segments, nil)
	copy(m.segments[right.Order+1:], m.segments[right.Order:])
	m.segments[right.Order] = right
	for _, s := range m.segments[right.Order+1:] {
		s.Order++
	}

	m.offsets[left] = offs[:k:k]
	m.offsets[right] = append([]int(nil), offs[k:]...)
	for _, o := range m.offsets[right] {
		m.owner[o] = right
	}
	m.splits++
	return right
}

// Trailing returns the empty segment past the last rune, appending an empty
// run to the paragraph the first time so an end marker always has a host.
func (m *Map) Trailing() *Segment {
	if m.trailing != nil {
		return m.trailing
	}
	s := &Segment{Run: m.para.AppendRun(), Order: len(m.segments)}
	m.segments = append(m.segments, s)
	m.offsets[s] = nil
	m.trailing = s
	m.splits++
	return s
}

func (m *Map) check(off, max int) {
	if off < 0 || off > max {
		panic(fmt.Sprintf("segment: offset %d out of range [0, %d]", off, max))
	}
}
