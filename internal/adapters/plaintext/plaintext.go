// Package plaintext implements the document ports over in-memory strings.
// It backs the preview command, which shows where range markers would land
// without touching a .docx file, and serves as the reference document model
// in domain tests.
//
// Rendering marks each annotated span inline:
//
//	a [1>fund<1] raising plan
package plaintext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/corey/remark/internal/ports"
)

// RunSeparator splits preview input into runs: "fu|nd raising" is two runs.
const RunSeparator = "|"

// Paragraph is an ordered list of runs.
type Paragraph struct {
	runs []*Run
}

// Run is one styled piece of text. Style is an opaque label copied on split.
type Run struct {
	para   *Paragraph
	text   string
	Style  string
	starts []int
	ends   []int
	refs   []int
}

// NewParagraph builds a paragraph with one run per text.
func NewParagraph(texts ...string) *Paragraph {
	p := &Paragraph{}
	for _, t := range texts {
		p.runs = append(p.runs, &Run{para: p, text: t})
	}
	return p
}

// Parse splits s on RunSeparator into runs. An input without separators is
// a single run.
func Parse(s string) *Paragraph {
	return NewParagraph(strings.Split(s, RunSeparator)...)
}

// Runs implements ports.Paragraph.
func (p *Paragraph) Runs() []ports.Run {
	out := make([]ports.Run, len(p.runs))
	for i, r := range p.runs {
		out[i] = r
	}
	return out
}

// AppendRun implements ports.Paragraph.
func (p *Paragraph) AppendRun() ports.Run {
	r := &Run{para: p}
	p.runs = append(p.runs, r)
	return r
}

// Mark implements ports.Paragraph.
func (p *Paragraph) Mark(r ports.Run, kind ports.MarkerKind, id int) {
	run, ok := r.(*Run)
	if !ok || run.para != p {
		panic(fmt.Sprintf("plaintext: run %v does not belong to this paragraph", r))
	}
	switch kind {
	case ports.RangeStart:
		run.starts = append(run.starts, id)
	case ports.RangeEnd:
		run.ends = append(run.ends, id)
		run.refs = append(run.refs, id)
	}
}

// Texts returns each run's text in order.
func (p *Paragraph) Texts() []string {
	out := make([]string, len(p.runs))
	for i, r := range p.runs {
		out[i] = r.text
	}
	return out
}

// Text returns the concatenated paragraph text.
func (p *Paragraph) Text() string {
	return strings.Join(p.Texts(), "")
}

// Run returns the run at index i.
func (p *Paragraph) Run(i int) *Run {
	return p.runs[i]
}

// Len returns the number of runs.
func (p *Paragraph) Len() int {
	return len(p.runs)
}

// Render returns the text with "[id>" before each range start and "<id]"
// after each range end.
func (p *Paragraph) Render() string {
	var sb strings.Builder
	for _, r := range p.runs {
		for _, id := range r.starts {
			fmt.Fprintf(&sb, "[%d>", id)
		}
		sb.WriteString(r.text)
		for _, id := range r.ends {
			fmt.Fprintf(&sb, "<%d]", id)
		}
	}
	return sb.String()
}

// Text implements ports.Run.
func (r *Run) Text() string {
	return r.text
}

// Split implements ports.Run.
func (r *Run) Split(k int) ports.Run {
	n := utf8.RuneCountInString(r.text)
	if k <= 0 || k >= n {
		panic(fmt.Sprintf("plaintext: split at %d of %d-rune run", k, n))
	}
	runes := []rune(r.text)
	next := &Run{para: r.para, text: string(runes[k:]), Style: r.Style}
	r.text = string(runes[:k])

	p := r.para
	for i, cur := range p.runs {
		if cur == r {
			p.runs = append(p.runs, nil)
			copy(p.runs[i+2:], p.runs[i+1:])
			p.runs[i+1] = next
			break
		}
	}
	return next
}

// Starts returns the start marker ids attached to r, in attachment order.
func (r *Run) Starts() []int { return append([]int(nil), r.starts...) }

// Ends returns the end marker ids attached to r, in attachment order.
func (r *Run) Ends() []int { return append([]int(nil), r.ends...) }

// References returns the annotation references attached to r.
func (r *Run) References() []int { return append([]int(nil), r.refs...) }

// Document is an ordered list of paragraphs.
type Document []*Paragraph

// Paragraphs implements ports.Document.
func (d Document) Paragraphs() []ports.Paragraph {
	out := make([]ports.Paragraph, len(d))
	for i, p := range d {
		out[i] = p
	}
	return out
}

// RemoveMarkers implements ports.MarkerRemover.
func (d Document) RemoveMarkers(ids []int) int {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	n := 0
	filter := func(in []int) []int {
		out := in[:0]
		for _, id := range in {
			if drop[id] {
				n++
				continue
			}
			out = append(out, id)
		}
		return out
	}
	for _, p := range d {
		for _, r := range p.runs {
			r.starts = filter(r.starts)
			r.ends = filter(r.ends)
			r.refs = filter(r.refs)
		}
	}
	return n
}
