package docx

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/corey/remark/internal/ports"
)

// blipExpr finds DrawingML pictures (a:blip) at any depth, whatever prefix
// the document binds to the DrawingML namespace.
var blipExpr = xpath.MustCompile(".//*[local-name()='blip']")

// Paragraph is a w:p element of the main part.
type Paragraph struct {
	pkg  *Package
	node *xmlquery.Node
}

// Run is a w:r element. Its text is the concatenation of its w:t children;
// tabs, breaks and drawings count as zero-length.
type Run struct {
	para *Paragraph
	node *xmlquery.Node
}

// Runs implements ports.Paragraph. Runs nested in hyperlinks, smart tags,
// fields and tracked insertions are included; runs of tracked deletions
// and moves away are not.
func (p *Paragraph) Runs() []ports.Run {
	var out []ports.Run
	skipped := 0
	walk(p.node, func(n *xmlquery.Node) bool {
		switch {
		case n == p.node:
			return true
		case isW(n, "del"), isW(n, "moveFrom"), isW(n, "p"):
			return false
		case isW(n, "r"):
			if firstW(n, "delText") != nil {
				skipped++
			} else {
				out = append(out, &Run{para: p, node: n})
			}
			return false
		}
		return n.Type == xmlquery.ElementNode
	})
	if skipped > 0 {
		p.pkg.log.Debug().Int("runs", skipped).Msg("skipped deleted runs")
	}
	return out
}

// Text returns the paragraph's flat text.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// AppendRun implements ports.Paragraph.
func (p *Paragraph) AppendRun() ports.Run {
	r := newW("r")
	xmlquery.AddChild(p.node, r)
	return &Run{para: p, node: r}
}

// Mark implements ports.Paragraph. Start markers are inserted directly
// before the run in assignment order; end markers follow the run, after
// any end markers already there, and each adds a w:commentReference to
// the run.
func (p *Paragraph) Mark(r ports.Run, kind ports.MarkerKind, id int) {
	run, ok := r.(*Run)
	if !ok || run.para.node != p.node {
		panic(fmt.Sprintf("docx: run %v does not belong to this paragraph", r))
	}
	switch kind {
	case ports.RangeStart:
		insertBefore(run.node, newMarker("commentRangeStart", id))
	case ports.RangeEnd:
		anchor := run.node
		for isW(anchor.NextSibling, "commentRangeEnd") {
			anchor = anchor.NextSibling
		}
		xmlquery.AddImmediateSibling(anchor, newMarker("commentRangeEnd", id))
		xmlquery.AddChild(run.node, newMarker("commentReference", id))
	}
}

// Images returns the relationship ids of pictures embedded in the
// paragraph's runs, in document order.
func (p *Paragraph) Images() []string {
	var ids []string
	for _, r := range p.Runs() {
		for _, blip := range xmlquery.QuerySelectorAll(r.(*Run).node, blipExpr) {
			if id := nsAttr(blip, nsR, "embed"); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Text implements ports.Run.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, t := range childrenW(r.node, "t") {
		sb.WriteString(text(t))
	}
	return sb.String()
}

// Split implements ports.Run. The new run gets a deep copy of w:rPr and
// every child from rune k on; a w:t straddling k is cut in two.
func (r *Run) Split(k int) ports.Run {
	n := utf8.RuneCountInString(r.Text())
	if k <= 0 || k >= n {
		panic(fmt.Sprintf("docx: split at %d of %d-rune run", k, n))
	}

	next := newW("r")
	next.Attr = append([]xmlquery.Attr(nil), r.node.Attr...)
	if rPr := firstW(r.node, "rPr"); rPr != nil {
		xmlquery.AddChild(next, clone(rPr))
	}

	count, moving := 0, false
	for c := r.node.FirstChild; c != nil; {
		sib := c.NextSibling
		switch {
		case moving:
			moveToEnd(next, c)
		case isW(c, "t"):
			s := text(c)
			size := utf8.RuneCountInString(s)
			if count+size <= k {
				count += size
				break
			}
			local := k - count
			moving = true
			if local == 0 {
				moveToEnd(next, c)
				break
			}
			runes := []rune(s)
			setText(c, string(runes[:local]))
			c.SetAttr("xml:space", "preserve")
			tail := newW("t")
			tail.SetAttr("xml:space", "preserve")
			setText(tail, string(runes[local:]))
			xmlquery.AddChild(next, tail)
		}
		c = sib
	}

	xmlquery.AddImmediateSibling(r.node, next)
	return &Run{para: r.para, node: next}
}
