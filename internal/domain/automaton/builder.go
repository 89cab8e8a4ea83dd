package automaton

import "strings"

// Builder accumulates terms into a trie. Call Build once all terms are added.
type Builder struct {
	nodes []node
	terms []string
	built bool
}

// NewBuilder returns a builder holding only the root node.
func NewBuilder() *Builder {
	return &Builder{nodes: []node{{fail: root}}}
}

// Add inserts term, case-folded. Empty terms and terms containing Mask are
// ignored; Filter output could otherwise match them. The first term to
// terminate at a node wins: a later duplicate, or a term that folds to the
// same runes, leaves the existing length and term untouched. Add reports
// whether term became a new terminal.
func (b *Builder) Add(term string) bool {
	if b.built {
		panic("automaton: Add after Build")
	}
	if term == "" || strings.ContainsRune(term, Mask) {
		return false
	}

	cur := root
	length := 0
	for _, r := range term {
		r = fold(r)
		next := b.nodes[cur].child(r)
		if next < 0 {
			next = int32(len(b.nodes))
			b.nodes = append(b.nodes, node{})
			if b.nodes[cur].children == nil {
				b.nodes[cur].children = make(map[rune]int32, 4)
			}
			b.nodes[cur].children[r] = next
		}
		cur = next
		length++
	}

	n := &b.nodes[cur]
	if n.end {
		return false
	}
	n.end = true
	n.length = length
	n.term = len(b.terms)
	b.terms = append(b.terms, term)
	return true
}

// Build computes failure links and returns the finished automaton. The
// builder must not be used afterwards.
func (b *Builder) Build() *Automaton {
	b.built = true
	b.linkFailures()
	return &Automaton{nodes: b.nodes, terms: b.terms}
}

// linkFailures assigns failure links breadth-first so that every node's
// parent, and every shallower node, is linked before the node itself.
func (b *Builder) linkFailures() {
	queue := make([]int32, 0, len(b.nodes))
	for _, c := range b.nodes[root].children {
		b.nodes[c].fail = root
		queue = append(queue, c)
	}

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		for r, c := range b.nodes[parent].children {
			queue = append(queue, c)

			f := b.nodes[parent].fail
			for f != root && b.nodes[f].child(r) < 0 {
				f = b.nodes[f].fail
			}
			if next := b.nodes[f].child(r); next >= 0 {
				b.nodes[c].fail = next
			} else {
				b.nodes[c].fail = root
			}
		}
	}
}

// New builds an automaton from terms in the given order.
func New(terms ...string) *Automaton {
	b := NewBuilder()
	for _, t := range terms {
		b.Add(t)
	}
	return b.Build()
}
