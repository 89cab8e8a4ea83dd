package automaton

// Mask replaces matched runes in Filter output.
const Mask = '*'

// Automaton is a built, read-only Aho-Corasick automaton. Match and Filter
// keep all scan state on the stack, so one Automaton may serve any number
// of goroutines.
type Automaton struct {
	nodes []node
	terms []string
}

// Terms returns the distinct terms in insertion order. A term that folded
// onto an existing terminal is not included.
func (a *Automaton) Terms() []string {
	out := make([]string, len(a.terms))
	copy(out, a.terms)
	return out
}

// Len returns the number of distinct terms.
func (a *Automaton) Len() int {
	return len(a.terms)
}

// step advances from cur on rune r, following failure links as needed.
func (a *Automaton) step(cur int32, r rune) int32 {
	for cur != root && a.nodes[cur].child(r) < 0 {
		cur = a.nodes[cur].fail
	}
	if next := a.nodes[cur].child(r); next >= 0 {
		return next
	}
	return root
}

// Match reports every occurrence of every term in text. The result maps
// each term (as first added) to the ascending rune offsets where it starts.
// Overlapping occurrences are all reported, including several terms ending
// at the same rune. Matching is case-insensitive.
func (a *Automaton) Match(text string) map[string][]int {
	matches := make(map[string][]int)
	if len(a.terms) == 0 {
		return matches
	}

	cur := root
	i := 0
	for _, r := range text {
		cur = a.step(cur, fold(r))
		for n := cur; n != root; n = a.nodes[n].fail {
			if nd := &a.nodes[n]; nd.end {
				term := a.terms[nd.term]
				matches[term] = append(matches[term], i-nd.length+1)
			}
		}
		i++
	}

	// One term's occurrences end in ascending order, so their starts are
	// ascending too.
	return matches
}

// Filter returns text with matched runes replaced by Mask. Matches are
// masked greedily left to right: when a term of length L ends at i, the
// runes from max(i-L+1, cursor) through i are masked and the cursor moves
// to i+1, so part of a match overlapping an already masked region is
// skipped. Unmasked runes keep their original case. Filter is idempotent.
func (a *Automaton) Filter(text string) string {
	if text == "" || len(a.terms) == 0 {
		return text
	}

	out := []rune(text)
	masked := false
	cursor := 0
	cur := root
	for i, r := range out {
		cur = a.step(cur, fold(r))
		t := a.terminal(cur)
		if t == root {
			continue
		}
		pos := i - a.nodes[t].length + 1
		if pos < cursor {
			pos = cursor
		}
		for ; pos <= i; pos++ {
			out[pos] = Mask
		}
		cursor = i + 1
		masked = true
	}
	if !masked {
		return text
	}
	return string(out)
}

// terminal returns the deepest terminal node on n's failure chain, or root.
// The chain runs from longest to shortest suffix, so the first hit is the
// longest term ending here.
func (a *Automaton) terminal(n int32) int32 {
	for ; n != root; n = a.nodes[n].fail {
		if a.nodes[n].end {
			return n
		}
	}
	return root
}
