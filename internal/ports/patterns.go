package ports

// OverlapFinder reports dictionary terms that occur inside other terms.
// Such pairs interact: a term that is a prefix of another shares its trie
// path, and any contained term produces overlapping ranges whose markers
// depend on dictionary order. The adapter is an independent Aho-Corasick
// implementation so the report doesn't trust the automaton it audits.
type OverlapFinder interface {
	// Overlaps returns every (outer, inner) pair where inner occurs in outer,
	// comparing case-insensitively. Identical terms after case folding are
	// reported once with Duplicate set.
	Overlaps(terms []string) []Overlap
}

// Overlap describes one term found inside another.
type Overlap struct {
	Outer     string
	Inner     string
	Offset    int  // rune offset of Inner within Outer
	Prefix    bool // Inner starts Outer: both share a trie path
	Duplicate bool // same term after case folding; only the first is kept
}
