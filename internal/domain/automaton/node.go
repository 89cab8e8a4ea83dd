// Package automaton implements Aho-Corasick multi-pattern matching over runes.
//
// Nodes live in a flat arena and refer to each other by index: trie edges
// are parent→child indices, failure links are plain indices layered over the
// trie. The root is index 0 and its failure link points to itself.
package automaton

import "unicode"

// root is the arena index of the trie root.
const root int32 = 0

// node is one trie state. length and term are meaningful only when end is set.
type node struct {
	children map[rune]int32
	fail     int32
	end      bool
	length   int // rune length of the pattern terminating here
	term     int // index into Automaton.terms
}

// child returns the index of n's child for r, or -1.
func (n *node) child(r rune) int32 {
	if c, ok := n.children[r]; ok {
		return c
	}
	return -1
}

// fold maps a rune to its case-folded form. unicode.ToLower is one rune in,
// one rune out, so folded text keeps the offsets of the original.
func fold(r rune) rune {
	return unicode.ToLower(r)
}
