// Package ahocorasick finds dictionary terms inside other terms using the
// petar-dambovaliev/aho-corasick library. It is deliberately independent of
// internal/domain/automaton: the overlap report audits the dictionary that
// automaton is built from.
package ahocorasick

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/remark/internal/ports"
)

// Hit is one overlapping match with rune offsets.
type Hit struct {
	Pattern int // index into the scanner's patterns
	Start   int // rune offset, inclusive
	End     int // rune offset, exclusive
}

// Scanner reports every overlapping, case-folded occurrence of its patterns.
type Scanner struct {
	automaton aho.AhoCorasick
	patterns  []string
}

// fold lowercases per rune so offsets in folded and original text agree.
func fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// NewScanner builds a scanner from the given patterns.
func NewScanner(patterns []string) *Scanner {
	folded := make([]string, len(patterns))
	for i, p := range patterns {
		folded[i] = fold(p)
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		MatchKind: aho.StandardMatch, // required for IterOverlapping
		DFA:       true,
	})
	return &Scanner{
		automaton: builder.Build(folded),
		patterns:  append([]string(nil), patterns...),
	}
}

// Scan returns every pattern occurrence in text, ordered by end offset.
func (s *Scanner) Scan(text string) []Hit {
	folded := fold(text)
	iter := s.automaton.IterOverlapping(folded)
	var hits []Hit
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		start := utf8.RuneCountInString(folded[:m.Start()])
		hits = append(hits, Hit{
			Pattern: m.Pattern(),
			Start:   start,
			End:     start + utf8.RuneCountInString(folded[m.Start():m.End()]),
		})
	}
	return hits
}

// Pattern returns the pattern string at the given index.
func (s *Scanner) Pattern(idx int) string {
	if idx < 0 || idx >= len(s.patterns) {
		return ""
	}
	return s.patterns[idx]
}

// Finder implements ports.OverlapFinder.
type Finder struct{}

var _ ports.OverlapFinder = Finder{}

// Overlaps implements ports.OverlapFinder. Pairs are ordered by outer term
// in input order, then by offset.
func (Finder) Overlaps(terms []string) []ports.Overlap {
	var live []string
	for _, t := range terms {
		if t != "" {
			live = append(live, t)
		}
	}
	if len(live) < 2 {
		return nil
	}
	s := NewScanner(live)

	var out []ports.Overlap
	for i, outer := range live {
		hits := s.Scan(outer)
		sort.SliceStable(hits, func(a, b int) bool {
			if hits[a].Start != hits[b].Start {
				return hits[a].Start < hits[b].Start
			}
			return hits[a].Pattern < hits[b].Pattern
		})
		for _, h := range hits {
			if h.Pattern == i {
				continue
			}
			inner := s.Pattern(h.Pattern)
			dup := fold(inner) == fold(outer)
			if dup && h.Pattern < i {
				// Reported from the first spelling's side.
				continue
			}
			out = append(out, ports.Overlap{
				Outer:     outer,
				Inner:     inner,
				Offset:    h.Start,
				Prefix:    h.Start == 0,
				Duplicate: dup,
			})
		}
	}
	return out
}
