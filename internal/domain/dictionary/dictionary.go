// Package dictionary holds the ordered set of flagged terms and the comment
// attached to each. Order matters: annotation processes terms in the order
// they were added.
package dictionary

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corey/remark/internal/domain/automaton"
)

var (
	// ErrEmptyTerm is returned when an entry has no term.
	ErrEmptyTerm = errors.New("empty term")
	// ErrMalformed is returned for inline entries without a "=" separator.
	ErrMalformed = errors.New("malformed entry")
	// ErrMaskRune is returned for terms containing automaton.Mask.
	ErrMaskRune = errors.New("term contains the mask rune")
)

// Entry is one flagged term and its comment text.
type Entry struct {
	Term    string `yaml:"term"`
	Comment string `yaml:"comment"`
}

// Dictionary is an insertion-ordered term → comment mapping.
type Dictionary struct {
	Author  string
	entries []Entry
	index   map[string]int
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// Add appends an entry. An exact duplicate term keeps its first comment and
// Add reports false.
func (d *Dictionary) Add(term, comment string) (bool, error) {
	if term == "" {
		return false, ErrEmptyTerm
	}
	if strings.ContainsRune(term, automaton.Mask) {
		return false, fmt.Errorf("%w %q", ErrMaskRune, string(automaton.Mask))
	}
	if _, ok := d.index[term]; ok {
		return false, nil
	}
	d.index[term] = len(d.entries)
	d.entries = append(d.entries, Entry{Term: term, Comment: comment})
	return true, nil
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Entries returns the entries in insertion order.
func (d *Dictionary) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Terms returns the terms in insertion order.
func (d *Dictionary) Terms() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Term
	}
	return out
}

// yamlDictionary is the file form:
//
//	author: robot
//	terms:
//	  - term: fund
//	    comment: not allowed
type yamlDictionary struct {
	Author string  `yaml:"author"`
	Terms  []Entry `yaml:"terms"`
}

// Parse decodes a YAML dictionary.
func Parse(data []byte) (*Dictionary, error) {
	var yd yamlDictionary
	if err := yaml.Unmarshal(data, &yd); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	d := New()
	d.Author = yd.Author
	for i, e := range yd.Terms {
		if _, err := d.Add(e.Term, e.Comment); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return d, nil
}

// Load reads and parses a YAML dictionary file.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// AddInline parses "term=comment" and adds it. The term is everything
// before the first "=".
func (d *Dictionary) AddInline(s string) error {
	term, comment, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("%w %q: want term=comment", ErrMalformed, s)
	}
	if _, err := d.Add(term, comment); err != nil {
		return fmt.Errorf("entry %q: %w", s, err)
	}
	return nil
}
