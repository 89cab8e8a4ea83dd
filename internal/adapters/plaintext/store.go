package plaintext

import "github.com/corey/remark/internal/ports"

// Store is an in-memory ports.AnnotationStore.
type Store struct {
	author string
	items  []ports.Annotation
	maxID  int
}

// NewStore returns a store writing as author, pre-loaded with existing
// annotations. The id counter starts after the largest existing id.
func NewStore(author string, existing ...ports.Annotation) *Store {
	s := &Store{author: author, items: append([]ports.Annotation(nil), existing...)}
	for _, a := range existing {
		if a.ID > s.maxID {
			s.maxID = a.ID
		}
	}
	return s
}

// ClearByAuthor implements ports.AnnotationStore.
func (s *Store) ClearByAuthor(author string) []int {
	var removed []int
	kept := s.items[:0]
	for _, a := range s.items {
		if author == ports.AnyAuthor || a.Author == author {
			removed = append(removed, a.ID)
			continue
		}
		kept = append(kept, a)
	}
	s.items = kept
	return removed
}

// Create implements ports.AnnotationStore.
func (s *Store) Create(term, text string) int {
	s.maxID++
	s.items = append(s.items, ports.Annotation{ID: s.maxID, Author: s.author, Text: text, Term: term})
	return s.maxID
}

// Annotations returns the stored annotations in creation order.
func (s *Store) Annotations() []ports.Annotation {
	return append([]ports.Annotation(nil), s.items...)
}
