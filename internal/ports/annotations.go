package ports

// AnyAuthor passed to ClearByAuthor removes every annotation regardless of
// its author.
const AnyAuthor = "*"

// AnnotationStore owns annotation identifiers and bodies. Ids are integers
// that only grow within one store instance: the counter is seeded from the
// largest id already present when the store is loaded (zero when empty), so
// ids never collide with annotations that existed before, even after those
// have been cleared.
type AnnotationStore interface {
	// ClearByAuthor removes every annotation written by author and returns
	// the removed ids in store order. AnyAuthor removes all of them.
	ClearByAuthor(author string) []int

	// Create stores a new annotation with the given body, attributed to the
	// store's current author, and returns its id. term is the dictionary
	// entry that produced it.
	Create(term, text string) int
}

// Annotation is a stored comment.
type Annotation struct {
	ID     int
	Author string
	Text   string
	Term   string // empty for annotations loaded from an existing document
}
