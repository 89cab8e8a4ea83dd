// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "time"

// HistoryStore persists a record of every annotation run to durable storage.
// The backing store (bbolt) is document-scoped: each document path gets its
// own namespace. Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveRun must be transactional. A crash mid-write must not
// corrupt previously committed runs.
type HistoryStore interface {
	// SaveRun appends a run record for run.Document.
	SaveRun(run *RunRecord) error

	// Runs returns every recorded run for a document, oldest first.
	// Returns nil, nil if the document has never been annotated.
	Runs(document string) ([]*RunRecord, error)

	// LastRun returns the most recent run for a document.
	// Returns nil, nil if the document has never been annotated.
	LastRun(document string) (*RunRecord, error)

	// DeleteDocument removes all history for a document.
	// Idempotent: deleting an unknown document is not an error.
	DeleteDocument(document string) error
}

// RunRecord summarizes one annotation pass over a document.
type RunRecord struct {
	ID          string         `json:"id"`
	Document    string         `json:"document"`
	Output      string         `json:"output"`
	Author      string         `json:"author"`
	StartedAt   time.Time      `json:"started_at"`
	Duration    time.Duration  `json:"duration"`
	Paragraphs  int            `json:"paragraphs"`
	Annotations int            `json:"annotations"`
	Cleared     int            `json:"cleared"`
	PerTerm     map[string]int `json:"per_term"`
	FirstID     int            `json:"first_id"` // 0 when no annotation was created
	LastID      int            `json:"last_id"`
}
