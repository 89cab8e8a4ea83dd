// Package bbolt implements ports.HistoryStore using bbolt (embedded B+ tree).
// Each document gets its own top-level bucket keyed by its path; runs inside
// it are keyed by sequence number. Writes are transactional: a crash
// mid-write cannot corrupt previously committed runs.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	"github.com/corey/remark/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Store implements ports.HistoryStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.HistoryStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun appends run to its document's bucket.
func (s *Store) SaveRun(run *ports.RunRecord) error {
	if run == nil {
		return fmt.Errorf("nil run")
	}
	if run.Document == "" {
		return fmt.Errorf("run %s has no document", run.ID)
	}
	data, err := encodeRun(run)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(run.Document))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
}

// Runs returns every run for document, oldest first.
// Returns nil, nil if the document has no history.
func (s *Store) Runs(document string) ([]*ports.RunRecord, error) {
	var runs []*ports.RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(document))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if _, err := keySeq(k); err != nil {
				return err
			}
			run, err := decodeRun(v)
			if err != nil {
				return err
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// LastRun returns the most recent run for document.
// Returns nil, nil if the document has no history.
func (s *Store) LastRun(document string) (*ports.RunRecord, error) {
	var run *ports.RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(document))
		if b == nil {
			return nil
		}
		_, v := b.Cursor().Last()
		if v == nil {
			return nil
		}
		var err error
		run, err = decodeRun(v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Documents lists every document with recorded history.
func (s *Store) Documents() ([]string, error) {
	var docs []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			docs = append(docs, string(name))
			return nil
		})
	})
	return docs, err
}

// DeleteDocument removes all history for document.
// Idempotent: deleting an unknown document is not an error.
func (s *Store) DeleteDocument(document string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(document)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}
