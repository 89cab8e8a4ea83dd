// Key and value encoding for run history buckets.
//
// Keys are the bucket's NextSequence as 8-byte big-endian integers, so a
// cursor walks runs in insertion order. Values are JSON RunRecords.
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/corey/remark/internal/ports"
)

// seqKey encodes a bucket sequence number as a sortable key.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// keySeq decodes a key written by seqKey.
func keySeq(k []byte) (uint64, error) {
	if len(k) != 8 {
		return 0, fmt.Errorf("run key has %d bytes, want 8", len(k))
	}
	return binary.BigEndian.Uint64(k), nil
}

func encodeRun(run *ports.RunRecord) ([]byte, error) {
	data, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("marshal run: %w", err)
	}
	return data, nil
}

// decodeRun unmarshals v. bbolt values are only valid inside their
// transaction; json.Unmarshal copies everything it keeps.
func decodeRun(v []byte) (*ports.RunRecord, error) {
	var run ports.RunRecord
	if err := json.Unmarshal(v, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &run, nil
}
