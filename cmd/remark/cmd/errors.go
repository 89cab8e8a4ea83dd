package cmd

import (
	"errors"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns ErrTimeout when it cannot acquire the file lock within the
// configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, bolt.ErrTimeout) || strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when the history database is
// held by another remark process, usually a running watch.
func diagnoseDBLock(dbPath string) string {
	return fmt.Sprintf("history database %s is locked by another process\n"+
		"  → a 'remark watch' may be running in this workspace\n"+
		"  → find it:   ps aux | grep 'remark watch'\n"+
		"  → or skip history for this command:  --no-history", dbPath)
}
