package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .remark/ workspace
// directory. All fields are pre-computed strings.
type Paths struct {
	Root    string // .remark/
	DB      string // .remark/remark.db
	Metrics string // .remark/metrics.prom
	Media   string // .remark/media/
}

// NewPaths constructs all resolved paths from a workspace directory.
func NewPaths(workspace string) *Paths {
	root := filepath.Join(workspace, ".remark")
	return &Paths{
		Root:    root,
		DB:      filepath.Join(root, "remark.db"),
		Metrics: filepath.Join(root, "metrics.prom"),
		Media:   filepath.Join(root, "media"),
	}
}

// EnsureDirs creates all subdirectories under .remark/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.Media} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
