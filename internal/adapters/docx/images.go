package docx

import (
	"fmt"
	"os"
	"path/filepath"
)

// Image is a picture referenced from a paragraph.
type Image struct {
	Paragraph int    // index in Paragraphs order
	RelID     string // r:embed of the a:blip
	Part      string // resolved part name, empty if the relationship is missing
}

// Images lists every embedded picture in processing order.
func (p *Package) Images() []Image {
	targets := make(map[string]string)
	for _, r := range p.relationships() {
		if r.Type == relImage {
			targets[r.ID] = resolveTarget(r.Target)
		}
	}
	var out []Image
	for i, para := range p.Paragraphs() {
		for _, id := range para.(*Paragraph).Images() {
			out = append(out, Image{Paragraph: i, RelID: id, Part: targets[id]})
		}
	}
	return out
}

// ExtractImages writes the media part of every embedded picture into dir
// and returns the written paths. A picture referenced twice is written once.
func (p *Package) ExtractImages(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	seen := make(map[string]bool)
	var written []string
	for _, img := range p.Images() {
		if img.Part == "" || seen[img.Part] {
			continue
		}
		seen[img.Part] = true
		data, err := p.readPart(img.Part)
		if err != nil {
			return written, partError(img.Part, err)
		}
		out := filepath.Join(dir, filepath.Base(img.Part))
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", out, err)
		}
		written = append(written, out)
	}
	return written, nil
}
