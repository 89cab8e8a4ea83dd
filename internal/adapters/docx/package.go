// Package docx reads and writes WordprocessingML packages. It exposes the
// main document part through the ports.Document interfaces and the comments
// part as a ports.AnnotationStore.
//
// Only the parts remark touches are parsed: word/document.xml, its
// relationships, [Content_Types].xml and word/comments.xml. Every other part
// is copied through unchanged on write.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/corey/remark/internal/ports"
	"github.com/rs/zerolog"
)

var (
	// ErrNotDocx is returned for zip files without a WordprocessingML main part.
	ErrNotDocx = errors.New("not a docx package")
	// ErrNoBody is returned when the main part has no w:body element.
	ErrNoBody = errors.New("document has no body")
)

// DefaultAuthor is the comment author used when none is configured.
const DefaultAuthor = "robot"

// Options configures how a package is opened.
type Options struct {
	Author   string
	Initials string
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Package is an opened .docx file held in memory.
type Package struct {
	zr    *zip.Reader
	parts map[string]*zip.File
	log   zerolog.Logger

	doc  *xmlquery.Node
	body *xmlquery.Node

	rels         *xmlquery.Node
	relsDirty    bool
	types        *xmlquery.Node
	typesDirty   bool
	comments     *Comments
	commentsPart string
}

// Open reads the package at path.
func Open(path string, opts Options) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	p, err := Read(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Read parses a package from its zip bytes.
func Read(data []byte, opts Options) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}
	p := &Package{zr: zr, parts: make(map[string]*zip.File, len(zr.File)), log: opts.Logger}
	for _, f := range zr.File {
		p.parts[f.Name] = f
	}
	if _, ok := p.parts[partDocument]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, partDocument)
	}

	if p.doc, err = p.parsePart(partDocument); err != nil {
		return nil, err
	}
	root := firstElement(p.doc)
	if !isW(root, "document") {
		return nil, fmt.Errorf("%w: %s root is not w:document", ErrNotDocx, partDocument)
	}
	if p.body = firstW(root, "body"); p.body == nil {
		return nil, ErrNoBody
	}

	if err := p.loadRels(); err != nil {
		return nil, err
	}
	if err := p.loadContentTypes(); err != nil {
		return nil, err
	}
	p.loadComments(opts)
	return p, nil
}

func (p *Package) readPart(name string) ([]byte, error) {
	f, ok := p.parts[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Package) parsePart(name string) (*xmlquery.Node, error) {
	data, err := p.readPart(name)
	if err != nil {
		return nil, partError(name, err)
	}
	doc, err := parseXML(data)
	if err != nil {
		return nil, partError(name, err)
	}
	return doc, nil
}

func firstElement(doc *xmlquery.Node) *xmlquery.Node {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

func (p *Package) loadRels() error {
	if _, ok := p.parts[partDocumentRels]; !ok {
		p.rels = newDocumentNode()
		xmlquery.AddChild(p.rels, relationshipsRoot())
		return nil
	}
	doc, err := p.parsePart(partDocumentRels)
	if err != nil {
		return err
	}
	p.rels = doc
	return nil
}

func relationshipsRoot() *xmlquery.Node {
	root := newElement("Relationships", nsPkgRels)
	xmlquery.AddAttr(root, "xmlns", nsPkgRels)
	return root
}

func (p *Package) loadContentTypes() error {
	doc, err := p.parsePart(partContentTypes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotDocx, err)
	}
	p.types = doc
	return nil
}

// relationship is one entry of word/_rels/document.xml.rels.
type relationship struct {
	ID     string
	Type   string
	Target string
	node   *xmlquery.Node
}

func (p *Package) relationships() []relationship {
	var out []relationship
	root := firstElement(p.rels)
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode || c.Data != "Relationship" {
			continue
		}
		out = append(out, relationship{
			ID:     c.SelectAttr("Id"),
			Type:   c.SelectAttr("Type"),
			Target: c.SelectAttr("Target"),
			node:   c,
		})
	}
	return out
}

// resolveTarget maps a relationship target to a part name.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("word", target)
}

// addRelationship appends a relationship with a fresh rId and returns the id.
func (p *Package) addRelationship(typ, target string) string {
	used := make(map[string]bool)
	for _, r := range p.relationships() {
		used[r.ID] = true
	}
	id := ""
	for n := len(used) + 1; ; n++ {
		id = "rId" + strconv.Itoa(n)
		if !used[id] {
			break
		}
	}
	rel := newElement("Relationship", nsPkgRels)
	xmlquery.AddAttr(rel, "Id", id)
	xmlquery.AddAttr(rel, "Type", typ)
	xmlquery.AddAttr(rel, "Target", target)
	xmlquery.AddChild(firstElement(p.rels), rel)
	p.relsDirty = true
	return id
}

// ensureOverride registers a content type for partName unless one exists.
func (p *Package) ensureOverride(partName, contentType string) {
	root := firstElement(p.types)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == "Override" && c.SelectAttr("PartName") == partName {
			return
		}
	}
	o := newElement("Override", nsContentTypes)
	xmlquery.AddAttr(o, "PartName", partName)
	xmlquery.AddAttr(o, "ContentType", contentType)
	xmlquery.AddChild(root, o)
	p.typesDirty = true
}

// Paragraphs implements ports.Document. Paragraphs of top-level table cells
// come first, then top-level body paragraphs.
func (p *Package) Paragraphs() []ports.Paragraph {
	var out []ports.Paragraph
	for _, tbl := range childrenW(p.body, "tbl") {
		for _, tr := range childrenW(tbl, "tr") {
			for _, tc := range childrenW(tr, "tc") {
				for _, para := range childrenW(tc, "p") {
					out = append(out, &Paragraph{pkg: p, node: para})
				}
			}
		}
	}
	for _, para := range childrenW(p.body, "p") {
		out = append(out, &Paragraph{pkg: p, node: para})
	}
	return out
}

// Comments returns the package's comment store.
func (p *Package) Comments() *Comments {
	return p.comments
}

// RemoveMarkers implements ports.MarkerRemover over the whole main part,
// including markers nested in layouts the paragraph walk does not visit.
func (p *Package) RemoveMarkers(ids []int) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var doomed []*xmlquery.Node
	walk(p.doc, func(n *xmlquery.Node) bool {
		if isW(n, "commentRangeStart") || isW(n, "commentRangeEnd") || isW(n, "commentReference") {
			if id, ok := markerID(n); ok && drop[id] {
				doomed = append(doomed, n)
			}
			return false
		}
		return true
	})
	for _, n := range doomed {
		xmlquery.RemoveFromTree(n)
	}
	return len(doomed)
}

// Write serializes the package. Untouched parts are copied raw.
func (p *Package) Write(w io.Writer) error {
	changed := map[string][]byte{partDocument: renderXML(p.doc)}
	if p.comments.shouldWrite() {
		if p.comments.created {
			p.addRelationship(relComments, strings.TrimPrefix(p.commentsPart, "word/"))
			p.comments.created = false
		}
		// A relationship may point at a part the zip lacks.
		if _, ok := p.parts[p.commentsPart]; !ok {
			p.ensureOverride("/"+p.commentsPart, ctComments)
		}
		changed[p.commentsPart] = renderXML(p.comments.doc)
	}
	if p.relsDirty {
		changed[partDocumentRels] = renderXML(p.rels)
	}
	if p.typesDirty {
		changed[partContentTypes] = renderXML(p.types)
	}

	zw := zip.NewWriter(w)
	for _, f := range p.zr.File {
		data, ok := changed[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return partError(f.Name, err)
			}
			continue
		}
		delete(changed, f.Name)
		if err := writePart(zw, f.Name, data); err != nil {
			return err
		}
	}
	// Parts that did not exist in the source package.
	for _, name := range []string{partDocumentRels, p.commentsPart} {
		if data, ok := changed[name]; ok {
			if err := writePart(zw, name, data); err != nil {
				return err
			}
		}
	}
	return zw.Close()
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return partError(name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return partError(name, err)
	}
	return nil
}

// Save writes the package to path, replacing any existing file.
func (p *Package) Save(path string) error {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
