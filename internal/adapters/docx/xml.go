package docx

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/antchfx/xmlquery"
)

const (
	nsW            = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRels      = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"

	relComments = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	relImage    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctComments = "application/vnd.openxmlformats-officedocument.wordprocessingml.comments+xml"
)

// Part names inside the zip package.
const (
	partContentTypes = "[Content_Types].xml"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partComments     = "word/comments.xml"
)

func parseXML(data []byte) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func renderXML(doc *xmlquery.Node) []byte {
	var buf bytes.Buffer
	_ = doc.WriteWithOptions(&buf, xmlquery.WithEmptyTagSupport())
	return buf.Bytes()
}

// newDocumentNode returns an empty XML document with a standalone
// declaration, the form Word writes for every part.
func newDocumentNode() *xmlquery.Node {
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	decl := &xmlquery.Node{Type: xmlquery.DeclarationNode, Data: "xml"}
	xmlquery.AddAttr(decl, "version", "1.0")
	xmlquery.AddAttr(decl, "encoding", "UTF-8")
	xmlquery.AddAttr(decl, "standalone", "yes")
	xmlquery.AddChild(doc, decl)
	return doc
}

// isW reports whether n is the WordprocessingML element local.
func isW(n *xmlquery.Node, local string) bool {
	return n != nil && n.Type == xmlquery.ElementNode && n.Data == local && n.NamespaceURI == nsW
}

func newW(local string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: local, Prefix: "w", NamespaceURI: nsW}
}

func newElement(local, ns string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: local, NamespaceURI: ns}
}

// wAttr returns the value of the w:local attribute of n.
func wAttr(n *xmlquery.Node, local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local && (a.NamespaceURI == nsW || a.Name.Space == "w") {
			return a.Value, true
		}
	}
	return "", false
}

// nsAttr returns the value of an attribute by namespace URI and local name.
func nsAttr(n *xmlquery.Node, ns, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.NamespaceURI == ns {
			return a.Value
		}
	}
	return ""
}

func markerID(n *xmlquery.Node) (int, bool) {
	v, ok := wAttr(n, "id")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return id, true
}

func newMarker(local string, id int) *xmlquery.Node {
	m := newW(local)
	m.SetAttr("w:id", strconv.Itoa(id))
	return m
}

// insertBefore places n immediately before ref under ref's parent.
func insertBefore(ref, n *xmlquery.Node) {
	n.Parent = ref.Parent
	n.PrevSibling = ref.PrevSibling
	n.NextSibling = ref
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if ref.Parent != nil {
		ref.Parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// moveToEnd detaches n and appends it to parent.
func moveToEnd(parent, n *xmlquery.Node) {
	xmlquery.RemoveFromTree(n)
	xmlquery.AddChild(parent, n)
}

// text returns the concatenated character data directly under n.
func text(n *xmlquery.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.TextNode || c.Type == xmlquery.CharDataNode {
			buf.WriteString(c.Data)
		}
	}
	return buf.String()
}

// setText replaces n's children with a single text node.
func setText(n *xmlquery.Node, s string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		xmlquery.RemoveFromTree(c)
		c = next
	}
	if s != "" {
		xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: s})
	}
}

// clone deep-copies an element subtree. The copy is detached.
func clone(n *xmlquery.Node) *xmlquery.Node {
	c := &xmlquery.Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
		Attr:         append([]xmlquery.Attr(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		xmlquery.AddChild(c, clone(ch))
	}
	return c
}

// walk visits every node under root in document order without recursion.
// Returning false from visit skips the node's subtree.
func walk(root *xmlquery.Node, visit func(*xmlquery.Node) bool) {
	stack := []*xmlquery.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			continue
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
}

func firstW(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isW(c, local) {
			return c
		}
	}
	return nil
}

func childrenW(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isW(c, local) {
			out = append(out, c)
		}
	}
	return out
}

func partError(part string, err error) error {
	return fmt.Errorf("%s: %w", part, err)
}
