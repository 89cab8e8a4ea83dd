package docx

import (
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/corey/remark/internal/ports"
	"github.com/rs/zerolog"
)

// Comments is the word/comments.xml part. It implements
// ports.AnnotationStore; new comments are attributed to the configured
// author.
type Comments struct {
	doc      *xmlquery.Node
	root     *xmlquery.Node
	author   string
	initials string
	now      func() time.Time
	maxID    int
	dirty    bool
	created  bool
	log      zerolog.Logger
}

var _ ports.AnnotationStore = (*Comments)(nil)

func (p *Package) loadComments(opts Options) {
	c := &Comments{
		author:   opts.Author,
		initials: opts.Initials,
		now:      opts.Now,
		log:      p.log,
	}
	if c.author == "" {
		c.author = DefaultAuthor
	}
	if c.now == nil {
		c.now = time.Now
	}
	p.comments = c
	p.commentsPart = partComments

	for _, r := range p.relationships() {
		if r.Type != relComments {
			continue
		}
		p.commentsPart = resolveTarget(r.Target)
		doc, err := p.parsePart(p.commentsPart)
		if err != nil {
			p.log.Warn().Err(err).Str("part", p.commentsPart).Msg("comments part unreadable, starting empty")
			break
		}
		root := firstElement(doc)
		if !isW(root, "comments") {
			p.log.Warn().Str("part", p.commentsPart).Msg("comments part has no w:comments root, starting empty")
			break
		}
		c.doc, c.root = doc, root
		c.maxID = c.scanMaxID()
		return
	}

	// Either no relationship exists or the part was unusable: write a fresh
	// part. An existing relationship is reused as is.
	c.doc = newDocumentNode()
	c.root = newW("comments")
	xmlquery.AddAttr(c.root, "xmlns:w", nsW)
	xmlquery.AddChild(c.doc, c.root)
	c.created = !p.hasCommentsRel()
	c.dirty = !c.created
}

func (p *Package) hasCommentsRel() bool {
	for _, r := range p.relationships() {
		if r.Type == relComments {
			return true
		}
	}
	return false
}

func (c *Comments) scanMaxID() int {
	max := 0
	for _, n := range childrenW(c.root, "comment") {
		if id, ok := markerID(n); ok && id > max {
			max = id
		} else if !ok {
			c.log.Warn().Str("id", n.SelectAttr("w:id")).Msg("comment with unparsable id ignored for id seeding")
		}
	}
	return max
}

// Author returns the author new comments are written as.
func (c *Comments) Author() string {
	return c.author
}

// ClearByAuthor implements ports.AnnotationStore.
func (c *Comments) ClearByAuthor(author string) []int {
	var removed []int
	for _, n := range childrenW(c.root, "comment") {
		a, _ := wAttr(n, "author")
		if author != ports.AnyAuthor && a != author {
			continue
		}
		if id, ok := markerID(n); ok {
			removed = append(removed, id)
		}
		xmlquery.RemoveFromTree(n)
		c.dirty = true
	}
	return removed
}

// Create implements ports.AnnotationStore.
func (c *Comments) Create(term, body string) int {
	c.maxID++
	n := newW("comment")
	n.SetAttr("w:id", strconv.Itoa(c.maxID))
	n.SetAttr("w:author", c.author)
	n.SetAttr("w:date", c.now().UTC().Format(time.RFC3339))
	n.SetAttr("w:initials", c.initials)

	para, run, t := newW("p"), newW("r"), newW("t")
	t.SetAttr("xml:space", "preserve")
	setText(t, body)
	xmlquery.AddChild(run, t)
	xmlquery.AddChild(para, run)
	xmlquery.AddChild(n, para)
	xmlquery.AddChild(c.root, n)
	c.dirty = true

	c.log.Debug().Int("id", c.maxID).Str("term", term).Msg("comment created")
	return c.maxID
}

// Annotations lists the stored comments in part order. Term is not
// persisted and is always empty.
func (c *Comments) Annotations() []ports.Annotation {
	var out []ports.Annotation
	for _, n := range childrenW(c.root, "comment") {
		id, ok := markerID(n)
		if !ok {
			continue
		}
		a, _ := wAttr(n, "author")
		out = append(out, ports.Annotation{ID: id, Author: a, Text: commentText(n)})
	}
	return out
}

// commentText joins the w:t text of each comment paragraph with newlines.
func commentText(n *xmlquery.Node) string {
	var paras []string
	for _, p := range childrenW(n, "p") {
		var sb strings.Builder
		walk(p, func(x *xmlquery.Node) bool {
			if isW(x, "t") {
				sb.WriteString(text(x))
				return false
			}
			return true
		})
		paras = append(paras, sb.String())
	}
	return strings.Join(paras, "\n")
}

func (c *Comments) shouldWrite() bool {
	if c.created {
		return c.root.FirstChild != nil
	}
	return c.dirty
}
