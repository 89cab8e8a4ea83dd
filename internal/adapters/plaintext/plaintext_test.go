package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/remark/internal/ports"
)

func TestParse(t *testing.T) {
	p := Parse("fu|nd raising")
	assert.Equal(t, []string{"fu", "nd raising"}, p.Texts())
	assert.Equal(t, "fund raising", p.Text())
	assert.Equal(t, 1, Parse("plain").Len())
}

func TestSplit_InsertsAfterAndCopiesStyle(t *testing.T) {
	p := NewParagraph("基金 fund", "tail")
	p.Run(0).Style = "bold"

	next := p.Run(0).Split(2)
	assert.Equal(t, []string{"基金", " fund", "tail"}, p.Texts())
	assert.Equal(t, "bold", next.(*Run).Style)
	assert.Same(t, p.Run(1), next)
}

func TestSplit_OutOfRangePanics(t *testing.T) {
	p := NewParagraph("ab")
	assert.Panics(t, func() { p.Run(0).Split(0) })
	assert.Panics(t, func() { p.Run(0).Split(2) })
}

func TestMark_Render(t *testing.T) {
	p := NewParagraph("a ", "fund", " plan")
	p.Mark(p.Run(1), ports.RangeStart, 1)
	p.Mark(p.Run(1), ports.RangeEnd, 1)
	assert.Equal(t, "a [1>fund<1] plan", p.Render())
	assert.Equal(t, []int{1}, p.Run(1).References())

	other := NewParagraph("x")
	assert.Panics(t, func() { p.Mark(other.Run(0), ports.RangeStart, 2) })
}

func TestAppendRun(t *testing.T) {
	p := NewParagraph("a")
	r := p.AppendRun()
	assert.Equal(t, "", r.Text())
	assert.Equal(t, 2, p.Len())
	assert.Len(t, p.Runs(), 2)
}

func TestRemoveMarkers(t *testing.T) {
	p := NewParagraph("fund", "raising")
	p.Mark(p.Run(0), ports.RangeStart, 1)
	p.Mark(p.Run(0), ports.RangeEnd, 1)
	p.Mark(p.Run(1), ports.RangeStart, 2)
	p.Mark(p.Run(1), ports.RangeEnd, 2)
	doc := Document{p}

	assert.Equal(t, 3, doc.RemoveMarkers([]int{1}))
	assert.Equal(t, "fund[2>raising<2]", p.Render())
	assert.Equal(t, 0, doc.RemoveMarkers([]int{7}))
	assert.Len(t, doc.Paragraphs(), 1)
}

func TestStore(t *testing.T) {
	s := NewStore("robot", ports.Annotation{ID: 4, Author: "ana", Text: "keep"})
	require.Equal(t, 5, s.Create("fund", "money"))
	require.Equal(t, 6, s.Create("plan", "vague"))

	assert.Equal(t, []int{5, 6}, s.ClearByAuthor("robot"))
	assert.Equal(t, []ports.Annotation{{ID: 4, Author: "ana", Text: "keep"}}, s.Annotations())

	assert.Equal(t, 7, s.Create("fund", "money"))
	assert.Equal(t, []int{4, 7}, s.ClearByAuthor(ports.AnyAuthor))
	assert.Empty(t, s.Annotations())
}
