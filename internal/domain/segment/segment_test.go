package segment

import (
	"math/rand"
	"testing"

	"github.com/corey/remark/internal/adapters/plaintext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Segment Map & Splitter — flat offsets ↔ (segment, local offset)
// Expectation: splits never change the concatenated text, every offset has
// exactly one owner, and owned offsets stay contiguous and ascending.
// =============================================================================

// assertConsistent checks the Map's invariants against the paragraph.
func assertConsistent(t *testing.T, m *Map, p *plaintext.Paragraph, text string) {
	t.Helper()
	require.Equal(t, text, m.Text())
	require.Equal(t, text, p.Text())

	segs := m.Segments()
	require.Equal(t, p.Len(), len(segs), "one segment per run")
	next := 0
	for i, s := range segs {
		assert.Equal(t, i, s.Order, "dense order indices")
		assert.Same(t, p.Run(i), s.Run, "segment order follows run order")
		assert.Equal(t, s.Run.Text(), s.Text())
		for _, off := range m.offsets[s] {
			assert.Equal(t, next, off, "contiguous ascending offsets")
			assert.Same(t, s, m.Owner(off))
			next++
		}
	}
	assert.Equal(t, m.Len(), next, "every offset owned once")
}

func TestNew_Flattens(t *testing.T) {
	p := plaintext.NewParagraph("fu", "nd raising")
	m := New(p)
	assert.Equal(t, 12, m.Len())
	assert.Equal(t, "fund raising", m.Text())
	assert.Equal(t, []int{0, 1}, m.offsets[m.Owner(0)])
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, m.offsets[m.Owner(2)])
	assert.True(t, m.StartsAt(2))
	assert.True(t, m.EndsAt(1))
	assert.False(t, m.EndsAt(2))
}

func TestSplitAt_InsideSegment(t *testing.T) {
	p := plaintext.NewParagraph("a fund raising plan")
	p.Run(0).Style = "bold"
	m := New(p)

	right := m.SplitAt(2)
	assert.Equal(t, "fund raising plan", right.Text())
	assert.Equal(t, 1, right.Order)
	assert.Equal(t, []string{"a ", "fund raising plan"}, p.Texts())
	assert.Equal(t, "bold", p.Run(1).Style, "style copied verbatim")
	assertConsistent(t, m, p, "a fund raising plan")

	m.SplitAt(6)
	assert.Equal(t, []string{"a ", "fund", " raising plan"}, p.Texts())
	assertConsistent(t, m, p, "a fund raising plan")
	assert.Equal(t, 2, m.Splits())
}

func TestSplitAt_BoundaryIsNoOp(t *testing.T) {
	p := plaintext.NewParagraph("fu", "nd")
	m := New(p)
	s := m.SplitAt(2)
	assert.Equal(t, "nd", s.Text())
	assert.Same(t, m.Owner(2), s)
	assert.Equal(t, 2, p.Len())
	assert.Zero(t, m.Splits())

	assert.Same(t, m.Owner(0), m.SplitAt(0))
}

func TestSplitAt_RenumbersLaterSegments(t *testing.T) {
	p := plaintext.NewParagraph("abc", "def", "ghi")
	m := New(p)
	last := m.Owner(6)
	require.Equal(t, 2, last.Order)

	m.SplitAt(1)
	assert.Equal(t, 3, last.Order)
	assertConsistent(t, m, p, "abcdefghi")
}

func TestSplitAt_PastLastRuneAppendsTrailingSegment(t *testing.T) {
	p := plaintext.NewParagraph("plan fund")
	m := New(p)

	tr := m.SplitAt(m.Len())
	assert.Equal(t, "", tr.Text())
	assert.Equal(t, 1, tr.Order)
	assert.Equal(t, 2, p.Len())
	assert.Same(t, tr, m.Trailing(), "created once")
	assert.Same(t, tr, m.SplitAt(m.Len()))
	assert.Equal(t, 2, p.Len())
	assertConsistent(t, m, p, "plan fund")

	// A later split before the trailing segment shifts it right.
	m.SplitAt(5)
	assert.Equal(t, 2, tr.Order)
	assertConsistent(t, m, p, "plan fund")
}

func TestSplitAt_EmptyParagraph(t *testing.T) {
	p := plaintext.NewParagraph()
	m := New(p)
	tr := m.SplitAt(0)
	assert.Equal(t, 0, tr.Order)
	assert.Equal(t, 1, p.Len())
}

func TestSplitAt_OutOfRangePanics(t *testing.T) {
	m := New(plaintext.NewParagraph("abc"))
	assert.Panics(t, func() { m.SplitAt(-1) })
	assert.Panics(t, func() { m.SplitAt(4) })
	assert.Panics(t, func() { m.Owner(3) })
}

func TestSplitAt_MultiByteRunes(t *testing.T) {
	p := plaintext.NewParagraph("这是基金会")
	m := New(p)
	m.SplitAt(2)
	m.SplitAt(4)
	assert.Equal(t, []string{"这是", "基金", "会"}, p.Texts())
	assertConsistent(t, m, p, "这是基金会")
}

func TestSplitAt_RandomSequencesPreserveText(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 100; round++ {
		p := plaintext.NewParagraph("ab", "", "cdef", "g", "hijklmno")
		m := New(p)
		text := m.Text()
		for i := 0; i < 8; i++ {
			m.SplitAt(rng.Intn(m.Len() + 1))
			assertConsistent(t, m, p, text)
		}
	}
}
