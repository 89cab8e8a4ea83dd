package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	d := New()
	for _, term := range []string{"zeta", "alpha", "mu"} {
		ok, err := d.Add(term, term+"!")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mu"}, d.Terms())
}

func TestAdd_DuplicateKeepsFirstComment(t *testing.T) {
	d := New()
	_, _ = d.Add("fund", "first")
	ok, err := d.Add("fund", "second")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []Entry{{Term: "fund", Comment: "first"}}, d.Entries())
}

func TestAdd_RejectsEmptyTerm(t *testing.T) {
	_, err := New().Add("", "x")
	assert.ErrorIs(t, err, ErrEmptyTerm)
}

func TestAdd_RejectsMaskRune(t *testing.T) {
	d := New()
	_, err := d.Add("*c", "x")
	assert.ErrorIs(t, err, ErrMaskRune)
	assert.Zero(t, d.Len())

	assert.ErrorIs(t, d.AddInline("a*b=x"), ErrMaskRune)
}

func TestParse_YAML(t *testing.T) {
	d, err := Parse([]byte(`
author: compliance-bot
terms:
  - term: fund
    comment: not allowed
  - term: 基金
    comment: 不合法词汇
`))
	require.NoError(t, err)
	assert.Equal(t, "compliance-bot", d.Author)
	assert.Equal(t, []Entry{
		{Term: "fund", Comment: "not allowed"},
		{Term: "基金", Comment: "不合法词汇"},
	}, d.Entries())
}

func TestParse_ReportsBadEntry(t *testing.T) {
	_, err := Parse([]byte("terms:\n  - term: ''\n    comment: x\n"))
	assert.ErrorIs(t, err, ErrEmptyTerm)
	assert.Contains(t, err.Error(), "entry 1")

	_, err = Parse([]byte("terms: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terms:\n  - term: fund\n    comment: x\n"), 0o644))
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"fund"}, d.Terms())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAddInline(t *testing.T) {
	d := New()
	require.NoError(t, d.AddInline("fund=not allowed"))
	require.NoError(t, d.AddInline("a=b=c"))
	assert.Equal(t, Entry{Term: "a", Comment: "b=c"}, d.Entries()[1])

	assert.ErrorIs(t, d.AddInline("nocomment"), ErrMalformed)
	assert.ErrorIs(t, d.AddInline("=x"), ErrEmptyTerm)
}

func TestStarter_Parses(t *testing.T) {
	d, err := Parse(Starter())
	require.NoError(t, err)
	assert.Equal(t, "robot", d.Author)
	assert.Equal(t, []string{"fund raising", "utilize", "in order to", "基金"}, d.Terms())
}

func TestWriteStarter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.yaml")
	require.NoError(t, WriteStarter(path))
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Len())

	err = WriteStarter(path)
	assert.ErrorIs(t, err, os.ErrExist)
}
