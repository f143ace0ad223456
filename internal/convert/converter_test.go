package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursekit/coverage-agent/pkg/logger"
)

func newTestConverter() *Converter {
	return NewConverter(logger.NewTestLogger())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConvertMissingSource(t *testing.T) {
	c := newTestConverter()

	_, err := c.Convert(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotFound)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Contains(t, convErr.Path, "nope.txt")
}

func TestConvertMarkdownPassthrough(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.md")
	writeFile(t, src, "# Notes\n")

	c := newTestConverter()
	out, err := c.Convert(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, src, out)

	// Passthrough must not create any artifact.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConvertTextNormalizes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "summary.txt")
	writeFile(t, src, "  Topic one.\nTopic two.\n\n\n")

	c := newTestConverter()
	out, err := c.Convert(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "summary.md"), out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Topic one.\nTopic two.\n", string(content))
}

func TestConvertTextReusesExistingSibling(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "summary.txt")
	sibling := filepath.Join(dir, "summary.md")
	writeFile(t, src, "new text")
	writeFile(t, sibling, "cached text\n")

	c := newTestConverter()
	out, err := c.Convert(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, sibling, out)

	// The cached artifact is authoritative; the source is not re-read.
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "cached text\n", string(content))
}

func TestConvertTextIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "summary.txt")
	writeFile(t, src, "stable")

	c := newTestConverter()
	first, err := c.Convert(context.Background(), src)
	require.NoError(t, err)
	firstContent, err := os.ReadFile(first)
	require.NoError(t, err)

	second, err := c.Convert(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	secondContent, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstContent), string(secondContent))
}

func TestConvertTextQualityGate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tiny.txt")
	writeFile(t, src, "abc")

	c := newTestConverter()
	_, err := c.Convert(context.Background(), src, WithQualityGate(MinLength(10)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQualityCheckFailed)

	// Nothing may be written on gate rejection.
	assert.NoFileExists(t, filepath.Join(dir, "tiny.md"))
}

func TestConvertUnsupportedType(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "slides.docx")
	writeFile(t, src, "not really a docx")

	c := newTestConverter()
	_, err := c.Convert(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestConvertNonTextReusesSibling(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scan.pdf")
	sibling := filepath.Join(dir, "scan.md")
	writeFile(t, src, "garbage, never parsed")
	writeFile(t, sibling, "derived earlier\n")

	c := newTestConverter()
	out, err := c.Convert(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, sibling, out)
}

func TestMergePagesOrdersByIndex(t *testing.T) {
	// Completion order is arbitrary; insertion order here is scrambled on
	// purpose. 0-based keys 1, 4, 0 are 1-based pages 2, 5, 1.
	pages := map[int]string{
		1: "second",
		4: "fifth",
		0: "first",
	}

	merged := mergePages(pages)
	assert.Equal(t, "Page 1\n\nfirst\n\nPage 2\n\nsecond\n\nPage 5\n\nfifth\n", merged)
}

func TestMergePagesSkipsEmptyPages(t *testing.T) {
	pages := map[int]string{
		0: "Intro",
		1: "   \n\t",
	}

	merged := mergePages(pages)
	assert.Equal(t, "Page 1\n\nIntro\n", merged)
	assert.NotContains(t, merged, "Page 2")
}

func TestMergePagesAllEmpty(t *testing.T) {
	assert.Equal(t, "", mergePages(map[int]string{0: "  ", 1: ""}))
	assert.Equal(t, "", mergePages(nil))
}

func TestReadMarkdownDropsInvalidBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.md")
	require.NoError(t, os.WriteFile(path, []byte("ok\xff\xfealso ok"), 0o644))

	text, err := ReadMarkdown(path)
	require.NoError(t, err)
	assert.Equal(t, "okalso ok", text)
}
