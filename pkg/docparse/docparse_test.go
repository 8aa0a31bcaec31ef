package docparse

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseMarkdown(t *testing.T) {
	path := writeDoc(t, "plan.md", "# Plan\n\nBuild the thing.\n")

	input, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "markdown", input.Format)
	assert.Contains(t, input.Text, "Build the thing.")
	assert.False(t, input.IsEmpty())
}

func TestParsePlainText(t *testing.T) {
	path := writeDoc(t, "plan.txt", "just some requirements")

	input, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "text", input.Format)
	assert.Equal(t, "just some requirements", input.Text)
}

func TestParseNormalizesUnicode(t *testing.T) {
	// "é" as 'e' + combining acute accent normalizes to the precomposed form.
	path := writeDoc(t, "plan.md", "café")

	input, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "café", input.Text)
}

func TestParseUnsupportedFormatIsEmptyNotError(t *testing.T) {
	for _, name := range []string{"plan.pdf", "plan.xlsx", "plan.docx"} {
		path := writeDoc(t, name, "binary-ish content")
		input, err := Parse(path)
		require.NoError(t, err, name)
		assert.True(t, input.IsEmpty(), name)
		assert.Equal(t, "unsupported", input.Format, name)
	}
}

func TestParseMissingFileIsError(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.md"))
	assert.Error(t, err)
}

func TestParseWhitespaceOnlyIsEmpty(t *testing.T) {
	path := writeDoc(t, "plan.md", "   \n\t\n")
	input, err := Parse(path)
	require.NoError(t, err)
	assert.True(t, input.IsEmpty())
}

const slideXMLTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
       xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>
    <a:p><a:r><a:t>TITLE</a:t></a:r></a:p>
    <a:p><a:r><a:t>first </a:t></a:r><a:r><a:t>body run</a:t></a:r></a:p>
  </p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`

func writePptx(t *testing.T, slides map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for name, content := range slides {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return path
}

func TestParsePptx(t *testing.T) {
	path := writePptx(t, map[string]string{
		"ppt/slides/slide2.xml":        slideXMLTemplate,
		"ppt/slides/slide1.xml":        slideXMLTemplate,
		"ppt/slides/_rels/slide1.rels": "<Relationships/>",
		"docProps/core.xml":            "<coreProperties/>",
	})

	input, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "pptx", input.Format)
	assert.Contains(t, input.Text, "## Slide 1")
	assert.Contains(t, input.Text, "## Slide 2")
	assert.Contains(t, input.Text, "- TITLE")
	assert.Contains(t, input.Text, "- first body run")

	// Slides come out in numeric order regardless of archive order.
	assert.Less(t,
		strings.Index(input.Text, "## Slide 1"),
		strings.Index(input.Text, "## Slide 2"))
}

func TestParseCorruptPptxIsEmptyNotError(t *testing.T) {
	path := writeDoc(t, "deck.pptx", "this is not a zip archive")

	input, err := Parse(path)
	require.NoError(t, err)
	assert.True(t, input.IsEmpty())
	assert.Equal(t, "pptx", input.Format)
}
