package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	out, err := ToHTML("# Hello\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="hello">Hello</h1>`)
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestToHTMLStripsScripts(t *testing.T) {
	out, err := ToHTML("Hi<script>alert(1)</script>\n\n<a href=\"javascript:alert(1)\">x</a>\n\n<img src=x onerror=alert(1)>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "onerror")
}

func TestToHTMLLinks(t *testing.T) {
	out, err := ToHTML("[site](https://example.com)")
	require.NoError(t, err)
	assert.Contains(t, out, "nofollow")
	assert.Contains(t, out, "noopener")
	assert.Contains(t, out, `target="_blank"`)
}

func TestToHTMLTable(t *testing.T) {
	out, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestExcerpt(t *testing.T) {
	got, err := Excerpt("# Title\n\nFirst paragraph with *emphasis*.", 100)
	require.NoError(t, err)
	assert.Equal(t, "Title First paragraph with emphasis.", got)

	got, err = Excerpt("abcdefghij", 4)
	require.NoError(t, err)
	assert.Equal(t, "abcd…", got)
}
