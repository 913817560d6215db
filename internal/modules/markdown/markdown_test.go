package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_BasicMarkdown(t *testing.T) {
	out := Render("**bold** and *italic*")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<em>italic</em>")
}

func TestSanitize_StripsDisallowedTags(t *testing.T) {
	out := Sanitize(`<p>ok</p><script>alert(1)</script><img src="x"><a href="y">link</a>`)
	assert.Contains(t, out, "<p>ok</p>")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "<a ")
	assert.Contains(t, out, "link") // text survives, tag does not
}

func TestSanitize_DropsAttributes(t *testing.T) {
	out := Sanitize(`<p class="x" onclick="evil()">hi</p>`)
	assert.Equal(t, "<p>hi</p>", out)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render("   "))
}

func TestStripTags(t *testing.T) {
	out := StripTags("<h1>Title</h1><p>body <em>text</em></p>")
	assert.False(t, strings.Contains(out, "<"))
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body")
}
