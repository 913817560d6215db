// Package markdown renders provider output to display-safe HTML. Raw
// markdown goes through goldmark, then every tag outside a fixed allowlist
// is stripped along with all attributes, mirroring the presentation layer's
// sanitization contract.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

var allowedTags = map[string]bool{
	"p": true, "strong": true, "em": true,
	"ul": true, "ol": true, "li": true,
	"code": true, "pre": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
	"hr": true, "br": true,
}

var (
	tagPattern     = regexp.MustCompile(`(?s)<(/?)([a-zA-Z][a-zA-Z0-9]*)\b[^>]*?(/?)>`)
	commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// Render converts markdown text into sanitized HTML.
func Render(markdownText string) string {
	text := strings.TrimSpace(markdownText)
	if text == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &buf); err != nil {
		// Fall back to the sanitized source text rather than dropping output.
		return Sanitize(text)
	}
	return Sanitize(buf.String())
}

// Sanitize strips every HTML tag outside the allowlist and drops all
// attributes from the tags it keeps.
func Sanitize(html string) string {
	cleaned := commentPattern.ReplaceAllString(html, "")
	cleaned = tagPattern.ReplaceAllStringFunc(cleaned, func(tag string) string {
		m := tagPattern.FindStringSubmatch(tag)
		name := strings.ToLower(m[2])
		if !allowedTags[name] {
			return ""
		}
		if m[1] == "/" {
			return "</" + name + ">"
		}
		if m[3] == "/" || name == "br" || name == "hr" {
			return "<" + name + " />"
		}
		return "<" + name + ">"
	})
	return strings.TrimSpace(cleaned)
}

// StripTags removes all HTML tags, keeping only text content.
func StripTags(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(commentPattern.ReplaceAllString(html, ""), ""))
}
