package utils

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const moreSeparator = "<!--more-->"

var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
)

// RenderMarkdown converts markdown to HTML. Inline HTML is passed through,
// so callers must sanitize the result before storing it.
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return strings.ReplaceAll(buf.String(), moreSeparator, ""), nil
}

// SplitMore returns the markdown before a <!--more--> marker, or "" when
// the document has none.
func SplitMore(md string) string {
	before, _, found := strings.Cut(md, moreSeparator)
	if !found {
		return ""
	}
	return strings.TrimSpace(before)
}
