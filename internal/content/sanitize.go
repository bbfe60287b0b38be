// Package content holds the pure string transforms applied to post bodies:
// HTML sanitizing, slug derivation and excerpt derivation.
package content

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedTags is the fixed set of elements that survive sanitizing.
var AllowedTags = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "br", "strong", "em", "u", "strike",
	"ul", "ol", "li",
	"blockquote", "pre", "code",
	"a", "img",
	"div", "span",
}

var postPolicy = newPostPolicy()

func newPostPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedTags...)
	p.AllowNoAttrs().OnElements("a", "img")

	p.AllowAttrs("href", "target").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowAttrs("class", "style").Globally()

	p.AllowURLSchemes("http", "https", "ftp", "mailto", "tel")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
}

// Sanitize returns html reduced to the allow-listed tags and attributes.
// Text is kept; script and style bodies are dropped. Malformed markup is
// tolerated and never causes a panic. Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return postPolicy.Sanitize(html)
}

// IsBlank reports whether sanitized HTML is empty or whitespace only.
func IsBlank(sanitized string) bool {
	return strings.TrimSpace(sanitized) == ""
}
