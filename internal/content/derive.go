package content

import (
	"html"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

const (
	ExcerptLength = 150
	ExcerptMarker = "..."
)

var textPolicy = bluemonday.StrictPolicy()

// Slug derives a URL-safe identifier from a title. Punctuation and symbols
// are dropped, while whitespace and hyphen runs become single hyphens. The result only
// contains [a-z0-9-] and may be empty when the title has no usable characters.
func Slug(title string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsDigit(r):
			return r
		case unicode.IsSpace(r), r == '-':
			return ' '
		default:
			return -1
		}
	}, title)

	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			// underscores left over from transliteration
			return -1
		}
	}, slug.Make(kept))

	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := true
	for _, r := range s {
		if r == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), "-")
}

// PlainText strips every tag from html and returns the unescaped text with
// whitespace collapsed.
func PlainText(htmlContent string) string {
	text := html.UnescapeString(textPolicy.Sanitize(htmlContent))
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt derives a plain-text teaser from sanitized HTML content, cut to
// ExcerptLength runes with ExcerptMarker appended when shortened.
func Excerpt(htmlContent string) string {
	text := PlainText(htmlContent)

	// runes, not bytes: multi-byte titles must not be split mid-character
	runes := []rune(text)
	if len(runes) <= ExcerptLength {
		return text
	}
	return strings.TrimRight(string(runes[:ExcerptLength]), " ") + ExcerptMarker
}
