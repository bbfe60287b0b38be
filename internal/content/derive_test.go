package content

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugAlphabet = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Hello   World  ", "hello-world"},
		{"Go: The_Good Parts!!", "go-thegood-parts"},
		{"e.g. test", "eg-test"},
		{"foo/bar", "foobar"},
		{"Hello_World", "helloworld"},
		{"Fish & Chips", "fish-chips"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
		{"Why I <3 Go", "why-i-3-go"},
		{"already-a-slug", "already-a-slug"},
		{"Go - Part 2", "go-part-2"},
		{"Ünïcödé Tïtle", "unicode-title"},
		{"2024 Year in Review", "2024-year-in-review"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.title))
		})
	}
}

func TestSlugProperties(t *testing.T) {
	titles := []string{
		"Hello World",
		"Why I <3 Go & Mongo",
		"tabs\tand\nnewlines",
		"emoji 🚀 launch",
		"UPPER lower MiXeD",
		"trailing punctuation...",
		"__init__ explained",
		"a/b\\c?d=e#f",
		"北京 travel notes",
	}

	for _, title := range titles {
		first := Slug(title)
		assert.Equal(t, first, Slug(title), "slug must be deterministic for %q", title)
		assert.Equal(t, strings.ToLower(first), first)
		assert.NotContains(t, first, " ")
		if first != "" {
			assert.Regexp(t, slugAlphabet, first, "title %q", title)
		}
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Hi", Excerpt("<p>Hi</p>"))
	assert.Equal(t, "Fish & Chips today", Excerpt("<p>Fish &amp; Chips&nbsp;today</p>"))
	assert.Equal(t, "Title body text", Excerpt("<h1>Title</h1>\n<p>body\n  text</p>"))
	assert.Equal(t, "", Excerpt(""))
	assert.Equal(t, "visible", Excerpt("<p>visible</p><script>hidden()</script>"))
}

func TestExcerptTruncation(t *testing.T) {
	exact := strings.Repeat("a", ExcerptLength)
	assert.Equal(t, exact, Excerpt("<p>"+exact+"</p>"))

	long := strings.Repeat("b", ExcerptLength+50)
	got := Excerpt("<p>" + long + "</p>")
	require.True(t, strings.HasSuffix(got, ExcerptMarker))
	assert.Equal(t, ExcerptLength+len(ExcerptMarker), utf8.RuneCountInString(got))
	assert.NotContains(t, got, "<")

	wide := strings.Repeat("文", ExcerptLength+1)
	got = Excerpt(wide)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, ExcerptLength+len(ExcerptMarker), utf8.RuneCountInString(got))
}
