package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/gin-contrib/multitemplate"
)

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	"isoDate": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
	// post content is sanitized before it is stored
	"safeHTML": func(s string) template.HTML {
		return template.HTML(s)
	},
}

// NewRenderer parses every page template against the shared base layout.
func NewRenderer(templatesFS fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	pages := map[string][]string{
		"index.html":  {"base.html", "index.html"},
		"post.html":   {"base.html", "post.html"},
		"admin.html":  {"base.html", "admin.html"},
		"editor.html": {"base.html", "editor.html"},
		"404.html":    {"base.html", "404.html"},
		"error.html":  {"base.html", "error.html"},
	}

	for name, files := range pages {
		tpl, err := template.New(files[0]).Funcs(templateFuncs).ParseFS(templatesFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.Add(name, tpl)
	}
	return r, nil
}
