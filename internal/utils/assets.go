package utils

import (
	"bytes"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

type asset struct {
	body        []byte
	contentType string
}

// Assets serves static files from memory. CSS and JS are minified once when
// the set is loaded.
type Assets struct {
	files    map[string]asset
	loadedAt time.Time
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/javascript", js.Minify)
	return m
}

// LoadAssets reads every file under fsys, minifying stylesheets and scripts.
func LoadAssets(fsys fs.FS) (*Assets, error) {
	m := newMinifier()
	a := &Assets{files: make(map[string]asset), loadedAt: time.Now()}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		ext := path.Ext(p)
		ctype := mime.TypeByExtension(ext)
		if ctype == "" {
			ctype = http.DetectContentType(data)
		}

		var mediatype string
		switch ext {
		case ".css":
			mediatype = "text/css"
		case ".js":
			mediatype = "text/javascript"
		}
		if mediatype != "" {
			var out bytes.Buffer
			if err := m.Minify(mediatype, &out, bytes.NewReader(data)); err != nil {
				return fmt.Errorf("minify %s: %w", p, err)
			}
			data = out.Bytes()
		}

		a.files[p] = asset{body: data, contentType: ctype}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Handler serves the asset named by the *filepath route parameter.
func (a *Assets) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimPrefix(c.Param("filepath"), "/")
		f, ok := a.files[name]
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		c.Header("Last-Modified", a.loadedAt.UTC().Format(http.TimeFormat))
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, f.contentType, f.body)
	}
}
