package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs every /api request once it has been handled.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		evt := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("API request")
	}
}

// BodyLimit caps request bodies at limit bytes. Paths in skip set their own
// limit.
func BodyLimit(limit int64, skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range skip {
			if c.Request.URL.Path == p {
				c.Next()
				return
			}
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// CrossOriginResource marks responses as embeddable from other origins, so
// uploaded images can be hot-linked by a separate frontend.
func CrossOriginResource() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cross-Origin-Resource-Policy", "cross-origin")
		c.Next()
	}
}

// Recovery turns panics into a 500 response instead of a dropped connection.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "Something went wrong."})
		c.Abort()
	})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// render is a helper function to render templates with common data.
func render(c *gin.Context, status int, templateName string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["IsAdmin"] = strings.HasPrefix(c.Request.URL.Path, "/admin")
	data["Year"] = time.Now().Year()
	c.HTML(status, templateName, data)
}

// flashes pops the pending flash messages of one kind from the session.
func flashes(c *gin.Context, kind string) []interface{} {
	session := sessions.Default(c)
	msgs := session.Flashes(kind)
	if len(msgs) > 0 {
		if err := session.Save(); err != nil {
			log.Warn().Err(err).Msg("Failed to clear flashes")
		}
	}
	return msgs
}

func addFlash(c *gin.Context, kind, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, kind)
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("Failed to save flash")
	}
}
