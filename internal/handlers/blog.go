package handlers

import (
	"errors"
	"net/http"
	"strings"

	"inkblog/internal/models"
	"inkblog/internal/services"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	postService *services.PostService
}

func NewBlogHandler(postService *services.PostService) *BlogHandler {
	return &BlogHandler{postService: postService}
}

func (h *BlogHandler) Index(c *gin.Context) {
	header := c.Writer.Header()
	header.Add("Link", `</static/css/style.css>; rel=preload; as=style`)

	posts, err := h.postService.ListPublishedPosts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		render(c, http.StatusInternalServerError, "error.html", gin.H{
			"error": "Failed to load posts.",
		})
		return
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"posts":    posts,
		"is_index": true,
	})
}

func (h *BlogHandler) ShowPost(c *gin.Context) {
	post, err := h.postService.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	switch {
	case errors.Is(err, models.ErrPostNotFound):
		render(c, http.StatusNotFound, "404.html", gin.H{})
		return
	case err != nil:
		_ = c.Error(err)
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to load the post."})
		return
	case !post.Published:
		render(c, http.StatusNotFound, "404.html", gin.H{})
		return
	}

	render(c, http.StatusOK, "post.html", gin.H{
		"post": post,
	})
}

func (h *BlogHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	render(c, http.StatusNotFound, "404.html", gin.H{})
}
