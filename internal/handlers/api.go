package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"inkblog/internal/models"
	"inkblog/internal/services"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	postService *services.PostService
}

func NewAPIHandler(postService *services.PostService) *APIHandler {
	return &APIHandler{
		postService: postService,
	}
}

// ListPublished returns published posts, newest first.
func (h *APIHandler) ListPublished(c *gin.Context) {
	posts, err := h.postService.ListPublishedPosts(c.Request.Context())
	if err != nil {
		respondError(c, err, "fetch posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ListAll returns every post for the admin dashboard.
func (h *APIHandler) ListAll(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, err, "fetch posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetBySlug returns one post. Drafts are hidden unless ?admin is set.
func (h *APIHandler) GetBySlug(c *gin.Context) {
	post, err := h.postService.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "fetch post")
		return
	}
	if !post.Published && !adminQuery(c) {
		respondError(c, models.ErrPostNotFound, "fetch post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *APIHandler) GetByID(c *gin.Context) {
	post, err := h.postService.GetPostByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *APIHandler) Create(c *gin.Context) {
	var in models.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "create post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *APIHandler) Update(c *gin.Context) {
	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, "update post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *APIHandler) Delete(c *gin.Context) {
	if err := h.postService.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// Healthz pings the post store.
func (h *APIHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.postService.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func adminQuery(c *gin.Context) bool {
	switch c.Query("admin") {
	case "1", "true", "yes":
		return true
	}
	return false
}

// respondError maps pipeline errors to status codes and JSON bodies.
func respondError(c *gin.Context, err error, op string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": verr.Fields})
	case errors.Is(err, models.ErrDuplicateSlug):
		c.JSON(http.StatusConflict, gin.H{"message": "A post with this slug already exists"})
	case errors.Is(err, models.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to " + op})
	}
}

func respondBindError(c *gin.Context, err error) {
	if isBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
}
