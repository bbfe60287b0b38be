package handlers

import (
	"errors"
	"net/http"

	"inkblog/internal/constants"
	"inkblog/internal/models"
	"inkblog/internal/services"

	"github.com/gin-gonic/gin"
)

// editorForm is what the editor template renders, for new and existing
// posts alike.
type editorForm struct {
	ID        string `form:"id"`
	Title     string `form:"title"`
	Slug      string `form:"slug"`
	Content   string `form:"content"`
	Excerpt   string `form:"excerpt"`
	Published bool   `form:"published"`
}

func formFromPost(p *models.Post) editorForm {
	return editorForm{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		Excerpt:   p.Excerpt,
		Published: p.Published,
	}
}

type AdminHandler struct {
	postService *services.PostService
}

func NewAdminHandler(postService *services.PostService) *AdminHandler {
	return &AdminHandler{
		postService: postService,
	}
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to load posts."})
		return
	}

	render(c, http.StatusOK, "admin.html", gin.H{
		"posts":   posts,
		"Flashes": flashes(c, constants.FlashSuccess),
		"Errors":  flashes(c, constants.FlashError),
	})
}

func (h *AdminHandler) NewPost(c *gin.Context) {
	render(c, http.StatusOK, "editor.html", gin.H{
		"post": editorForm{},
	})
}

func (h *AdminHandler) EditPost(c *gin.Context) {
	post, err := h.postService.GetPostByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			addFlash(c, constants.FlashError, "Post not found.")
		} else {
			_ = c.Error(err)
			addFlash(c, constants.FlashError, "Failed to load the post.")
		}
		c.Redirect(http.StatusFound, "/admin/")
		return
	}

	render(c, http.StatusOK, "editor.html", gin.H{
		"post": formFromPost(post),
	})
}

// SavePost creates a post when the form has no id and updates it otherwise.
func (h *AdminHandler) SavePost(c *gin.Context) {
	var form editorForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "editor.html", gin.H{
			"post":    form,
			"message": "The form could not be read.",
		})
		return
	}

	var (
		post *models.Post
		err  error
	)
	if form.ID == "" {
		post, err = h.postService.CreatePost(c.Request.Context(), models.PostInput{
			Title:     form.Title,
			Slug:      form.Slug,
			Content:   form.Content,
			Excerpt:   form.Excerpt,
			Published: form.Published,
		})
	} else {
		post, err = h.postService.UpdatePost(c.Request.Context(), form.ID, models.PostPatch{
			Title:     &form.Title,
			Slug:      &form.Slug,
			Content:   &form.Content,
			Excerpt:   &form.Excerpt,
			Published: &form.Published,
		})
	}

	var verr *services.ValidationError
	switch {
	case err == nil:
		addFlash(c, constants.FlashSuccess, "Saved \""+post.Title+"\".")
		c.Redirect(http.StatusFound, "/admin/")
	case errors.As(err, &verr):
		render(c, http.StatusBadRequest, "editor.html", gin.H{
			"post":    form,
			"message": "Please fix the highlighted fields.",
			"errors":  verr.Fields,
		})
	case errors.Is(err, models.ErrDuplicateSlug):
		render(c, http.StatusConflict, "editor.html", gin.H{
			"post":    form,
			"message": "A post with this slug already exists.",
		})
	case errors.Is(err, models.ErrPostNotFound):
		addFlash(c, constants.FlashError, "Post not found.")
		c.Redirect(http.StatusFound, "/admin/")
	default:
		_ = c.Error(err)
		render(c, http.StatusInternalServerError, "editor.html", gin.H{
			"post":    form,
			"message": "Failed to save the post. Please try again.",
		})
	}
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	err := h.postService.DeletePost(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		addFlash(c, constants.FlashSuccess, "Post deleted.")
	case errors.Is(err, models.ErrPostNotFound):
		addFlash(c, constants.FlashError, "Post not found.")
	default:
		_ = c.Error(err)
		addFlash(c, constants.FlashError, "Failed to delete the post.")
	}
	c.Redirect(http.StatusFound, "/admin/")
}
