package handlers

import (
	"net/http"

	"inkblog/internal/constants"
	"inkblog/internal/services"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// RouterConfig holds everything the HTTP layer is built from.
type RouterConfig struct {
	Posts    *services.PostService
	Uploads  *services.UploadService
	Renderer multitemplate.Renderer

	// Static serves /static/*filepath.
	Static gin.HandlerFunc
	// UploadDir is served at /uploads when images are stored locally.
	UploadDir string

	SessionSecret string
	SecureCookies bool
	BodyLimit     int64
}

// NewRouter wires middleware and routes onto a fresh engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.HTMLRender = cfg.Renderer

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	r.Use(
		RequestLogger(),
		Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		BodyLimit(cfg.BodyLimit, "/api/upload"),
		sessions.Sessions(constants.SessionName, store),
	)

	blogHandler := NewBlogHandler(cfg.Posts)
	adminHandler := NewAdminHandler(cfg.Posts)
	apiHandler := NewAPIHandler(cfg.Posts)

	if cfg.Static != nil {
		r.GET("/static/*filepath", cfg.Static)
	}
	if cfg.UploadDir != "" {
		uploads := r.Group("/uploads", CrossOriginResource())
		uploads.Static("/", cfg.UploadDir)
	}

	r.GET("/healthz", apiHandler.Healthz)

	r.GET("/", blogHandler.Index)
	r.GET("/post/:slug", blogHandler.ShowPost)

	admin := r.Group("/admin")
	{
		admin.GET("/", adminHandler.ListPosts)
		admin.GET("/new", adminHandler.NewPost)
		admin.GET("/edit/:id", adminHandler.EditPost)
		admin.POST("/save", adminHandler.SavePost)
		admin.POST("/delete/:id", adminHandler.DeletePost)
	}

	api := r.Group("/api")
	{
		api.GET("/posts", apiHandler.ListPublished)
		api.GET("/posts/:slug", apiHandler.GetBySlug)
		api.POST("/posts", apiHandler.Create)
		api.PUT("/posts/:id", apiHandler.Update)
		api.DELETE("/posts/:id", apiHandler.Delete)
		api.GET("/admin/posts", apiHandler.ListAll)
		api.GET("/admin/posts/:id", apiHandler.GetByID)
		if cfg.Uploads != nil {
			api.POST("/upload", NewUploadHandler(cfg.Uploads).Upload)
		}
	}

	r.NoRoute(blogHandler.NotFound)

	return r
}
