package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkblog/internal/config"
	"inkblog/internal/handlers"
	"inkblog/internal/media"
	"inkblog/internal/repository"
	"inkblog/internal/services"
	"inkblog/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// Global filesystems that will be populated by either assets_dev.go or assets_prod.go at startup.
var templatesFS fs.FS
var staticFS fs.FS

func newMediaStorage(ctx context.Context, cfg *config.Config) (media.Storage, string, error) {
	if cfg.Uploads.Driver == config.UploadS3 {
		s, err := media.NewS3Storage(ctx, media.S3Config{
			Bucket:         cfg.Uploads.S3Bucket,
			Region:         cfg.Uploads.S3Region,
			AccessKeyID:    cfg.Uploads.S3AccessKeyID,
			SecretKey:      cfg.Uploads.S3SecretKey,
			Endpoint:       cfg.Uploads.S3Endpoint,
			BaseURL:        cfg.Uploads.S3BaseURL,
			ForcePathStyle: cfg.Uploads.S3ForcePathStyle,
		})
		return s, "", err
	}

	s, err := media.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		return nil, "", err
	}
	return s, s.Dir(), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not configured yet
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.InitLogger(cfg.LogLevel, !cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postRepo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open post store")
	}
	defer func() {
		if err := closeRepo(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close post store")
		}
	}()

	storage, uploadDir, err := newMediaStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload storage")
	}

	renderer, err := handlers.NewRenderer(templatesFS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}
	assets, err := utils.LoadAssets(staticFS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load static assets")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Posts:         services.NewPostService(postRepo),
		Uploads:       services.NewUploadService(storage, cfg.Uploads.MaxBytes),
		Renderer:      renderer,
		Static:        assets.Handler(),
		UploadDir:     uploadDir,
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.SecureCookies,
		BodyLimit:     cfg.BodyLimit,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("storage", cfg.StorageDriver).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
