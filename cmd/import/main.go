// Command import loads a directory of markdown posts into the post store
// through the same pipeline the HTTP API uses.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"inkblog/internal/config"
	"inkblog/internal/models"
	"inkblog/internal/repository"
	"inkblog/internal/services"
	"inkblog/internal/utils"

	"github.com/rs/zerolog/log"
)

type summary struct {
	Created int
	Skipped int
	Failed  int
}

func importDir(ctx context.Context, svc *services.PostService, dir string) (summary, error) {
	var sum summary

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to read file")
			sum.Failed++
			return nil
		}

		input, err := parseMarkdownPost(string(data))
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping file")
			sum.Skipped++
			return nil
		}

		post, err := svc.CreatePost(ctx, input)
		var verr *services.ValidationError
		switch {
		case err == nil:
			log.Info().Str("file", path).Str("slug", post.Slug).Msg("Imported")
			sum.Created++
		case errors.Is(err, models.ErrDuplicateSlug):
			log.Warn().Str("file", path).Msg("A post with this slug already exists, skipping")
			sum.Skipped++
		case errors.As(err, &verr):
			log.Warn().Str("file", path).Interface("errors", verr.Fields).Msg("Invalid post, skipping")
			sum.Skipped++
		default:
			log.Error().Err(err).Str("file", path).Msg("Failed to import")
			sum.Failed++
		}
		return nil
	})

	return sum, err
}

func main() {
	dir := flag.String("dir", "", "directory of markdown files to import")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.InitLogger(cfg.LogLevel, true)

	ctx := context.Background()
	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open post store")
	}
	defer func() { _ = closeRepo(ctx) }()

	sum, err := importDir(ctx, services.NewPostService(repo), *dir)
	if err != nil {
		log.Error().Err(err).Str("dir", *dir).Msg("Import stopped early")
	}

	log.Info().
		Int("created", sum.Created).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Msg("Import finished")

	if err != nil || sum.Failed > 0 {
		os.Exit(1)
	}
}
