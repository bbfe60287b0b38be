package repository

import (
	"context"
	"html"
	"time"

	"inkblog/internal/content"
	"inkblog/internal/models"
)

// PostRepository persists posts. Implementations assign ids and timestamps,
// enforce slug uniqueness and report misses as models.ErrPostNotFound.
type PostRepository interface {
	GetAll(ctx context.Context) ([]models.Post, error)
	GetPublished(ctx context.Context) ([]models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Clock returns the current time. Repositories take one so tests can control
// createdAt/updatedAt.
type Clock func() time.Time

// Option configures a repository.
type Option func(*repoOptions)

type repoOptions struct {
	now Clock
}

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now Clock) Option {
	return func(o *repoOptions) {
		o.now = now
	}
}

func newOptions(opts []Option) repoOptions {
	o := repoOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// stamp returns the clock reading in UTC at millisecond precision, the
// resolution every supported engine can round-trip.
func (o repoOptions) stamp() time.Time {
	return o.now().UTC().Truncate(time.Millisecond)
}

// withExcerpts fills a missing excerpt from content for display, falling back
// to the title when the content has no text (an image-only post). The derived
// value is not written back.
func withExcerpts(posts []models.Post) []models.Post {
	for i := range posts {
		if posts[i].Excerpt == "" {
			posts[i].Excerpt = content.Excerpt(posts[i].Content)
		}
		if posts[i].Excerpt == "" {
			posts[i].Excerpt = content.Excerpt(html.EscapeString(posts[i].Title))
		}
	}
	return posts
}
