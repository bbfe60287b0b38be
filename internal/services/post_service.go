package services

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"inkblog/internal/content"
	"inkblog/internal/models"
	"inkblog/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// PostService is the ingestion pipeline: every write is validated,
// sanitized and given a slug and excerpt before it reaches the repository.
type PostService struct {
	repo     repository.PostRepository
	validate *validator.Validate
}

func NewPostService(repo repository.PostRepository) *PostService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &PostService{repo: repo, validate: v}
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, storageError("list posts", err)
	}
	return posts, nil
}

func (s *PostService) ListPublishedPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.repo.GetPublished(ctx)
	if err != nil {
		return nil, storageError("list published posts", err)
	}
	return posts, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.persistError("get post", err)
	}
	return post, nil
}

func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, s.persistError("get post", err)
	}
	return post, nil
}

// CreatePost runs a submission through the pipeline and stores it.
func (s *PostService) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Excerpt = strings.TrimSpace(in.Excerpt)

	verr := s.check(in)

	var sanitized string
	if !verr.Has("content") {
		sanitized = content.Sanitize(in.Content)
		if content.IsBlank(sanitized) {
			verr.add("content", "must contain text after sanitizing")
		}
	}

	var slug string
	if !verr.Has("title") {
		var ok bool
		slug, ok = deriveSlug(in.Slug, in.Title)
		if !ok {
			verr.add("slug", "must contain at least one letter or digit")
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	excerpt := in.Excerpt
	if excerpt == "" {
		excerpt = content.Excerpt(sanitized)
	}

	created, err := s.repo.Create(ctx, &models.Post{
		Title:     in.Title,
		Slug:      slug,
		Content:   sanitized,
		Excerpt:   excerpt,
		Published: in.Published,
	})
	if err != nil {
		return nil, s.persistError("create post", err)
	}

	log.Info().Str("id", created.ID).Str("slug", created.Slug).Msg("Post created")
	return created, nil
}

// UpdatePost applies a partial update. Fields absent from the patch are left
// as stored; slug and excerpt are only re-derived when their source field
// changes and no explicit value was given.
func (s *PostService) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	if patch.IsEmpty() {
		verr := &ValidationError{}
		verr.add("body", "must set at least one field")
		return nil, verr
	}

	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if patch.Excerpt != nil {
		e := strings.TrimSpace(*patch.Excerpt)
		patch.Excerpt = &e
	}

	verr := s.check(patch)

	if patch.Content != nil && !verr.Has("content") {
		sanitized := content.Sanitize(*patch.Content)
		if content.IsBlank(sanitized) {
			verr.add("content", "must contain text after sanitizing")
		}
		patch.Content = &sanitized
	}

	switch {
	case patch.Slug != nil && strings.TrimSpace(*patch.Slug) != "":
		slug, ok := deriveSlug(*patch.Slug, "")
		if !ok {
			verr.add("slug", "must contain at least one letter or digit")
		}
		patch.Slug = &slug
	case patch.Title != nil && !verr.Has("title"):
		slug, ok := deriveSlug("", *patch.Title)
		if !ok {
			verr.add("slug", "must contain at least one letter or digit")
		}
		patch.Slug = &slug
	case patch.Slug != nil:
		verr.add("slug", "must not be empty")
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if patch.Content != nil && (patch.Excerpt == nil || *patch.Excerpt == "") {
		excerpt := content.Excerpt(*patch.Content)
		patch.Excerpt = &excerpt
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.persistError("update post", err)
	}

	log.Info().Str("id", updated.ID).Str("slug", updated.Slug).Msg("Post updated")
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError("delete post", err)
	}
	log.Info().Str("id", id).Msg("Post deleted")
	return nil
}

// Ping reports whether the repository is reachable.
func (s *PostService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}

// check runs the struct rules and converts failures into a ValidationError.
func (s *PostService) check(v any) *ValidationError {
	verr := &ValidationError{}
	err := s.validate.Struct(v)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("input", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), ruleMessage(fe))
	}
	return verr
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	default:
		return "is invalid"
	}
}

// deriveSlug normalizes an explicit slug, falling back to the title when
// none was supplied.
func deriveSlug(explicit, title string) (string, bool) {
	source := explicit
	if source == "" {
		source = title
	}
	slug := content.Slug(source)
	return slug, slug != ""
}

func (s *PostService) persistError(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrPostNotFound), errors.Is(err, models.ErrDuplicateSlug):
		return err
	default:
		log.Error().Err(err).Str("op", op).Msg("Repository call failed")
		return storageError(op, err)
	}
}
