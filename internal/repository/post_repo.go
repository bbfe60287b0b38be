package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkblog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ PostRepository = (*GormPostRepository)(nil)

// postRow is the relational shape of a post.
type postRow struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Title     string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	Content   string    `gorm:"type:text;not null"`
	Excerpt   string    `gorm:"type:text"`
	Published bool      `gorm:"default:false;index:idx_posts_published_created,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;index:idx_posts_published_created,priority:2"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (postRow) TableName() string { return "posts" }

func (r *postRow) toModel() models.Post {
	return models.Post{
		ID:        r.ID,
		Title:     r.Title,
		Slug:      r.Slug,
		Content:   r.Content,
		Excerpt:   r.Excerpt,
		Published: r.Published,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// GormPostRepository stores posts in a SQL database through gorm. It is the
// engine used with SQLite for local development and tests.
type GormPostRepository struct {
	db   *gorm.DB
	opts repoOptions
}

func NewPostRepository(db *gorm.DB, opts ...Option) *GormPostRepository {
	return &GormPostRepository{db: db, opts: newOptions(opts)}
}

// AutoMigrate creates the posts table and its indexes.
func (r *GormPostRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&postRow{})
}

func (r *GormPostRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	var rows []postRow
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return toModels(rows), nil
}

func (r *GormPostRepository) GetPublished(ctx context.Context) ([]models.Post, error) {
	var rows []postRow
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	return withExcerpts(toModels(rows)), nil
}

func (r *GormPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *GormPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormPostRepository) first(ctx context.Context, query string, arg string) (*models.Post, error) {
	var row postRow
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	post := row.toModel()
	return &post, nil
}

func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post == nil {
		return nil, fmt.Errorf("post cannot be nil")
	}

	now := r.opts.stamp()
	row := postRow{
		ID:        uuid.NewString(),
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Published: post.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	created := row.toModel()
	return &created, nil
}

func (r *GormPostRepository) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	var updated postRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row postRow
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}

		fields := patchFields(patch)
		fields["updated_at"] = r.opts.stamp()
		if err := tx.Model(&postRow{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})

	switch {
	case err == nil:
		post := updated.toModel()
		return &post, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, models.ErrPostNotFound
	case isUniqueViolation(err):
		return nil, models.ErrDuplicateSlug
	default:
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
}

func (r *GormPostRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&postRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrPostNotFound
	}
	return nil
}

func (r *GormPostRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// patchFields maps the supplied patch fields to column updates. A map is used
// so that zero values (published=false, empty excerpt) are written too.
func patchFields(patch models.PostPatch) map[string]interface{} {
	fields := make(map[string]interface{})
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Slug != nil {
		fields["slug"] = *patch.Slug
	}
	if patch.Content != nil {
		fields["content"] = *patch.Content
	}
	if patch.Excerpt != nil {
		fields["excerpt"] = *patch.Excerpt
	}
	if patch.Published != nil {
		fields["published"] = *patch.Published
	}
	return fields
}

// isUniqueViolation recognizes duplicate key errors, whether or not the
// dialector translated them.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func toModels(rows []postRow) []models.Post {
	posts := make([]models.Post, len(rows))
	for i := range rows {
		posts[i] = rows[i].toModel()
	}
	return posts
}
