package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"inkblog/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeClock advances by one second on every reading.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func setupTestRepo(t *testing.T) (*GormPostRepository, *fakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	clock := newFakeClock()
	repo := NewPostRepository(db, WithClock(clock.Now))
	require.NoError(t, repo.AutoMigrate())
	return repo, clock
}

func createPost(t *testing.T, repo PostRepository, title, slug string, published bool) *models.Post {
	t.Helper()
	post, err := repo.Create(context.Background(), &models.Post{
		Title:     title,
		Slug:      slug,
		Content:   "<p>" + title + " body</p>",
		Published: published,
	})
	require.NoError(t, err)
	return post
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	repo, _ := setupTestRepo(t)

	post := createPost(t, repo, "Hello World", "hello-world", false)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "hello-world", post.Slug)
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	assert.Equal(t, time.UTC, post.CreatedAt.Location())

	got, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.True(t, post.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateNilPost(t *testing.T) {
	repo, _ := setupTestRepo(t)
	_, err := repo.Create(context.Background(), nil)
	assert.Error(t, err)
}

func TestCreateDuplicateSlug(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	first := createPost(t, repo, "Hello World", "hello-world", false)

	_, err := repo.Create(ctx, &models.Post{Title: "Other", Slug: "hello-world", Content: "<p>x</p>"})
	assert.ErrorIs(t, err, models.ErrDuplicateSlug)

	got, err := repo.GetBySlug(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Hello World", got.Title)
}

func TestGetAllNewestFirst(t *testing.T) {
	repo, _ := setupTestRepo(t)

	createPost(t, repo, "First", "first", true)
	createPost(t, repo, "Second", "second", false)
	createPost(t, repo, "Third", "third", true)

	posts, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].Slug)
	assert.Equal(t, "second", posts[1].Slug)
	assert.Equal(t, "first", posts[2].Slug)
}

func TestGetPublishedFiltersAndDerivesExcerpt(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	createPost(t, repo, "Draft", "draft", false)
	createPost(t, repo, "Live", "live", true)
	_, err := repo.Create(ctx, &models.Post{
		Title:     "Custom",
		Slug:      "custom",
		Content:   "<p>body</p>",
		Excerpt:   "hand written",
		Published: true,
	})
	require.NoError(t, err)

	posts, err := repo.GetPublished(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "custom", posts[0].Slug)
	assert.Equal(t, "hand written", posts[0].Excerpt)
	assert.Equal(t, "live", posts[1].Slug)
	assert.Equal(t, "Live body", posts[1].Excerpt)

	// the derived excerpt is presentational only
	stored, err := repo.GetBySlug(ctx, "live")
	require.NoError(t, err)
	assert.Empty(t, stored.Excerpt)
}

func TestGetPublishedImageOnlyFallsBackToTitle(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Post{
		Title:     "Fish & Chips <3",
		Slug:      "gallery",
		Content:   `<p><img src="/uploads/image-1-abc.png" alt=""></p>`,
		Published: true,
	})
	require.NoError(t, err)

	posts, err := repo.GetPublished(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Fish & Chips <3", posts[0].Excerpt)

	stored, err := repo.GetBySlug(ctx, "gallery")
	require.NoError(t, err)
	assert.Empty(t, stored.Excerpt)
}

func TestGetMissing(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, models.ErrPostNotFound)

	_, err = repo.GetBySlug(ctx, "does-not-exist")
	assert.ErrorIs(t, err, models.ErrPostNotFound)
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	post := createPost(t, repo, "Hello World", "hello-world", true)

	content := "<p>New body</p>"
	updated, err := repo.Update(ctx, post.ID, models.PostPatch{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, post.ID, updated.ID)
	assert.Equal(t, "Hello World", updated.Title)
	assert.Equal(t, "hello-world", updated.Slug)
	assert.Equal(t, content, updated.Content)
	assert.True(t, updated.Published)
	assert.True(t, post.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(post.UpdatedAt))
}

func TestUpdateWritesZeroValues(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	post := createPost(t, repo, "Live", "live", true)

	published := false
	updated, err := repo.Update(ctx, post.ID, models.PostPatch{Published: &published})
	require.NoError(t, err)
	assert.False(t, updated.Published)
}

func TestUpdateDuplicateSlug(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	createPost(t, repo, "One", "one", false)
	two := createPost(t, repo, "Two", "two", false)

	slug := "one"
	_, err := repo.Update(ctx, two.ID, models.PostPatch{Slug: &slug})
	assert.ErrorIs(t, err, models.ErrDuplicateSlug)

	got, err := repo.GetByID(ctx, two.ID)
	require.NoError(t, err)
	assert.Equal(t, "two", got.Slug)
}

func TestUpdateMissing(t *testing.T) {
	repo, _ := setupTestRepo(t)

	title := "x"
	_, err := repo.Update(context.Background(), "missing", models.PostPatch{Title: &title})
	assert.ErrorIs(t, err, models.ErrPostNotFound)
}

func TestDelete(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	post := createPost(t, repo, "Gone", "gone", false)

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, models.ErrPostNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, post.ID), models.ErrPostNotFound)
}

func TestPing(t *testing.T) {
	repo, _ := setupTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestStampTruncatesToMillis(t *testing.T) {
	o := newOptions([]Option{WithClock(func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.FixedZone("X", 3600))
	})})

	got := o.stamp()
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123000000, got.Nanosecond())
	assert.Equal(t, 2, got.Hour())
}

func TestPatchFields(t *testing.T) {
	title := "T"
	published := false
	fields := patchFields(models.PostPatch{Title: &title, Published: &published})

	assert.Equal(t, map[string]interface{}{"title": "T", "published": false}, fields)
	assert.Empty(t, patchFields(models.PostPatch{}))
}
