package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"inkblog/internal/media"
	"inkblog/internal/repository"
	"inkblog/internal/services"
	"inkblog/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testUploadLimit = 4096

type testApp struct {
	router    *gin.Engine
	posts     *services.PostService
	uploadDir string
}

// projectRoot finds the module root from this file's location, since the
// working directory during tests is the package directory.
func projectRoot(tb testing.TB) string {
	tb.Helper()
	_, b, _, ok := runtime.Caller(0)
	require.True(tb, ok, "failed to get current file path")
	// internal/handlers/helpers_test.go -> project root
	return filepath.Join(filepath.Dir(b), "..", "..")
}

func setupTestApp(tb testing.TB) *testApp {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(tb.Name(), "/", "_"))
	db, err := utils.InitDatabase(dsn)
	require.NoError(tb, err)
	sqlDB, err := db.DB()
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	repo := repository.NewPostRepository(db)
	require.NoError(tb, repo.AutoMigrate())
	postService := services.NewPostService(repo)

	uploadDir := tb.TempDir()
	storage, err := media.NewLocalStorage(uploadDir, "/uploads/")
	require.NoError(tb, err)

	root := projectRoot(tb)
	renderer, err := NewRenderer(os.DirFS(filepath.Join(root, "templates")))
	require.NoError(tb, err)
	assets, err := utils.LoadAssets(os.DirFS(filepath.Join(root, "static")))
	require.NoError(tb, err)

	router := NewRouter(RouterConfig{
		Posts:         postService,
		Uploads:       services.NewUploadService(storage, testUploadLimit),
		Renderer:      renderer,
		Static:        assets.Handler(),
		UploadDir:     uploadDir,
		SessionSecret: "test-secret",
		BodyLimit:     1 << 20,
	})

	return &testApp{router: router, posts: postService, uploadDir: uploadDir}
}
