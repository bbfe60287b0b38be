package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type memStorage struct {
	objects map[string][]byte
	err     error
}

func (m *memStorage) Put(_ context.Context, name string, body io.Reader, _ int64, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[name] = data
	return "/uploads/" + name, nil
}

// fileHeader builds a real *multipart.FileHeader by parsing a form.
func fileHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	_, fh, err := req.FormFile("image")
	require.NoError(t, err)
	return fh
}

func TestSaveImage(t *testing.T) {
	store := &memStorage{}
	svc := NewUploadService(store, 0)

	url, err := svc.SaveImage(context.Background(), fileHeader(t, "photo.PNG", pngBytes))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^/uploads/image-\d+-[0-9a-f]{8}\.png$`), url)
	require.Len(t, store.objects, 1)
	for _, data := range store.objects {
		assert.Equal(t, pngBytes, data)
	}
}

func TestSaveImageRejections(t *testing.T) {
	svc := NewUploadService(&memStorage{}, 64)

	_, err := svc.SaveImage(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = svc.SaveImage(context.Background(), fileHeader(t, "notes.png", []byte("just some text")))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = svc.SaveImage(context.Background(), fileHeader(t, "big.png", append(append([]byte{}, pngBytes...), make([]byte, 100)...)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.SaveImage(context.Background(), fileHeader(t, "empty.png", nil))
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestSaveImageStorageFailure(t *testing.T) {
	cause := errors.New("disk full")
	svc := NewUploadService(&memStorage{err: cause}, 0)

	_, err := svc.SaveImage(context.Background(), fileHeader(t, "a.png", pngBytes))
	assert.ErrorIs(t, err, cause)
}

func TestNewUploadServiceDefaultLimit(t *testing.T) {
	assert.Equal(t, int64(DefaultMaxUploadBytes), NewUploadService(&memStorage{}, 0).MaxBytes())
	assert.Equal(t, int64(10), NewUploadService(&memStorage{}, 10).MaxBytes())
}
