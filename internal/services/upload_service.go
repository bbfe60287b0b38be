package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"inkblog/internal/media"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultMaxUploadBytes is the upload limit used when none is configured.
const DefaultMaxUploadBytes = 5 << 20

var (
	ErrNoFile       = errors.New("no image file provided")
	ErrNotImage     = errors.New("only image files are allowed")
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
)

var imageExtensions = map[string]string{
	"image/jpeg":   ".jpg",
	"image/png":    ".png",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
	"image/avif":   ".avif",
}

// UploadService validates uploaded images and hands them to a media backend.
type UploadService struct {
	storage  media.Storage
	maxBytes int64
	now      func() time.Time
}

func NewUploadService(storage media.Storage, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{storage: storage, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes is the largest accepted upload.
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// SaveImage stores an uploaded image under a fresh name and returns its URL.
// The type is decided from the file's leading bytes, not the client's header.
func (s *UploadService) SaveImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNoFile
	}
	if fh.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if n == 0 {
		return "", ErrNoFile
	}

	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	name := s.objectName(contentType, fh.Filename)
	// one byte over the limit is enough to detect a lying Size header
	body := io.LimitReader(src, s.maxBytes+1)
	url, err := s.storage.Put(ctx, name, &limitCheck{r: body, max: s.maxBytes}, fh.Size, contentType)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return "", ErrFileTooLarge
		}
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	log.Info().Str("name", name).Int64("size", fh.Size).Str("type", contentType).Msg("Image uploaded")
	return url, nil
}

// objectName builds image-<unixmillis>-<random><ext>.
func (s *UploadService) objectName(contentType, original string) string {
	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(original))
	}
	random := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("image-%d-%s%s", s.now().UnixMilli(), random, ext)
}

type limitCheck struct {
	r     io.Reader
	max   int64
	total int64
}

func (l *limitCheck) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.total += int64(n)
	if l.total > l.max {
		return n, ErrFileTooLarge
	}
	return n, err
}
