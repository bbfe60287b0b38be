// Package media stores uploaded files and returns the public URL for each.
package media

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidName        = errors.New("invalid object name")
	ErrInvalidConfig      = errors.New("invalid storage configuration")
	ErrFailedToWrite      = errors.New("failed to write object")
	ErrAccessDenied       = errors.New("access denied")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrServiceUnavailable = errors.New("storage service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
)

// Storage persists an object under a flat name and reports where it can be
// fetched from.
type Storage interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (url string, err error)
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		if r == '/' || r == '\\' || r == 0 {
			return false
		}
	}
	return true
}
