package model

import (
	"context"
	"io"
)

// ImageStorage stores shoe images and exposes them by URL.
type ImageStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
