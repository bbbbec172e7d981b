package model

import (
	"context"
	"io"
)

// Storage is the blob store holding uploaded profile images, keyed by
// generated filename.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
