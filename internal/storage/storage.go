// Package storage stores gallery images on local disk or in S3.
package storage

import (
	"context"
	"io"
)

// Storage is the blob store behind the gallery.
type Storage interface {
	// Write stores r under key. size is -1 when unknown.
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for key.
	URL(key string) string
}
