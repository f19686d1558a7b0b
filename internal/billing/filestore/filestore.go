// Package filestore stores uploaded PDF blobs and hands back stable
// URLs. Two backends exist: a local directory and an S3-compatible
// bucket (Cloudflare R2).
package filestore

import (
	"context"
	"io"
)

// Storage is the blob interface the upload/download handlers use.
type Storage interface {
	// Put stores the blob under name and returns its public URL.
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	// Get opens the named blob; absent blobs yield errors.ErrNotFound.
	Get(ctx context.Context, name string) (io.ReadCloser, error)
}
