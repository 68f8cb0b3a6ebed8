// Package storage is the blob collaborator: uploads go in, an opaque
// storage id comes out, and a second call resolves the id to a
// fetchable URL. Deletion is always explicit — dropping a database row
// never implies dropping its blob.
package storage

import (
	"context"
	"io"
)

type BlobStore interface {
	// Save stores the blob and returns its opaque storage id.
	Save(ctx context.Context, r io.Reader, filename string) (string, error)

	// URL resolves a storage id to a URL a browser can fetch.
	URL(storageID string) string

	// Open returns the blob's content for serving.
	Open(ctx context.Context, storageID string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting an unknown id is an error.
	Delete(ctx context.Context, storageID string) error
}
