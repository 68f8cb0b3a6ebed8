package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FilesystemStore keeps blobs as flat files under a base directory.
// Storage ids are "<uuid><ext>", so the id alone is enough to serve the
// file with a sensible content type later.
type FilesystemStore struct {
	baseDir string
	baseURL string
}

func NewFilesystemStore(baseDir, baseURL string) (*FilesystemStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FilesystemStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *FilesystemStore) Save(ctx context.Context, r io.Reader, filename string) (string, error) {
	storageID := uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	path, err := s.path(storageID)
	if err != nil {
		return "", err
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}
	return storageID, nil
}

func (s *FilesystemStore) URL(storageID string) string {
	return s.baseURL + "/v1/images/" + storageID
}

func (s *FilesystemStore) Open(ctx context.Context, storageID string) (io.ReadCloser, error) {
	path, err := s.path(storageID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (s *FilesystemStore) Delete(ctx context.Context, storageID string) error {
	path, err := s.path(storageID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// path validates the id before touching the filesystem — a storage id
// is a bare filename, never a path.
func (s *FilesystemStore) path(storageID string) (string, error) {
	if storageID == "" || storageID != filepath.Base(storageID) || strings.Contains(storageID, "..") {
		return "", fmt.Errorf("invalid storage id %q", storageID)
	}
	return filepath.Join(s.baseDir, storageID), nil
}
