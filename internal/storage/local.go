package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// LocalFileStorage stores files on the local filesystem under a root
// directory and builds public URLs from a configured base URL.
type LocalFileStorage struct {
	root    string
	baseURL string
}

// NewLocalFileStorage creates a LocalFileStorage rooted at root. baseURL is
// the external-facing host prefix for generated URLs.
func NewLocalFileStorage(root, baseURL string) *LocalFileStorage {
	return &LocalFileStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Store writes every upload concurrently and returns the results in
// submission order. Each file gets a generated name so client filenames can
// never collide on disk.
func (s *LocalFileStorage) Store(ctx context.Context, container string, uploads []Upload) ([]StoredFile, error) {
	folder := filepath.Join(s.root, container)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create container directory: %w", err)
	}

	results := make([]StoredFile, len(uploads))

	g, _ := errgroup.WithContext(ctx)
	for i, upload := range uploads {
		g.Go(func() error {
			name := uuid.NewString() + filepath.Ext(upload.Name)

			dst, err := os.Create(filepath.Join(folder, name))
			if err != nil {
				return fmt.Errorf("failed to create file: %w", err)
			}
			defer dst.Close()

			if _, err := io.Copy(dst, upload.Reader); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}

			results[i] = StoredFile{
				URL:   fmt.Sprintf("%s/%s/%s", s.baseURL, container, name),
				Title: filepath.Base(upload.Name),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Delete removes a stored file. pathOrURL may be a public URL or a bare
// path; only its final element identifies the file. Blank paths and missing
// files are not errors.
func (s *LocalFileStorage) Delete(_ context.Context, pathOrURL, container string) error {
	if strings.TrimSpace(pathOrURL) == "" {
		return nil
	}

	name := path.Base(pathOrURL)
	target := filepath.Join(s.root, container, name)

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logrus.WithField("file", name).Debug("deleted stored file")
	return nil
}
