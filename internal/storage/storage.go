package storage

import (
	"context"
	"io"
)

// Upload is a single file submitted by a client. Name is the original
// client-supplied filename; it becomes attachment metadata, never a storage
// path.
type Upload struct {
	Name   string
	Reader io.Reader
}

// StoredFile is the result of storing one upload.
type StoredFile struct {
	// URL is the publicly resolvable location of the stored content.
	URL string
	// Title is the original client-supplied filename.
	Title string
}

// FileStorage saves uploaded binary content and serves it back by URL.
type FileStorage interface {
	// Store persists all uploads under the given logical container and
	// returns one StoredFile per upload, in submission order.
	Store(ctx context.Context, container string, uploads []Upload) ([]StoredFile, error)

	// Delete removes a stored file identified by its path or public URL.
	// Deleting a blank path or an already-missing file is a no-op.
	Delete(ctx context.Context, pathOrURL, container string) error
}
