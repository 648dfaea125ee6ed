// Package storage provides the object storage interface the app writes its
// uploads and meeting folders through, with a local filesystem backend.
package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage defines the interface for object storage operations. Paths are
// slash-separated and relative to the backend root; a path that would
// resolve outside the root is rejected.
type Storage interface {
	// Upload writes data from reader to the given path, replacing any
	// existing object.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download returns a reader for the object at the given path.
	// The caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at the given path.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, path string) error

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns metadata for all objects whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}

// LocalStorage is implemented by backends whose objects live on the local
// filesystem, so external tools such as ffmpeg can read and write them.
type LocalStorage interface {
	Storage

	// LocalPath returns the absolute filesystem path of an object.
	LocalPath(path string) (string, error)

	// EnsureDir creates the directory at path and its parents. It is a
	// no-op when the directory exists.
	EnsureDir(ctx context.Context, path string) error
}
