// Package local implements storage.Storage on the local filesystem.
// Importing it registers the "local" provider.
package local

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg.BasePath)
	})
}

// Storage implements storage.LocalStorage using the local filesystem.
type Storage struct {
	basePath string
}

// NewStorage creates the base directory if needed and returns a Storage
// rooted there.
func NewStorage(basePath string) (*Storage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, apperrors.FileSystem("create", abs, err)
	}
	return &Storage{basePath: abs}, nil
}

// BasePath returns the absolute root directory.
func (s *Storage) BasePath() string { return s.basePath }

// LocalPath resolves path under the root. Paths that escape the root
// (absolute paths, ".." segments) are rejected with INVALID_INPUT.
func (s *Storage) LocalPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", apperrors.InvalidInput("path", fmt.Sprintf("%q must be relative", path))
	}
	full := filepath.Join(s.basePath, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.basePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.InvalidInput("path", fmt.Sprintf("%q escapes the storage root", path))
	}
	return full, nil
}

// EnsureDir creates a directory and its parents.
func (s *Storage) EnsureDir(_ context.Context, path string) error {
	full, err := s.LocalPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0o750); err != nil {
		return apperrors.FileSystem("create", full, err)
	}
	return nil
}

// Upload writes data from reader to a local file, truncating any existing one.
func (s *Storage) Upload(_ context.Context, path string, reader io.Reader) error {
	full, err := s.LocalPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return apperrors.FileSystem("create", filepath.Dir(full), err)
	}

	f, err := os.Create(full)
	if err != nil {
		return apperrors.FileSystem("create", full, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		return apperrors.FileSystem("write", full, err)
	}
	if err := f.Close(); err != nil {
		return apperrors.FileSystem("write", full, err)
	}
	return nil
}

// Download returns a reader for the local file at the given path.
func (s *Storage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := s.LocalPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("file", path).WithCause(err)
		}
		return nil, apperrors.FileSystem("open", full, err)
	}
	return f, nil
}

// Delete removes a local file. Returns nil if the file does not exist.
func (s *Storage) Delete(_ context.Context, path string) error {
	full, err := s.LocalPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return apperrors.FileSystem("delete", full, err)
	}
	return nil
}

// Exists checks whether a local file or directory exists.
func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	full, err := s.LocalPath(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperrors.FileSystem("stat", full, err)
	}
	return true, nil
}

// List returns metadata for all files whose relative path starts with
// prefix, sorted by path.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	files := []storage.FileInfo{}

	err := filepath.WalkDir(s.basePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		ct := mime.TypeByExtension(filepath.Ext(path))
		if ct == "" {
			ct = "application/octet-stream"
		}
		files = append(files, storage.FileInfo{
			Path:         rel,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  ct,
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return files, nil
		}
		return nil, apperrors.FileSystem("list", s.basePath, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

var _ storage.LocalStorage = (*Storage)(nil)
