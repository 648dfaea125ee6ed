package storage

import (
	"bytes"
	"context"
	"io"
)

// ByteClient reads and writes whole small files, such as text transcripts
// and summaries, without handling streams.
type ByteClient interface {
	Upload(ctx context.Context, path string, data []byte) error
	Download(ctx context.Context, path string) ([]byte, error)
}

type byteAdapter struct {
	storage Storage
}

// NewByteClient wraps s with []byte helpers.
func NewByteClient(s Storage) ByteClient {
	return &byteAdapter{storage: s}
}

func (a *byteAdapter) Upload(ctx context.Context, path string, data []byte) error {
	return a.storage.Upload(ctx, path, bytes.NewReader(data))
}

func (a *byteAdapter) Download(ctx context.Context, path string) ([]byte, error) {
	rc, err := a.storage.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
