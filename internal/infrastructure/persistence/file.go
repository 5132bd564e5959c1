package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"price_tracker/pkg/logx"
)

const blobExt = ".json"

// FileBlobs stores every blob as <dir>/<key>.json. Writes go to a temp file
// that is renamed over the old one, so readers see either the old or the new
// blob, never a mix.
type FileBlobs struct {
	dir string
}

func NewFileBlobs(dir string) (*FileBlobs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	return &FileBlobs{dir: dir}, nil
}

func (f *FileBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	logger(ctx).Debug("blob read",
		slog.String(logx.FieldBackend, BackendFile),
		slog.String(logx.FieldKey, key),
		slog.Int("bytes", len(data)),
	)

	return data, nil
}

func (f *FileBlobs) Put(ctx context.Context, key string, data []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Write: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Sync: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	logger(ctx).Debug("blob written",
		slog.String(logx.FieldBackend, BackendFile),
		slog.String(logx.FieldKey, key),
		slog.Int("bytes", len(data)),
	)

	return nil
}

func (f *FileBlobs) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid blob key %q", key)
	}

	return filepath.Join(f.dir, key+blobExt), nil
}
