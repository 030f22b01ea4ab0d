package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalDir stores blob bytes as one file per storage name in a flat local
// directory. Storage names carry a millisecond timestamp prefix, so repeated
// uploads of identically named files never collide.
type LocalDir struct {
	root string
}

// NewLocalDir creates a local blob directory rooted at root.
func NewLocalDir(root string) (*LocalDir, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalDir{root: abs}, nil
}

// NewStorageName derives a collision-resistant storage name from the
// original file name: {unixMillis}_{originalFileName}.
func NewStorageName(originalFileName string, now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), filepath.Base(strings.TrimSpace(originalFileName)))
}

// Save writes bytes under name and returns the absolute path. An existing
// name fails with ErrExists; overwriting is never silent.
func (d *LocalDir) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if d == nil {
		return "", fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return "", fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := d.Path(name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, name)
		}
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// Open returns a reader for the blob stored under name.
func (d *LocalDir) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if d == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := d.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	return f, nil
}

// Delete removes the blob stored under name. A missing blob is reported as
// ErrNotFound; callers decide whether that is fatal.
func (d *LocalDir) Delete(ctx context.Context, name string) error {
	if d == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return err
	}
	return nil
}

// Path resolves name into an absolute path inside the blob directory.
func (d *LocalDir) Path(name string) (string, error) {
	if d == nil {
		return "", fmt.Errorf("blob store is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("storage name is required")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid storage name %q", name)
	}
	return filepath.Join(d.root, name), nil
}

// List returns the storage names currently on disk.
func (d *LocalDir) List(ctx context.Context) ([]string, error) {
	if d == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

var _ BlobStore = (*LocalDir)(nil)
