package blobstore

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound reports a storage name with no blob behind it.
	ErrNotFound = errors.New("blob not found")
	// ErrExists reports a save against an already-used storage name.
	// Storage names are caller-guaranteed unique, so this is a contract
	// violation rather than a condition to recover from.
	ErrExists = errors.New("blob already exists")
)

// BlobStore is the byte-storage abstraction used by the attachment service.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	Path(name string) (string, error)
	List(ctx context.Context) ([]string, error)
}
