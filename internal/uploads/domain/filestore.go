package domain

import (
	"context"
	"errors"
)

// ErrFileNotFound is returned by FileStore.Load for an unknown locator.
var ErrFileNotFound = errors.New("stored file not found")

// FileStore persists file contents. Save returns an opaque locator that Load
// accepts; callers must not interpret it.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) (locator string, err error)
	Load(ctx context.Context, locator string) ([]byte, error)
}
