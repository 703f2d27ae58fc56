package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/tenantry/internal/uploads/domain"
)

// LocalStore keeps files under a root directory. Locators are absolute paths.
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(_ context.Context, key string, data []byte) (string, error) {
	path, err := security.WriteFileInDir(key, s.root, data)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return path, nil
}

func (s *LocalStore) Load(_ context.Context, locator string) ([]byte, error) {
	data, err := security.ReadFileInDir(locator, s.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, locator)
	}
	return data, err
}

func (s *LocalStore) Ping(context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.root)
	}
	return nil
}
