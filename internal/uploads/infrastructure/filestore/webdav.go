package filestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/emersion/go-webdav"

	"github.com/felixgeelhaar/tenantry/internal/uploads/domain"
)

// WebDAVStore keeps files on a WebDAV server. Locators are server paths.
type WebDAVStore struct {
	client *webdav.Client
}

// NewWebDAVStore connects to endpoint, using basic auth when user is set.
func NewWebDAVStore(endpoint, user, password string) (*WebDAVStore, error) {
	var httpClient webdav.HTTPClient = http.DefaultClient
	if user != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(http.DefaultClient, user, password)
	}
	client, err := webdav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("create webdav client: %w", err)
	}
	return &WebDAVStore{client: client}, nil
}

func (s *WebDAVStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	name := "/" + strings.TrimPrefix(key, "/")
	if err := s.ensureDir(ctx, path.Dir(name)); err != nil {
		return "", err
	}

	w, err := s.client.Create(ctx, name)
	if err != nil {
		return "", fmt.Errorf("webdav create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("webdav write %s: %w", name, err)
	}
	// Close waits for the PUT to finish and reports its status.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("webdav put %s: %w", name, err)
	}
	return name, nil
}

func (s *WebDAVStore) Load(ctx context.Context, locator string) ([]byte, error) {
	r, err := s.client.Open(ctx, locator)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, locator)
		}
		return nil, fmt.Errorf("webdav get %s: %w", locator, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *WebDAVStore) Ping(ctx context.Context) error {
	_, err := s.client.Stat(ctx, "/")
	return err
}

func (s *WebDAVStore) ensureDir(ctx context.Context, dir string) error {
	if dir == "/" || dir == "." {
		return nil
	}
	if _, err := s.client.Stat(ctx, dir); err == nil {
		return nil
	}
	if err := s.client.Mkdir(ctx, dir); err != nil {
		return fmt.Errorf("webdav mkdir %s: %w", dir, err)
	}
	return nil
}

// isNotFound matches the client's HTTP error, whose type is not exported.
func isNotFound(err error) bool {
	return strings.Contains(err.Error(), http.StatusText(http.StatusNotFound))
}
