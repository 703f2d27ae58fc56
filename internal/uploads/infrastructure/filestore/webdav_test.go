package filestore

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/emersion/go-webdav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tenantry/internal/uploads/domain"
)

func newWebDAVServer(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	srv := httptest.NewServer(&webdav.Handler{FileSystem: webdav.LocalFileSystem(dir)})
	t.Cleanup(srv.Close)
	return srv.URL, dir
}

func TestWebDAVStore_SaveAndLoad(t *testing.T) {
	endpoint, dir := newWebDAVServer(t)
	store, err := NewWebDAVStore(endpoint, "", "")
	require.NoError(t, err)
	ctx := context.Background()

	locator, err := store.Save(ctx, "7/abc-report.csv", []byte("code,name\nC1,Acme\n"))
	require.NoError(t, err)
	assert.Equal(t, "/7/abc-report.csv", locator)

	onDisk, err := os.ReadFile(filepath.Join(dir, "7", "abc-report.csv"))
	require.NoError(t, err)
	assert.Equal(t, "code,name\nC1,Acme\n", string(onDisk))

	data, err := store.Load(ctx, locator)
	require.NoError(t, err)
	assert.Equal(t, "code,name\nC1,Acme\n", string(data))

	// A second file in the same group reuses the existing collection.
	_, err = store.Save(ctx, "7/def-other.csv", []byte("x"))
	require.NoError(t, err)
}

func TestWebDAVStore_LoadMissing(t *testing.T) {
	endpoint, _ := newWebDAVServer(t)
	store, err := NewWebDAVStore(endpoint, "", "")
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "/7/missing.csv")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestWebDAVStore_Ping(t *testing.T) {
	endpoint, _ := newWebDAVServer(t)
	store, err := NewWebDAVStore(endpoint, "user", "secret")
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))
}
