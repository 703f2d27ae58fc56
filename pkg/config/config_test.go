package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("FILESTORE_DRIVER", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RABBITMQ_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, FileStoreLocal, cfg.FileStoreDriver)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, uint32(5), cfg.BreakerMaxFailures)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("FILESTORE_DRIVER", "webdav")
	t.Setenv("WEBDAV_URL", "https://dav.example.com/uploads")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("BREAKER_MAX_FAILURES", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, FileStoreWebDAV, cfg.FileStoreDriver)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, uint32(3), cfg.BreakerMaxFailures)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store", env: map[string]string{"FILESTORE_DRIVER": "s3"}},
		{name: "webdav without url", env: map[string]string{"FILESTORE_DRIVER": "webdav", "WEBDAV_URL": ""}},
		{name: "bad duration", env: map[string]string{"REQUEST_TIMEOUT": "soon"}},
		{name: "zero timeout", env: map[string]string{"REQUEST_TIMEOUT": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
