package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config selects and configures a backend.
type Config struct {
	// Driver is detected from URL when empty.
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath is the SQLite database file, or ":memory:".
	SQLitePath string
	// MaxConns caps the PostgreSQL pool size.
	MaxConns int
}

// Connector opens a Connection for one driver.
type Connector func(ctx context.Context, cfg Config) (Connection, error)

var (
	connectorsMu sync.RWMutex
	connectors   = make(map[Driver]Connector)
)

// RegisterDriver makes a connector available to NewConnection. Driver packages
// call it from init, so importing a driver package is enough to enable it.
func RegisterDriver(driver Driver, connect Connector) {
	connectorsMu.Lock()
	defer connectorsMu.Unlock()
	connectors[driver] = connect
}

// NewConnection opens a connection with the connector registered for the
// configured (or detected) driver.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		detected, err := DetectDriver(cfg.URL)
		if err != nil {
			return nil, err
		}
		driver = detected
	}

	connectorsMu.RLock()
	connect, ok := connectors[driver]
	connectorsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	return connect(ctx, cfg)
}

// DefaultSQLitePath returns ~/.tenantry/tenantry.db.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".tenantry", "tenantry.db")
}

// IsMemoryPath reports whether path names an in-memory SQLite database.
func IsMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
