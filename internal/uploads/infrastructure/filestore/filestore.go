// Package filestore implements domain.FileStore on local disk, Redis and
// WebDAV, plus encrypting and circuit-breaking decorators.
package filestore

import (
	"context"
	"errors"
)

// ErrUnavailable is returned while the circuit breaker rejects calls.
var ErrUnavailable = errors.New("file store unavailable")

// Pinger is implemented by stores that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks store health, treating stores without a probe as healthy.
func Ping(ctx context.Context, store any) error {
	if p, ok := store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
