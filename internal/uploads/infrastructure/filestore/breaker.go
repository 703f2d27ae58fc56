package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/tenantry/internal/uploads/domain"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

// BreakerConfig tunes the circuit breaker around a remote store.
type BreakerConfig struct {
	Name string
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval clears failure counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// MaxFailures is the consecutive failure count that opens the breaker.
	MaxFailures uint32
}

// BreakerStore fails fast with ErrUnavailable while a remote store is down.
// Missing files and cancelled requests do not count as failures.
type BreakerStore struct {
	next domain.FileStore
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore wraps next.
func NewBreakerStore(next domain.FileStore, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *BreakerStore {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrFileNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("file store circuit breaker state changed",
				"store", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Gauge(observability.MetricFileStoreBreakerState, float64(to), observability.T("store", name))
		},
	}

	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker[any](settings)}
}

func (s *BreakerStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	locator, err := s.cb.Execute(func() (any, error) {
		return s.next.Save(ctx, key, data)
	})
	if err != nil {
		return "", s.translate(err)
	}
	return locator.(string), nil
}

func (s *BreakerStore) Load(ctx context.Context, locator string) ([]byte, error) {
	data, err := s.cb.Execute(func() (any, error) {
		return s.next.Load(ctx, locator)
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return data.([]byte), nil
}

// State reports the breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.cb.State()
}

func (s *BreakerStore) Ping(ctx context.Context) error {
	if s.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: circuit open", ErrUnavailable)
	}
	return Ping(ctx, s.next)
}

func (s *BreakerStore) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, s.cb.Name(), err)
	}
	return err
}
