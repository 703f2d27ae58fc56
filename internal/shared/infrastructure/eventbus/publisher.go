// Package eventbus publishes integration events to RabbitMQ or to in-process subscribers.
package eventbus

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/tenantry/internal/shared/domain"
)

// Publisher sends integration events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that only logs.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.logger.DebugContext(ctx, "event dropped, no broker configured",
		"routing_key", event.RoutingKey,
		"event_id", event.ID,
	)
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
