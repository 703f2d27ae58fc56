package application

import (
	"context"

	"github.com/felixgeelhaar/tenantry/internal/shared/domain"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
	"github.com/google/uuid"
)

// NewEventMetadata builds event metadata from the request context.
// The correlation ID is reused when present; the causation ID is always new.
func NewEventMetadata(ctx context.Context, actor string) domain.EventMetadata {
	correlationID := observability.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	if actor == "" {
		actor = observability.ActorFromContext(ctx)
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New().String(),
		Actor:         actor,
	}
}
