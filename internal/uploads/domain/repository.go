package domain

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
)

// Repository persists upload records.
type Repository interface {
	sharedDomain.Repository[*Upload]
	ListByGroup(ctx context.Context, groupID string) ([]*Upload, error)
}
