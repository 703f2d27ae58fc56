package domain

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
)

// Repository persists customers. Save inserts or updates by ID and returns
// ErrDuplicateCode when another customer already holds the code.
type Repository interface {
	sharedDomain.Repository[*Customer]
	FindByCode(ctx context.Context, code string) (*Customer, error)
	// List returns one page ordered by name and the total customer count.
	// Pages start at 1.
	List(ctx context.Context, page, size int) ([]*Customer, int, error)
}
