// Package queries holds the customers read side.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/tenantry/internal/customers/domain"
	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/convert"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// CustomerDTO is the read model of a customer.
type CustomerDTO struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerPage is one page of customers ordered by name.
type CustomerPage struct {
	Customers  []CustomerDTO `json:"customers"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// ListCustomersQuery requests one page. Page defaults to 1 and PageSize to
// DefaultPageSize.
type ListCustomersQuery struct {
	Page     int
	PageSize int
}

func (ListCustomersQuery) QueryName() string { return "customers.list" }

// ListCustomersHandler handles ListCustomersQuery.
type ListCustomersHandler struct {
	repo domain.Repository
}

var _ sharedApplication.QueryHandler[ListCustomersQuery, CustomerPage] = (*ListCustomersHandler)(nil)

// NewListCustomersHandler creates a new ListCustomersHandler.
func NewListCustomersHandler(repo domain.Repository) *ListCustomersHandler {
	return &ListCustomersHandler{repo: repo}
}

func (h *ListCustomersHandler) Handle(ctx context.Context, q ListCustomersQuery) (CustomerPage, error) {
	page := max(q.Page, 1)
	size := convert.ClampPositive(q.PageSize, DefaultPageSize, MaxPageSize)

	customers, total, err := h.repo.List(ctx, page, size)
	if err != nil {
		return CustomerPage{}, err
	}

	dtos := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		dtos = append(dtos, toDTO(c))
	}
	return CustomerPage{
		Customers:  dtos,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}, nil
}

// GetCustomerQuery looks a customer up by ID.
type GetCustomerQuery struct {
	ID uuid.UUID
}

func (GetCustomerQuery) QueryName() string { return "customers.get" }

// GetCustomerHandler handles GetCustomerQuery.
type GetCustomerHandler struct {
	repo domain.Repository
}

var _ sharedApplication.QueryHandler[GetCustomerQuery, CustomerDTO] = (*GetCustomerHandler)(nil)

// NewGetCustomerHandler creates a new GetCustomerHandler.
func NewGetCustomerHandler(repo domain.Repository) *GetCustomerHandler {
	return &GetCustomerHandler{repo: repo}
}

// Handle returns shared domain ErrNotFound for an unknown ID.
func (h *GetCustomerHandler) Handle(ctx context.Context, q GetCustomerQuery) (CustomerDTO, error) {
	c, err := h.repo.FindByID(ctx, q.ID)
	if err != nil {
		return CustomerDTO{}, err
	}
	return toDTO(c), nil
}

func toDTO(c *domain.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID(),
		Code:      c.Code(),
		Name:      c.Name(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}
