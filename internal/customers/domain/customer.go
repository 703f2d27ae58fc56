// Package domain models tenant customers.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
)

const (
	MaxCodeLength = 32
	MaxNameLength = 200
)

var (
	ErrEmptyCode     = errors.New("customer code is required")
	ErrEmptyName     = errors.New("customer name is required")
	ErrCodeTooLong   = errors.New("customer code is too long")
	ErrNameTooLong   = errors.New("customer name is too long")
	ErrDuplicateCode = errors.New("customer code already exists")
)

// Customer is a tenant's customer, identified to users by its unique code.
type Customer struct {
	sharedDomain.BaseEntity
	code string
	name string
}

// NewCustomer creates a customer after validating code and name.
func NewCustomer(code, name string) (*Customer, error) {
	code, name, err := normalize(code, name)
	if err != nil {
		return nil, err
	}
	return &Customer{
		BaseEntity: sharedDomain.NewBaseEntity(),
		code:       code,
		name:       name,
	}, nil
}

// RehydrateCustomer rebuilds a customer from persisted state.
func RehydrateCustomer(id uuid.UUID, code, name string, createdAt, updatedAt time.Time) *Customer {
	return &Customer{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		code:       code,
		name:       name,
	}
}

func (c *Customer) Code() string { return c.code }
func (c *Customer) Name() string { return c.name }

// Update replaces code and name. The customer is unchanged on error.
func (c *Customer) Update(code, name string) error {
	code, name, err := normalize(code, name)
	if err != nil {
		return err
	}
	c.code = code
	c.name = name
	c.Touch()
	return nil
}

func normalize(code, name string) (string, string, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	switch {
	case code == "":
		return "", "", ErrEmptyCode
	case name == "":
		return "", "", ErrEmptyName
	case len(code) > MaxCodeLength:
		return "", "", ErrCodeTooLong
	case len(name) > MaxNameLength:
		return "", "", ErrNameTooLong
	}
	return code, name, nil
}
