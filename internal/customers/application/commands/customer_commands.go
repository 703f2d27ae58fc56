// Package commands holds the customer write side: create, update, delete and
// the multi-handler import.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/tenantry/internal/customers/domain"
	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
)

const (
	createFailurePrefix = "An error occurred creating the customer"
	updateFailurePrefix = "An error occurred updating the customer"
	deleteFailurePrefix = "An error occurred deleting the customer"
)

// CreateCustomerCommand creates a customer with a unique code.
type CreateCustomerCommand struct {
	Code string
	Name string
}

func (CreateCustomerCommand) CommandName() string { return "customers.create" }

// UpdateCustomerCommand replaces a customer's code and name.
type UpdateCustomerCommand struct {
	ID   uuid.UUID
	Code string
	Name string
}

func (UpdateCustomerCommand) CommandName() string { return "customers.update" }

// DeleteCustomerCommand removes a customer.
type DeleteCustomerCommand struct {
	ID uuid.UUID
}

func (DeleteCustomerCommand) CommandName() string { return "customers.delete" }

type customerHandler struct {
	repo   domain.Repository
	logger *slog.Logger
}

func newCustomerHandler(repo domain.Repository, logger *slog.Logger) customerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return customerHandler{repo: repo, logger: logger}
}

// CreateCustomerHandler handles CreateCustomerCommand.
type CreateCustomerHandler struct{ customerHandler }

// NewCreateCustomerHandler creates a new CreateCustomerHandler.
func NewCreateCustomerHandler(repo domain.Repository, logger *slog.Logger) *CreateCustomerHandler {
	return &CreateCustomerHandler{newCustomerHandler(repo, logger)}
}

// UpdateCustomerHandler handles UpdateCustomerCommand.
type UpdateCustomerHandler struct{ customerHandler }

// NewUpdateCustomerHandler creates a new UpdateCustomerHandler.
func NewUpdateCustomerHandler(repo domain.Repository, logger *slog.Logger) *UpdateCustomerHandler {
	return &UpdateCustomerHandler{newCustomerHandler(repo, logger)}
}

// DeleteCustomerHandler handles DeleteCustomerCommand.
type DeleteCustomerHandler struct{ customerHandler }

// NewDeleteCustomerHandler creates a new DeleteCustomerHandler.
func NewDeleteCustomerHandler(repo domain.Repository, logger *slog.Logger) *DeleteCustomerHandler {
	return &DeleteCustomerHandler{newCustomerHandler(repo, logger)}
}

func (h *CreateCustomerHandler) Handle(ctx context.Context, cmd CreateCustomerCommand) (result sharedApplication.CommandResult) {
	defer sharedApplication.Recover(&result, createFailurePrefix)

	customer, err := domain.NewCustomer(cmd.Code, cmd.Name)
	if err != nil {
		return sharedApplication.FailedWith(createFailurePrefix, err)
	}
	if err := h.ensureCodeFree(ctx, customer.Code(), uuid.Nil); err != nil {
		return sharedApplication.FailedWith(createFailurePrefix, err)
	}
	if err := h.repo.Save(ctx, customer); err != nil {
		return sharedApplication.FailedWith(createFailurePrefix, err)
	}

	h.logger.InfoContext(ctx, "customer created", "customer_id", customer.ID(), "code", customer.Code())
	return sharedApplication.Succeeded(fmt.Sprintf("Successfully created customer '%s'", customer.Name()))
}

func (h *UpdateCustomerHandler) Handle(ctx context.Context, cmd UpdateCustomerCommand) (result sharedApplication.CommandResult) {
	defer sharedApplication.Recover(&result, updateFailurePrefix)

	customer, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return sharedApplication.FailedWith(updateFailurePrefix, notFound(err, cmd.ID))
	}
	if err := customer.Update(cmd.Code, cmd.Name); err != nil {
		return sharedApplication.FailedWith(updateFailurePrefix, err)
	}
	if err := h.ensureCodeFree(ctx, customer.Code(), customer.ID()); err != nil {
		return sharedApplication.FailedWith(updateFailurePrefix, err)
	}
	if err := h.repo.Save(ctx, customer); err != nil {
		return sharedApplication.FailedWith(updateFailurePrefix, err)
	}

	h.logger.InfoContext(ctx, "customer updated", "customer_id", customer.ID(), "code", customer.Code())
	return sharedApplication.Succeeded(fmt.Sprintf("Successfully updated customer '%s'", customer.Name()))
}

func (h *DeleteCustomerHandler) Handle(ctx context.Context, cmd DeleteCustomerCommand) (result sharedApplication.CommandResult) {
	defer sharedApplication.Recover(&result, deleteFailurePrefix)

	customer, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return sharedApplication.FailedWith(deleteFailurePrefix, notFound(err, cmd.ID))
	}
	if err := h.repo.Delete(ctx, customer.ID()); err != nil {
		return sharedApplication.FailedWith(deleteFailurePrefix, notFound(err, cmd.ID))
	}

	h.logger.InfoContext(ctx, "customer deleted", "customer_id", customer.ID(), "code", customer.Code())
	return sharedApplication.Succeeded(fmt.Sprintf("Successfully deleted customer '%s'", customer.Name()))
}

// ensureCodeFree fails when a customer other than self holds code.
func (h customerHandler) ensureCodeFree(ctx context.Context, code string, self uuid.UUID) error {
	existing, err := h.repo.FindByCode(ctx, code)
	switch {
	case errors.Is(err, sharedDomain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID() != self:
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, code)
	}
	return nil
}

func notFound(err error, id uuid.UUID) error {
	if errors.Is(err, sharedDomain.ErrNotFound) {
		return fmt.Errorf("customer %s: %w", id, err)
	}
	return err
}
