// Package mcp exposes tenantry commands and queries as MCP tools.
package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"

	customerCommands "github.com/felixgeelhaar/tenantry/internal/customers/application/commands"
	customerQueries "github.com/felixgeelhaar/tenantry/internal/customers/application/queries"
	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	uploadCommands "github.com/felixgeelhaar/tenantry/internal/uploads/application/commands"
	uploadQueries "github.com/felixgeelhaar/tenantry/internal/uploads/application/queries"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	Processor     sharedApplication.CommandProcessor
	ListUploads   sharedApplication.QueryHandler[uploadQueries.ListUploadsQuery, []uploadQueries.UploadDTO]
	ListCustomers sharedApplication.QueryHandler[customerQueries.ListCustomersQuery, customerQueries.CustomerPage]
	GetCustomer   sharedApplication.QueryHandler[customerQueries.GetCustomerQuery, customerQueries.CustomerDTO]
	Health        *observability.HealthRegistry
	// Actor is recorded as the uploader and import requester.
	Actor string
}

// CommandOutput is the tool result of a dispatched command.
type CommandOutput struct {
	Success  bool     `json:"success"`
	Messages []string `json:"messages,omitempty"`
}

type customerInput struct {
	Code string `json:"code" jsonschema:"required"`
	Name string `json:"name" jsonschema:"required"`
}

type customerUpdateInput struct {
	ID   string `json:"id" jsonschema:"required"`
	Code string `json:"code" jsonschema:"required"`
	Name string `json:"name" jsonschema:"required"`
}

type customerIDInput struct {
	ID string `json:"id" jsonschema:"required"`
}

type customerListInput struct {
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

type uploadInput struct {
	GroupID  string `json:"group_id" jsonschema:"required"`
	FileName string `json:"file_name" jsonschema:"required"`
	// Content is the file body; set Base64 when it is encoded.
	Content string `json:"content" jsonschema:"required"`
	Base64  bool   `json:"base64,omitempty"`
}

type groupInput struct {
	GroupID string `json:"group_id" jsonschema:"required"`
}

// RegisterTools registers every tenantry tool on srv.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.Processor == nil {
		return errors.New("command processor is required")
	}
	t := tools{deps: deps}

	srv.Tool("customer.create").
		Description("Create a customer with a unique code").
		Handler(t.createCustomer)
	srv.Tool("customer.update").
		Description("Change a customer's code and name").
		Handler(t.updateCustomer)
	srv.Tool("customer.delete").
		Description("Delete a customer").
		Handler(t.deleteCustomer)
	srv.Tool("customer.get").
		Description("Get a customer by ID").
		Handler(t.getCustomer)
	srv.Tool("customer.list").
		Description("List customers ordered by name, one page at a time").
		Handler(t.listCustomers)
	srv.Tool("customer.import").
		Description("Import customers from every CSV file uploaded for a group").
		Handler(t.importCustomers)
	srv.Tool("upload.file").
		Description("Upload a code,name CSV file for a group").
		Handler(t.uploadFile)
	srv.Tool("upload.list").
		Description("List the files uploaded for a group").
		Handler(t.listUploads)

	return nil
}

type tools struct {
	deps ToolDependencies
}

func (t tools) dispatch(ctx context.Context, cmd sharedApplication.Command) (CommandOutput, error) {
	results, err := t.deps.Processor.Process(ctx, cmd)
	if err != nil {
		return CommandOutput{}, err
	}
	return CommandOutput{Success: results.Success(), Messages: results.Messages()}, nil
}

func (t tools) createCustomer(ctx context.Context, input customerInput) (CommandOutput, error) {
	return t.dispatch(ctx, customerCommands.CreateCustomerCommand{Code: input.Code, Name: input.Name})
}

func (t tools) updateCustomer(ctx context.Context, input customerUpdateInput) (CommandOutput, error) {
	id, err := parseUUID(input.ID)
	if err != nil {
		return CommandOutput{}, err
	}
	return t.dispatch(ctx, customerCommands.UpdateCustomerCommand{ID: id, Code: input.Code, Name: input.Name})
}

func (t tools) deleteCustomer(ctx context.Context, input customerIDInput) (CommandOutput, error) {
	id, err := parseUUID(input.ID)
	if err != nil {
		return CommandOutput{}, err
	}
	return t.dispatch(ctx, customerCommands.DeleteCustomerCommand{ID: id})
}

func (t tools) getCustomer(ctx context.Context, input customerIDInput) (customerQueries.CustomerDTO, error) {
	if t.deps.GetCustomer == nil {
		return customerQueries.CustomerDTO{}, errors.New("customer lookup is not configured")
	}
	id, err := parseUUID(input.ID)
	if err != nil {
		return customerQueries.CustomerDTO{}, err
	}
	return t.deps.GetCustomer.Handle(ctx, customerQueries.GetCustomerQuery{ID: id})
}

func (t tools) listCustomers(ctx context.Context, input customerListInput) (customerQueries.CustomerPage, error) {
	if t.deps.ListCustomers == nil {
		return customerQueries.CustomerPage{}, errors.New("customer listing is not configured")
	}
	return t.deps.ListCustomers.Handle(ctx, customerQueries.ListCustomersQuery{Page: input.Page, PageSize: input.PageSize})
}

func (t tools) importCustomers(ctx context.Context, input groupInput) (CommandOutput, error) {
	return t.dispatch(ctx, customerCommands.ImportCustomersCommand{GroupID: input.GroupID, RequestedBy: t.deps.Actor})
}

func (t tools) uploadFile(ctx context.Context, input uploadInput) (CommandOutput, error) {
	data := []byte(input.Content)
	if input.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(input.Content)
		if err != nil {
			return CommandOutput{}, fmt.Errorf("content is not valid base64: %w", err)
		}
		data = decoded
	}
	return t.dispatch(ctx, uploadCommands.UploadFileCommand{
		GroupID:  input.GroupID,
		FileName: input.FileName,
		Data:     data,
		Username: t.deps.Actor,
	})
}

func (t tools) listUploads(ctx context.Context, input groupInput) ([]uploadQueries.UploadDTO, error) {
	if t.deps.ListUploads == nil {
		return nil, errors.New("upload listing is not configured")
	}
	return t.deps.ListUploads.Handle(ctx, uploadQueries.ListUploadsQuery{GroupID: input.GroupID})
}

func parseUUID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", value, err)
	}
	return id, nil
}
