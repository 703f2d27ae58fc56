package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerCommands "github.com/felixgeelhaar/tenantry/internal/customers/application/commands"
	customerQueries "github.com/felixgeelhaar/tenantry/internal/customers/application/queries"
	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	uploadCommands "github.com/felixgeelhaar/tenantry/internal/uploads/application/commands"
	uploadQueries "github.com/felixgeelhaar/tenantry/internal/uploads/application/queries"
)

type fakeProcessor struct {
	commands []sharedApplication.Command
	results  sharedApplication.CommandResults
	err      error
}

func (p *fakeProcessor) Process(_ context.Context, cmd sharedApplication.Command) (sharedApplication.CommandResults, error) {
	p.commands = append(p.commands, cmd)
	return p.results, p.err
}

func TestRegisterTools_ListTools(t *testing.T) {
	srv, err := NewServer(ToolDependencies{Processor: &fakeProcessor{}})
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	names := make(map[any]bool, len(tools))
	for _, tool := range tools {
		names[tool["name"]] = true
	}
	for _, want := range []string{
		"customer.create", "customer.update", "customer.delete", "customer.get",
		"customer.list", "customer.import", "upload.file", "upload.list",
	} {
		assert.True(t, names[want], "%s tool should be registered", want)
	}
}

func TestRegisterTools_RequiresProcessor(t *testing.T) {
	_, err := NewServer(ToolDependencies{})
	require.Error(t, err)
}

func TestTools_CreateCustomer(t *testing.T) {
	proc := &fakeProcessor{results: sharedApplication.NewCommandResults(
		sharedApplication.Succeeded("Successfully created customer 'ACME'"),
	)}
	tl := tools{deps: ToolDependencies{Processor: proc}}

	out, err := tl.createCustomer(context.Background(), customerInput{Code: "ACME", Name: "Acme Corp"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, []string{"Successfully created customer 'ACME'"}, out.Messages)
	require.Len(t, proc.commands, 1)
	assert.Equal(t, customerCommands.CreateCustomerCommand{Code: "ACME", Name: "Acme Corp"}, proc.commands[0])
}

func TestTools_FailedResultIsNotAnError(t *testing.T) {
	proc := &fakeProcessor{results: sharedApplication.NewCommandResults(
		sharedApplication.Succeeded("Validated 1 files"),
		sharedApplication.Failed("An error occurred importing customers: boom", errors.New("boom")),
	)}
	tl := tools{deps: ToolDependencies{Processor: proc, Actor: "mcp"}}

	out, err := tl.importCustomers(context.Background(), groupInput{GroupID: "g1"})
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Len(t, out.Messages, 2)
	assert.Equal(t, customerCommands.ImportCustomersCommand{GroupID: "g1", RequestedBy: "mcp"}, proc.commands[0])
}

func TestTools_DispatchErrorPropagates(t *testing.T) {
	proc := &fakeProcessor{err: sharedApplication.ErrHandlerNotFound}
	tl := tools{deps: ToolDependencies{Processor: proc}}

	_, err := tl.deleteCustomer(context.Background(), customerIDInput{ID: uuid.NewString()})
	assert.ErrorIs(t, err, sharedApplication.ErrHandlerNotFound)
}

func TestTools_InvalidID(t *testing.T) {
	proc := &fakeProcessor{}
	tl := tools{deps: ToolDependencies{Processor: proc}}

	_, err := tl.updateCustomer(context.Background(), customerUpdateInput{ID: "nope", Code: "A", Name: "B"})
	require.Error(t, err)
	assert.Empty(t, proc.commands)
}

func TestTools_UploadFile(t *testing.T) {
	t.Run("plain content", func(t *testing.T) {
		proc := &fakeProcessor{}
		tl := tools{deps: ToolDependencies{Processor: proc, Actor: "mcp"}}

		_, err := tl.uploadFile(context.Background(), uploadInput{GroupID: "g1", FileName: "a.csv", Content: "A,Acme"})
		require.NoError(t, err)

		cmd := proc.commands[0].(uploadCommands.UploadFileCommand)
		assert.Equal(t, []byte("A,Acme"), cmd.Data)
		assert.Equal(t, "mcp", cmd.Username)
	})

	t.Run("base64 content", func(t *testing.T) {
		proc := &fakeProcessor{}
		tl := tools{deps: ToolDependencies{Processor: proc}}

		encoded := base64.StdEncoding.EncodeToString([]byte{0x00, 0xff})
		_, err := tl.uploadFile(context.Background(), uploadInput{GroupID: "g1", FileName: "a.bin", Content: encoded, Base64: true})
		require.NoError(t, err)

		cmd := proc.commands[0].(uploadCommands.UploadFileCommand)
		assert.Equal(t, []byte{0x00, 0xff}, cmd.Data)
	})

	t.Run("invalid base64", func(t *testing.T) {
		proc := &fakeProcessor{}
		tl := tools{deps: ToolDependencies{Processor: proc}}

		_, err := tl.uploadFile(context.Background(), uploadInput{GroupID: "g1", FileName: "a", Content: "%%%", Base64: true})
		require.Error(t, err)
		assert.Empty(t, proc.commands)
	})
}

func TestTools_Queries(t *testing.T) {
	id := uuid.New()
	tl := tools{deps: ToolDependencies{
		Processor: &fakeProcessor{},
		ListUploads: sharedApplication.QueryHandlerFunc[uploadQueries.ListUploadsQuery, []uploadQueries.UploadDTO](
			func(_ context.Context, q uploadQueries.ListUploadsQuery) ([]uploadQueries.UploadDTO, error) {
				return []uploadQueries.UploadDTO{{GroupID: q.GroupID, FileName: "a.csv"}}, nil
			}),
		ListCustomers: sharedApplication.QueryHandlerFunc[customerQueries.ListCustomersQuery, customerQueries.CustomerPage](
			func(_ context.Context, q customerQueries.ListCustomersQuery) (customerQueries.CustomerPage, error) {
				return customerQueries.CustomerPage{Page: q.Page, PageSize: q.PageSize}, nil
			}),
		GetCustomer: sharedApplication.QueryHandlerFunc[customerQueries.GetCustomerQuery, customerQueries.CustomerDTO](
			func(_ context.Context, q customerQueries.GetCustomerQuery) (customerQueries.CustomerDTO, error) {
				return customerQueries.CustomerDTO{ID: q.ID, Code: "A"}, nil
			}),
	}}
	ctx := context.Background()

	uploads, err := tl.listUploads(ctx, groupInput{GroupID: "g1"})
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "g1", uploads[0].GroupID)

	page, err := tl.listCustomers(ctx, customerListInput{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)

	customer, err := tl.getCustomer(ctx, customerIDInput{ID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, id, customer.ID)
}

func TestTools_QueriesNotConfigured(t *testing.T) {
	tl := tools{deps: ToolDependencies{Processor: &fakeProcessor{}}}

	_, err := tl.listUploads(context.Background(), groupInput{GroupID: "g1"})
	assert.Error(t, err)
	_, err = tl.listCustomers(context.Background(), customerListInput{})
	assert.Error(t, err)
}

func TestRegisterResourcesAndPrompts_RequireServer(t *testing.T) {
	assert.Error(t, RegisterResources(nil, ToolDependencies{}))
	assert.Error(t, RegisterPrompts(nil, ToolDependencies{}))
}
