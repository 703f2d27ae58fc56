package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tenantry/internal/customers/domain"
	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

func TestValidateImportHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("valid files", func(t *testing.T) {
		up := newFakeUploads()
		up.add("7", "a.csv", "code,name\nC1,Acme\n")
		up.add("7", "b.csv", "C2,Globex\n")

		result := NewValidateImportHandler(up, fileStore{up}, nil).Handle(ctx, ImportCustomersCommand{GroupID: "7"})
		assert.True(t, result.Success)
		assert.Equal(t, "Validated 2 files", result.Message)
	})

	t.Run("no uploads", func(t *testing.T) {
		up := newFakeUploads()
		result := NewValidateImportHandler(up, fileStore{up}, nil).Handle(ctx, ImportCustomersCommand{GroupID: "7"})
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Err, ErrNoUploads)
	})

	t.Run("reports every invalid file", func(t *testing.T) {
		up := newFakeUploads()
		up.add("7", "a.csv", "C1,Acme,extra\n")
		up.add("7", "b.csv", "C2,Globex\n")
		up.add("7", "c.csv", "C3,\n")

		result := NewValidateImportHandler(up, fileStore{up}, nil).Handle(ctx, ImportCustomersCommand{GroupID: "7"})
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "The uploaded files could not be validated: a.csv:")
		assert.Contains(t, result.Message, "; c.csv:")
		assert.NotContains(t, result.Message, "b.csv")
		assert.ErrorIs(t, result.Err, domain.ErrInvalidImportFile)
		assert.ErrorIs(t, result.Err, domain.ErrEmptyName)
	})
}

func TestImportCustomersHandler(t *testing.T) {
	ctx := context.Background()
	up := newFakeUploads()
	up.add("7", "a.csv", "code,name\nC1,Acme\nC2,Globex\n")
	up.add("7", "b.csv", "C2,Globex Corp\nC3,Initech\n")
	up.add("8", "other.csv", "C9,Elsewhere\n")

	customers := newMemCustomerRepo()
	existing, _ := domain.NewCustomer("C1", "Old Acme")
	require.NoError(t, customers.Save(ctx, existing))

	uow := &recordingUnitOfWork{}
	metrics := observability.NewInMemoryMetrics()
	handler := NewImportCustomersHandler(up, fileStore{up}, customers, uow, nil, metrics)

	result := handler.Handle(ctx, ImportCustomersCommand{GroupID: "7", RequestedBy: "alice"})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "Imported 3 customers from 2 files", result.Message)
	assert.Equal(t, existing.ID(), customers.byCode("C1").ID())
	assert.Equal(t, "Acme", customers.byCode("C1").Name())
	assert.Equal(t, "Globex Corp", customers.byCode("C2").Name())
	assert.NotNil(t, customers.byCode("C3"))
	assert.Nil(t, customers.byCode("C9"))
	assert.Equal(t, 1, uow.committed)
	assert.Equal(t, int64(3), metrics.GetCounter(observability.MetricCustomersImported, observability.T("group", "7")))
}

func TestImportCustomersHandler_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid file writes nothing", func(t *testing.T) {
		up := newFakeUploads()
		up.add("7", "a.csv", "C1,Acme\n")
		up.add("7", "b.csv", "C2\n")
		customers := newMemCustomerRepo()
		uow := &recordingUnitOfWork{}

		result := NewImportCustomersHandler(up, fileStore{up}, customers, uow, nil, nil).
			Handle(ctx, ImportCustomersCommand{GroupID: "7"})

		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "An error occurred importing customers: b.csv:")
		assert.Nil(t, customers.byCode("C1"))
		assert.Zero(t, uow.begun)
	})

	t.Run("save failure rolls back", func(t *testing.T) {
		up := newFakeUploads()
		up.add("7", "a.csv", "C1,Acme\n")
		customers := newMemCustomerRepo()
		customers.saveErr = errors.New("disk I/O error")
		uow := &recordingUnitOfWork{}

		result := NewImportCustomersHandler(up, fileStore{up}, customers, uow, nil, nil).
			Handle(ctx, ImportCustomersCommand{GroupID: "7"})

		assert.False(t, result.Success)
		assert.Equal(t, 1, uow.rolledBack)
		assert.Zero(t, uow.committed)
	})

	t.Run("missing stored file", func(t *testing.T) {
		up := newFakeUploads()
		up.add("7", "a.csv", "C1,Acme\n")
		delete(up.files, up.uploads[0].Locator())

		result := NewImportCustomersHandler(up, fileStore{up}, newMemCustomerRepo(), nil, nil, nil).
			Handle(ctx, ImportCustomersCommand{GroupID: "7"})
		assert.False(t, result.Success)
	})
}

func TestImportNotificationHandler(t *testing.T) {
	ctx := observability.WithCorrelationID(context.Background(), "corr-1")
	up := newFakeUploads()
	up.add("7", "a.csv", "C1,Acme\n")
	publisher := new(mockPublisher)

	var published sharedDomain.Event
	publisher.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(sharedDomain.Event) }).
		Return(nil).Once()

	result := NewImportNotificationHandler(up, publisher, nil).
		Handle(ctx, ImportCustomersCommand{GroupID: "7", RequestedBy: "alice"})

	require.True(t, result.Success)
	assert.Empty(t, result.Message)
	publisher.AssertExpectations(t)

	assert.Equal(t, ImportCompletedRoutingKey, published.RoutingKey)
	assert.Equal(t, "corr-1", published.Metadata.CorrelationID)
	assert.Equal(t, "alice", published.Metadata.Actor)
	var payload ImportCompletedPayload
	require.NoError(t, json.Unmarshal(published.Payload, &payload))
	assert.Equal(t, ImportCompletedPayload{GroupID: "7", RequestedBy: "alice", Files: []string{"a.csv"}}, payload)
}

func TestImportNotificationHandler_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("no uploads publishes nothing", func(t *testing.T) {
		publisher := new(mockPublisher)
		result := NewImportNotificationHandler(newFakeUploads(), publisher, nil).
			Handle(ctx, ImportCustomersCommand{GroupID: "7"})
		assert.True(t, result.Success)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("broker error", func(t *testing.T) {
		up := newFakeUploads()
		up.add("7", "a.csv", "C1,Acme\n")
		publisher := new(mockPublisher)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

		result := NewImportNotificationHandler(up, publisher, nil).
			Handle(ctx, ImportCustomersCommand{GroupID: "7"})
		assert.False(t, result.Success)
		assert.Equal(t, "The import notification could not be sent: channel closed", result.Message)
	})
}

// The import fans out to three handlers whose results are aggregated in
// registration order.
func TestImportCustomers_FanOut(t *testing.T) {
	ctx := context.Background()
	up := newFakeUploads()
	up.add("7", "a.csv", "C1,Acme\n")
	customers := newMemCustomerRepo()
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	registry := sharedApplication.NewRegistry()
	sharedApplication.MustRegister[ImportCustomersCommand](registry, NewValidateImportHandler(up, fileStore{up}, nil))
	sharedApplication.MustRegister[ImportCustomersCommand](registry, NewImportCustomersHandler(up, fileStore{up}, customers, nil, nil, nil))
	sharedApplication.MustRegister[ImportCustomersCommand](registry, NewImportNotificationHandler(up, publisher, nil))
	processor := sharedApplication.NewProcessor(registry)

	results, err := processor.Process(ctx, ImportCustomersCommand{GroupID: "7", RequestedBy: "alice"})
	require.NoError(t, err)
	assert.True(t, results.Success())
	assert.Equal(t, 3, results.Len())
	assert.Equal(t, []string{"Validated 1 files", "Imported 1 customers from 1 files"}, results.Messages())
	assert.Equal(t,
		[]string{"ValidateImportHandler", "ImportCustomersHandler", "ImportNotificationHandler"},
		registry.HandlerNames(ImportCustomersCommand{}))

	up.add("7", "bad.csv", "C2\n")
	results, err = processor.Process(ctx, ImportCustomersCommand{GroupID: "7"})
	require.NoError(t, err)
	assert.False(t, results.Success())
	assert.Len(t, results.Failures(), 2)
}
