package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/tenantry/internal/customers/domain"
	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
	uploadsDomain "github.com/felixgeelhaar/tenantry/internal/uploads/domain"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

const (
	validateFailurePrefix = "The uploaded files could not be validated"
	importFailurePrefix   = "An error occurred importing customers"
	notifyFailurePrefix   = "The import notification could not be sent"

	// ImportCompletedRoutingKey is the routing key of the event published
	// after an import.
	ImportCompletedRoutingKey = "customers.import.completed"
)

// ErrNoUploads is returned when a group has nothing to import.
var ErrNoUploads = errors.New("no files have been uploaded for the group")

// ImportCustomersCommand imports every customer file uploaded for a group.
// It fans out to validation, import and notification handlers, registered in
// that order. Each handler reports its own result.
type ImportCustomersCommand struct {
	GroupID     string
	RequestedBy string
}

func (ImportCustomersCommand) CommandName() string { return "customers.import" }

// ImportCompletedPayload is the body of the customers.import.completed event.
type ImportCompletedPayload struct {
	GroupID     string   `json:"group_id"`
	RequestedBy string   `json:"requested_by"`
	Files       []string `json:"files"`
}

// EventPublisher sends integration events.
type EventPublisher interface {
	Publish(ctx context.Context, event sharedDomain.Event) error
}

// importSource loads and parses a group's uploads.
type importSource struct {
	uploads uploadsDomain.Repository
	store   uploadsDomain.FileStore
}

type parsedUpload struct {
	upload  *uploadsDomain.Upload
	records []domain.ImportRecord
	err     error
}

func (s importSource) load(ctx context.Context, groupID string) ([]parsedUpload, error) {
	if groupID == "" {
		return nil, uploadsDomain.ErrEmptyGroupID
	}
	uploads, err := s.uploads.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoUploads, groupID)
	}

	parsed := make([]parsedUpload, 0, len(uploads))
	for _, u := range uploads {
		p := parsedUpload{upload: u}
		data, err := s.store.Load(ctx, u.Locator())
		if err == nil {
			p.records, err = domain.ParseImportFile(data)
		}
		if err != nil {
			p.err = fmt.Errorf("%s: %w", u.FileName(), err)
		}
		parsed = append(parsed, p)
	}
	return parsed, nil
}

// ValidateImportHandler checks that the group has uploads and that each one
// parses as a customer file. It writes nothing.
type ValidateImportHandler struct {
	source importSource
	logger *slog.Logger
}

// NewValidateImportHandler creates a new ValidateImportHandler.
func NewValidateImportHandler(uploads uploadsDomain.Repository, store uploadsDomain.FileStore, logger *slog.Logger) *ValidateImportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateImportHandler{source: importSource{uploads: uploads, store: store}, logger: logger}
}

func (h *ValidateImportHandler) Handle(ctx context.Context, cmd ImportCustomersCommand) (result sharedApplication.CommandResult) {
	defer sharedApplication.Recover(&result, validateFailurePrefix)

	parsed, err := h.source.load(ctx, cmd.GroupID)
	if err != nil {
		return sharedApplication.FailedWith(validateFailurePrefix, err)
	}

	var (
		errs []error
		msgs []string
	)
	for _, p := range parsed {
		if p.err != nil {
			errs = append(errs, p.err)
			msgs = append(msgs, p.err.Error())
		}
	}
	if len(errs) > 0 {
		h.logger.WarnContext(ctx, "import validation failed",
			"group_id", cmd.GroupID,
			"invalid_files", len(errs),
		)
		return sharedApplication.Failed(validateFailurePrefix+": "+strings.Join(msgs, "; "), errors.Join(errs...))
	}

	return sharedApplication.Succeeded(fmt.Sprintf("Validated %d files", len(parsed)))
}

// ImportCustomersHandler upserts every customer in the group's uploads by
// code inside one unit of work. A later row for the same code wins. Nothing
// is written when any file fails to load or parse.
type ImportCustomersHandler struct {
	source    importSource
	customers domain.Repository
	uow       sharedApplication.UnitOfWork
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewImportCustomersHandler creates a new ImportCustomersHandler.
func NewImportCustomersHandler(
	uploads uploadsDomain.Repository,
	store uploadsDomain.FileStore,
	customers domain.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
	metrics observability.Metrics,
) *ImportCustomersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if uow == nil {
		uow = sharedApplication.NoopUnitOfWork{}
	}
	return &ImportCustomersHandler{
		source:    importSource{uploads: uploads, store: store},
		customers: customers,
		uow:       uow,
		logger:    logger,
		metrics:   metrics,
	}
}

func (h *ImportCustomersHandler) Handle(ctx context.Context, cmd ImportCustomersCommand) (result sharedApplication.CommandResult) {
	defer sharedApplication.Recover(&result, importFailurePrefix)

	parsed, err := h.source.load(ctx, cmd.GroupID)
	if err != nil {
		return sharedApplication.FailedWith(importFailurePrefix, err)
	}

	var (
		order  []string
		byCode = make(map[string]domain.ImportRecord)
	)
	for _, p := range parsed {
		if p.err != nil {
			return sharedApplication.FailedWith(importFailurePrefix, p.err)
		}
		for _, rec := range p.records {
			if _, seen := byCode[rec.Code]; !seen {
				order = append(order, rec.Code)
			}
			byCode[rec.Code] = rec
		}
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(ctx context.Context) error {
		for _, code := range order {
			if err := h.upsert(ctx, byCode[code]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "customer import failed", "group_id", cmd.GroupID, "error", err)
		return sharedApplication.FailedWith(importFailurePrefix, err)
	}

	h.metrics.Counter(observability.MetricCustomersImported, int64(len(order)), observability.T("group", cmd.GroupID))
	h.logger.InfoContext(ctx, "customers imported",
		"group_id", cmd.GroupID,
		"customers", len(order),
		"files", len(parsed),
	)
	return sharedApplication.Succeeded(fmt.Sprintf("Imported %d customers from %d files", len(order), len(parsed)))
}

func (h *ImportCustomersHandler) upsert(ctx context.Context, rec domain.ImportRecord) error {
	customer, err := h.customers.FindByCode(ctx, rec.Code)
	switch {
	case errors.Is(err, sharedDomain.ErrNotFound):
		customer, err = domain.NewCustomer(rec.Code, rec.Name)
	case err == nil:
		err = customer.Update(rec.Code, rec.Name)
	}
	if err != nil {
		return fmt.Errorf("customer %s (line %d): %w", rec.Code, rec.Line, err)
	}
	return h.customers.Save(ctx, customer)
}

// ImportNotificationHandler publishes customers.import.completed for the
// group. A group without uploads publishes nothing.
type ImportNotificationHandler struct {
	uploads   uploadsDomain.Repository
	publisher EventPublisher
	logger    *slog.Logger
}

// NewImportNotificationHandler creates a new ImportNotificationHandler.
func NewImportNotificationHandler(uploads uploadsDomain.Repository, publisher EventPublisher, logger *slog.Logger) *ImportNotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportNotificationHandler{uploads: uploads, publisher: publisher, logger: logger}
}

func (h *ImportNotificationHandler) Handle(ctx context.Context, cmd ImportCustomersCommand) (result sharedApplication.CommandResult) {
	defer sharedApplication.Recover(&result, notifyFailurePrefix)

	uploads, err := h.uploads.ListByGroup(ctx, cmd.GroupID)
	if err != nil {
		return sharedApplication.FailedWith(notifyFailurePrefix, err)
	}
	if len(uploads) == 0 {
		return sharedApplication.Succeeded("")
	}

	files := make([]string, 0, len(uploads))
	for _, u := range uploads {
		files = append(files, u.FileName())
	}
	event, err := sharedDomain.NewEvent(ImportCompletedRoutingKey,
		sharedApplication.NewEventMetadata(ctx, cmd.RequestedBy),
		ImportCompletedPayload{GroupID: cmd.GroupID, RequestedBy: cmd.RequestedBy, Files: files},
	)
	if err != nil {
		return sharedApplication.FailedWith(notifyFailurePrefix, err)
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "import notification failed", "group_id", cmd.GroupID, "error", err)
		return sharedApplication.FailedWith(notifyFailurePrefix, err)
	}

	h.logger.DebugContext(ctx, "import notification published", "group_id", cmd.GroupID, "event_id", event.ID)
	return sharedApplication.Succeeded("")
}
