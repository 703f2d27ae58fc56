package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	customerCommands "github.com/felixgeelhaar/tenantry/internal/customers/application/commands"
	customerQueries "github.com/felixgeelhaar/tenantry/internal/customers/application/queries"
	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
	uploadCommands "github.com/felixgeelhaar/tenantry/internal/uploads/application/commands"
	uploadQueries "github.com/felixgeelhaar/tenantry/internal/uploads/application/queries"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

const (
	StatusOK    = "OK"
	StatusError = "Error"

	// anonymousUser owns uploads made without an X-User header.
	anonymousUser = "anonymous"
)

// CommandResponse reports the outcome of a dispatched command.
type CommandResponse struct {
	Status   string   `json:"Status"`
	Messages []string `json:"Messages,omitempty"`
}

// Handler translates HTTP requests into commands and queries.
type Handler struct {
	processor      sharedApplication.CommandProcessor
	listUploads    sharedApplication.QueryHandler[uploadQueries.ListUploadsQuery, []uploadQueries.UploadDTO]
	listCustomers  sharedApplication.QueryHandler[customerQueries.ListCustomersQuery, customerQueries.CustomerPage]
	getCustomer    sharedApplication.QueryHandler[customerQueries.GetCustomerQuery, customerQueries.CustomerDTO]
	maxUploadBytes int64
	logger         *slog.Logger
}

// HandlerConfig holds dependencies for the handler.
type HandlerConfig struct {
	Processor      sharedApplication.CommandProcessor
	ListUploads    sharedApplication.QueryHandler[uploadQueries.ListUploadsQuery, []uploadQueries.UploadDTO]
	ListCustomers  sharedApplication.QueryHandler[customerQueries.ListCustomersQuery, customerQueries.CustomerPage]
	GetCustomer    sharedApplication.QueryHandler[customerQueries.GetCustomerQuery, customerQueries.CustomerDTO]
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultServerConfig().MaxUploadBytes
	}
	return &Handler{
		processor:      cfg.Processor,
		listUploads:    cfg.ListUploads,
		listCustomers:  cfg.ListCustomers,
		getCustomer:    cfg.GetCustomer,
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         cfg.Logger,
	}
}

// Upload handles POST /api/v1/groups/{groupID}/uploads with a multipart
// "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "Form field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	username := observability.ActorFromContext(r.Context())
	if username == "" {
		username = anonymousUser
	}
	h.dispatch(w, r, uploadCommands.UploadFileCommand{
		GroupID:  r.PathValue("groupID"),
		FileName: header.Filename,
		Data:     data,
		Username: username,
	}, http.StatusOK)
}

// ListUploads handles GET /api/v1/groups/{groupID}/uploads
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.listUploads.Handle(r.Context(), uploadQueries.ListUploadsQuery{GroupID: r.PathValue("groupID")})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list uploads", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list uploads")
		return
	}
	writeJSON(w, http.StatusOK, uploads)
}

// Import handles POST /api/v1/groups/{groupID}/import. It reports OK only
// when every import handler succeeded.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, customerCommands.ImportCustomersCommand{
		GroupID:     r.PathValue("groupID"),
		RequestedBy: observability.ActorFromContext(r.Context()),
	}, http.StatusOK)
}

// ListCustomers handles GET /api/v1/customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := h.listCustomers.Handle(r.Context(), customerQueries.ListCustomersQuery{
		Page:     parseIntParam(r, "page", 1),
		PageSize: parseIntParam(r, "page_size", customerQueries.DefaultPageSize),
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list customers", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list customers")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetCustomer handles GET /api/v1/customers/{id}
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	customer, err := h.getCustomer.Handle(r.Context(), customerQueries.GetCustomerQuery{ID: id})
	if errors.Is(err, sharedDomain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get customer", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get customer")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

type customerRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateCustomer handles POST /api/v1/customers
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.dispatch(w, r, customerCommands.CreateCustomerCommand{Code: req.Code, Name: req.Name}, http.StatusCreated)
}

// UpdateCustomer handles PUT /api/v1/customers/{id}
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.dispatch(w, r, customerCommands.UpdateCustomerCommand{ID: id, Code: req.Code, Name: req.Name}, http.StatusOK)
}

// DeleteCustomer handles DELETE /api/v1/customers/{id}
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, customerCommands.DeleteCustomerCommand{ID: id}, http.StatusOK)
}

// dispatch processes cmd and writes a CommandResponse. Failed results map to
// 422; failures after the request deadline map to 504 and a dispatch
// error maps to 500.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, cmd sharedApplication.Command, okStatus int) {
	results, err := h.processor.Process(r.Context(), cmd)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "command dispatch failed", "command", cmd.CommandName(), "error", err)
		writeError(w, http.StatusInternalServerError, "Command could not be processed")
		return
	}
	if !results.Success() {
		if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
			writeJSON(w, http.StatusGatewayTimeout, CommandResponse{Status: StatusError, Messages: results.Messages()})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, CommandResponse{Status: StatusError, Messages: results.Messages()})
		return
	}
	writeJSON(w, okStatus, CommandResponse{Status: StatusOK, Messages: results.Messages()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseIntParam parses an integer query parameter.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
