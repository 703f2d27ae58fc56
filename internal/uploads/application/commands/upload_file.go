// Package commands holds the uploads write-side commands and their handlers.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	"github.com/felixgeelhaar/tenantry/internal/uploads/domain"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

// UploadFailurePrefix starts the message of every failed upload.
const UploadFailurePrefix = "A problem was encountered uploading the file"

// UploadFileCommand stores a file for a group on behalf of a user.
type UploadFileCommand struct {
	GroupID  string
	FileName string
	Data     []byte
	Username string
}

func (UploadFileCommand) CommandName() string { return "uploads.upload_file" }

// UploadFileHandler writes the bytes to the file store, then records the
// upload. The record is only written after the store has returned a locator.
type UploadFileHandler struct {
	store   domain.FileStore
	repo    domain.Repository
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewUploadFileHandler creates a new UploadFileHandler.
func NewUploadFileHandler(store domain.FileStore, repo domain.Repository, logger *slog.Logger, metrics observability.Metrics) *UploadFileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &UploadFileHandler{store: store, repo: repo, logger: logger, metrics: metrics}
}

// Handle executes the UploadFileCommand.
func (h *UploadFileHandler) Handle(ctx context.Context, cmd UploadFileCommand) (result sharedApplication.CommandResult) {
	defer sharedApplication.Recover(&result, UploadFailurePrefix)

	if err := domain.ValidateUploadInput(cmd.GroupID, cmd.FileName, cmd.Username); err != nil {
		return sharedApplication.FailedWith(UploadFailurePrefix, err)
	}
	key, err := domain.NewStorageKey(cmd.GroupID, cmd.FileName)
	if err != nil {
		return sharedApplication.FailedWith(UploadFailurePrefix, err)
	}

	locator, err := h.store.Save(ctx, key, cmd.Data)
	if err != nil {
		h.logger.ErrorContext(ctx, "file store write failed",
			"group_id", cmd.GroupID,
			"storage_key", key,
			"error", err,
		)
		return sharedApplication.FailedWith(UploadFailurePrefix, err)
	}

	upload, err := domain.NewUpload(cmd.GroupID, cmd.FileName, cmd.Username, key, locator, cmd.Data)
	if err == nil {
		err = h.repo.Save(ctx, upload)
	}
	if err != nil {
		// The bytes stay in the store; name them so the orphan can be found.
		h.logger.ErrorContext(ctx, "upload stored but not recorded",
			"group_id", cmd.GroupID,
			"locator", locator,
			"error", err,
		)
		return sharedApplication.FailedWith(UploadFailurePrefix,
			fmt.Errorf("file saved at %s but its record was not persisted: %w", locator, err))
	}

	h.metrics.Counter(observability.MetricUploadsStored, 1, observability.T("group", cmd.GroupID))
	h.metrics.Counter(observability.MetricUploadBytes, upload.Size(), observability.T("group", cmd.GroupID))
	h.logger.InfoContext(ctx, "file uploaded",
		"upload_id", upload.ID(),
		"group_id", cmd.GroupID,
		"locator", locator,
		"bytes", upload.Size(),
	)

	return sharedApplication.Succeeded("")
}
