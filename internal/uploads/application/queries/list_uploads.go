// Package queries holds the uploads read side.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	"github.com/felixgeelhaar/tenantry/internal/uploads/domain"
)

// UploadDTO is the read model of an upload.
type UploadDTO struct {
	ID          uuid.UUID `json:"id"`
	GroupID     string    `json:"group_id"`
	FileName    string    `json:"file_name"`
	Username    string    `json:"username"`
	Locator     string    `json:"locator"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ListUploadsQuery lists the uploads of a group, oldest first.
type ListUploadsQuery struct {
	GroupID string
}

func (ListUploadsQuery) QueryName() string { return "uploads.list" }

// ListUploadsHandler handles ListUploadsQuery.
type ListUploadsHandler struct {
	repo domain.Repository
}

var _ sharedApplication.QueryHandler[ListUploadsQuery, []UploadDTO] = (*ListUploadsHandler)(nil)

// NewListUploadsHandler creates a new ListUploadsHandler.
func NewListUploadsHandler(repo domain.Repository) *ListUploadsHandler {
	return &ListUploadsHandler{repo: repo}
}

// Handle executes the query.
func (h *ListUploadsHandler) Handle(ctx context.Context, q ListUploadsQuery) ([]UploadDTO, error) {
	if q.GroupID == "" {
		return nil, domain.ErrEmptyGroupID
	}
	uploads, err := h.repo.ListByGroup(ctx, q.GroupID)
	if err != nil {
		return nil, err
	}

	dtos := make([]UploadDTO, 0, len(uploads))
	for _, u := range uploads {
		dtos = append(dtos, UploadDTO{
			ID:          u.ID(),
			GroupID:     u.GroupID(),
			FileName:    u.FileName(),
			Username:    u.Username(),
			Locator:     u.Locator(),
			Size:        u.Size(),
			ContentType: u.ContentType(),
			UploadedAt:  u.UploadedAt(),
		})
	}
	return dtos, nil
}
