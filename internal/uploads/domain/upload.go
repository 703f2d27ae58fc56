// Package domain models uploaded files and the storage they live in.
package domain

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyGroupID  = errors.New("group id is required")
	ErrEmptyFileName = errors.New("file name is required")
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyLocator  = errors.New("locator is required")
)

// Upload is the metadata record of a file persisted in a FileStore.
type Upload struct {
	sharedDomain.BaseEntity
	groupID     string
	fileName    string
	username    string
	storageKey  string
	locator     string
	size        int64
	contentType string
}

// ValidateUploadInput checks the fields an upload record needs before any
// bytes are written.
func ValidateUploadInput(groupID, fileName, username string) error {
	switch {
	case groupID == "":
		return ErrEmptyGroupID
	case fileName == "":
		return ErrEmptyFileName
	case username == "":
		return ErrEmptyUsername
	}
	return nil
}

// NewUpload records a file already written to storage.
func NewUpload(groupID, fileName, username, storageKey, locator string, data []byte) (*Upload, error) {
	if err := ValidateUploadInput(groupID, fileName, username); err != nil {
		return nil, err
	}
	if locator == "" {
		return nil, ErrEmptyLocator
	}

	return &Upload{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		groupID:     groupID,
		fileName:    fileName,
		username:    username,
		storageKey:  storageKey,
		locator:     locator,
		size:        int64(len(data)),
		contentType: detectContentType(fileName, data),
	}, nil
}

// RehydrateUpload rebuilds an upload from persisted state.
func RehydrateUpload(id uuid.UUID, groupID, fileName, username, storageKey, locator string, size int64, contentType string, uploadedAt time.Time) *Upload {
	return &Upload{
		BaseEntity:  sharedDomain.RehydrateBaseEntity(id, uploadedAt, uploadedAt),
		groupID:     groupID,
		fileName:    fileName,
		username:    username,
		storageKey:  storageKey,
		locator:     locator,
		size:        size,
		contentType: contentType,
	}
}

func (u *Upload) GroupID() string       { return u.groupID }
func (u *Upload) FileName() string      { return u.fileName }
func (u *Upload) Username() string      { return u.username }
func (u *Upload) StorageKey() string    { return u.storageKey }
func (u *Upload) Locator() string       { return u.locator }
func (u *Upload) Size() int64           { return u.size }
func (u *Upload) ContentType() string   { return u.contentType }
func (u *Upload) UploadedAt() time.Time { return u.CreatedAt() }

// detectContentType prefers the extension and falls back to sniffing.
func detectContentType(fileName string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
