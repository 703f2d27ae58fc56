// Package persistence stores upload records in SQLite or PostgreSQL.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tenantry/internal/uploads/domain"
)

const uploadColumns = `id, group_id, file_name, username, storage_key, locator, size, content_type, uploaded_at`

// sqliteTimeFormat is fixed width so stored timestamps sort lexically.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteUploadRepository implements domain.Repository on SQLite.
type SQLiteUploadRepository struct {
	conn database.Connection
}

// NewSQLiteUploadRepository creates a new SQLiteUploadRepository.
func NewSQLiteUploadRepository(conn database.Connection) *SQLiteUploadRepository {
	return &SQLiteUploadRepository{conn: conn}
}

// Save inserts the upload, replacing a previous record with the same ID.
func (r *SQLiteUploadRepository) Save(ctx context.Context, u *domain.Upload) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO uploads (`+uploadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			file_name = excluded.file_name,
			locator = excluded.locator,
			size = excluded.size,
			content_type = excluded.content_type`,
		u.ID().String(), u.GroupID(), u.FileName(), u.Username(), u.StorageKey(),
		u.Locator(), u.Size(), u.ContentType(), u.UploadedAt().UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

// FindByID returns sharedDomain.ErrNotFound when no upload has the ID.
func (r *SQLiteUploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Upload, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+uploadColumns+` FROM uploads WHERE id = ?`, id.String())
	u, err := scanSQLiteUpload(row)
	if database.IsNoRows(err) {
		return nil, sharedDomain.ErrNotFound
	}
	return u, err
}

// ListByGroup returns the group's uploads, oldest first.
func (r *SQLiteUploadRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.Upload, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx,
		`SELECT `+uploadColumns+` FROM uploads WHERE group_id = ? ORDER BY uploaded_at, storage_key`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*domain.Upload
	for rows.Next() {
		u, err := scanSQLiteUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// Delete removes the record; the stored bytes are left untouched.
func (r *SQLiteUploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM uploads WHERE id = ?`, id.String())
	return err
}

func scanSQLiteUpload(row database.Row) (*domain.Upload, error) {
	var (
		id, groupID, fileName, username, key, locator, contentType, uploadedAt string
		size                                                                   int64
	)
	if err := row.Scan(&id, &groupID, &fileName, &username, &key, &locator, &size, &contentType, &uploadedAt); err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse upload id: %w", err)
	}
	at, err := time.Parse(sqliteTimeFormat, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("parse uploaded_at: %w", err)
	}
	return domain.RehydrateUpload(parsedID, groupID, fileName, username, key, locator, size, contentType, at), nil
}
