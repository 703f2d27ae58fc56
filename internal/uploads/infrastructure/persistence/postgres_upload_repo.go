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

// PostgresUploadRepository implements domain.Repository on PostgreSQL.
type PostgresUploadRepository struct {
	conn database.Connection
}

// NewPostgresUploadRepository creates a new PostgresUploadRepository.
func NewPostgresUploadRepository(conn database.Connection) *PostgresUploadRepository {
	return &PostgresUploadRepository{conn: conn}
}

func (r *PostgresUploadRepository) Save(ctx context.Context, u *domain.Upload) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO uploads (`+uploadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			locator = EXCLUDED.locator,
			size = EXCLUDED.size,
			content_type = EXCLUDED.content_type`,
		u.ID(), u.GroupID(), u.FileName(), u.Username(), u.StorageKey(),
		u.Locator(), u.Size(), u.ContentType(), u.UploadedAt(),
	)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

func (r *PostgresUploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Upload, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+uploadColumns+` FROM uploads WHERE id = $1`, id)
	u, err := scanPostgresUpload(row)
	if database.IsNoRows(err) {
		return nil, sharedDomain.ErrNotFound
	}
	return u, err
}

func (r *PostgresUploadRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.Upload, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx,
		`SELECT `+uploadColumns+` FROM uploads WHERE group_id = $1 ORDER BY uploaded_at, storage_key`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*domain.Upload
	for rows.Next() {
		u, err := scanPostgresUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

func (r *PostgresUploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM uploads WHERE id = $1`, id)
	return err
}

func scanPostgresUpload(row database.Row) (*domain.Upload, error) {
	var (
		id                                                     uuid.UUID
		groupID, fileName, username, key, locator, contentType string
		size                                                   int64
		uploadedAt                                             time.Time
	)
	if err := row.Scan(&id, &groupID, &fileName, &username, &key, &locator, &size, &contentType, &uploadedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateUpload(id, groupID, fileName, username, key, locator, size, contentType, uploadedAt.UTC()), nil
}
