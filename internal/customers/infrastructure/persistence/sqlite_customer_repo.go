// Package persistence stores customers in SQLite or PostgreSQL.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/tenantry/internal/customers/domain"
	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/database"
)

const customerColumns = `id, code, name, created_at, updated_at`

// sqliteTimeFormat is fixed width so stored timestamps sort lexically.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteCustomerRepository implements domain.Repository on SQLite.
type SQLiteCustomerRepository struct {
	conn database.Connection
}

// NewSQLiteCustomerRepository creates a new SQLiteCustomerRepository.
func NewSQLiteCustomerRepository(conn database.Connection) *SQLiteCustomerRepository {
	return &SQLiteCustomerRepository{conn: conn}
}

func (r *SQLiteCustomerRepository) Save(ctx context.Context, c *domain.Customer) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			updated_at = excluded.updated_at`,
		c.ID().String(), c.Code(), c.Name(),
		c.CreatedAt().UTC().Format(sqliteTimeFormat),
		c.UpdatedAt().UTC().Format(sqliteTimeFormat),
	)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, c.Code())
	}
	if err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

func (r *SQLiteCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id.String())
	return r.scanOne(row)
}

func (r *SQLiteCustomerRepository) FindByCode(ctx context.Context, code string) (*domain.Customer, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE code = ?`, code)
	return r.scanOne(row)
}

func (r *SQLiteCustomerRepository) List(ctx context.Context, page, size int) ([]*domain.Customer, int, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	var total int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	rows, err := exec.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY name, code LIMIT ? OFFSET ?`,
		size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanSQLiteCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *SQLiteCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM customers WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sharedDomain.ErrNotFound
	}
	return nil
}

func (r *SQLiteCustomerRepository) scanOne(row database.Row) (*domain.Customer, error) {
	c, err := scanSQLiteCustomer(row)
	if database.IsNoRows(err) {
		return nil, sharedDomain.ErrNotFound
	}
	return c, err
}

func scanSQLiteCustomer(row database.Row) (*domain.Customer, error) {
	var id, code, name, createdAt, updatedAt string
	if err := row.Scan(&id, &code, &name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse customer id: %w", err)
	}
	created, err := time.Parse(sqliteTimeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := time.Parse(sqliteTimeFormat, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return domain.RehydrateCustomer(parsedID, code, name, created, updated), nil
}
