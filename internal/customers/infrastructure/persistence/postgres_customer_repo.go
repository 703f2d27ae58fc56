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

// PostgresCustomerRepository implements domain.Repository on PostgreSQL.
type PostgresCustomerRepository struct {
	conn database.Connection
}

// NewPostgresCustomerRepository creates a new PostgresCustomerRepository.
func NewPostgresCustomerRepository(conn database.Connection) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{conn: conn}
}

func (r *PostgresCustomerRepository) Save(ctx context.Context, c *domain.Customer) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			updated_at = EXCLUDED.updated_at`,
		c.ID(), c.Code(), c.Name(), c.CreatedAt(), c.UpdatedAt(),
	)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, c.Code())
	}
	if err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

func (r *PostgresCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return r.scanOne(row)
}

func (r *PostgresCustomerRepository) FindByCode(ctx context.Context, code string) (*domain.Customer, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE code = $1`, code)
	return r.scanOne(row)
}

func (r *PostgresCustomerRepository) List(ctx context.Context, page, size int) ([]*domain.Customer, int, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	var total int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	rows, err := exec.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY name, code LIMIT $1 OFFSET $2`,
		size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanPostgresCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *PostgresCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sharedDomain.ErrNotFound
	}
	return nil
}

func (r *PostgresCustomerRepository) scanOne(row database.Row) (*domain.Customer, error) {
	c, err := scanPostgresCustomer(row)
	if database.IsNoRows(err) {
		return nil, sharedDomain.ErrNotFound
	}
	return c, err
}

func scanPostgresCustomer(row database.Row) (*domain.Customer, error) {
	var (
		id                 uuid.UUID
		code, name         string
		createdAt, updated time.Time
	)
	if err := row.Scan(&id, &code, &name, &createdAt, &updated); err != nil {
		return nil, err
	}
	return domain.RehydrateCustomer(id, code, name, createdAt, updated), nil
}
