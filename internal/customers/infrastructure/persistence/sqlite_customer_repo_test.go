package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tenantry/internal/customers/domain"
	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/migrations"
)

func setupCustomerTestDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := database.NewConnection(ctx, database.Config{Driver: database.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

func mustCustomer(t *testing.T, code, name string) *domain.Customer {
	t.Helper()
	c, err := domain.NewCustomer(code, name)
	require.NoError(t, err)
	return c
}

func TestSQLiteCustomerRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteCustomerRepository(setupCustomerTestDB(t))
	c := mustCustomer(t, "C001", "Acme")

	require.NoError(t, repo.Save(ctx, c))

	byID, err := repo.FindByID(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, "C001", byID.Code())
	assert.Equal(t, "Acme", byID.Name())
	assert.WithinDuration(t, c.CreatedAt(), byID.CreatedAt(), time.Millisecond)

	byCode, err := repo.FindByCode(ctx, "C001")
	require.NoError(t, err)
	assert.Equal(t, c.ID(), byCode.ID())
}

func TestSQLiteCustomerRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteCustomerRepository(setupCustomerTestDB(t))

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, sharedDomain.ErrNotFound)

	_, err = repo.FindByCode(ctx, "missing")
	assert.ErrorIs(t, err, sharedDomain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), sharedDomain.ErrNotFound)
}

func TestSQLiteCustomerRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteCustomerRepository(setupCustomerTestDB(t))
	c := mustCustomer(t, "C001", "Acme")
	require.NoError(t, repo.Save(ctx, c))

	require.NoError(t, c.Update("C001", "Acme Holdings"))
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByID(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", found.Name())

	_, total, err := repo.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSQLiteCustomerRepository_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteCustomerRepository(setupCustomerTestDB(t))
	require.NoError(t, repo.Save(ctx, mustCustomer(t, "C001", "Acme")))

	err := repo.Save(ctx, mustCustomer(t, "C001", "Impostor"))
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestSQLiteCustomerRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteCustomerRepository(setupCustomerTestDB(t))
	for i := 5; i >= 1; i-- {
		require.NoError(t, repo.Save(ctx, mustCustomer(t, fmt.Sprintf("C%03d", i), fmt.Sprintf("Customer %d", i))))
	}

	page1, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "Customer 1", page1[0].Name())
	assert.Equal(t, "Customer 2", page1[1].Name())

	page3, _, err := repo.List(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "Customer 5", page3[0].Name())

	beyond, total, err := repo.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, 5, total)
}

func TestSQLiteCustomerRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteCustomerRepository(setupCustomerTestDB(t))
	c := mustCustomer(t, "C001", "Acme")
	require.NoError(t, repo.Save(ctx, c))

	require.NoError(t, repo.Delete(ctx, c.ID()))
	_, err := repo.FindByID(ctx, c.ID())
	assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
}

func TestSQLiteCustomerRepository_UnitOfWorkRollback(t *testing.T) {
	ctx := context.Background()
	conn := setupCustomerTestDB(t)
	repo := NewSQLiteCustomerRepository(conn)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(txCtx, mustCustomer(t, "C001", "Acme")))
	require.NoError(t, uow.Rollback(txCtx))

	_, err = repo.FindByCode(ctx, "C001")
	assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
}
