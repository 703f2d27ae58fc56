package app

import (
	"fmt"

	customersDomain "github.com/felixgeelhaar/tenantry/internal/customers/domain"
	customersPersistence "github.com/felixgeelhaar/tenantry/internal/customers/infrastructure/persistence"
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/database"
	uploadsDomain "github.com/felixgeelhaar/tenantry/internal/uploads/domain"
	uploadsPersistence "github.com/felixgeelhaar/tenantry/internal/uploads/infrastructure/persistence"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// UploadRepository creates an upload repository for the configured driver.
func (f *RepositoryFactory) UploadRepository() (uploadsDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return uploadsPersistence.NewPostgresUploadRepository(f.conn), nil
	case database.DriverSQLite:
		return uploadsPersistence.NewSQLiteUploadRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// CustomerRepository creates a customer repository for the configured driver.
func (f *RepositoryFactory) CustomerRepository() (customersDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return customersPersistence.NewPostgresCustomerRepository(f.conn), nil
	case database.DriverSQLite:
		return customersPersistence.NewSQLiteCustomerRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// UnitOfWork creates a unit of work on the connection.
func (f *RepositoryFactory) UnitOfWork() *database.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}
