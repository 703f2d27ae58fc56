// Package app wires configuration, storage and command handlers into a
// ready-to-use Container.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	customerCommands "github.com/felixgeelhaar/tenantry/internal/customers/application/commands"
	customerQueries "github.com/felixgeelhaar/tenantry/internal/customers/application/queries"
	customersDomain "github.com/felixgeelhaar/tenantry/internal/customers/domain"
	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/migrations"
	uploadCommands "github.com/felixgeelhaar/tenantry/internal/uploads/application/commands"
	uploadQueries "github.com/felixgeelhaar/tenantry/internal/uploads/application/queries"
	uploadsDomain "github.com/felixgeelhaar/tenantry/internal/uploads/domain"
	"github.com/felixgeelhaar/tenantry/internal/uploads/infrastructure/filestore"
	"github.com/felixgeelhaar/tenantry/pkg/config"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis, set only for the redis file store
	RedisClient *redis.Client

	// Repositories
	UploadRepo   uploadsDomain.Repository
	CustomerRepo customersDomain.Repository
	UnitOfWork   sharedApplication.UnitOfWork

	FileStore      uploadsDomain.FileStore
	EventPublisher eventbus.Publisher

	// Command dispatch
	Registry  *sharedApplication.Registry
	Processor *sharedApplication.Processor

	// Query handlers
	ListUploadsHandler   *uploadQueries.ListUploadsHandler
	ListCustomersHandler *customerQueries.ListCustomersHandler
	GetCustomerHandler   *customerQueries.GetCustomerHandler

	Health *observability.HealthRegistry

	shutdownTracing func(context.Context) error
}

// NewContainer connects to every configured backend, runs migrations and
// registers the command handlers. The registry is sealed on return.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *Container, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	c.shutdownTracing, err = observability.SetupTracing(ctx, "tenantry", cfg.OTelEndpoint)
	if err != nil {
		return nil, err
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initFileStore(ctx); err != nil {
		return nil, err
	}
	if err := c.initPublisher(); err != nil {
		return nil, err
	}

	c.ListUploadsHandler = uploadQueries.NewListUploadsHandler(c.UploadRepo)
	c.ListCustomersHandler = customerQueries.NewListCustomersHandler(c.CustomerRepo)
	c.GetCustomerHandler = customerQueries.NewGetCustomerHandler(c.CustomerRepo)

	c.Registry = sharedApplication.NewRegistry()
	c.registerHandlers()
	c.Processor = sharedApplication.NewProcessor(c.Registry,
		sharedApplication.WithLogger(logger),
		sharedApplication.WithMetrics(c.Metrics),
	)

	logger.Info("container initialized",
		"database", c.DBDriver,
		"filestore", cfg.FileStoreDriver,
		"health_checks", c.Health.Names(),
	)
	return c, nil
}

// registerHandlers registers every command handler. For the import command
// the order is validation, import, notification.
func (c *Container) registerHandlers() {
	r := c.Registry
	sharedApplication.MustRegister[uploadCommands.UploadFileCommand](r,
		uploadCommands.NewUploadFileHandler(c.FileStore, c.UploadRepo, c.Logger, c.Metrics))

	sharedApplication.MustRegister[customerCommands.CreateCustomerCommand](r,
		customerCommands.NewCreateCustomerHandler(c.CustomerRepo, c.Logger))
	sharedApplication.MustRegister[customerCommands.UpdateCustomerCommand](r,
		customerCommands.NewUpdateCustomerHandler(c.CustomerRepo, c.Logger))
	sharedApplication.MustRegister[customerCommands.DeleteCustomerCommand](r,
		customerCommands.NewDeleteCustomerHandler(c.CustomerRepo, c.Logger))

	sharedApplication.MustRegister[customerCommands.ImportCustomersCommand](r,
		customerCommands.NewValidateImportHandler(c.UploadRepo, c.FileStore, c.Logger))
	sharedApplication.MustRegister[customerCommands.ImportCustomersCommand](r,
		customerCommands.NewImportCustomersHandler(c.UploadRepo, c.FileStore, c.CustomerRepo, c.UnitOfWork, c.Logger, c.Metrics))
	sharedApplication.MustRegister[customerCommands.ImportCustomersCommand](r,
		customerCommands.NewImportNotificationHandler(c.UploadRepo, c.EventPublisher, c.Logger))
}

func (c *Container) initDatabase(ctx context.Context) error {
	cfg := c.Config
	sqlitePath := cfg.SQLitePath
	if sqlitePath == "" {
		sqlitePath = database.DefaultSQLitePath()
	}

	conn, err := database.NewConnection(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: sqlitePath,
		MaxConns:   cfg.DatabaseMaxConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrations.Run(ctx, conn); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	c.Logger.Info("connected to database", "driver", c.DBDriver)

	factory := NewRepositoryFactory(conn)
	if c.UploadRepo, err = factory.UploadRepository(); err != nil {
		return err
	}
	if c.CustomerRepo, err = factory.CustomerRepository(); err != nil {
		return err
	}
	c.UnitOfWork = factory.UnitOfWork()

	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	return nil
}

func (c *Container) initFileStore(ctx context.Context) error {
	cfg := c.Config
	var (
		store  uploadsDomain.FileStore
		remote bool
	)

	switch cfg.FileStoreDriver {
	case config.FileStoreLocal:
		local, err := filestore.NewLocalStore(cfg.FileStoreRoot)
		if err != nil {
			return err
		}
		store = local

	case config.FileStoreRedis:
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opt)
		c.RedisClient = client
		if err := client.Ping(ctx).Err(); err != nil {
			if !cfg.IsDevelopment() {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			c.Logger.Warn("Redis not available, uploads will fail until it is", "error", err)
		} else {
			c.Logger.Info("connected to Redis")
		}
		store = filestore.NewRedisStore(client, 0)
		remote = true

	case config.FileStoreWebDAV:
		dav, err := filestore.NewWebDAVStore(cfg.WebDAVURL, cfg.WebDAVUser, cfg.WebDAVPassword)
		if err != nil {
			return err
		}
		store = dav
		remote = true

	default:
		return fmt.Errorf("unknown file store driver %q", cfg.FileStoreDriver)
	}

	if cfg.FileStoreEncryptionKey != "" {
		enc, err := crypto.NewAESGCMFromBase64Key(cfg.FileStoreEncryptionKey)
		if err != nil {
			return fmt.Errorf("invalid FILESTORE_ENCRYPTION_KEY: %w", err)
		}
		store = filestore.NewEncryptedStore(store, enc)
	} else if cfg.IsProduction() {
		c.Logger.Warn("file store encryption not configured")
	}

	if remote {
		store = filestore.NewBreakerStore(store, filestore.BreakerConfig{
			Name:        cfg.FileStoreDriver,
			MaxRequests: cfg.BreakerMaxRequests,
			Interval:    cfg.BreakerInterval,
			Timeout:     cfg.BreakerTimeout,
			MaxFailures: cfg.BreakerMaxFailures,
		}, c.Logger, c.Metrics)
	}

	c.FileStore = store
	c.Health.Register("filestore", observability.FileStoreHealthChecker(func(ctx context.Context) error {
		return filestore.Ping(ctx, store)
	}))
	return nil
}

func (c *Container) initPublisher() error {
	cfg := c.Config
	if cfg.RabbitMQURL == "" {
		bus := eventbus.NewInProcessBus(c.Logger)
		bus.Subscribe("customers.#", c.logEvent)
		c.EventPublisher = bus
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger, c.Metrics)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}
	c.EventPublisher = publisher
	c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
	return nil
}

func (c *Container) logEvent(ctx context.Context, event sharedDomain.Event) error {
	c.Logger.InfoContext(ctx, "event published",
		"routing_key", event.RoutingKey,
		"event_id", event.ID,
		"correlation_id", event.Metadata.CorrelationID,
	)
	return nil
}

// Close cleans up all resources. It is safe on a partially built container.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err, "driver", c.DBDriver)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}

	if c.shutdownTracing != nil {
		if err := c.shutdownTracing(context.Background()); err != nil {
			c.Logger.Warn("error flushing traces", "error", err)
		}
	}
}
