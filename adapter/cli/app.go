package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	internalApp "github.com/felixgeelhaar/tenantry/internal/app"
	customerQueries "github.com/felixgeelhaar/tenantry/internal/customers/application/queries"
	sharedApplication "github.com/felixgeelhaar/tenantry/internal/shared/application"
	uploadQueries "github.com/felixgeelhaar/tenantry/internal/uploads/application/queries"
	"github.com/felixgeelhaar/tenantry/pkg/config"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

// ErrCommandFailed is returned when at least one handler reported a failure.
// The failure messages have already been printed.
var ErrCommandFailed = errors.New("command failed")

// ErrNotInitialized is returned when a subcommand runs without a wired App.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	Processor sharedApplication.CommandProcessor

	ListUploads   sharedApplication.QueryHandler[uploadQueries.ListUploadsQuery, []uploadQueries.UploadDTO]
	ListCustomers sharedApplication.QueryHandler[customerQueries.ListCustomersQuery, customerQueries.CustomerPage]
	GetCustomer   sharedApplication.QueryHandler[customerQueries.GetCustomerQuery, customerQueries.CustomerDTO]

	Health *observability.HealthRegistry
	Config *config.Config
	Logger *slog.Logger
}

// NewApp creates a CLI application backed by the container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		Processor:     c.Processor,
		ListUploads:   c.ListUploadsHandler,
		ListCustomers: c.ListCustomersHandler,
		GetCustomer:   c.GetCustomerHandler,
		Health:        c.Health,
		Config:        c.Config,
		Logger:        c.Logger,
	}
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the App or ErrNotInitialized.
func RequireApp() (*App, error) {
	if app == nil || app.Processor == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}

// WithTimeout bounds ctx by the configured request timeout.
func (a *App) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 30 * time.Second
	if a.Config != nil && a.Config.RequestTimeout > 0 {
		timeout = a.Config.RequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Dispatch sends command through the processor and prints every handler
// message to the command's output.
func (a *App) Dispatch(cmd *cobra.Command, command sharedApplication.Command) error {
	ctx, cancel := a.WithTimeout(cmd.Context())
	defer cancel()

	results, err := a.Processor.Process(ctx, command)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", command.CommandName(), err)
	}
	PrintResults(cmd.OutOrStdout(), results)
	if !results.Success() {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrCommandFailed, ctx.Err())
		}
		return ErrCommandFailed
	}
	return nil
}

// PrintResults writes one line per handler message.
func PrintResults(w io.Writer, results sharedApplication.CommandResults) {
	for _, result := range results.Results() {
		if !result.HasMessage() {
			continue
		}
		status := "ok"
		if !result.Success {
			status = "error"
		}
		fmt.Fprintf(w, "[%s] %s\n", status, result.Message)
	}
	if results.Success() && len(results.Messages()) == 0 {
		fmt.Fprintln(w, "[ok] done")
	}
}
