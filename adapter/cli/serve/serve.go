// Package serve runs the HTTP API and the MCP endpoint.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/tenantry/adapter/api"
	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/adapter/mcp"
)

const shutdownTimeout = 30 * time.Second

var (
	apiAddr string
	mcpAddr string
	noMCP   bool
)

// Cmd starts the servers and blocks until the command context is canceled.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and MCP servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		return run(cmd.Context(), app)
	},
}

func init() {
	Cmd.Flags().StringVar(&apiAddr, "addr", "", "HTTP API listen address (default HTTP_ADDR)")
	Cmd.Flags().StringVar(&mcpAddr, "mcp-addr", "", "MCP listen address (default MCP_ADDR)")
	Cmd.Flags().BoolVar(&noMCP, "no-mcp", false, "do not start the MCP server")
}

func run(ctx context.Context, app *cli.App) error {
	cfg := app.Config
	logger := app.Logger

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = firstNonEmpty(apiAddr, cfg.HTTPAddr, serverCfg.Addr)
	serverCfg.RequestTimeout = cfg.RequestTimeout
	if cfg.MaxUploadBytes > 0 {
		serverCfg.MaxUploadBytes = cfg.MaxUploadBytes
	}

	handler := api.NewHandler(api.HandlerConfig{
		Processor:      app.Processor,
		ListUploads:    app.ListUploads,
		ListCustomers:  app.ListCustomers,
		GetCustomer:    app.GetCustomer,
		MaxUploadBytes: serverCfg.MaxUploadBytes,
		Logger:         logger,
	})
	server := api.NewServer(serverCfg, handler, app.Health, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if !noMCP {
		g.Go(func() error {
			err := mcp.Serve(ctx, mcp.ServerConfig{
				Addr:      firstNonEmpty(mcpAddr, cfg.MCPAddr),
				AuthToken: cfg.MCPAuthToken,
			}, mcp.ToolDependencies{
				Processor:     app.Processor,
				ListUploads:   app.ListUploads,
				ListCustomers: app.ListCustomers,
				GetCustomer:   app.GetCustomer,
				Health:        app.Health,
				Actor:         "mcp",
			}, logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		})
	}

	err := g.Wait()
	logger.Info("servers stopped")
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
