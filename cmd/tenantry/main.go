package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/adapter/cli/customer"
	"github.com/felixgeelhaar/tenantry/adapter/cli/serve"
	"github.com/felixgeelhaar/tenantry/adapter/cli/upload"
	"github.com/felixgeelhaar/tenantry/internal/app"
	"github.com/felixgeelhaar/tenantry/pkg/config"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.DefaultLogConfig())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat))
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// version and help still work without backends
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()
		cli.SetApp(cli.NewApp(container))
	}

	cli.AddCommand(customer.Cmd)
	cli.AddCommand(upload.Cmd)
	cli.AddCommand(serve.Cmd)

	if err := cli.Execute(ctx); err != nil {
		logger.Debug("command failed", "error", err)
		if container != nil {
			container.Close()
		}
		os.Exit(1)
	}
}
