package mcp

import (
	"context"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"

	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

// ServerConfig configures the MCP HTTP endpoint.
type ServerConfig struct {
	Addr string
	// AuthToken enables bearer authentication when set.
	AuthToken string
}

// NewServer creates an MCP server with every tenantry tool, resource and
// prompt registered.
func NewServer(deps ToolDependencies) (*mcpgo.Server, error) {
	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    "tenantry-mcp",
		Version: observability.Version(),
		Capabilities: mcpgo.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})
	if err := RegisterTools(srv, deps); err != nil {
		return nil, err
	}
	if err := RegisterResources(srv, deps); err != nil {
		return nil, err
	}
	if err := RegisterPrompts(srv, deps); err != nil {
		return nil, err
	}
	return srv, nil
}

// Serve starts an MCP server and blocks until the context is canceled.
func Serve(ctx context.Context, cfg ServerConfig, deps ToolDependencies, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := NewServer(deps)
	if err != nil {
		return err
	}

	adapter := mcpLogger{logger: logger}
	stack := middleware.DefaultStack(adapter)

	if cfg.AuthToken != "" {
		authenticator := middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
			cfg.AuthToken: {ID: "mcp", Name: "mcp"},
		}))
		stack = append([]middleware.Middleware{middleware.Auth(authenticator, middleware.WithAuthLogger(adapter))}, stack...)
	} else {
		logger.Warn("MCP auth token not set; requests will be unauthenticated")
	}

	logger.Info("mcp server listening", "addr", cfg.Addr)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.Addr, nil, mcpgo.WithMiddleware(stack...))
}

type mcpLogger struct {
	logger *slog.Logger
}

func (l mcpLogger) Info(msg string, fields ...middleware.Field) {
	l.logger.Info(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Error(msg string, fields ...middleware.Field) {
	l.logger.Error(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Debug(msg string, fields ...middleware.Field) {
	l.logger.Debug(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Warn(msg string, fields ...middleware.Field) {
	l.logger.Warn(msg, fieldsToArgs(fields)...)
}

func fieldsToArgs(fields []middleware.Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		args = append(args, field.Key, field.Value)
	}
	return args
}
