package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	customerQueries "github.com/felixgeelhaar/tenantry/internal/customers/application/queries"
)

// RegisterResources registers MCP resources that expose tenantry data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Resource("tenantry://customers").
		Name("Customers").
		Description("First page of customers ordered by name").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if deps.ListCustomers == nil {
				return nil, fmt.Errorf("customer listing requires database connection")
			}
			page, err := deps.ListCustomers.Handle(ctx, customerQueries.ListCustomersQuery{
				Page:     1,
				PageSize: customerQueries.MaxPageSize,
			})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, page)
		})

	srv.Resource("tenantry://health").
		Name("Health").
		Description("Status of the database, file store and broker").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if deps.Health == nil {
				return nil, fmt.Errorf("no health checks registered")
			}
			return jsonResource(uri, deps.Health.Check(ctx))
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
