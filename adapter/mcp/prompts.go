package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common tenantry workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("customer_import").
		Description("Walk through uploading customer files for a group and importing them.").
		Argument("group_id", "Group the files are uploaded for", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			group := args["group_id"]
			if group == "" {
				group = "[Please name the group to import]"
			}

			return &mcp.PromptResult{
				Description: "Customer Import",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Help me import customers for group %q.

1. Use upload.list to see which files are already uploaded for the group
2. For each new file, use upload.file. Files hold one code,name row per
   customer and may start with a code,name header
3. Run customer.import for the group and report every message it returns
4. If validation failed, show me the file and line that was rejected

Codes are unique. Importing a code that already exists updates its name.`, group),
						},
					},
				},
			}, nil
		})

	return nil
}
