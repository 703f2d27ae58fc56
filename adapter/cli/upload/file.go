package upload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/internal/uploads/application/commands"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

var fileName string

var fileCmd = &cobra.Command{
	Use:   "file [group] [path]",
	Short: "Upload a file for a group",
	Long: `Store a local file for a group. The stored name defaults to the
base name of the path.

Examples:
  tenantry upload file onboarding ./customers.csv
  tenantry upload file onboarding ./export.csv --name march.csv`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		path := filepath.Clean(args[1])
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		name := fileName
		if name == "" {
			name = filepath.Base(path)
		}
		return app.Dispatch(cmd, commands.UploadFileCommand{
			GroupID:  args[0],
			FileName: name,
			Data:     data,
			Username: observability.ActorFromContext(cmd.Context()),
		})
	},
}

func init() {
	fileCmd.Flags().StringVar(&fileName, "name", "", "stored file name")
}
