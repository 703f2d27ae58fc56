package customer

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/internal/customers/application/commands"
	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

var importCmd = &cobra.Command{
	Use:   "import [group]",
	Short: "Import customers from the files uploaded for a group",
	Long: `Validate, import and announce the customers listed in every
file uploaded for the group. Each file holds code,name rows.

Examples:
  tenantry upload file onboarding ./customers.csv
  tenantry customer import onboarding`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		return app.Dispatch(cmd, commands.ImportCustomersCommand{
			GroupID:     args[0],
			RequestedBy: observability.ActorFromContext(cmd.Context()),
		})
	},
}
