package customer

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/internal/customers/application/commands"
)

var createCmd = &cobra.Command{
	Use:   "create [code] [name]",
	Short: "Create a customer",
	Long: `Create a customer with a unique code.

Examples:
  tenantry customer create ACME "Acme Corporation"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		return app.Dispatch(cmd, commands.CreateCustomerCommand{Code: args[0], Name: args[1]})
	},
}
