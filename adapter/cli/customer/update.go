package customer

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/internal/customers/application/commands"
)

var updateCmd = &cobra.Command{
	Use:   "update [id] [code] [name]",
	Short: "Change a customer's code and name",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return app.Dispatch(cmd, commands.UpdateCustomerCommand{ID: id, Code: args[1], Name: args[2]})
	},
}
