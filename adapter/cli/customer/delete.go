package customer

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/internal/customers/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a customer",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return app.Dispatch(cmd, commands.DeleteCustomerCommand{ID: id})
	},
}
