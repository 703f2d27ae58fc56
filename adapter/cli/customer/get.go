package customer

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/internal/customers/application/queries"
)

var getCmd = &cobra.Command{
	Use:     "get [id]",
	Aliases: []string{"show"},
	Short:   "Show a customer",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if app.GetCustomer == nil {
			return cli.ErrNotInitialized
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := app.WithTimeout(cmd.Context())
		defer cancel()
		c, err := app.GetCustomer.Handle(ctx, queries.GetCustomerQuery{ID: id})
		if err != nil {
			return fmt.Errorf("failed to get customer: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Customer: %s\n", c.ID)
		fmt.Fprintf(out, "  code:    %s\n", c.Code)
		fmt.Fprintf(out, "  name:    %s\n", c.Name)
		fmt.Fprintf(out, "  created: %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  updated: %s\n", c.UpdatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}
