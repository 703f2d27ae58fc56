package customer

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/internal/customers/application/queries"
)

var (
	page     int
	pageSize int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List customers ordered by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if app.ListCustomers == nil {
			return cli.ErrNotInitialized
		}

		ctx, cancel := app.WithTimeout(cmd.Context())
		defer cancel()
		result, err := app.ListCustomers.Handle(ctx, queries.ListCustomersQuery{Page: page, PageSize: pageSize})
		if err != nil {
			return fmt.Errorf("failed to list customers: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(result.Customers) == 0 {
			fmt.Fprintln(out, "No customers found.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCODE\tNAME")
		for _, c := range result.Customers {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Code, c.Name)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\npage %d of %d (%d customers)\n", result.Page, result.TotalPages, result.Total)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	listCmd.Flags().IntVarP(&pageSize, "page-size", "n", queries.DefaultPageSize, "customers per page")
}
