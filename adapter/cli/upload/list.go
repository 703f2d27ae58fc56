package upload

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/adapter/cli"
	"github.com/felixgeelhaar/tenantry/internal/uploads/application/queries"
)

var listCmd = &cobra.Command{
	Use:     "list [group]",
	Aliases: []string{"ls"},
	Short:   "List the files uploaded for a group",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if app.ListUploads == nil {
			return cli.ErrNotInitialized
		}

		ctx, cancel := app.WithTimeout(cmd.Context())
		defer cancel()
		uploads, err := app.ListUploads.Handle(ctx, queries.ListUploadsQuery{GroupID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to list uploads: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(uploads) == 0 {
			fmt.Fprintln(out, "No uploads found.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FILE\tSIZE\tUSER\tUPLOADED")
		for _, u := range uploads {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", u.FileName, u.Size, u.Username, u.UploadedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}
