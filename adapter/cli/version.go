package cli

import (
	"fmt"

	"github.com/carlmjohnson/versioninfo"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tenantry %s\n", observability.Version())
		fmt.Fprintf(out, "  commit: %s\n", versioninfo.Revision)
		fmt.Fprintf(out, "  built:  %s\n", versioninfo.LastCommit.Format("2006-01-02T15:04:05Z"))
		if versioninfo.DirtyBuild {
			fmt.Fprintln(out, "  dirty:  true")
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
