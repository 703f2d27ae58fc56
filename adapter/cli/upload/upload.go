// Package upload holds the upload subcommands.
package upload

import "github.com/spf13/cobra"

// Cmd is the upload command group
var Cmd = &cobra.Command{
	Use:     "upload",
	Aliases: []string{"uploads"},
	Short:   "Upload files for a group",
}

func init() {
	Cmd.AddCommand(fileCmd)
	Cmd.AddCommand(listCmd)
}
