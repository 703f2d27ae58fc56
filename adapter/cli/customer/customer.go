// Package customer holds the customer subcommands.
package customer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the customer command group
var Cmd = &cobra.Command{
	Use:     "customer",
	Aliases: []string{"customers"},
	Short:   "Manage customers",
	Long:    `Create, update, delete, list and import customers.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(importCmd)
}

func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid customer ID: %w", err)
	}
	return id, nil
}
