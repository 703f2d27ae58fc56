package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantry/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the configured backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := RequireApp()
		if err != nil {
			return err
		}
		if a.Health == nil {
			return fmt.Errorf("no health checks registered")
		}

		ctx, cancel := a.WithTimeout(cmd.Context())
		defer cancel()
		health := a.Health.Check(ctx)

		names := make([]string, 0, len(health.Checks))
		for name := range health.Checks {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\n", health.Status)
		for _, name := range names {
			check := health.Checks[name]
			fmt.Fprintf(out, "  %-10s %s", name, check.Status)
			if check.Message != "" {
				fmt.Fprintf(out, " (%s)", check.Message)
			}
			fmt.Fprintln(out)
		}
		if health.Status == observability.HealthStatusUnhealthy {
			return ErrCommandFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
