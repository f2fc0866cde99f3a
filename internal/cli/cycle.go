package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newCycleCmd creates the scheduler entry point: one full alert cycle.
func newCycleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Run one alert cycle and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(); err != nil {
				return err
			}

			report, err := app.engine.RunCycle(cmd.Context())
			if err != nil {
				return fmt.Errorf("cycle failed: %w", err)
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
