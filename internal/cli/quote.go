package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "fiialert/internal/errors"
)

// newQuoteCmd creates the on-demand quote command. Unlike event alerts,
// this path goes through the cooldown limiter and bypasses the ledger.
func newQuoteCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "quote TICKER",
		Short: "Fetch a live quote on demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(); err != nil {
				return err
			}

			ticker := strings.ToUpper(args[0])
			text, err := app.engine.QuoteOnDemand(cmd.Context(), userID, ticker)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrRateLimited) {
					return fmt.Errorf("quote for %s is on cooldown, try again shortly", ticker)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "operator", "User id for cooldown accounting")
	return cmd
}
