package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newReviewCmd lists events whose ticker could not be resolved and that
// await manual curation.
func newReviewCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "review",
		Short: "List unresolved events awaiting manual review",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(); err != nil {
				return err
			}

			items, err := app.store.ListReview(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Review queue is empty")
				return nil
			}
			for _, item := range items {
				name := item.TradingName
				if name == "" {
					name = item.LegalName
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\t%s\t%s\n",
					item.ID, item.Source, item.Kind, name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to list")
	return cmd
}
