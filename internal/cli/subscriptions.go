package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fiialert/internal/models"
)

// newFollowCmd creates or updates a subscription.
func newFollowCmd(app *App) *cobra.Command {
	var (
		userID       string
		target       string
		categories   []string
		minVariation float64
		cooldown     time.Duration
		extended     bool
	)

	cmd := &cobra.Command{
		Use:   "follow TICKER",
		Short: "Follow a fund and receive its alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(); err != nil {
				return err
			}

			kinds, err := parseCategories(categories)
			if err != nil {
				return err
			}

			sub := &models.Subscription{
				UserID:              userID,
				Ticker:              strings.ToUpper(args[0]),
				Categories:          kinds,
				MinVariationPercent: minVariation,
				Cooldown:            cooldown,
				ChannelTarget:       target,
				ExtendedInfo:        extended,
			}
			if err := app.store.SaveSubscription(cmd.Context(), sub); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Following %s\n", sub.Ticker)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id (required)")
	cmd.Flags().StringVar(&target, "target", "", "Delivery address: chat id or phone (required)")
	cmd.Flags().StringSliceVar(&categories, "categories", []string{"price", "dividend", "document"}, "Enabled categories: price, dividend, document")
	cmd.Flags().Float64Var(&minVariation, "min-variation", 0, "Minimum absolute price variation percent (0 uses the default epsilon)")
	cmd.Flags().DurationVar(&cooldown, "cooldown", 2*time.Minute, "On-demand quote cooldown")
	cmd.Flags().BoolVar(&extended, "extended", false, "Use the extended notification template")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("target")
	return cmd
}

// newUnfollowCmd deletes a subscription.
func newUnfollowCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "unfollow TICKER",
		Short: "Stop following a fund",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(); err != nil {
				return err
			}

			ticker := strings.ToUpper(args[0])
			if err := app.store.DeleteSubscription(cmd.Context(), userID, ticker); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unfollowed %s\n", ticker)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id (required)")
	cmd.MarkFlagRequired("user")
	return cmd
}

// newFundsCmd lists tracked funds.
func newFundsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "funds",
		Short: "List tracked funds",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(); err != nil {
				return err
			}

			funds, err := app.store.ListFunds(cmd.Context())
			if err != nil {
				return err
			}
			for _, f := range funds {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Ticker, f.DisplayName)
			}
			return nil
		},
	}
}

func parseCategories(names []string) ([]models.EventKind, error) {
	var kinds []models.EventKind
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "price":
			kinds = append(kinds, models.KindPriceVariation)
		case "dividend":
			kinds = append(kinds, models.KindDividendAnnounced)
		case "document":
			kinds = append(kinds, models.KindDocumentFiled)
		default:
			return nil, fmt.Errorf("unknown category %q (valid: price, dividend, document)", name)
		}
	}
	return kinds, nil
}
