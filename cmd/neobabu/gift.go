package main

import (
	"context"
	"errors"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/cli"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/spf13/cobra"
)

var giftCmd = &cobra.Command{
	Use:   "gift",
	Short: "Send citrine to another user after confirming",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetInt64("amount")
		if to == "" {
			return errors.New("--to is required")
		}
		return play(cmd, args, func(ctx context.Context, app *cli.App, as domain.UserID) error {
			if err := app.EnsureStartingGrant(ctx, as); err != nil {
				return err
			}
			_, err := app.Gift(ctx, newTerminal(app, as), cli.GiftRequest{
				From:   as,
				To:     domain.UserID(to),
				Amount: amount,
			})
			return err
		})
	},
}

func init() {
	giftCmd.Flags().String("to", "", "Recipient")
	giftCmd.Flags().Int64("amount", 0, "Citrine to send")
	addHTTPFlag(giftCmd)
	rootCmd.AddCommand(giftCmd)
}
