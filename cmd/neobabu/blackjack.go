package main

import (
	"context"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/cli"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/spf13/cobra"
)

var blackjackCmd = &cobra.Command{
	Use:   "blackjack",
	Short: "Open a blackjack table",
	Long:  `Opens a table hosted by --as. Other players join within the join window; with --wager every seat escrows the wager.`,
	Args:  cobra.NoArgs,
}

func init() {
	blackjackCmd.Flags().Int64("wager", 0, "Citrine wagered by every player")
	blackjackCmd.RunE = func(cmd *cobra.Command, args []string) error {
		wager, _ := cmd.Flags().GetInt64("wager")
		wagered := cmd.Flags().Changed("wager")
		return play(cmd, args, func(ctx context.Context, app *cli.App, as domain.UserID) error {
			if wagered {
				if err := app.EnsureStartingGrant(ctx, as); err != nil {
					return err
				}
			}
			return app.Blackjack(ctx, newTerminal(app, as), cli.BlackjackRequest{
				Host:    as,
				Wagered: wagered,
				Wager:   wager,
			})
		})
	}
	addHTTPFlag(blackjackCmd)
	rootCmd.AddCommand(blackjackCmd)
}
