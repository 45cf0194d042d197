package main

import (
	"context"
	"strings"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/cli"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/terminal"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [USER]",
	Short: "Print game statistics (defaults to --as)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		game, _ := cmd.Flags().GetString("game")
		return run(func(ctx context.Context, app *cli.App, as domain.UserID) error {
			user := as
			if len(args) == 1 {
				user = domain.UserID(args[0])
			}
			tr := terminal.New(strings.NewReader(""), cmd.OutOrStdout(), terminal.WithLogger(app.Logger))
			return app.ShowStats(ctx, tr, user, game)
		})(cmd, args)
	},
}

func init() {
	statsCmd.Flags().String("game", "", "Only show one game: blackjack or rps")
	rootCmd.AddCommand(statsCmd)
}
