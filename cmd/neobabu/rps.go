package main

import (
	"context"
	"errors"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/cli"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/spf13/cobra"
)

var rpsCmd = &cobra.Command{
	Use:   "rps",
	Short: "Challenge someone to rock paper scissors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opponent, _ := cmd.Flags().GetString("opponent")
		bot, _ := cmd.Flags().GetBool("bot")
		if opponent == "" {
			return errors.New("--opponent is required")
		}
		return play(cmd, args, func(ctx context.Context, app *cli.App, as domain.UserID) error {
			_, err := app.RPS(ctx, newTerminal(app, as), cli.RPSRequest{
				Challenger: as,
				Opponent:   domain.UserID(opponent),
				Bot:        bot,
			})
			return err
		})
	},
}

func init() {
	rpsCmd.Flags().String("opponent", "", "User to challenge")
	rpsCmd.Flags().Bool("bot", false, "Let the opponent pick at random")
	addHTTPFlag(rpsCmd)
	rootCmd.AddCommand(rpsCmd)
}
