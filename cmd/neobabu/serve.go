package main

import (
	"context"

	neobabu "github.com/Zitronenjoghurt/neobabu-sub000"
	"github.com/Zitronenjoghurt/neobabu-sub000/internal/cli"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP status server",
	Long:  `Serves balances, statistics, Prometheus metrics and the live session event stream.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return run(func(ctx context.Context, app *cli.App, as domain.UserID) error {
			if addr == "" {
				addr = app.Config.HTTPAddr
			}
			cli.PrintBanner(cmd.OutOrStdout(), termenv.EnvColorProfile())
			return app.Serve(ctx, addr, neobabu.Version)
		})(cmd, args)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to NEOBABU_HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
