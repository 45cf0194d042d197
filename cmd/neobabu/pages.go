package main

import (
	"context"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/cli"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages FILE.yaml",
	Short: "Browse the pages of a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := cli.LoadPages(args[0])
		if err != nil {
			return err
		}
		return play(cmd, args, func(ctx context.Context, app *cli.App, as domain.UserID) error {
			return app.Pages(ctx, newTerminal(app, as), as, pages)
		})
	},
}

func init() {
	addHTTPFlag(pagesCmd)
	rootCmd.AddCommand(pagesCmd)
}
