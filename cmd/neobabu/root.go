package main

import (
	"context"
	"fmt"
	"os"

	neobabu "github.com/Zitronenjoghurt/neobabu-sub000"
	"github.com/Zitronenjoghurt/neobabu-sub000/internal/cli"
	"github.com/Zitronenjoghurt/neobabu-sub000/internal/config"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/terminal"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "neobabu",
	Short: "neobabu runs interactive game sessions in the terminal",
	Long: `neobabu plays blackjack and rock paper scissors sessions backed by a currency ledger.
Type "<actor> <token>" or "<actor> <number>" to press a control; the actor defaults to --as.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("as", "you", "User acting in the terminal")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file")
}

// setup loads the configuration and opens the app for a command.
// The caller owns both the app and the signal context.
func setup(cmd *cobra.Command) (*cli.App, *cli.SignalContext, domain.UserID, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	as, _ := cmd.Flags().GetString("as")

	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, "", err
	}
	logger := cli.NewLogger(cfg)

	sc := cli.NewSignalContext(context.Background())
	app, err := cli.NewApp(sc, cfg, logger, cli.WithOutput(cmd.OutOrStdout()))
	if err != nil {
		sc.Cancel()
		return nil, nil, "", err
	}
	return app, sc, domain.UserID(as), nil
}

// run wraps a command body with setup and teardown.
func run(fn func(ctx context.Context, app *cli.App, as domain.UserID) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, sc, as, err := setup(cmd)
		if err != nil {
			return err
		}
		defer sc.Cancel()
		defer app.Close()
		return cli.HandleExecutionError(fn(sc, app, as))
	}
}

// addHTTPFlag lets a session command serve the HTTP surface while it runs.
func addHTTPFlag(cmd *cobra.Command) {
	cmd.Flags().String("http", "", "Also serve stats, metrics and events on this address")
}

// play runs a session body, next to the HTTP server when --http is set.
func play(cmd *cobra.Command, args []string, fn func(ctx context.Context, app *cli.App, as domain.UserID) error) error {
	addr, _ := cmd.Flags().GetString("http")
	return run(func(ctx context.Context, app *cli.App, as domain.UserID) error {
		if addr == "" {
			return fn(ctx, app, as)
		}
		return app.RunWithServer(ctx, addr, neobabu.Version, func(ctx context.Context) error {
			return fn(ctx, app, as)
		})
	})(cmd, args)
}

func newTerminal(app *cli.App, as domain.UserID) *terminal.Transport {
	return terminal.New(os.Stdin, os.Stdout,
		terminal.WithActor(as),
		terminal.WithLogger(app.Logger),
	)
}
