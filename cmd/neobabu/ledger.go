package main

import (
	"context"
	"fmt"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/cli"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and credit ledger balances",
}

var ledgerBalanceCmd = &cobra.Command{
	Use:   "balance [USER]",
	Short: "Print a balance (defaults to --as)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currency, err := currencyFlag(cmd)
		if err != nil {
			return err
		}
		return run(func(ctx context.Context, app *cli.App, as domain.UserID) error {
			user := as
			if len(args) == 1 {
				user = domain.UserID(args[0])
			}
			b, err := app.Balance(ctx, user, currency)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d %s (%d held, %d available)\n", user, b.Total, currency, b.Held, b.Available)
			return nil
		})(cmd, args)
	},
}

var ledgerGrantCmd = &cobra.Command{
	Use:   "grant USER AMOUNT",
	Short: "Credit a balance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		currency, err := currencyFlag(cmd)
		if err != nil {
			return err
		}
		var amount int64
		if _, err := fmt.Sscan(args[1], &amount); err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		return run(func(ctx context.Context, app *cli.App, as domain.UserID) error {
			user := domain.UserID(args[0])
			if err := app.Grant(ctx, user, currency, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %d %s to %s\n", amount, currency, user)
			return nil
		})(cmd, args)
	},
}

func currencyFlag(cmd *cobra.Command) (domain.Currency, error) {
	name, _ := cmd.Flags().GetString("currency")
	return domain.ParseCurrency(name)
}

func init() {
	ledgerCmd.PersistentFlags().String("currency", "citrine", "Ledger currency")
	ledgerCmd.AddCommand(ledgerBalanceCmd, ledgerGrantCmd)
	rootCmd.AddCommand(ledgerCmd)
}
