package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/postgres"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/clock"
)

// TestPostgresLedger_Contract needs a disposable database.
// Set NEOBABU_TEST_POSTGRES_DSN to run it; its ledger tables are truncated.
func TestPostgresLedger_Contract(t *testing.T) {
	dsn := os.Getenv("NEOBABU_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NEOBABU_TEST_POSTGRES_DSN not set")
	}

	ports.RunLedgerContract(t, func(t *testing.T, clk clock.PassiveClock) ports.Funds {
		ctx := context.Background()
		ledger, err := postgres.Open(ctx, dsn, postgres.WithClock(clk))
		require.NoError(t, err)
		t.Cleanup(ledger.Close)
		require.NoError(t, ledger.Truncate(ctx))
		return ledger
	})
}
