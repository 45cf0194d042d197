package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/sqlite"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/clock"
)

func openLedger(t *testing.T, path string, opts ...sqlite.Option) *sqlite.Ledger {
	t.Helper()
	ledger, err := sqlite.Open(context.Background(), path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger
}

func TestSQLiteLedger_Contract(t *testing.T) {
	ports.RunLedgerContract(t, func(t *testing.T, clk clock.PassiveClock) ports.Funds {
		return openLedger(t, filepath.Join(t.TempDir(), "ledger.db"), sqlite.WithClock(clk))
	})
}

func TestSQLiteLedger_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Add(ctx, "alice", domain.CurrencyCitrine, 70))
	ok, err := first.Reserve(ctx, "bj-1", time.Hour, "alice", domain.CurrencyCitrine, 20)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, first.Close())

	second := openLedger(t, path)
	b, err := second.Balance(ctx, "alice", domain.CurrencyCitrine)
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{Total: 70, Held: 20, Available: 50}, b)

	ok, err = second.Commit(ctx, "bj-1", "alice", domain.CurrencyCitrine)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "  ")
	assert.Error(t, err)
}
