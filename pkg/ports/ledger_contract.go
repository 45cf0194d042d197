package ports

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
	testingclock "k8s.io/utils/clock/testing"
)

// LedgerFactory builds the ledger under test. The ledger must read time from clk.
type LedgerFactory func(t *testing.T, clk clock.PassiveClock) Funds

// RunLedgerContract runs a suite of tests to verify that a Ledger implementation
// adheres to the escrow contract.
func RunLedgerContract(t *testing.T, factory LedgerFactory) {
	ctx := context.Background()
	clk := testingclock.NewFakeClock(time.Date(2025, 12, 8, 15, 14, 6, 0, time.UTC))
	ledger := factory(t, clk)
	cur := domain.CurrencyCitrine

	var seq atomic.Int64
	fundedUser := func(t *testing.T, amount int64) domain.UserID {
		t.Helper()
		user := domain.UserID(fmt.Sprintf("contract-user-%d", seq.Add(1)))
		if amount > 0 {
			require.NoError(t, ledger.Add(ctx, user, cur, amount))
		}
		return user
	}
	balance := func(t *testing.T, user domain.UserID) domain.Balance {
		t.Helper()
		b, err := ledger.Balance(ctx, user, cur)
		require.NoError(t, err)
		return b
	}

	t.Run("Add and Balance", func(t *testing.T) {
		user := fundedUser(t, 40)
		require.NoError(t, ledger.Add(ctx, user, cur, 2))

		assert.Equal(t, domain.Balance{Total: 42, Held: 0, Available: 42}, balance(t, user))
	})

	t.Run("Unknown User Has Empty Balance", func(t *testing.T) {
		assert.Equal(t, domain.Balance{}, balance(t, "contract-nobody"))
	})

	t.Run("Reserve Holds Without Debiting", func(t *testing.T) {
		user := fundedUser(t, 100)

		ok, err := ledger.Reserve(ctx, "ref-hold", time.Minute, user, cur, 30)
		require.NoError(t, err)
		assert.True(t, ok)

		b := balance(t, user)
		assert.Equal(t, int64(100), b.Total)
		assert.Equal(t, int64(30), b.Held)
		assert.Equal(t, b.Total-b.Held, b.Available)
	})

	t.Run("Reserve Same Reference Does Not Double Lock", func(t *testing.T) {
		user := fundedUser(t, 100)

		for i := 0; i < 3; i++ {
			ok, err := ledger.Reserve(ctx, "ref-twice", time.Minute, user, cur, 40)
			require.NoError(t, err)
			assert.True(t, ok)
		}

		assert.Equal(t, int64(60), balance(t, user).Available)
	})

	t.Run("Reserve Fails On Insufficient Available", func(t *testing.T) {
		user := fundedUser(t, 50)

		ok, err := ledger.Reserve(ctx, "ref-a", time.Minute, user, cur, 40)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = ledger.Reserve(ctx, "ref-b", time.Minute, user, cur, 20)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, int64(10), balance(t, user).Available)
	})

	t.Run("Reserve Rejects Non Positive Amounts", func(t *testing.T) {
		user := fundedUser(t, 50)

		for _, amount := range []int64{0, -5} {
			ok, err := ledger.Reserve(ctx, "ref-neg", time.Minute, user, cur, amount)
			require.NoError(t, err)
			assert.False(t, ok)
		}
		assert.Equal(t, int64(50), balance(t, user).Available)
	})

	t.Run("Commit Debits Once", func(t *testing.T) {
		user := fundedUser(t, 100)
		ok, err := ledger.Reserve(ctx, "ref-commit", time.Minute, user, cur, 25)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = ledger.Commit(ctx, "ref-commit", user, cur)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, domain.Balance{Total: 75, Held: 0, Available: 75}, balance(t, user))

		ok, err = ledger.Commit(ctx, "ref-commit", user, cur)
		require.NoError(t, err)
		assert.False(t, ok, "a committed hold must not be committed twice")
		assert.Equal(t, int64(75), balance(t, user).Total)
	})

	t.Run("Commit Missing Hold", func(t *testing.T) {
		user := fundedUser(t, 10)

		ok, err := ledger.Commit(ctx, "ref-missing", user, cur)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, int64(10), balance(t, user).Total)
	})

	t.Run("Expired Hold", func(t *testing.T) {
		user := fundedUser(t, 100)
		ok, err := ledger.Reserve(ctx, "ref-expire", time.Minute, user, cur, 60)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, int64(40), balance(t, user).Available)

		clk.Step(2 * time.Minute)

		assert.Equal(t, domain.Balance{Total: 100, Held: 0, Available: 100}, balance(t, user),
			"expired holds must not reduce availability")

		ok, err = ledger.Commit(ctx, "ref-expire", user, cur)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, int64(100), balance(t, user).Total)
	})

	t.Run("Expired Hold Is Replaced", func(t *testing.T) {
		user := fundedUser(t, 100)
		ok, err := ledger.Reserve(ctx, "ref-renew", time.Minute, user, cur, 10)
		require.NoError(t, err)
		require.True(t, ok)

		clk.Step(2 * time.Minute)

		ok, err = ledger.Reserve(ctx, "ref-renew", time.Minute, user, cur, 30)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(70), balance(t, user).Available)

		ok, err = ledger.Commit(ctx, "ref-renew", user, cur)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(70), balance(t, user).Total)
	})

	t.Run("Cancel Is Idempotent", func(t *testing.T) {
		user := fundedUser(t, 100)
		ok, err := ledger.Reserve(ctx, "ref-cancel", time.Minute, user, cur, 50)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, ledger.Cancel(ctx, "ref-cancel", user, cur))
		require.NoError(t, ledger.Cancel(ctx, "ref-cancel", user, cur))
		require.NoError(t, ledger.Cancel(ctx, "ref-never", user, cur))

		assert.Equal(t, domain.Balance{Total: 100, Held: 0, Available: 100}, balance(t, user))

		ok, err = ledger.Commit(ctx, "ref-cancel", user, cur)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Holds Are Scoped Per User", func(t *testing.T) {
		alice := fundedUser(t, 20)
		bob := fundedUser(t, 20)

		ok, err := ledger.Reserve(ctx, "ref-shared", time.Minute, alice, cur, 20)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = ledger.Reserve(ctx, "ref-shared", time.Minute, bob, cur, 20)
		require.NoError(t, err)
		assert.True(t, ok)

		assert.Equal(t, int64(0), balance(t, alice).Available)
		assert.Equal(t, int64(0), balance(t, bob).Available)
	})

	t.Run("Concurrent Reserves Never Overdraw", func(t *testing.T) {
		user := fundedUser(t, 50)
		var granted atomic.Int64

		var g errgroup.Group
		for i := 0; i < 10; i++ {
			ref := fmt.Sprintf("ref-race-%d", i)
			g.Go(func() error {
				ok, err := ledger.Reserve(ctx, ref, time.Minute, user, cur, 10)
				if ok {
					granted.Add(1)
				}
				return err
			})
		}
		require.NoError(t, g.Wait())

		assert.Equal(t, int64(5), granted.Load())
		b := balance(t, user)
		assert.Equal(t, int64(50), b.Held)
		assert.Equal(t, int64(0), b.Available)
	})
}
