package stats

import (
	"context"
	"testing"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/blackjack"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/rps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// StoreFactory builds an empty store for one test.
type StoreFactory func(t *testing.T) Store

// RunStoreContract verifies that a Store aggregates results the same way Book does.
func RunStoreContract(t *testing.T, factory StoreFactory) {
	ctx := context.Background()

	t.Run("blackjack streaks and sums", func(t *testing.T) {
		store := factory(t)
		results := []blackjack.Result{
			{User: "host", Outcome: blackjack.Win, Score: 21, Stood: true, DealerScore: 19, Wager: 10},
			{User: "host", Outcome: blackjack.Win, Score: 20, Stood: true, DealerScore: 18, Wager: 10},
			{User: "host", Outcome: blackjack.Loss, Score: 24, Busted: true, DealerScore: 17, Wager: 5},
			{User: "host", Outcome: blackjack.Push, Score: 19, Stood: true, DealerScore: 19},
			{User: "host", Outcome: blackjack.Win, Score: 21, Stood: true, DealerScore: 22, Wager: 10},
		}
		for _, r := range results {
			require.NoError(t, store.RecordBlackjack(ctx, r))
		}

		s, err := store.Blackjack(ctx, "host")
		require.NoError(t, err)
		assert.Equal(t, 3, s.Wins)
		assert.Equal(t, 1, s.Losses)
		assert.Equal(t, 1, s.Pushes)
		assert.Equal(t, 5, s.Played())
		assert.Equal(t, Streak{Current: 1, Longest: 2}, s.WinStreak)
		assert.Equal(t, Streak{Current: 0, Longest: 1}, s.LossStreak)
		assert.Equal(t, Streak{Current: 0, Longest: 1}, s.PushStreak)
		assert.Equal(t, 2, s.BlackjackCount)
		assert.Equal(t, Streak{Current: 1, Longest: 1}, s.BlackjackStreak)
		assert.Equal(t, 1, s.TimesBusted)
		assert.Equal(t, int64(24), s.BustScoreSum)
		assert.Equal(t, 4, s.TimesStood)
		assert.Equal(t, int64(81), s.StandScoreSum)
		assert.Equal(t, int64(95), s.DealerScoreSum)
		assert.Equal(t, int64(35), s.Wagered)
		assert.Equal(t, int64(30), s.Won)
		assert.Equal(t, int64(5), s.Lost)

		none, err := store.Blackjack(ctx, "nobody")
		require.NoError(t, err)
		assert.Zero(t, none.Played())
	})

	t.Run("rps records", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.RecordWin(ctx, "zoe", "adam"))
		require.NoError(t, store.RecordWin(ctx, "adam", "zoe"))
		require.NoError(t, store.RecordWin(ctx, "zoe", "adam"))
		require.NoError(t, store.RecordDraw(ctx, "adam", "zoe"))
		require.NoError(t, store.RecordWin(ctx, "zoe", "carl"))
		require.NoError(t, store.RecordChoice(ctx, "zoe", rps.Rock))
		require.NoError(t, store.RecordChoice(ctx, "zoe", rps.Rock))
		require.NoError(t, store.RecordChoice(ctx, "zoe", rps.Paper))

		pair, err := store.Pair(ctx, "zoe", "adam")
		require.NoError(t, err)
		assert.Equal(t, PairRecord{First: "adam", Second: "zoe", FirstWins: 1, SecondWins: 2, Draws: 1}, pair)
		reversed, err := store.Pair(ctx, "adam", "zoe")
		require.NoError(t, err)
		assert.Equal(t, pair, reversed)

		empty, err := store.Pair(ctx, "zoe", "nobody")
		require.NoError(t, err)
		assert.Equal(t, NewPairRecord("zoe", "nobody"), empty)

		zoe, err := store.RPS(ctx, "zoe")
		require.NoError(t, err)
		assert.Equal(t, 3, zoe.Wins)
		assert.Equal(t, 1, zoe.Losses)
		assert.Equal(t, 1, zoe.Draws)
		assert.Equal(t, 5, zoe.TotalPlayed())
		assert.InDelta(t, 0.6, zoe.WinRate(), 1e-9)
		assert.Equal(t, 2, zoe.Rock)
		assert.Equal(t, 1, zoe.Paper)
		assert.Zero(t, zoe.Scissors)

		nobody, err := store.RPS(ctx, "nobody")
		require.NoError(t, err)
		assert.Zero(t, nobody.WinRate())
	})

	t.Run("records a match", func(t *testing.T) {
		store := factory(t)
		m, err := rps.NewMatch("bob", "alice", rps.WithRecorder(store))
		require.NoError(t, err)

		_, err = m.HandleEvent(ctx, domain.Event{Actor: "bob", Token: rps.TokenScissors})
		require.NoError(t, err)
		_, err = m.HandleEvent(ctx, domain.Event{Actor: "alice", Token: rps.TokenPaper})
		require.NoError(t, err)

		bob, err := store.RPS(ctx, "bob")
		require.NoError(t, err)
		alice, err := store.RPS(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, bob.Wins)
		assert.Equal(t, 1, bob.Scissors)
		assert.Equal(t, 1, alice.Losses)
		assert.Equal(t, 1, alice.Paper)
	})

	t.Run("concurrent records", func(t *testing.T) {
		store := factory(t)
		var g errgroup.Group
		for range 50 {
			g.Go(func() error {
				return store.RecordBlackjack(ctx, blackjack.Result{User: "host", Outcome: blackjack.Win, Wager: 1})
			})
			g.Go(func() error {
				return store.RecordDraw(ctx, "a", "b")
			})
		}
		require.NoError(t, g.Wait())

		host, err := store.Blackjack(ctx, "host")
		require.NoError(t, err)
		assert.Equal(t, 50, host.Wins)
		assert.Equal(t, Streak{Current: 50, Longest: 50}, host.WinStreak)
		a, err := store.RPS(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 50, a.Draws)
	})
}
