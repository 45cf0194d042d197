package blackjack_test

import (
	"context"
	"testing"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/memory"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/blackjack"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordBlackjack(ctx context.Context, r blackjack.Result) error {
	return m.Called(ctx, r).Error(0)
}

type tableFixture struct {
	ctx    context.Context
	clock  *testingclock.FakeClock
	ledger *memory.Ledger
	table  *blackjack.Table
}

func newTable(t *testing.T, wager int64, deck *cards.Deck, opts ...blackjack.TableOption) *tableFixture {
	t.Helper()
	clk := testingclock.NewFakeClock(time.Date(2025, 12, 7, 11, 51, 49, 0, time.UTC))
	ledger := memory.NewLedger(memory.WithClock(clk))
	opts = append([]blackjack.TableOption{
		blackjack.WithClock(clk),
		blackjack.WithLedger(ledger),
		blackjack.WithWager(wager),
		blackjack.WithDeck(deck),
		blackjack.WithGameID("game-1"),
	}, opts...)
	table, err := blackjack.NewTable(opts...)
	require.NoError(t, err)
	return &tableFixture{ctx: context.Background(), clock: clk, ledger: ledger, table: table}
}

func (f *tableFixture) fund(t *testing.T, user domain.UserID, amount int64) {
	t.Helper()
	require.NoError(t, f.ledger.Add(f.ctx, user, domain.CurrencyCitrine, amount))
}

func (f *tableFixture) balance(t *testing.T, user domain.UserID) domain.Balance {
	t.Helper()
	b, err := f.ledger.Balance(f.ctx, user, domain.CurrencyCitrine)
	require.NoError(t, err)
	return b
}

func (f *tableFixture) press(t *testing.T, user domain.UserID, token string) domain.Outcome {
	t.Helper()
	out, err := f.table.HandleEvent(f.ctx, domain.Event{Actor: user, Token: token})
	require.NoError(t, err)
	return out
}

func (f *tableFixture) tick(t *testing.T) domain.Outcome {
	t.Helper()
	out, err := f.table.OnTick(f.ctx)
	require.NoError(t, err)
	return out
}

func deckFor(player, dealer [2]cards.Rank, rest ...cards.Rank) *cards.Deck {
	cs := []cards.Card{card(player[0]), card(dealer[0]), card(player[1]), card(dealer[1])}
	for _, r := range rest {
		cs = append(cs, card(r))
	}
	return cards.NewDeckOf(cs...)
}

func TestTable_JoinEscrowsWager(t *testing.T) {
	f := newTable(t, 10, cards.NewDeck())
	f.fund(t, "rich", 100)
	f.fund(t, "poor", 5)

	assert.Equal(t, domain.Update(), f.press(t, "rich", blackjack.TokenJoin))
	assert.Equal(t, domain.Balance{Total: 100, Held: 10, Available: 90}, f.balance(t, "rich"))

	assert.Equal(t, domain.Noop(), f.press(t, "rich", blackjack.TokenJoin), "already seated")
	assert.Equal(t, int64(10), f.balance(t, "rich").Held)

	assert.Equal(t, domain.Noop(), f.press(t, "poor", blackjack.TokenJoin), "hold failed")
	assert.Equal(t, []domain.UserID{"rich"}, f.table.Game().Players())
	assert.Equal(t, "bj-game-1", f.table.ReferenceID())
}

func TestTable_FullTableDoesNotReserve(t *testing.T) {
	f := newTable(t, 10, cards.NewDeck())
	for _, u := range []domain.UserID{"a", "b", "c", "d", "e"} {
		f.fund(t, u, 50)
	}
	for _, u := range []domain.UserID{"a", "b", "c", "d"} {
		joined, err := f.table.Join(f.ctx, u)
		require.NoError(t, err)
		require.True(t, joined)
	}

	joined, err := f.table.Join(f.ctx, "e")
	require.NoError(t, err)
	assert.False(t, joined)
	assert.Equal(t, int64(50), f.balance(t, "e").Available)
}

func TestTable_DeferredStart(t *testing.T) {
	f := newTable(t, 0, deckFor([2]cards.Rank{cards.Ten, cards.Eight}, [2]cards.Rank{cards.Ten, cards.Seven}))
	_, err := f.table.Join(f.ctx, "host")
	require.NoError(t, err)

	view, err := f.table.Render(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "BLACKJACK | WAITING FOR PLAYERS", view.Title)
	require.Len(t, view.Controls, 1)
	assert.Equal(t, blackjack.TokenJoin, view.Controls[0].Token)

	assert.Equal(t, domain.Noop(), f.press(t, "host", blackjack.TokenHit), "no moves before the start")

	f.clock.Step(blackjack.JoinWindow - time.Second)
	assert.Equal(t, domain.Noop(), f.tick(t))
	assert.False(t, f.table.Game().IsStarted())

	f.clock.Step(time.Second)
	assert.Equal(t, domain.Update(), f.tick(t))
	assert.True(t, f.table.Game().IsStarted())

	view, err = f.table.Render(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "BLACKJACK | GAME ON", view.Title)
	assert.Contains(t, view.Body, "**AUTO-STAND** in 20s")
	assert.Len(t, view.Controls, 2)
}

func TestTable_AbandonedWithoutPlayers(t *testing.T) {
	f := newTable(t, 0, cards.NewDeck())

	f.clock.Step(blackjack.JoinWindow)
	assert.Equal(t, domain.Halt(), f.tick(t))

	view, err := f.table.Render(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "BLACKJACK | CANCELLED", view.Title)
}

func TestTable_AutoStandSettlesOnce(t *testing.T) {
	rec := new(mockRecorder)
	f := newTable(t, 10,
		deckFor([2]cards.Rank{cards.Ten, cards.Eight}, [2]cards.Rank{cards.Ten, cards.Seven}),
		blackjack.WithRecorder(rec),
	)
	f.fund(t, "host", 100)
	rec.On("RecordBlackjack", mock.Anything, blackjack.Result{
		GameID:      "game-1",
		User:        "host",
		Outcome:     blackjack.Win,
		Score:       18,
		Stood:       true,
		DealerScore: 17,
		Wager:       10,
	}).Return(nil).Once()

	joined, err := f.table.Join(f.ctx, "host")
	require.NoError(t, err)
	require.True(t, joined)

	f.clock.Step(blackjack.JoinWindow)
	require.Equal(t, domain.Update(), f.tick(t))

	f.clock.Step(blackjack.AutoStandAfter - time.Second)
	assert.Equal(t, domain.Noop(), f.tick(t))

	f.clock.Step(time.Second)
	assert.Equal(t, domain.Halt(), f.tick(t), "an overdue player is forced to stand without any event")
	assert.True(t, f.table.Game().IsOver())

	// Win: the hold is released and the wager paid out.
	assert.Equal(t, domain.Balance{Total: 110, Held: 0, Available: 110}, f.balance(t, "host"))

	f.tick(t)
	f.tick(t)
	_, err = f.table.Render(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(110), f.balance(t, "host").Total, "settlement must not run twice")
	rec.AssertExpectations(t)
}

func TestTable_LossCommitsWager(t *testing.T) {
	f := newTable(t, 10, deckFor([2]cards.Rank{cards.Ten, cards.Six}, [2]cards.Rank{cards.Ten, cards.Eight}))
	f.fund(t, "host", 100)
	_, err := f.table.Join(f.ctx, "host")
	require.NoError(t, err)

	f.clock.Step(blackjack.JoinWindow)
	f.tick(t)

	assert.Equal(t, domain.Halt(), f.press(t, "host", blackjack.TokenStand))
	assert.Equal(t, domain.Balance{Total: 90, Held: 0, Available: 90}, f.balance(t, "host"))

	view, err := f.table.Render(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "BLACKJACK | FINISHED", view.Title)
	assert.Contains(t, view.Body, "**`-10`** Citrine")
	assert.Empty(t, view.Controls)
}

func TestTable_PushReleasesWager(t *testing.T) {
	f := newTable(t, 10, deckFor([2]cards.Rank{cards.Ten, cards.Eight}, [2]cards.Rank{cards.Ten, cards.Eight}))
	f.fund(t, "host", 100)
	_, err := f.table.Join(f.ctx, "host")
	require.NoError(t, err)

	f.clock.Step(blackjack.JoinWindow)
	f.tick(t)
	f.press(t, "host", blackjack.TokenStand)

	assert.Equal(t, domain.Balance{Total: 100, Held: 0, Available: 100}, f.balance(t, "host"))
}

func TestTable_OnlyCurrentPlayerMoves(t *testing.T) {
	f := newTable(t, 0, cards.NewShuffledDeck(nil))
	for _, u := range []domain.UserID{"a", "b"} {
		_, err := f.table.Join(f.ctx, u)
		require.NoError(t, err)
	}
	f.clock.Step(blackjack.JoinWindow)
	f.tick(t)

	assert.Equal(t, domain.Noop(), f.press(t, "b", blackjack.TokenStand))
	assert.Equal(t, domain.Noop(), f.press(t, "stranger", blackjack.TokenHit))
	assert.Equal(t, domain.Noop(), f.press(t, "a", "rps_rock"))
	assert.Equal(t, domain.Update(), f.press(t, "a", blackjack.TokenStand))
}

func TestNewTable_Validation(t *testing.T) {
	_, err := blackjack.NewTable(blackjack.WithWager(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = blackjack.NewTable(blackjack.WithWager(5))
	assert.Error(t, err, "a wagered table needs a ledger")

	table, err := blackjack.NewTable()
	require.NoError(t, err)
	assert.Len(t, table.Game().ID(), 36)
}
