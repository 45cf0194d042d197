package rps_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/rps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordWin(ctx context.Context, winner, loser domain.UserID) error {
	return m.Called(ctx, winner, loser).Error(0)
}

func (m *mockRecorder) RecordDraw(ctx context.Context, a, b domain.UserID) error {
	return m.Called(ctx, a, b).Error(0)
}

func (m *mockRecorder) RecordChoice(ctx context.Context, user domain.UserID, c rps.Choice) error {
	return m.Called(ctx, user, c).Error(0)
}

func press(t *testing.T, m *rps.Match, user domain.UserID, token string) domain.Outcome {
	t.Helper()
	out, err := m.HandleEvent(context.Background(), domain.Event{Actor: user, Token: token})
	require.NoError(t, err)
	return out
}

func TestNewMatch_RejectsSelfChallenge(t *testing.T) {
	_, err := rps.NewMatch(alice, alice)
	assert.ErrorIs(t, err, domain.ErrTargetYourself)
}

func TestMatch_SettlesOnce(t *testing.T) {
	ctx := context.Background()
	rec := new(mockRecorder)
	rec.On("RecordWin", mock.Anything, alice, bob).Return(nil).Once()
	rec.On("RecordChoice", mock.Anything, alice, rps.Rock).Return(nil).Once()
	rec.On("RecordChoice", mock.Anything, bob, rps.Scissors).Return(nil).Once()

	m, err := rps.NewMatch(alice, bob, rps.WithRecorder(rec))
	require.NoError(t, err)

	assert.Equal(t, domain.Update(), press(t, m, alice, rps.TokenRock))
	assert.Equal(t, domain.Noop(), press(t, m, alice, rps.TokenPaper), "second submission is ignored")
	assert.Equal(t, domain.Halt(), press(t, m, bob, rps.TokenScissors))

	for range 3 {
		out, err := m.OnTick(ctx)
		require.NoError(t, err)
		assert.True(t, out.Stop)
		_, err = m.Render(ctx)
		require.NoError(t, err)
	}
	rec.AssertExpectations(t)
}

func TestMatch_DrawUsesCanonicalPair(t *testing.T) {
	rec := new(mockRecorder)
	rec.On("RecordDraw", mock.Anything, alice, bob).Return(nil).Once()
	rec.On("RecordChoice", mock.Anything, mock.Anything, rps.Rock).Return(nil).Twice()

	m, err := rps.NewMatch(bob, alice, rps.WithRecorder(rec))
	require.NoError(t, err)

	press(t, m, bob, rps.TokenRock)
	press(t, m, alice, rps.TokenRock)

	view, err := m.Render(context.Background())
	require.NoError(t, err)
	assert.Contains(t, view.Body, "It's a draw!")
	assert.Equal(t, domain.ToneWarning, view.Tone)
	assert.Empty(t, view.Controls)
	rec.AssertExpectations(t)
}

func TestMatch_TickBeforeDecisionIsNoop(t *testing.T) {
	m, err := rps.NewMatch(alice, bob)
	require.NoError(t, err)

	out, err := m.OnTick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Noop(), out)
}

func TestMatch_Bot(t *testing.T) {
	m, err := rps.NewMatch(alice, "neobabu", rps.WithBot(rand.New(rand.NewSource(3))))
	require.NoError(t, err)
	assert.Equal(t, rps.WaitingForFirst, m.Game().Status())

	assert.Equal(t, domain.Halt(), press(t, m, alice, rps.TokenPaper))
	assert.True(t, m.Game().Status().IsDecided())
}

func TestMatch_RenderHidesChoicesUntilDecided(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Date(2025, 11, 18, 21, 19, 31, 0, time.UTC))
	m, err := rps.NewMatch(alice, bob, rps.WithClock(clk))
	require.NoError(t, err)
	ctx := context.Background()

	press(t, m, alice, rps.TokenRock)
	clk.Step(time.Minute)

	view, err := m.Render(ctx)
	require.NoError(t, err)
	assert.Contains(t, view.Body, "<@alice> **chose `???`**")
	assert.Contains(t, view.Body, "<@bob> *is thinking...*")
	assert.Contains(t, view.Body, "Game ends in 4m0s")
	assert.Contains(t, view.Content, "<@bob>, you were challenged")
	assert.Len(t, view.Controls, 3)

	press(t, m, bob, rps.TokenPaper)
	view, err = m.Render(ctx)
	require.NoError(t, err)
	assert.Contains(t, view.Body, "<@bob> **wins!**")
	assert.Contains(t, view.Body, rps.Rock.Emoji())
	assert.Empty(t, view.Content)
}

func TestMatch_TimeoutView(t *testing.T) {
	m, err := rps.NewMatch(alice, bob)
	require.NoError(t, err)

	view := m.TimeoutView()
	assert.Equal(t, "The game between <@alice> and <@bob> has ended without a winner.", view.Body)
	assert.Empty(t, view.Controls)
}
