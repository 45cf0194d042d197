package interactive_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/interactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPrompt struct {
	mock.Mock
}

func (m *mockPrompt) View(ctx context.Context, d interactive.Decision) (domain.View, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.View), args.Error(1)
}

func (m *mockPrompt) OnAccept(ctx context.Context, ev domain.Event) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockPrompt) OnDeny(ctx context.Context, ev domain.Event) error {
	return m.Called(ctx, ev).Error(0)
}

func TestAccept_Accept(t *testing.T) {
	ctx := context.Background()
	prompt := new(mockPrompt)
	ev := domain.Event{Actor: "alice", Token: interactive.TokenAccept}
	prompt.On("OnAccept", ctx, ev).Return(nil).Once()
	prompt.On("View", ctx, interactive.Pending).Return(domain.View{Body: "Pay 10?"}, nil)
	prompt.On("View", ctx, interactive.Accepted).Return(domain.View{Body: "Paid."}, nil)

	a := interactive.NewAccept(prompt, interactive.WithLabels("Pay", "Keep"))

	view, err := a.Render(ctx)
	require.NoError(t, err)
	require.Len(t, view.Controls, 2)
	assert.Equal(t, "Pay", view.Controls[0].Label)
	assert.Equal(t, domain.StyleSuccess, view.Controls[0].Style)
	assert.Equal(t, "Keep", view.Controls[1].Label)
	assert.Equal(t, domain.StyleDanger, view.Controls[1].Style)

	out, err := a.HandleEvent(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, domain.Halt(), out)
	assert.Equal(t, interactive.Accepted, a.Decision())

	view, err = a.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Paid.", view.Body)
	assert.Empty(t, view.Controls)

	out, err = a.HandleEvent(ctx, domain.Event{Token: interactive.TokenDeny})
	require.NoError(t, err)
	assert.Equal(t, domain.Noop(), out, "a decided prompt ignores further answers")
	prompt.AssertExpectations(t)
}

func TestAccept_HookErrorKeepsPending(t *testing.T) {
	ctx := context.Background()
	prompt := new(mockPrompt)
	boom := errors.New("ledger down")
	ev := domain.Event{Token: interactive.TokenDeny}
	prompt.On("OnDeny", ctx, ev).Return(boom)

	a := interactive.NewAccept(prompt)
	_, err := a.HandleEvent(ctx, ev)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, interactive.Pending, a.Decision())
}

func TestAccept_UnknownToken(t *testing.T) {
	prompt := new(mockPrompt)
	a := interactive.NewAccept(prompt)

	out, err := a.HandleEvent(context.Background(), domain.Event{Token: "play_hit"})
	require.NoError(t, err)
	assert.Equal(t, domain.Noop(), out)
	assert.Equal(t, interactive.Pending, a.Decision())
	prompt.AssertNotCalled(t, "OnAccept", mock.Anything, mock.Anything)
}

func TestSimpleAccept(t *testing.T) {
	ctx := context.Background()
	var order []string
	a := interactive.SimpleAccept(interactive.SimpleAcceptConfig{
		Question: domain.View{Body: "question"},
		Accepted: domain.View{Body: "accepted"},
		Denied:   domain.View{Body: "denied"},
		OnDeny: func(ctx context.Context, ev domain.Event) error {
			order = append(order, "hook")
			return nil
		},
	})

	view, err := a.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "question", view.Body)
	assert.Equal(t, "Accept", view.Controls[0].Label)

	_, err = a.HandleEvent(ctx, domain.Event{Token: interactive.TokenDeny})
	require.NoError(t, err)
	order = append(order, a.Decision().String())
	assert.Equal(t, []string{"hook", "denied"}, order)

	view, err = a.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "denied", view.Body)
}

func TestSimpleAccept_WithoutHooks(t *testing.T) {
	a := interactive.SimpleAccept(interactive.SimpleAcceptConfig{
		Question: domain.View{Body: "question"},
		Accepted: domain.View{Body: "accepted"},
	})

	out, err := a.HandleEvent(context.Background(), domain.Event{Token: interactive.TokenAccept})
	require.NoError(t, err)
	assert.True(t, out.Stop)
	assert.Equal(t, interactive.Accepted, a.Decision())
}
