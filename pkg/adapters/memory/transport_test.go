package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/memory"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_CloseEventsIsIdempotent(t *testing.T) {
	tr := memory.NewTransport()
	id, err := tr.Send(context.Background(), domain.View{Body: "hi"})
	require.NoError(t, err)

	events, err := tr.Collect(context.Background(), id)
	require.NoError(t, err)

	tr.Press(id, "alice", "inc")
	assert.NotPanics(t, func() {
		tr.CloseEvents(id)
		tr.CloseEvents(id)
	})
	assert.NotPanics(t, func() { tr.Press(id, "alice", "late") })

	var tokens []string
	for ev := range events {
		tokens = append(tokens, ev.Token)
	}
	assert.Equal(t, []string{"inc"}, tokens, "presses after the close are dropped")
}

func TestTransport_CollectorStopsWithContext(t *testing.T) {
	tr := memory.NewTransport()
	ctx, cancel := context.WithCancel(context.Background())

	_, err := tr.Collect(ctx, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Collectors())

	cancel()
	assert.Eventually(t, func() bool { return tr.Collectors() == 0 }, time.Second, time.Millisecond)
}
