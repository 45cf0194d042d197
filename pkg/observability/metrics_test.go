package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/logging"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/memory"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/interactive"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/observability"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	tr := memory.NewTransport()
	tr.Press("msg-1", "mallory", interactive.TokenAccept)
	tr.Press("msg-1", "alice", interactive.TokenAccept)

	accept := interactive.SimpleAccept(interactive.SimpleAcceptConfig{
		Question: domain.View{Body: "?"},
		Accepted: domain.View{Body: "ok"},
	})
	err := session.New(accept, tr, "alice",
		session.WithName("gift"),
		session.WithHooks(metrics.Hooks()),
	).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Started.WithLabelValues("gift")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Ended.WithLabelValues("gift", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Events.WithLabelValues("gift", "unauthorized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Events.WithLabelValues("gift", "redrawn")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.Duration))

	count, err := testutil.GatherAndCount(reg, "neobabu_sessions_started_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilRegisterer(t *testing.T) {
	metrics := observability.NewMetrics(nil)
	metrics.Hooks().OnEnd(context.Background(), &session.EndInfo{
		Info:     session.Info{Name: "rps"},
		Reason:   session.EndTimedOut,
		Duration: 5 * time.Minute,
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Ended.WithLabelValues("rps", "timed_out")))
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewHandler(&buf, slog.LevelDebug, "json"))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnStart(ctx, &session.Info{Name: "blackjack", Author: "alice", MessageID: "msg-1"})
	hooks.OnEnd(ctx, &session.EndInfo{
		Info:   session.Info{Name: "blackjack"},
		Reason: session.EndFailed,
		Err:    errors.New("ledger offline"),
	})

	out := buf.String()
	assert.Contains(t, out, `"msg":"session_start"`)
	assert.Contains(t, out, `"author":"alice"`)
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"err":"ledger offline"`)
}
