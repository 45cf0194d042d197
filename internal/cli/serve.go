package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	httpadapter "github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/http"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout is the grace period given to in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Handler builds the HTTP surface over the app's ledger, stats and metrics.
func (a *App) Handler(version string) http.Handler {
	return httpadapter.NewHandler(a.Ledger,
		httpadapter.WithStats(a.Stats),
		httpadapter.WithGatherer(a.Registry),
		httpadapter.WithStreams(a.Streams),
		httpadapter.WithVersion(version),
		httpadapter.WithLogger(a.Logger),
	)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context, addr, version string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("http server listening", "addr", addr)
		printSystemMessage(a.Out, "Serving on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		printSystemMessage(a.Out, "Server stopped gracefully")
		return nil
	})
	return g.Wait()
}

// RunWithServer runs fn while serving the HTTP surface on addr, so the
// statistics, metrics and event stream of the running session are visible.
// The server stops once fn returns.
func (a *App) RunWithServer(ctx context.Context, addr, version string, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Serve(gctx, addr, version)
	})
	g.Go(func() error {
		defer cancel()
		return fn(gctx)
	})
	return g.Wait()
}
