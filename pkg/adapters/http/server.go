// Package http exposes balances, statistics, metrics and a live session
// event stream over HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/logging"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsSource reports per-user game statistics.
type StatsSource interface {
	Blackjack(ctx context.Context, user domain.UserID) (stats.BlackjackStats, error)
	RPS(ctx context.Context, user domain.UserID) (stats.RPSStats, error)
}

// Server serves the read-only HTTP surface.
type Server struct {
	Balances ports.BalanceReader
	Stats    StatsSource
	Streams  *StreamManager
	Gatherer prometheus.Gatherer
	Version  string
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStats enables GET /stats/{user}.
func WithStats(src StatsSource) Option {
	return func(s *Server) {
		s.Stats = src
	}
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithStreams shares a StreamManager, typically one whose Hooks are installed on sessions.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server reading balances from balances.
func NewServer(balances ports.BalanceReader, opts ...Option) *Server {
	s := &Server{
		Balances: balances,
		Gatherer: prometheus.DefaultGatherer,
		Version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	return s
}

// NewHandler creates the HTTP handler for balances.
func NewHandler(balances ports.BalanceReader, opts ...Option) http.Handler {
	return NewServer(balances, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/ledger/{user}", s.GetBalance)
	r.Get("/ledger/{user}/{currency}", s.GetBalance)
	r.Get("/stats/{user}", s.GetStats)
	r.Get("/events", s.SubscribeEvents)
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "neobabu",
		"version": strings.TrimSpace(s.Version),
	})
}

// BalanceResponse is the body of GET /ledger/{user}/{currency}.
type BalanceResponse struct {
	User     domain.UserID `json:"user"`
	Currency string        `json:"currency"`
	domain.Balance
}

// GetBalance handles GET /ledger/{user}/{currency}; currency defaults to citrine.
func (s *Server) GetBalance(w http.ResponseWriter, r *http.Request) {
	user := domain.UserID(chi.URLParam(r, "user"))
	currency, err := domain.ParseCurrency(chi.URLParam(r, "currency"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	b, err := s.Balances.Balance(r.Context(), user, currency)
	if err != nil {
		s.logger.Error("balance lookup failed", "user", user, "error", err)
		s.writeError(w, http.StatusInternalServerError, errors.New("balance lookup failed"))
		return
	}
	s.writeJSON(w, http.StatusOK, BalanceResponse{User: user, Currency: currency.String(), Balance: b})
}

// StatsResponse is the body of GET /stats/{user}.
type StatsResponse struct {
	User      domain.UserID        `json:"user"`
	Blackjack stats.BlackjackStats `json:"blackjack"`
	RPS       rpsResponse          `json:"rps"`
}

type rpsResponse struct {
	stats.RPSStats
	TotalPlayed int     `json:"total_played"`
	WinRate     float64 `json:"win_rate"`
}

// GetStats handles GET /stats/{user}.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	if s.Stats == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("statistics are not enabled"))
		return
	}
	user := domain.UserID(chi.URLParam(r, "user"))
	bj, err := s.Stats.Blackjack(r.Context(), user)
	if err != nil {
		s.logger.Error("stats lookup failed", "user", user, "error", err)
		s.writeError(w, http.StatusInternalServerError, errors.New("stats lookup failed"))
		return
	}
	rps, err := s.Stats.RPS(r.Context(), user)
	if err != nil {
		s.logger.Error("stats lookup failed", "user", user, "error", err)
		s.writeError(w, http.StatusInternalServerError, errors.New("stats lookup failed"))
		return
	}
	s.writeJSON(w, http.StatusOK, StatsResponse{
		User:      user,
		Blackjack: bj,
		RPS:       rpsResponse{RPSStats: rps, TotalPlayed: rps.TotalPlayed(), WinRate: rps.WinRate()},
	})
}
