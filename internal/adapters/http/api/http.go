// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/dynasty/internal/app"
	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/internal/domain/team"
	"github.com/okian/dynasty/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Mutations go through the single writer and may fail with backpressure.
	ReportGame(ctx context.Context, r model.GameReport) (model.CommandResult, error)
	LogRecruit(ctx context.Context, r model.RecruitReport) (model.CommandResult, error)

	// Read views.
	Standings(ctx context.Context) []model.Standing
	Streaks(ctx context.Context) map[string]model.Streak
	Rivalry(ctx context.Context) model.Rivalry
	RecruitBattles(ctx context.Context) []model.BattleResult
}

// Server wires HTTP routes for the league API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	gamesHandler   *GamesHandler
	leagueHandler  *LeagueHandler
	recruitHandler *RecruitHandler
}

// NewServer creates a new API server with all handlers. names decorates read
// views with divisions, coaches and primary party names.
func NewServer(deps Dependencies, names *team.Normalizer, statsProvider StatsProvider) *Server {
	if names == nil {
		names = team.DefaultNormalizer()
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		gamesHandler:   NewGamesHandler(deps),
		leagueHandler:  NewLeagueHandler(deps, names),
		recruitHandler: NewRecruitHandler(deps, names),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandlePostGame, "games"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.leagueHandler.HandleStandings, "standings"))
	mux.HandleFunc("/streaks", MetricsMiddleware(s.leagueHandler.HandleStreaks, "streaks"))
	mux.HandleFunc("/rivalry", MetricsMiddleware(s.leagueHandler.HandleRivalry, "rivalry"))
	mux.HandleFunc("/recruits/battles", MetricsMiddleware(s.recruitHandler.HandleBattles, "battles"))
	mux.HandleFunc("/recruits", MetricsMiddleware(s.recruitHandler.HandlePostRecruit, "recruits"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, types.Error{Code: code, Message: msg})
}

// writeSubmitError maps a failed mutation to its HTTP status.
func writeSubmitError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrStopped), errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, service.ErrSubmitTimeout), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", Wrap(op, err))
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "canceled", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
