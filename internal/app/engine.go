package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/dynasty/internal/adapters/repository"
	"github.com/okian/dynasty/internal/domain/classify"
	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/internal/domain/recruiting"
	"github.com/okian/dynasty/internal/domain/standings"
	"github.com/okian/dynasty/internal/domain/team"
	"github.com/okian/dynasty/pkg/logger"
	"github.com/okian/dynasty/pkg/metrics"
)

// Engine is the league state machine. Mutations are serialized by an
// internal mutex; reads go straight to the store and may run concurrently.
type Engine struct {
	mu sync.Mutex

	store  repository.Store
	names  *team.Normalizer
	rules  *classify.Rules
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// EngineOption applies a configuration option to the Engine.
type EngineOption func(*Engine)

// WithStore sets the state store.
func WithStore(store repository.Store) EngineOption {
	return func(e *Engine) {
		if store != nil {
			e.store = store
		}
	}
}

// WithNormalizer sets the team name normalizer.
func WithNormalizer(n *team.Normalizer) EngineOption {
	return func(e *Engine) {
		if n != nil {
			e.names = n
		}
	}
}

// WithRules sets the classification thresholds.
func WithRules(r *classify.Rules) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.rules = r
		}
	}
}

// WithEngineLogger sets a custom logger for the engine.
func WithEngineLogger(l logger.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the time source stamped on recruit entries.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets the recruit entry id source.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// NewEngine creates an Engine over a fresh in-memory store unless
// WithStore is given.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		store:  repository.NewMemoryStore(),
		names:  team.DefaultNormalizer(),
		rules:  classify.New(),
		logger: logger.Discard(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalizer returns the name normalizer the engine resolves teams with.
func (e *Engine) Normalizer() *team.Normalizer { return e.names }

// ReportResult applies a final score. Validation failures wrap
// model.ErrValidation and leave the state untouched.
func (e *Engine) ReportResult(ctx context.Context, teamA string, scoreA int, teamB string, scoreB int) (*model.GameOutcome, error) {
	a := e.names.Resolve(teamA)
	b := e.names.Resolve(teamB)

	if err := validate(a, scoreA, b, scoreB); err != nil {
		metrics.RecordReportRejected(rejectReason(err))
		e.logger.Warn(ctx, "game report rejected",
			logger.String("team_a", a.Name), logger.Int("score_a", scoreA),
			logger.String("team_b", b.Name), logger.Int("score_b", scoreB),
			logger.Error(err),
		)
		return nil, err
	}

	winner, loser, ws, ls := a, b, scoreA, scoreB
	if scoreB > scoreA {
		winner, loser, ws, ls = b, a, scoreB, scoreA
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	start := time.Now()

	in := classify.Input{
		Margin:  ws - ls,
		Rivalry: winner.IsPrimary() && loser.IsPrimary(),
	}
	if rec, ok := e.store.Record(ctx, winner.Name); ok {
		in.PrevWinner = &rec
	}
	if rec, ok := e.store.Record(ctx, loser.Name); ok {
		in.PrevLoser = &rec
	}
	label := e.rules.Classify(in)

	applied := e.store.ApplyGame(ctx, repository.GameUpdate{
		Winner:       winner,
		Loser:        loser,
		WinningScore: ws,
		LosingScore:  ls,
	})
	metrics.RecordEngineApplyLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordGameReported(string(label), in.Rivalry)

	out := &model.GameOutcome{
		Winner:       winner,
		Loser:        loser,
		WinningScore: ws,
		LosingScore:  ls,
		Margin:       in.Margin,
		Label:        label,
		Rivalry:      in.Rivalry,
		WinnerRecord: applied.WinnerRecord,
		LoserRecord:  applied.LoserRecord,
		WinnerStreak: applied.WinnerStreak,
		LoserStreak:  applied.LoserStreak,
	}
	e.logger.Debug(ctx, "game applied",
		logger.String("winner", winner.Name),
		logger.String("loser", loser.Name),
		logger.Int("margin", out.Margin),
		logger.String("label", string(label)),
		logger.Bool("rivalry", in.Rivalry),
	)
	return out, nil
}

func validate(a team.Party, scoreA int, b team.Party, scoreB int) error {
	switch {
	case scoreA < 0 || scoreB < 0:
		return fmt.Errorf("%w: scores must be non-negative, got %d and %d", model.ErrInvalidScore, scoreA, scoreB)
	case scoreA == scoreB:
		return fmt.Errorf("%w: %s and %s both scored %d", model.ErrTiedScore, a.Name, b.Name, scoreA)
	case a.Name == b.Name:
		return fmt.Errorf("%w: %q", model.ErrSameTeam, a.Name)
	}
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidScore):
		return "invalid_score"
	case errors.Is(err, model.ErrTiedScore):
		return "tied_score"
	case errors.Is(err, model.ErrSameTeam):
		return "same_team"
	case errors.Is(err, model.ErrUnknownStatus):
		return "unknown_status"
	default:
		return "other"
	}
}

// LogRecruit appends a recruiting report to the ledger.
func (e *Engine) LogRecruit(ctx context.Context, teamName, prospect string, stars int, position string, status model.RecruitStatus) (*model.RecruitEntry, error) {
	if !status.Valid() {
		err := fmt.Errorf("%w: %q", model.ErrUnknownStatus, status)
		metrics.RecordReportRejected(rejectReason(err))
		e.logger.Warn(ctx, "recruit report rejected", logger.Error(err))
		return nil, err
	}
	p := e.names.Resolve(teamName)

	e.mu.Lock()
	defer e.mu.Unlock()

	entry := e.store.AppendRecruit(ctx, model.RecruitEntry{
		ID:       e.newID(),
		Team:     p.Name,
		Side:     p.Side,
		Prospect: strings.TrimSpace(prospect),
		Stars:    stars,
		Position: strings.ToUpper(strings.TrimSpace(position)),
		Status:   status,
		LoggedAt: e.now(),
	})
	metrics.RecordRecruitLogged(string(status))
	e.logger.Debug(ctx, "recruit logged",
		logger.String("team", entry.Team),
		logger.String("prospect", entry.Prospect),
		logger.String("status", string(status)),
	)
	return &entry, nil
}

// Standings returns the ranked league table.
func (e *Engine) Standings(ctx context.Context) []model.Standing {
	return standings.Rank(e.store.Standings(ctx))
}

// Streaks returns every team's non-zero streak.
func (e *Engine) Streaks(ctx context.Context) map[string]model.Streak {
	return e.store.Streaks(ctx)
}

// Rivalry returns the head-to-head tally.
func (e *Engine) Rivalry(ctx context.Context) model.Rivalry {
	return e.store.Rivalry(ctx)
}

// RecruitBattles reconciles the ledger into battles.
func (e *Engine) RecruitBattles(ctx context.Context) []model.BattleResult {
	battles := recruiting.Reconcile(e.store.Recruits(ctx))
	metrics.UpdateBattles(len(battles))
	return battles
}

// Totals reports how many teams, games and recruit entries are tracked.
func (e *Engine) Totals(ctx context.Context) (teams, games, recruits int) {
	return e.store.Count(ctx), e.store.Games(ctx), len(e.store.Recruits(ctx))
}
