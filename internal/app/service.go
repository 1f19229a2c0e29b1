// Package service wires the league engine to the writer queue, the
// idempotency cache, recap selection and the live feed.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/dynasty/internal/adapters/mq/queue"
	"github.com/okian/dynasty/internal/adapters/mq/worker"
	"github.com/okian/dynasty/internal/domain/dedupe"
	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/internal/domain/recap"
	"github.com/okian/dynasty/internal/domain/types"
	"github.com/okian/dynasty/pkg/logger"
	"github.com/okian/dynasty/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize       = 1024
	defaultDedupeSize      = 10_000
	defaultSubmitTimeout   = 2 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Publisher receives every applied mutation, e.g. the live feed hub.
type Publisher interface {
	Publish(ctx context.Context, ev types.FeedEvent)
}

// reported is what the idempotency cache remembers per report id.
type reported struct {
	outcome *model.GameOutcome
	recap   string
}

// Service implements the API dependencies for the league.
type Service struct {
	mu sync.RWMutex

	engine    *Engine
	deduper   dedupe.Deduper[reported]
	queue     *queue.InMemoryQueue
	writer    *worker.InMemoryWorker
	picker    *recap.Picker
	publisher Publisher

	queueSize     int
	dedupeSize    int
	submitTimeout time.Duration

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEngine sets the engine; a default engine is built otherwise.
func WithEngine(e *Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithQueueSize sets the maximum size of the writer queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many report ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSubmitTimeout bounds how long a mutation waits for the writer.
func WithSubmitTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.submitTimeout = d
		}
	}
}

// WithPicker sets the recap picker.
func WithPicker(p *recap.Picker) Option {
	return func(s *Service) {
		if p != nil {
			s.picker = p
		}
	}
}

// WithPublisher sets where applied mutations are announced.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:     defaultQueueSize,
		dedupeSize:    defaultDedupeSize,
		submitTimeout: defaultSubmitTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	if s.engine == nil {
		s.engine = NewEngine(WithEngineLogger(s.logger.Named("engine")))
	}
	if s.picker == nil {
		s.picker = recap.NewPicker(nil)
	}
	s.deduper = dedupe.NewInMemoryDeduper[reported](dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Engine returns the underlying engine for read-only queries.
func (s *Service) Engine() *Engine { return s.engine }

// Start launches the writer. The writer outlives ctx cancellation until Stop
// so queued commands are never abandoned mid-shutdown.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting league service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.writer = worker.NewInMemoryWorker(s.queue, worker.HandlerFunc(s.handle),
		worker.WithLogger(s.logger))
	go s.writer.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "league service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("submitTimeout", s.submitTimeout.String()),
	)
	return nil
}

// Stop closes the queue, lets the writer drain it and waits for it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping league service...")

	_ = s.queue.Close()
	shutdownCtx, cancel := context.WithTimeout(ctx, defaultShutdownTimeout)
	defer cancel()
	if err := s.writer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "writer did not drain", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "league service stopped")
}

// ReportGame submits a final score to the writer and waits for its outcome.
func (s *Service) ReportGame(ctx context.Context, r model.GameReport) (model.CommandResult, error) {
	return s.submit(ctx, model.Command{Game: &r})
}

// LogRecruit submits a recruiting report to the writer and waits for it.
func (s *Service) LogRecruit(ctx context.Context, r model.RecruitReport) (model.CommandResult, error) {
	return s.submit(ctx, model.Command{Recruit: &r})
}

func (s *Service) submit(ctx context.Context, c model.Command) (model.CommandResult, error) {
	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()
	if !started {
		if q != nil {
			return model.CommandResult{}, ErrStopped
		}
		return model.CommandResult{}, ErrNotStarted
	}

	c.ID = uuid.NewString()
	c.Reply = make(chan model.CommandResult, 1)
	if err := q.Enqueue(ctx, c); err != nil {
		switch {
		case errors.Is(err, queue.ErrFull):
			return model.CommandResult{}, fmt.Errorf("%s: %w", c.Kind(), ErrQueueFull)
		case errors.Is(err, queue.ErrClosed):
			return model.CommandResult{}, fmt.Errorf("%s: %w", c.Kind(), ErrStopped)
		default:
			return model.CommandResult{}, err
		}
	}

	timer := time.NewTimer(s.submitTimeout)
	defer timer.Stop()
	select {
	case res := <-c.Reply:
		return res, res.Err
	case <-ctx.Done():
		return model.CommandResult{}, fmt.Errorf("%s: %w", c.Kind(), ctx.Err())
	case <-timer.C:
		return model.CommandResult{}, fmt.Errorf("%s after %s: %w", c.Kind(), s.submitTimeout, ErrSubmitTimeout)
	}
}

// handle runs on the writer goroutine only.
func (s *Service) handle(ctx context.Context, c *model.Command) model.CommandResult {
	switch {
	case c.Game != nil:
		return s.applyGame(ctx, c.Game)
	case c.Recruit != nil:
		return s.applyRecruit(ctx, c.Recruit)
	default:
		return model.CommandResult{Err: fmt.Errorf("command %s carries no payload", c.ID)}
	}
}

func (s *Service) applyGame(ctx context.Context, g *model.GameReport) model.CommandResult {
	if g.ReportID != "" {
		if prev, ok := s.deduper.Lookup(ctx, g.ReportID); ok {
			metrics.RecordReportDuplicate()
			s.logger.Debug(ctx, "duplicate report acknowledged", logger.String("report_id", g.ReportID))
			return model.CommandResult{Outcome: prev.outcome, Recap: prev.recap, Duplicate: true}
		}
	}

	out, err := s.engine.ReportResult(ctx, g.TeamA, g.ScoreA, g.TeamB, g.ScoreB)
	if err != nil {
		return model.CommandResult{Err: err}
	}

	names := s.engine.Normalizer()
	line := s.picker.Recap(recap.Input{
		Label:       out.Label,
		Rivalry:     out.Rivalry,
		Margin:      out.Margin,
		Winner:      out.Winner.Name,
		Loser:       out.Loser.Name,
		WinnerCoach: names.Coach(out.Winner),
		LoserCoach:  names.Coach(out.Loser),
	})
	if g.ReportID != "" {
		s.deduper.Record(ctx, g.ReportID, reported{outcome: out, recap: line})
	}

	if s.publisher != nil {
		view := types.NewGameOutcome(out)
		view.ReportID = g.ReportID
		view.Recap = line
		s.publisher.Publish(ctx, types.FeedEvent{Type: types.EventGameFinal, At: time.Now(), Game: &view})
	}
	return model.CommandResult{Outcome: out, Recap: line}
}

func (s *Service) applyRecruit(ctx context.Context, r *model.RecruitReport) model.CommandResult {
	entry, err := s.engine.LogRecruit(ctx, r.Team, r.Prospect, r.Stars, r.Position, r.Status)
	if err != nil {
		return model.CommandResult{Err: err}
	}
	if s.publisher != nil {
		view := types.NewRecruitEntry(entry)
		s.publisher.Publish(ctx, types.FeedEvent{Type: types.EventRecruitLogged, At: time.Now(), Recruit: &view})
	}
	return model.CommandResult{Entry: entry}
}

// Standings returns the ranked league table.
func (s *Service) Standings(ctx context.Context) []model.Standing { return s.engine.Standings(ctx) }

// Streaks returns every non-zero streak.
func (s *Service) Streaks(ctx context.Context) map[string]model.Streak { return s.engine.Streaks(ctx) }

// Rivalry returns the head-to-head tally.
func (s *Service) Rivalry(ctx context.Context) model.Rivalry { return s.engine.Rivalry(ctx) }

// RecruitBattles returns the reconciled battles.
func (s *Service) RecruitBattles(ctx context.Context) []model.BattleResult {
	return s.engine.RecruitBattles(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	teams, games, recruits := s.engine.Totals(ctx)
	stats := map[string]any{
		"started":       s.started,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"dedupeEntries": s.deduper.Size(),
		"teams":         teams,
		"games":         games,
		"recruits":      recruits,
		"rivalryGames":  s.engine.Rivalry(ctx).Total(),
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["processed"] = s.writer.Processed()
	}
	return stats
}
