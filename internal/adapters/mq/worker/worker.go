// Package worker runs the single writer that applies queued commands.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/dynasty/internal/adapters/mq/queue"
	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/pkg/logger"
	"github.com/okian/dynasty/pkg/metrics"
)

// Handler applies one command and returns its result.
type Handler interface {
	Handle(ctx context.Context, c *model.Command) model.CommandResult
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, c *model.Command) model.CommandResult

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, c *model.Command) model.CommandResult {
	return f(ctx, c)
}

// Queue defines how the worker receives commands.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Command
}

// Worker processes commands one at a time.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is
	// closed and drained.
	Run(ctx context.Context)

	// Shutdown waits for Run to return.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	handler Handler
	name    string

	done      chan struct{}
	processed atomic.Int64

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, h Handler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:   q,
		handler: h,
		name:    "writer",
		done:    make(chan struct{}),
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	commands := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-commands:
			if !ok {
				return
			}
			w.process(ctx, &c)
		}
	}
}

// Shutdown waits for the worker to finish. Close the queue first so Run can
// drain it and return.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Processed returns the number of commands handled so far.
func (w *InMemoryWorker) Processed() int64 { return w.processed.Load() }

func (w *InMemoryWorker) process(ctx context.Context, c *model.Command) {
	start := time.Now()
	res := w.handler.Handle(ctx, c)
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	w.processed.Add(1)

	if res.Err != nil {
		metrics.RecordWorkerFailure()
		if errors.Is(res.Err, model.ErrValidation) {
			w.logger.Debug(ctx, "command rejected",
				logger.String("id", c.ID), logger.String("kind", c.Kind()), logger.Error(res.Err))
		} else {
			w.logger.Error(ctx, "command failed",
				logger.String("id", c.ID), logger.String("kind", c.Kind()), logger.Error(res.Err))
		}
	}

	if c.Reply == nil {
		return
	}
	select {
	case c.Reply <- res:
	default:
		w.logger.Warn(ctx, "reply dropped, caller is gone", logger.String("id", c.ID))
	}
}
