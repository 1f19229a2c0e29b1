package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/dynasty/internal/adapters/mq/queue"
	worker "github.com/okian/dynasty/internal/adapters/mq/worker"
	model "github.com/okian/dynasty/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingHandler remembers the order in which commands were applied.
type recordingHandler struct {
	mu      sync.Mutex
	applied []string
	fail    map[string]error
}

func (h *recordingHandler) Handle(_ context.Context, c *model.Command) model.CommandResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err, ok := h.fail[c.ID]; ok {
		return model.CommandResult{Err: err}
	}
	h.applied = append(h.applied, c.ID)
	return model.CommandResult{Outcome: &model.GameOutcome{Margin: c.Game.ScoreA - c.Game.ScoreB}}
}

func (h *recordingHandler) order() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.applied...)
}

func command(id string, a, b int) model.Command {
	return model.Command{
		ID:    id,
		Game:  &model.GameReport{TeamA: "Akron", ScoreA: a, TeamB: "Kent", ScoreB: b},
		Reply: make(chan model.CommandResult, 1),
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker draining a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		h := &recordingHandler{fail: map[string]error{"bad": fmt.Errorf("boom: %w", model.ErrTiedScore)}}
		w := worker.NewInMemoryWorker(q, h, worker.WithName("writer-test"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When commands are submitted", func() {
			cmds := []model.Command{command("c1", 21, 14), command("bad", 7, 7), command("c2", 3, 0)}
			for _, c := range cmds {
				convey.So(q.Enqueue(ctx, c), convey.ShouldBeNil)
			}

			convey.Convey("Then each caller receives its own reply", func() {
				r1 := <-cmds[0].Reply
				convey.So(r1.Err, convey.ShouldBeNil)
				convey.So(r1.Outcome.Margin, convey.ShouldEqual, 7)

				rBad := <-cmds[1].Reply
				convey.So(errors.Is(rBad.Err, model.ErrValidation), convey.ShouldBeTrue)

				r2 := <-cmds[2].Reply
				convey.So(r2.Outcome.Margin, convey.ShouldEqual, 3)
			})

			convey.Convey("Then commands are applied in order", func() {
				for _, c := range cmds {
					<-c.Reply
				}
				convey.So(h.order(), convey.ShouldResemble, []string{"c1", "c2"})
				convey.So(w.Processed(), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the queue is closed", func() {
			c := command("last", 10, 3)
			convey.So(q.Enqueue(ctx, c), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)

			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()

			convey.Convey("Then queued commands are drained before shutdown completes", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				res := <-c.Reply
				convey.So(res.Err, convey.ShouldBeNil)
				convey.So(h.order(), convey.ShouldResemble, []string{"last"})
			})
		})

		convey.Reset(func() {
			_ = q.Close()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			_ = w.Shutdown(shutdownCtx)
		})
	})
}

func TestWorkerShutdownTimeout(t *testing.T) {
	convey.Convey("Given a worker whose queue never closes", t, func() {
		q := queue.NewInMemoryQueue()
		w := worker.NewInMemoryWorker(q, worker.HandlerFunc(func(context.Context, *model.Command) model.CommandResult {
			return model.CommandResult{}
		}))
		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)

		convey.Convey("When shutdown is bounded by a short deadline", func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer stop()
			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then it reports the timeout", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})

		cancel()
		_ = q.Close()
		convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
	})
}

func TestWorkerWithoutReplyChannel(t *testing.T) {
	convey.Convey("Given a fire-and-forget command", t, func() {
		q := queue.NewInMemoryQueue()
		h := &recordingHandler{}
		w := worker.NewInMemoryWorker(q, h)
		go w.Run(context.Background())

		c := command("noreply", 1, 0)
		c.Reply = nil
		convey.So(q.Enqueue(context.Background(), c), convey.ShouldBeNil)
		convey.So(q.Close(), convey.ShouldBeNil)
		convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)

		convey.Convey("Then it is still applied", func() {
			convey.So(h.order(), convey.ShouldResemble, []string{"noreply"})
		})
	})
}
