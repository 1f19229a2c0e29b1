package cli

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/okian/dynasty/internal/domain/types"
	"golang.org/x/sync/errgroup"
)

// Simulation defaults.
const (
	defaultSimGames       = 12
	defaultSimConcurrency = 4
	maxSimScore           = 56
)

// DefaultOpponents are the CPU teams a simulated season is played against.
var DefaultOpponents = []string{"Ohio", "Buffalo", "Toledo", "Miami (OH)", "Bowling Green", "Ball State"}

// SimOptions configures a simulated season.
type SimOptions struct {
	Games       int
	Concurrency int
	// Seed makes the schedule and scores reproducible.
	Seed int64
	// RetryRate is the share of reports sent twice with the same report id.
	RetryRate float64
	PrimaryA  string
	PrimaryB  string
	Opponents []string
}

// SimSummary tallies what the server answered.
type SimSummary struct {
	Applied    int64
	Duplicates int64
	Failed     int64
	Labels     map[string]int
}

type simGame struct {
	req   types.GameRequest
	retry bool
}

// schedule builds the season up front so it depends only on the seed.
func schedule(opts SimOptions) []simGame {
	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // simulation only
	games := make([]simGame, 0, opts.Games)
	for i := 0; i < opts.Games; i++ {
		a, b := opts.PrimaryA, opts.PrimaryB
		switch rng.Intn(3) {
		case 0:
			// Rivalry week.
		case 1:
			b = opts.Opponents[rng.Intn(len(opts.Opponents))]
		default:
			a = opts.Opponents[rng.Intn(len(opts.Opponents))]
		}
		sa, sb := rng.Intn(maxSimScore), rng.Intn(maxSimScore)
		if sa == sb {
			sa += 3
		}
		games = append(games, simGame{
			req: types.GameRequest{
				ReportID: uuid.NewString(),
				TeamA:    a,
				ScoreA:   &sa,
				TeamB:    b,
				ScoreB:   &sb,
			},
			retry: rng.Float64() < opts.RetryRate,
		})
	}
	return games
}

// Simulate plays a season against the server. Rejected reports are counted,
// not fatal; transport failures abort the run.
func Simulate(ctx context.Context, c *Client, opts SimOptions) (SimSummary, error) {
	if opts.Games <= 0 {
		opts.Games = defaultSimGames
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultSimConcurrency
	}
	if len(opts.Opponents) == 0 {
		opts.Opponents = DefaultOpponents
	}

	var (
		applied, dups, failed atomic.Int64
		mu                    sync.Mutex
		labels                = make(map[string]int)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, sg := range schedule(opts) {
		g.Go(func() error {
			sends := 1
			if sg.retry {
				sends = 2
			}
			for i := 0; i < sends; i++ {
				out, err := c.ReportGame(gctx, sg.req)
				var apiErr *APIError
				switch {
				case errors.As(err, &apiErr):
					failed.Add(1)
					continue
				case err != nil:
					return err
				case out.Duplicate:
					dups.Add(1)
					continue
				}
				applied.Add(1)
				mu.Lock()
				labels[out.LabelText]++
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()

	return SimSummary{
		Applied:    applied.Load(),
		Duplicates: dups.Load(),
		Failed:     failed.Load(),
		Labels:     labels,
	}, err
}
