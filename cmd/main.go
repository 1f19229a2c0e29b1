package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/dynasty/internal/adapters/http/api"
	"github.com/okian/dynasty/internal/adapters/http/feed"
	"github.com/okian/dynasty/internal/adapters/http/site"
	"github.com/okian/dynasty/internal/adapters/http/swagger"
	service "github.com/okian/dynasty/internal/app"
	"github.com/okian/dynasty/internal/config"
	"github.com/okian/dynasty/internal/domain/classify"
	"github.com/okian/dynasty/internal/domain/recap"
	"github.com/okian/dynasty/internal/domain/team"
	"github.com/okian/dynasty/pkg/logger"
	"github.com/okian/dynasty/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> .env -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Error(ctx, "failed to listen", logger.String("addr", cfg.Addr), logger.Error(err))
		os.Exit(1)
	}

	if err := serve(ctx, ln, cfg, log); err != nil {
		log.Error(ctx, "server failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "server stopped")
}

// serve runs the league service, the live feed and the HTTP server on ln
// until ctx is done or one of them fails.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config, log logger.Logger) error {
	hub := feed.NewHub(
		feed.WithBuffer(cfg.FeedBuffer),
		feed.WithLogger(log.Named("feed")),
	)
	svc := newService(cfg, hub, log)
	if err := svc.Start(ctx); err != nil {
		_ = ln.Close()
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	srv := &http.Server{
		Handler:           newMux(ctx, svc, hub),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		startSystemMetricsUpdater(gctx, metrics.RefreshInterval())
		return nil
	})
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return api.WrapKind("http.serve", api.ErrServe, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// newService wires the engine and the writer from configuration.
func newService(cfg *config.Config, pub service.Publisher, log logger.Logger) *service.Service {
	names := team.NewNormalizer(
		profile(cfg.PrimaryA),
		profile(cfg.PrimaryB),
		team.WithOtherDivision(cfg.OtherDivision),
	)
	rules := classify.New(
		classify.WithBlowoutMargin(cfg.Classify.BlowoutMargin),
		classify.WithClassicMargin(cfg.Classify.ClassicMargin),
		classify.WithUpsetMargin(cfg.Classify.UpsetMargin),
		classify.WithBeatdownMargin(cfg.Classify.BeatdownMargin),
	)
	engine := service.NewEngine(
		service.WithNormalizer(names),
		service.WithRules(rules),
		service.WithEngineLogger(log.Named("engine")),
	)
	return service.New(
		service.WithEngine(engine),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithSubmitTimeout(cfg.SubmitTimeout()),
		service.WithPicker(recap.NewSeededPicker(cfg.RecapSeed)),
		service.WithPublisher(pub),
		service.WithLogger(log.Named("service")),
	)
}

func profile(p config.Party) team.Profile {
	return team.Profile{
		Name:     p.Name,
		Aliases:  p.Aliases,
		Division: p.Division,
		Coach:    p.Coach,
	}
}

// newMux registers every route the server exposes.
func newMux(ctx context.Context, svc *service.Service, hub *feed.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	api.NewServer(svc, svc.Engine().Normalizer(), svc).Register(ctx, mux)
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	// Not wrapped by the metrics middleware: the upgrade needs the raw writer.
	mux.HandleFunc("/feed", hub.ServeWS)
	return mux
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
