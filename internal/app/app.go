// Package app wires the dikte subsystems into a running application.
//
// The App struct owns the full lifecycle: New opens the storage backend,
// builds the pipeline and engine and restores persisted state; Serve runs
// the HTTP API; Shutdown saves state and tears everything down in order.
//
// For testing, inject doubles via functional options (WithBackend,
// WithMetrics). When an option is not provided, New creates real
// implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/dikte/internal/api"
	"github.com/MrWong99/dikte/internal/config"
	"github.com/MrWong99/dikte/internal/engine"
	"github.com/MrWong99/dikte/internal/feedback"
	"github.com/MrWong99/dikte/internal/health"
	"github.com/MrWong99/dikte/internal/observe"
	"github.com/MrWong99/dikte/internal/storage"
	"github.com/MrWong99/dikte/internal/transcript"
)

// shutdownTimeout bounds the graceful HTTP shutdown in [App.Serve].
const shutdownTimeout = 10 * time.Second

// App owns all subsystem lifetimes.
type App struct {
	cfg            *config.Config
	log            *slog.Logger
	level          *slog.LevelVar
	metrics        *observe.Metrics
	metricsHandler http.Handler

	backend storage.Backend
	journal feedback.Journal
	engine  *engine.Engine
	health  *health.Handler

	// closers are called in order during Shutdown.
	closers []func(context.Context) error

	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithBackend injects a storage backend instead of opening one through the
// registry. The caller keeps ownership; Shutdown does not close it.
func WithBackend(b storage.Backend) Option {
	return func(a *App) { a.backend = b }
}

// WithMetrics enables instrumentation of storage, engine and HTTP.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithMetricsHandler sets the handler mounted on /metrics. Default:
// [observe.MetricsHandler].
func WithMetricsHandler(h http.Handler) Option {
	return func(a *App) { a.metricsHandler = h }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithLevelVar lets [App.ApplyConfig] change the log level of a running
// process.
func WithLevelVar(v *slog.LevelVar) Option {
	return func(a *App) { a.level = v }
}

// New creates the application from cfg. Backends not injected are created
// through reg. Persisted state is loaded before New returns.
func New(ctx context.Context, cfg *config.Config, reg *config.Registry, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, log: slog.Default()}
	for _, o := range opts {
		o(a)
	}

	if a.backend == nil {
		b, err := reg.CreateBackend(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		a.backend = b
		a.closers = append(a.closers, func(context.Context) error { return b.Close() })
	}
	a.backend = storage.Instrument(a.backend, string(cfg.Storage.Backend), a.metrics)

	a.journal = feedback.Discard{}
	if cfg.Learning.JournalPath != "" {
		a.journal = feedback.NewFileStore(cfg.Learning.JournalPath)
	}

	engineOpts := []engine.Option{
		engine.WithBackend(a.backend),
		engine.WithPipeline(a.newPipeline(cfg.Pipeline)),
		engine.WithJournal(a.journal),
		engine.WithLogger(a.log),
		engine.WithLanguage(cfg.Pipeline.Language),
		engine.WithMaintenanceInterval(cfg.Learning.MaintenanceInterval),
	}
	if a.metrics != nil {
		engineOpts = append(engineOpts, engine.WithMetrics(a.metrics))
	}
	a.engine = engine.New(engineOpts...)
	a.health = health.New(health.Storage(string(cfg.Storage.Backend), a.backend))

	// Unreadable documents do not stop startup; the engine keeps defaults
	// and holds them. Only a cancelled ctx ends up here.
	if err := a.engine.Load(ctx); err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("app: load state: %w", err)
	}
	a.health.MarkReady()

	a.log.Info("engine ready",
		"backend", cfg.Storage.Backend,
		"language", cfg.Pipeline.Language,
		"corrections", len(a.engine.Corrections()),
		"history", len(a.engine.History()),
	)
	return a, nil
}

func (a *App) newPipeline(pc config.PipelineConfig) *transcript.Pipeline {
	return transcript.NewPipeline(
		transcript.WithOptions(pc.Options),
		transcript.WithLogger(a.log),
	)
}

// Engine returns the application's engine.
func (a *App) Engine() *engine.Engine { return a.engine }

// Backend returns the instrumented storage backend.
func (a *App) Backend() storage.Backend { return a.backend }

// Handler returns the full HTTP surface: the API, the health probes and,
// when metrics are enabled, /metrics. Every route is wrapped with
// [observe.Middleware].
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	api.New(a.engine, api.WithLogger(a.log)).Register(mux)
	a.health.Register(mux)
	if a.cfg.Observe.Metrics {
		h := a.metricsHandler
		if h == nil {
			h = observe.MetricsHandler()
		}
		mux.Handle("GET /metrics", h)
	}

	m := a.metrics
	if m == nil {
		m = observe.DefaultMetrics()
	}
	return observe.Middleware(m)(mux)
}

// Serve runs the HTTP server on the configured address until ctx is done,
// then shuts it down gracefully.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("app: listen %s: %w", a.cfg.Server.ListenAddr, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener is [App.Serve] on an existing listener.
func (a *App) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("http server listening", "addr", ln.Addr().String(), "tls", a.cfg.Server.TLS != nil)
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			err = srv.ServeTLS(ln, tls.CertFile, tls.KeyFile)
		} else {
			err = srv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: http shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// ApplyConfig hot-applies the settings that changed between old and new:
// the log level and the pipeline switches. Everything else is logged as
// needing a restart.
func (a *App) ApplyConfig(old, new *config.Config) {
	d := config.Diff(old, new)
	if d.Empty() {
		return
	}
	if d.LogLevelChanged && a.level != nil {
		a.level.Set(ParseLevel(d.NewLogLevel))
		a.log.Info("log level changed", "level", d.NewLogLevel)
	}
	if d.PipelineChanged {
		a.engine.SetPipeline(a.newPipeline(d.NewPipeline))
		a.log.Info("pipeline options reloaded", "options", fmt.Sprintf("%+v", d.NewPipeline.Options))
		if old.Pipeline.Language != new.Pipeline.Language {
			d.RestartRequired = append(d.RestartRequired, "pipeline.language")
		}
	}
	if len(d.RestartRequired) > 0 {
		a.log.Warn("config changes need a restart to take effect", "settings", d.RestartRequired)
	}
	a.cfg = new
}

// Shutdown saves the engine state and runs the closers in order. It is safe
// to call more than once.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	a.stopOnce.Do(func() {
		if saveErr := a.engine.Save(ctx); saveErr != nil {
			a.log.Warn("final save failed", "err", saveErr)
		}
		err = a.close(ctx)
	})
	return err
}

func (a *App) close(ctx context.Context) error {
	var errs []error
	for i, closer := range a.closers {
		if ctx.Err() != nil {
			a.log.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
			return errors.Join(append(errs, ctx.Err())...)
		}
		if err := closer(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ParseLevel maps a config log level to a slog level. Unknown values map to
// Info.
func ParseLevel(l config.LogLevel) slog.Level {
	switch l {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
