package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/observability"
	"github.com/kbukum/meetingnotes/provider"
	"github.com/kbukum/meetingnotes/version"
)

const defaultGracefulTimeout = 15 * time.Second

// App owns the process lifecycle: logger setup, start hooks, ready check,
// signal handling and ordered shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(srv.Start)
//	app.OnStop(srv.Stop)
//	app.Run(ctx)
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	Summary *Summary

	gracefulTimeout time.Duration
	checkers        []observability.HealthChecker
	resources       []any
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies config defaults, validates the config and initializes the
// logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	ver := base.Version
	if ver == "" {
		ver = version.Get().String()
	}

	app := &App[C]{
		Name:            base.Name,
		Version:         ver,
		Cfg:             cfg,
		gracefulTimeout: defaultGracefulTimeout,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Summary = NewSummary(base.Name, ver)
	if o.summaryOut != nil {
		app.Summary.SetOutput(o.summaryOut)
	}
	return app, nil
}

// AddHealthCheck registers a dependency for the ready check, the startup
// summary and the /health endpoint.
func (a *App[C]) AddHealthCheck(checkers ...observability.HealthChecker) {
	a.checkers = append(a.checkers, checkers...)
}

// HealthCheckers returns the registered health checks.
func (a *App[C]) HealthCheckers() []observability.HealthChecker {
	return a.checkers
}

// AddResource registers values to close on shutdown. Values that do not
// implement provider.Closeable are ignored.
func (a *App[C]) AddResource(values ...any) {
	a.resources = append(a.resources, values...)
}

// OnConfigure registers a callback to run after start hooks.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck runs every health check and fails when any dependency is down.
// Degraded dependencies are reported but do not fail the check.
func (a *App[C]) ReadyCheck(ctx context.Context) (*observability.ServiceHealth, error) {
	sh := observability.CheckAll(ctx, a.Name, a.Version, a.checkers...)
	if sh.Status != observability.HealthStatusDown {
		return sh, nil
	}
	var down []string
	for _, h := range sh.Components {
		if h.Status == observability.HealthStatusDown {
			detail := h.Name
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			down = append(down, detail)
		}
	}
	return sh, fmt.Errorf("unhealthy components: %v", down)
}

// Run executes the full lifecycle: start hooks, configure callbacks, ready
// check, ready hooks, summary, then blocks until a signal or ctx is done and
// shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Error("Shutdown after failed startup", logger.Fields("error", stopErr.Error()))
		}
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}

	health, err := a.ReadyCheck(ctx)
	if err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields("error", err.Error()))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.Display(health)
	return nil
}

// WaitForSignal blocks until SIGINT/SIGTERM or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// stop runs stop hooks, then closes resources in registration order, all
// within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields("error", err.Error()))
		shutdownErr = err
	}
	if err := provider.CloseAll(ctx, a.resources...); err != nil {
		a.Logger.Error("Closing resources failed", logger.Fields("error", err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
