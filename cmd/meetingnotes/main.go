// Command meetingnotes serves an upload form that turns meeting recordings
// and transcripts into written summaries.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/meetingnotes/bootstrap"
	"github.com/kbukum/meetingnotes/config"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/observability"
	"github.com/kbukum/meetingnotes/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (default: search ./cmd/meetingnotes, ./config, .)")
	envFile := flag.String("env", "", "path to a .env file (default: search ./cmd/meetingnotes, .)")
	flag.Parse()

	if err := run(context.Background(), *configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "meetingnotes: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, envFile string) error {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	app.Logger.Info("Configuration loaded", logger.Fields(
		"environment", cfg.Environment,
		"version", version.Get().String(),
		"transcription", cfg.Transcription.Provider,
		"llm", cfg.LLM.Provider,
	))

	metrics, err := setupTelemetry(ctx, app)
	if err != nil {
		return err
	}

	srv, err := wire(app, metrics)
	if err != nil {
		return err
	}
	app.OnStart(srv.Start)
	app.OnStop(srv.Stop)
	return app.Run(ctx)
}

// setupTelemetry starts the OTLP exporters that are enabled and registers
// their shutdown. The returned Metrics is nil when metrics are disabled.
func setupTelemetry(ctx context.Context, app *bootstrap.App[*Config]) (*observability.Metrics, error) {
	cfg := app.Cfg
	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.Tracing.TracerConfig(app.Name, app.Version, cfg.Environment))
		if err != nil {
			return nil, fmt.Errorf("tracing: %w", err)
		}
		app.OnStop(tp.Shutdown)
	}
	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	mp, err := observability.InitMeter(ctx, cfg.Metrics.MeterConfig(app.Name, app.Version, cfg.Environment))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	app.OnStop(mp.Shutdown)
	return observability.NewMetrics(observability.Meter(app.Name))
}
