package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/sanitycheck/pkg/cli"
	"mercator-hq/sanitycheck/pkg/config"
	"mercator-hq/sanitycheck/pkg/engine"
	"mercator-hq/sanitycheck/pkg/history"
	"mercator-hq/sanitycheck/pkg/history/storage"
	"mercator-hq/sanitycheck/pkg/rules/source"
	"mercator-hq/sanitycheck/pkg/sanitycheck"
	"mercator-hq/sanitycheck/pkg/telemetry/logging"
	"mercator-hq/sanitycheck/pkg/telemetry/metrics"
)

type appOptions struct {
	// rulesPath overrides the settings rules path when set.
	rulesPath string

	// metrics creates a collector when metrics are enabled.
	metrics bool
}

// app holds the components shared by every command.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	source  *source.FileSource
	metrics *metrics.Collector
	store   history.Storage
	runner  *sanitycheck.Runner
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	if err != nil {
		return nil, cli.NewExitError(cli.ExitUsage, err)
	}

	rulesPath := cfg.Rules.Path
	if opts.rulesPath != "" {
		rulesPath = opts.rulesPath
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		source: source.NewFileSource(rulesPath, logger.Component("rules").Slog()),
	}

	evalOpts := []engine.Option{engine.WithLogger(logger.Component("engine").Slog())}
	runnerOpts := []sanitycheck.RunnerOption{sanitycheck.WithRunnerLogger(logger.Slog())}

	if opts.metrics && cfg.Metrics.Enabled {
		a.metrics = metrics.NewCollector(&cfg.Metrics, nil)
		evalOpts = append(evalOpts, engine.WithRecorder(a.metrics))
		runnerOpts = append(runnerOpts, sanitycheck.WithRulesObserver(a.metrics))
	}

	if cfg.History.Enabled {
		store, err := storage.Open(cfg.History, logger.Component("history").Slog())
		if err != nil {
			// Validation does not depend on history.
			logger.Warn("report history unavailable", "error", err)
		} else {
			a.store = store
			runnerOpts = append(runnerOpts, sanitycheck.WithHistory(history.NewRecorder(store, logger.Slog())))
		}
	}

	a.runner = sanitycheck.NewRunner(a.source, engine.NewEvaluator(evalOpts...), runnerOpts...)
	return a, nil
}

// Close releases the history store.
func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func loadSettings() (*config.Config, error) {
	cfg, err := config.LoadWithEnvOverrides(settingsFile)
	if err != nil {
		return nil, cli.NewExitError(cli.ExitUsage, fmt.Errorf("failed to load settings: %w", err))
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
