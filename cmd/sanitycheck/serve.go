package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/sanitycheck/pkg/cli"
	"mercator-hq/sanitycheck/pkg/history/retention"
	"mercator-hq/sanitycheck/pkg/server"
	"mercator-hq/sanitycheck/pkg/telemetry/health"
)

// healthCheckTimeout bounds each readiness check.
const healthCheckTimeout = 5 * time.Second

var serveFlags struct {
	listenAddress string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve record validation over HTTP",
	Long: `Start the HTTP validation service.

POST a record to /v1/validate to validate it. The rules file is re-read on
every request. Health probes are served at /health and /ready, metrics at
/metrics and, with history enabled, stored reports at /v1/reports.

Examples:
  # Start with defaults (127.0.0.1:8090, rules from sanity_checks.json)
  sanitycheck serve

  # Start with a settings file and a different address
  sanitycheck serve --settings sanitycheck.yaml --listen 0.0.0.0:8090`,
	Args: cobra.NoArgs,
	RunE: serveValidation,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
}

func serveValidation(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{metrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	checker := health.New(healthCheckTimeout)
	checker.RegisterCheck("rules", health.RulesCheck(a.source))
	if a.store != nil {
		checker.RegisterCheck("history", a.store.Ping)
	}

	if a.store != nil {
		var observer retention.Observer
		if a.metrics != nil {
			observer = a.metrics
		}
		pruner := retention.NewPruner(a.store, retention.ConfigFrom(cfg.History), a.logger.Slog(), observer)
		scheduler := retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewExitError(cli.ExitUsage, fmt.Errorf("failed to start prune scheduler: %w", err))
		}
		defer scheduler.Stop()
	}

	srv := server.New(cfg.Server, cfg.Metrics, server.Deps{
		Runner:  a.runner,
		Health:  checker,
		Version: health.NewVersionInfo(Version, GitCommit, BuildDate),
		History: a.store,
		Metrics: a.metrics,
	}, a.logger.Slog())

	a.logger.Info("validation service configured",
		"listen_address", cfg.Server.ListenAddress,
		"rules_path", a.source.Path(),
		"history", a.store != nil,
		"metrics", a.metrics != nil,
	)
	if err := srv.Start(ctx); err != nil {
		return cli.NewExitError(cli.ExitUsage, err)
	}
	return nil
}
