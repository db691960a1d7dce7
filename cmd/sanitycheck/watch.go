package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"mercator-hq/sanitycheck/pkg/cli"
	"mercator-hq/sanitycheck/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <exported_paper_json> [config.json]",
	Short: "Re-validate a record whenever it or the rules change",
	Long: `Validate a record, then keep watching the record and the rules file and
validate again after every change. Bursts of file events are debounced
(rules.debounce_interval in the settings file).

Examples:
  # Watch with the default rules file
  sanitycheck watch paper.json

  # Watch with an explicit rules file and JSON output
  sanitycheck watch paper.json rules.json --format json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: watchRecord,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchRecord(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	a, err := newApp(appOptions{rulesPath: optionalArg(args, 1)})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	recordPath := args[0]
	w, err := watch.New(watch.Config{
		Paths:            []string{recordPath, a.source.Path()},
		DebounceInterval: a.cfg.Rules.DebounceInterval,
	}, a.logger.Component("watch").Slog())
	if err != nil {
		return cli.NewExitError(cli.ExitUsage, err)
	}

	out := cmd.OutOrStdout()
	runs := &serialRuns{}
	validate := func() {
		runs.Do(func() {
			report, err := a.runner.RunFile(ctx, recordPath)
			if err != nil {
				fmt.Fprintln(out, (&cli.RecordLoadError{Err: err}).Error())
				return
			}
			if err := formatter.FormatTo(out, report); err != nil {
				a.logger.Error("failed to write report", "error", err)
			}
		})
	}

	validate()
	err = w.Watch(ctx, func(path string) {
		a.logger.Info("change detected, re-validating", "path", path)
		validate()
	})
	// A debounced run may still be in flight; the store closes only after it.
	runs.Stop()
	return err
}

// serialRuns runs validations one at a time. After Stop no further run starts.
type serialRuns struct {
	mu      sync.Mutex
	stopped bool
}

// Do runs fn unless Stop has been called, and reports whether it ran.
func (s *serialRuns) Do(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	fn()
	return true
}

// Stop waits for a run in progress and refuses later ones.
func (s *serialRuns) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}
