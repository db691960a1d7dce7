package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/sanitycheck/pkg/cli"
	"mercator-hq/sanitycheck/pkg/history"
	"mercator-hq/sanitycheck/pkg/history/retention"
)

// errHistoryDisabled is returned by history commands when storage is off.
var errHistoryDisabled = errors.New("report history is disabled (set history.enabled in the settings file or SANITYCHECK_HISTORY_ENABLED=true)")

var historyFlags struct {
	limit  int
	offset int
	source string
	failed bool
	since  string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and prune stored validation reports",
	Long: `Inspect and prune validation reports stored by the report history.

Subcommands:
  list   - List stored reports, newest first
  prune  - Delete reports outside the retention settings

Examples:
  # Last 20 reports
  sanitycheck history list --limit 20

  # Failed reports since a date, as JSON
  sanitycheck history list --failed --since 2026-01-01T00:00:00Z --format json

  # Apply retention now
  sanitycheck history prune`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports",
	Args:  cobra.NoArgs,
	RunE:  listHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete reports outside the retention settings",
	Args:  cobra.NoArgs,
	RunE:  pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyPruneCmd)

	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 50, "max results")
	historyListCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyListCmd.Flags().StringVar(&historyFlags.source, "source", "", "filter by record source (file path or \"http\")")
	historyListCmd.Flags().BoolVar(&historyFlags.failed, "failed", false, "only reports with violations")
	historyListCmd.Flags().StringVar(&historyFlags.since, "since", "", "only reports evaluated at or after this RFC 3339 time")
}

func openHistory() (*app, error) {
	a, err := newApp(appOptions{})
	if err != nil {
		return nil, err
	}
	if a.store == nil {
		a.Close()
		return nil, cli.NewExitError(cli.ExitUsage, errHistoryDisabled)
	}
	return a, nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return cli.NewExitError(cli.ExitUsage, err)
	}

	query := &history.Query{
		Source: historyFlags.source,
		Limit:  historyFlags.limit,
		Offset: historyFlags.offset,
	}
	if historyFlags.failed {
		passed := false
		query.Passed = &passed
	}
	if historyFlags.since != "" {
		since, err := time.Parse(time.RFC3339, historyFlags.since)
		if err != nil {
			return cli.NewExitError(cli.ExitUsage, fmt.Errorf("invalid --since: %w", err))
		}
		query.Since = &since
	}

	a, err := openHistory()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.store.Query(commandContext(cmd), query)
	if err != nil {
		return cli.NewExitError(cli.ExitUsage, fmt.Errorf("query failed: %w", err))
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		return outputHistoryJSON(out, entries)
	}
	return outputHistoryText(out, entries)
}

func outputHistoryJSON(w io.Writer, entries []*history.Entry) error {
	if entries == nil {
		entries = []*history.Entry{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func outputHistoryText(w io.Writer, entries []*history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No reports found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEVALUATED\tSOURCE\tRULES\tVIOLATIONS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			e.ID,
			e.EvaluatedAt.UTC().Format(time.RFC3339),
			e.Source,
			e.RuleCount,
			len(e.Violations),
		)
	}
	return tw.Flush()
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	a, err := openHistory()
	if err != nil {
		return err
	}
	defer a.Close()

	pruner := retention.NewPruner(a.store, retention.ConfigFrom(a.cfg.History), a.logger.Slog(), nil)
	res, err := pruner.Prune(commandContext(cmd))
	if err != nil {
		return cli.NewExitError(cli.ExitUsage, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d reports (%d by age, %d by count)\n", res.Total(), res.ByAge, res.ByCount)
	return nil
}
