package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/sanitycheck/pkg/cli"
)

var (
	// Global flags
	settingsFile string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "sanitycheck <exported_paper_json> [config.json]",
	Short: "Validate a paper export against consistency rules",
	Long: `Sanitycheck validates an exported paper record against conditional
cross-field rules ("if attribute X equals V, then attribute Y must / must not
equal W") and prints one line per violation.

Rules are read from the second argument, or from the rules path in the
settings file (default: sanity_checks.json). A missing or malformed rules file
is treated as having no rules.

Examples:
  # Validate with the default rules file
  sanitycheck paper.json

  # Validate with an explicit rules file
  sanitycheck paper.json rules.yaml

  # JSON report
  sanitycheck paper.json --format json`,
	Version:       Version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          validateRecord,
}

// Execute runs the root command and exits with its status.
func Execute() {
	err := rootCmd.Execute()
	var exitErr *cli.ExitError
	if err != nil && (!errors.As(err, &exitErr) || exitErr.Err != nil) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&settingsFile, "settings", "s", "", "tool settings file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func validateRecord(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) < 1 {
		fmt.Fprintln(out, cli.UsageLine)
		return cli.NewExitError(cli.ExitUsage, nil)
	}

	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	a, err := newApp(appOptions{rulesPath: optionalArg(args, 1)})
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.runner.RunFile(commandContext(cmd), args[0])
	if err != nil {
		fmt.Fprintln(out, (&cli.RecordLoadError{Err: err}).Error())
		return cli.NewExitError(cli.ExitUsage, nil)
	}

	if err := formatter.FormatTo(out, report); err != nil {
		return cli.NewExitError(cli.ExitUsage, fmt.Errorf("failed to write report: %w", err))
	}
	if !report.Passed() {
		return cli.NewExitError(cli.ExitViolations, nil)
	}
	return nil
}

func newFormatter() (cli.Formatter, error) {
	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return nil, cli.NewExitError(cli.ExitUsage, err)
	}
	return cli.NewFormatter(format), nil
}

func optionalArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}
