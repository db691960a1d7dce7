/*
Package cli provides command-line helpers for the sanitycheck command.

Output Formatting:

Reports are printed as plain text (the default, one line per violation) or
as JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Exit Codes:

Commands return an *ExitError to choose the process exit status:

	0  no violations
	1  violations found
	2  usage error or unreadable record

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
