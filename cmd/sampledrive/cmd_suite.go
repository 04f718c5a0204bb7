package main

import (
	"fmt"
	"log/slog"

	"github.com/spboyer/sampledrive/internal/checkpoint"
	"github.com/spboyer/sampledrive/internal/reporting"
	"github.com/spboyer/sampledrive/internal/runner"
	"github.com/spboyer/sampledrive/internal/session"
	"github.com/spboyer/sampledrive/internal/suite"
	"github.com/spf13/cobra"
)

var (
	noPause     bool
	suiteStrict bool
)

func newSuiteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Walk through every sample with pauses for inspection",
		Long: `Run every sample in catalog order against one browser window.

After a sample loads and again after its result appears, the suite waits
for you to press ENTER (or choose Continue) so you can inspect the canvas.
Type q, or choose Stop, to end the suite early. Errors and timeouts are
reported and the suite moves on to the next sample.`,
		Args: cobra.NoArgs,
		RunE: suiteCommandE,
	}

	cmd.Flags().BoolVar(&noPause, "no-pause", false, "Do not wait for acknowledgment at checkpoints")
	cmd.Flags().BoolVar(&suiteStrict, "strict", false, "Exit 1 unless every sample finished Done")

	return cmd
}

//nolint:errcheck // display-only writes
func suiteCommandE(cmd *cobra.Command, _ []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("no-pause") {
		st.Pause = !noPause
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if st.Samples.Len() == 0 {
		fmt.Fprintln(out, banner("🎉 No samples to test!"))
		return nil
	}

	logger, err := st.openSessionLog()
	if err != nil {
		return err
	}
	defer closeQuietly("session log", logger.Close)

	fmt.Fprintln(out, "Opening app...")
	page, closePage, err := openBrowser(ctx, st.Browser)
	if err != nil {
		return err
	}
	defer closeQuietly("browser", closePage)

	printer := newSuitePrinter(out, isTerminal(out))
	defer printer.stopSpinner()
	st.Runner.Poller.OnPoll = printer.onPoll
	st.Runner.CaptureMenu = st.CaptureMenu

	r := st.newRunner(page,
		runner.WithListener(printer.listen),
		runner.WithListener(runner.SessionLogListener(logger)),
	)

	var (
		prompter *checkpoint.Prompter
		cp       runner.Checkpoint
	)
	if st.Pause {
		prompter = checkpoint.New(cmd.InOrStdin(), out)
		cp = prompter
	}

	logEvent(logger, session.NewEvent(session.EventSuiteStart, session.SuiteStartData(st.Runner.BaseURL, st.Samples.Len())))

	report, runErr := suite.New(r, st.Samples, cp).Run(ctx)

	c := report.Counts()
	logEvent(logger, session.NewEvent(session.EventSuiteComplete, session.SuiteCompleteData(
		len(report.Results), c.Done, c.Errored, c.TimedOut, c.Failed, report.Duration().Milliseconds())))

	fmt.Fprintln(out)
	fmt.Fprint(out, reporting.FormatSummary(report))

	if st.Report != "" {
		if err := reporting.Write(report, "sampledrive suite", st.Report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(out, "Report saved to: %s\n", st.Report)
	}

	if runErr != nil {
		return runErr
	}

	if report.Stopped {
		fmt.Fprintln(out, banner("⏹️  Suite stopped"))
	} else {
		fmt.Fprintln(out, banner("🎉 All samples tested!"))
	}

	if prompter != nil {
		if err := prompter.Pause(ctx, "Press ENTER to close the browser..."); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if suiteStrict && c.Done != c.Planned {
		return &RunFailureError{Message: fmt.Sprintf("%d of %d samples finished Done", c.Done, c.Planned)}
	}
	return nil
}

func logEvent(l session.Logger, ev session.Event) {
	if err := l.Log(ev); err != nil {
		slog.Warn("writing session log", "error", err)
	}
}
