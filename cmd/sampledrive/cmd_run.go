package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spboyer/sampledrive/internal/checkpoint"
	"github.com/spboyer/sampledrive/internal/models"
	"github.com/spboyer/sampledrive/internal/reporting"
	"github.com/spboyer/sampledrive/internal/runner"
	"github.com/spboyer/sampledrive/internal/suite"
	"github.com/spf13/cobra"
)

var (
	strict bool
	hold   time.Duration
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <label...>",
		Short: "Run one sample workflow and capture screenshots",
		Long: `Run one sample workflow unattended.

The arguments are joined with spaces and matched against the sample labels
(or keys). Progress is printed as one tag per line:

  SCREENSHOT:<path>        a screenshot was saved
  LOADED                   the sample is on the canvas
  RUNNING                  the run was started
  ERROR_DIALOG_DISMISSED   the app reported an error and it was acknowledged
  DONE                     the run finished successfully
  TIMEOUT_OR_ERROR         the run errored, timed out or a UI step failed`,
		Example: `  sampledrive run Document Summarizer
  sampledrive run rag --headless --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit 1 unless the run finished Done")
	cmd.Flags().DurationVar(&hold, "hold", 0, "Keep the browser open after the run (default: 8s headed, 0 headless)")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	label := strings.Join(args, " ")

	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	sample, err := st.Samples.Lookup(label)
	if err != nil {
		return fmt.Errorf("%w\nValid labels: %s", err, strings.Join(st.Samples.Labels(), ", "))
	}
	if cmd.Flags().Changed("hold") {
		st.Hold = hold
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	logger, err := st.openSessionLog()
	if err != nil {
		return err
	}
	defer closeQuietly("session log", logger.Close)

	page, closePage, err := openBrowser(ctx, st.Browser)
	if err != nil {
		return err
	}
	defer closeQuietly("browser", closePage)

	r := st.newRunner(page,
		runner.WithListener(tagPrinter(out)),
		runner.WithListener(runner.SessionLogListener(logger)),
	)

	fmt.Fprintf(out, "Opening app for: %s\n", sample.Label) //nolint:errcheck
	if err := r.Load(ctx); err != nil {
		fmt.Fprintln(out, "TIMEOUT_OR_ERROR") //nolint:errcheck
		return err
	}

	preview := checkpoint.Delay{Phase: runner.PhaseLoaded, Duration: st.Preview, Sleep: sleep}
	sess, runErr := r.Run(ctx, sample, preview)

	summary := sess.Snapshot()
	if st.Report != "" {
		report := &suite.Report{
			Planned:    1,
			Results:    []suite.Result{{Sample: sample, Session: sess, Err: runErr}},
			StartedAt:  summary.StartedAt,
			FinishedAt: summary.FinishedAt,
		}
		if err := reporting.Write(report, "sampledrive run: "+sample.Label, st.Report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	if st.Hold > 0 {
		if err := sleep(ctx, st.Hold); err != nil {
			return err
		}
	}

	if strict && summary.State != models.StateDone {
		return &RunFailureError{Message: fmt.Sprintf("%s finished %s", sample.Label, summary.State)}
	}
	return nil
}
