package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spboyer/sampledrive/internal/oracle"
	"github.com/spboyer/sampledrive/internal/runner"
	"github.com/spboyer/sampledrive/internal/spinner"
)

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}

// tagPrinter writes the machine-readable progress tags of the run command,
// one per line.
//
//nolint:errcheck // display-only writes
func tagPrinter(w io.Writer) runner.Listener {
	return func(e runner.ProgressEvent) {
		switch e.Type {
		case runner.EventScreenshot:
			fmt.Fprintf(w, "SCREENSHOT:%s\n", e.Path)
		case runner.EventLoaded:
			fmt.Fprintln(w, "LOADED")
		case runner.EventRunning:
			fmt.Fprintln(w, "RUNNING")
		case runner.EventErrorDismissed:
			fmt.Fprintln(w, "ERROR_DIALOG_DISMISSED")
		case runner.EventDone:
			fmt.Fprintln(w, "DONE")
		case runner.EventTimeoutOrError, runner.EventRunFailed:
			fmt.Fprintln(w, "TIMEOUT_OR_ERROR")
		}
	}
}

// suitePrinter writes human-readable suite progress. While a run is being
// polled it shows a spinner when attached to a terminal.
type suitePrinter struct {
	w           io.Writer
	interactive bool

	mu   sync.Mutex
	spin *spinner.Spinner
}

func newSuitePrinter(w io.Writer, interactive bool) *suitePrinter {
	return &suitePrinter{w: w, interactive: interactive}
}

//nolint:errcheck // display-only writes
func (p *suitePrinter) listen(e runner.ProgressEvent) {
	if e.Type == runner.EventAwaiting {
		p.startSpinner(fmt.Sprintf("Waiting for '%s' to finish...", e.Sample.Label))
		return
	}
	p.stopSpinner()

	switch e.Type {
	case runner.EventRunStart:
		fmt.Fprintln(p.w, banner("Testing: "+e.Sample.Label))
	case runner.EventScreenshot:
		fmt.Fprintf(p.w, "  📸 %s\n", e.Path)
	case runner.EventLoaded:
		fmt.Fprintf(p.w, "  %s\n", successMsg("Sample loaded"))
	case runner.EventRunning:
		fmt.Fprintln(p.w, "  ▶️  Running...")
	case runner.EventErrorDismissed:
		fmt.Fprintf(p.w, "  %s\n", warnMsg("Error dialog dismissed"))
	case runner.EventDone:
		fmt.Fprintf(p.w, "  %s\n", successMsg("Execution complete in %s (%d polls)", formatDuration(e.Duration), e.Polls))
	case runner.EventTimeoutOrError:
		fmt.Fprintf(p.w, "  %s\n", warnMsg("Finished %s after %d polls", e.State, e.Polls))
	case runner.EventRunFailed:
		fmt.Fprintf(p.w, "  %s\n", errorMsg("Run failed: %v", e.Err))
	}
}

// onPoll updates the spinner with the polling progress.
func (p *suitePrinter) onPoll(v oracle.Verdict) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spin != nil {
		p.spin.Update(fmt.Sprintf("Waiting for a result... poll %d, %s", v.Polls, v.Elapsed))
	}
}

func (p *suitePrinter) startSpinner(message string) {
	if !p.interactive {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spin == nil {
		p.spin = spinner.Start(p.w, message)
	}
}

func (p *suitePrinter) stopSpinner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spin != nil {
		p.spin.Stop()
		p.spin = nil
	}
}
