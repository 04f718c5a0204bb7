// Package reporting renders suite outcomes as terminal summaries, markdown,
// HTML and JUnit XML.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/sampledrive/internal/models"
	"github.com/spboyer/sampledrive/internal/suite"
)

// Outcome returns a short label for a sample result.
func Outcome(res suite.Result) string {
	switch {
	case res.Failed():
		return "RUN FAILED"
	case res.State() == models.StateDone:
		return "DONE"
	case res.State() == models.StateErrored:
		return "ERRORED"
	case res.State() == models.StateTimedOut:
		return "TIMED OUT"
	default:
		return "SKIPPED"
	}
}

// Icon returns the status glyph for a sample result.
func Icon(res suite.Result) string {
	switch {
	case res.Failed():
		return "❌"
	case res.State() == models.StateDone:
		return "✅"
	case res.State() == models.StateErrored, res.State() == models.StateTimedOut:
		return "⚠️"
	default:
		return "⏭️"
	}
}

// FormatSummary produces the plain-text suite summary printed at the end of
// a suite.
func FormatSummary(report *suite.Report) string {
	var b strings.Builder

	c := report.Counts()
	fmt.Fprintf(&b, "Samples:  %d planned, %d run\n", c.Planned, len(report.Results))
	fmt.Fprintf(&b, "Outcome:  %d done, %d errored, %d timed out, %d failed, %d skipped\n",
		c.Done, c.Errored, c.TimedOut, c.Failed, c.Skipped)
	fmt.Fprintf(&b, "Duration: %v\n", report.Duration().Round(time.Millisecond))

	if len(report.Results) == 0 {
		return b.String()
	}

	nameWidth := runewidth.StringWidth("Sample")
	for _, res := range report.Results {
		if w := runewidth.StringWidth(res.Sample.Label); w > nameWidth {
			nameWidth = w
		}
	}

	const colIcon, colOutcome = 4, 12
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s  %s  %s\n", padRight("", colIcon), padRight("Sample", nameWidth), padRight("Outcome", colOutcome), "Shots")
	for _, res := range report.Results {
		shots := 0
		if res.Session != nil {
			shots = len(res.Session.Screenshots())
		}
		fmt.Fprintf(&b, "%s  %s  %s  %d\n",
			padRight(Icon(res), colIcon),
			padRight(res.Sample.Label, nameWidth),
			padRight(Outcome(res), colOutcome),
			shots)
	}
	return b.String()
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
