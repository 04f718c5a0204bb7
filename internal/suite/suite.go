// Package suite runs every catalog sample in order against one browser
// session, pausing at checkpoints for a human to inspect the result.
package suite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spboyer/sampledrive/internal/catalog"
	"github.com/spboyer/sampledrive/internal/models"
	"github.com/spboyer/sampledrive/internal/runner"
)

//go:generate go tool mockgen -destination=mock_runner_test.go -package=suite . sampleRunner

// sampleRunner is the part of runner.Runner the suite drives.
type sampleRunner interface {
	Load(ctx context.Context) error
	Run(ctx context.Context, sample catalog.Entry, cp runner.Checkpoint) (*models.RunSession, error)
	Reset(ctx context.Context) error
}

var _ sampleRunner = (*runner.Runner)(nil)

// Result is the outcome of one sample.
type Result struct {
	Sample  catalog.Entry
	Session *models.RunSession
	// Err is set when the run was aborted by a UI failure.
	Err error
	// ResetErr is set when clearing the page after the run failed.
	ResetErr error
}

// State returns the oracle state the run reached.
func (r Result) State() models.State {
	if r.Session == nil {
		return models.StatePending
	}
	return r.Session.Snapshot().State
}

// Failed reports whether the run was aborted before reaching a terminal state.
func (r Result) Failed() bool {
	return r.Err != nil && !errors.Is(r.Err, runner.ErrStopped)
}

// Stopped reports whether the operator stopped the suite before this sample
// reached a terminal state.
func (r Result) Stopped() bool {
	return errors.Is(r.Err, runner.ErrStopped) && !r.State().Terminal()
}

// Counts tallies a report.
type Counts struct {
	Planned  int
	Done     int
	Errored  int
	TimedOut int
	Failed   int
	Skipped  int
}

// Report is the outcome of a suite.
type Report struct {
	Results    []Result
	Planned    int
	Stopped    bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Counts tallies results by state.
func (r *Report) Counts() Counts {
	c := Counts{Planned: r.Planned}
	for _, res := range r.Results {
		switch {
		case res.Failed():
			c.Failed++
		case res.State() == models.StateDone:
			c.Done++
		case res.State() == models.StateErrored:
			c.Errored++
		case res.State() == models.StateTimedOut:
			c.TimedOut++
		}
	}
	c.Skipped = r.Planned - len(r.Results)
	for _, res := range r.Results {
		if res.Stopped() {
			c.Skipped++
		}
	}
	return c
}

// Duration returns the wall time of the suite.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Orchestrator runs the catalog.
type Orchestrator struct {
	runner  sampleRunner
	samples *catalog.Catalog
	cp      runner.Checkpoint

	now      func() time.Time
	onResult func(Result)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithResultHandler is called after each sample, reset included.
func WithResultHandler(fn func(Result)) Option {
	return func(o *Orchestrator) { o.onResult = fn }
}

// New returns an orchestrator. cp may be nil to run unattended.
func New(r sampleRunner, samples *catalog.Catalog, cp runner.Checkpoint, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner:  r,
		samples: samples,
		cp:      cp,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run loads the application once and runs each sample in catalog order.
// A sample that errors, times out or fails a UI step does not stop the
// suite; only a failed load, a cancelled context or a stop at a checkpoint
// does. The report is never nil.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	entries := o.samples.Entries()
	report := &Report{Planned: len(entries), StartedAt: o.now()}
	defer func() { report.FinishedAt = o.now() }()

	if len(entries) == 0 {
		slog.Debug("no samples to run")
		return report, nil
	}

	if err := o.runner.Load(ctx); err != nil {
		return report, fmt.Errorf("loading application: %w", err)
	}

	for i, sample := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		sess, err := o.runner.Run(ctx, sample, o.cp)
		res := Result{Sample: sample, Session: sess, Err: err}

		if errors.Is(err, runner.ErrStopped) {
			report.Stopped = true
			o.record(report, res)
			return report, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				o.record(report, res)
				return report, ctx.Err()
			}
			slog.Warn("sample failed", "sample", sample.Label, "error", err)
		}

		if resetErr := o.runner.Reset(ctx); resetErr != nil {
			res.ResetErr = resetErr
			slog.Warn("reset failed, reloading", "sample", sample.Label, "error", resetErr)
			if i < len(entries)-1 {
				if loadErr := o.runner.Load(ctx); loadErr != nil {
					o.record(report, res)
					return report, fmt.Errorf("reloading after %q: %w", sample.Label, loadErr)
				}
			}
		}
		o.record(report, res)
	}
	return report, nil
}

func (o *Orchestrator) record(report *Report, res Result) {
	report.Results = append(report.Results, res)
	if o.onResult != nil {
		o.onResult(res)
	}
}
