// Package runner drives one sample through load, run and observation,
// capturing screenshots along the way.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spboyer/sampledrive/internal/artifacts"
	"github.com/spboyer/sampledrive/internal/catalog"
	"github.com/spboyer/sampledrive/internal/models"
	"github.com/spboyer/sampledrive/internal/oracle"
	"github.com/spboyer/sampledrive/internal/ui"
)

// Screenshot tags, in the order a successful cycle produces them.
const (
	TagMenu    = "menu"
	TagLoaded  = "loaded"
	TagRunning = "running"
	TagDone    = "done"
	TagFailed  = "failed"
)

// Config holds the runner's tunables.
type Config struct {
	BaseURL string
	// LoadGrace is waited after navigation for client-side rendering.
	LoadGrace time.Duration
	// ResultGrace is waited after a terminal state before the final screenshot.
	ResultGrace time.Duration
	// CaptureMenu adds a screenshot of the open samples menu.
	CaptureMenu bool
	Poller      oracle.Poller
}

// DefaultConfig returns the pacing used against the target app.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:     baseURL,
		LoadGrace:   1200 * time.Millisecond,
		ResultGrace: 1000 * time.Millisecond,
		Poller: oracle.Poller{
			Interval: oracle.DefaultInterval,
			MaxWait:  oracle.DefaultMaxWait,
		},
	}
}

// Phase names a checkpoint within a run.
type Phase string

const (
	PhaseLoaded Phase = "loaded"
	PhaseResult Phase = "result"
)

// ErrStopped is returned by a Checkpoint when the operator chose to stop.
var ErrStopped = errors.New("stopped at checkpoint")

// Checkpoint pauses a run until someone acknowledges it.
type Checkpoint interface {
	Checkpoint(ctx context.Context, phase Phase, sample catalog.Entry) error
}

// EventType identifies a progress event.
type EventType string

const (
	EventRunStart       EventType = "run_start"
	EventLoaded         EventType = "loaded"
	EventRunning        EventType = "running"
	EventAwaiting       EventType = "awaiting"
	EventScreenshot     EventType = "screenshot"
	EventErrorDismissed EventType = "error_dialog_dismissed"
	EventDone           EventType = "done"
	EventTimeoutOrError EventType = "timeout_or_error"
	EventRunFailed      EventType = "run_failed"
)

// ProgressEvent reports a step of a run.
type ProgressEvent struct {
	Type   EventType
	RunID  string
	Sample catalog.Entry
	// Tag and Path are set for EventScreenshot.
	Tag  string
	Path string
	// State and Polls are set once the oracle has decided.
	State models.State
	Polls int
	// Err is set for EventRunFailed.
	Err      error
	Duration time.Duration
}

// Listener receives progress events.
type Listener func(event ProgressEvent)

// Runner executes sample runs against one page, one at a time.
type Runner struct {
	driver *ui.Driver
	store  *artifacts.Store
	cfg    Config

	now   func() time.Time
	newID func() string

	mu        sync.Mutex
	listeners []Listener
}

// Option configures a Runner.
type Option func(*Runner)

// WithListener registers a progress listener.
func WithListener(l Listener) Option {
	return func(r *Runner) {
		r.listeners = append(r.listeners, l)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithRunIDs replaces the run identifier generator.
func WithRunIDs(fn func() string) Option {
	return func(r *Runner) {
		r.newID = fn
	}
}

// New returns a runner that acts through driver and saves screenshots to store.
func New(driver *ui.Driver, store *artifacts.Store, cfg Config, opts ...Option) *Runner {
	r := &Runner{
		driver: driver,
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		newID:  artifacts.NewRunID,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

func (r *Runner) notify(event ProgressEvent) {
	r.mu.Lock()
	listeners := make([]Listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l(event)
	}
}

// LoadSlug names the screenshot taken when the application fails to load.
const LoadSlug = "load"

// Load opens the application and lets it render. When navigation fails a
// best-effort "failed" screenshot of whatever the page shows is taken.
func (r *Runner) Load(ctx context.Context) error {
	slog.Debug("loading application", "url", r.cfg.BaseURL)
	if err := r.driver.Page().Navigate(ctx, r.cfg.BaseURL); err != nil {
		err = fmt.Errorf("loading %s: %w", r.cfg.BaseURL, err)
		if ctx.Err() == nil {
			r.captureLoadFailure(ctx)
		}
		return err
	}
	return r.driver.Settle(ctx, r.cfg.LoadGrace)
}

func (r *Runner) captureLoadFailure(ctx context.Context) {
	id := r.newID()
	path, err := r.driver.Capture(ctx, ui.CapturerFunc(func(_ context.Context, tag string, png []byte) (string, error) {
		return r.store.Write(LoadSlug, id, tag, png)
	}), TagFailed)
	if err != nil {
		slog.Warn("load failure screenshot not captured", "error", err)
		return
	}
	r.notify(ProgressEvent{Type: EventScreenshot, RunID: id, Tag: TagFailed, Path: path})
}

// Reset clears the current run so the next sample starts clean.
func (r *Runner) Reset(ctx context.Context) error {
	return r.driver.Reset(ctx)
}

// Run executes one observation cycle for sample. The returned session is
// never nil. A UI step that fails aborts the run: a "failed" screenshot is
// attempted, the error is recorded on the session and returned. cp may be nil.
func (r *Runner) Run(ctx context.Context, sample catalog.Entry, cp Checkpoint) (*models.RunSession, error) {
	sess := models.NewRunSession(r.newID(), sample, r.now())
	r.notify(ProgressEvent{Type: EventRunStart, RunID: sess.ID, Sample: sample})

	polls, err := r.cycle(ctx, sess, cp)
	if errors.Is(err, ErrStopped) {
		sess.Fail(err, r.now())
		return sess, err
	}
	if err != nil {
		if ctx.Err() == nil {
			if _, shotErr := r.capture(ctx, sess, TagFailed); shotErr != nil {
				slog.Warn("failure screenshot not captured", "sample", sample.Label, "error", shotErr)
			}
		}
		sess.Fail(err, r.now())
		r.notify(ProgressEvent{
			Type:     EventRunFailed,
			RunID:    sess.ID,
			Sample:   sample,
			State:    sess.State,
			Polls:    polls,
			Err:      err,
			Duration: sess.Duration(),
		})
		return sess, fmt.Errorf("running %q: %w", sample.Label, err)
	}
	return sess, nil
}

func (r *Runner) cycle(ctx context.Context, sess *models.RunSession, cp Checkpoint) (int, error) {
	sample := sess.Sample

	// The page is shared across runs; a dialog left behind by an earlier
	// error would otherwise be classified as this run's failure.
	stale, err := r.driver.ErrorControlPresent(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking for a leftover error dialog: %w", err)
	}
	if stale {
		slog.Warn("dismissing error dialog left by a previous run", "sample", sample.Label)
		if err := r.driver.DismissError(ctx); err != nil {
			return 0, err
		}
	}

	if err := r.driver.OpenSamplesMenu(ctx); err != nil {
		return 0, err
	}
	if r.cfg.CaptureMenu {
		if _, err := r.capture(ctx, sess, TagMenu); err != nil {
			return 0, err
		}
	}
	if err := r.driver.SelectSample(ctx, sample.Label); err != nil {
		return 0, err
	}
	if _, err := r.capture(ctx, sess, TagLoaded); err != nil {
		return 0, err
	}
	r.notify(ProgressEvent{Type: EventLoaded, RunID: sess.ID, Sample: sample})

	if cp != nil {
		if err := cp.Checkpoint(ctx, PhaseLoaded, sample); err != nil {
			return 0, fmt.Errorf("checkpoint %s: %w", PhaseLoaded, err)
		}
	}

	if err := r.driver.TriggerRun(ctx); err != nil {
		return 0, err
	}
	r.notify(ProgressEvent{Type: EventRunning, RunID: sess.ID, Sample: sample})
	if _, err := r.capture(ctx, sess, TagRunning); err != nil {
		return 0, err
	}

	r.notify(ProgressEvent{Type: EventAwaiting, RunID: sess.ID, Sample: sample})
	verdict, err := r.cfg.Poller.Await(ctx, r.driver)
	sess.RecordPolls(verdict.Polls)
	if err != nil {
		return verdict.Polls, err
	}

	if verdict.State == models.StateErrored {
		r.notify(ProgressEvent{Type: EventErrorDismissed, RunID: sess.ID, Sample: sample, State: verdict.State})
		if err := r.driver.DismissError(ctx); err != nil {
			slog.Warn("error dialog could not be dismissed", "sample", sample.Label, "error", err)
		}
	}

	if err := r.driver.Settle(ctx, r.cfg.ResultGrace); err != nil {
		return verdict.Polls, err
	}
	if _, err := r.capture(ctx, sess, TagDone); err != nil {
		return verdict.Polls, err
	}

	sess.Finish(verdict.State, r.now())
	final := EventTimeoutOrError
	if verdict.State == models.StateDone {
		final = EventDone
	}
	r.notify(ProgressEvent{
		Type:     final,
		RunID:    sess.ID,
		Sample:   sample,
		State:    verdict.State,
		Polls:    verdict.Polls,
		Duration: sess.Duration(),
	})

	if cp != nil {
		if err := cp.Checkpoint(ctx, PhaseResult, sample); err != nil {
			return verdict.Polls, fmt.Errorf("checkpoint %s: %w", PhaseResult, err)
		}
	}
	return verdict.Polls, nil
}

func (r *Runner) capture(ctx context.Context, sess *models.RunSession, tag string) (string, error) {
	path, err := r.driver.Capture(ctx, ui.CapturerFunc(func(_ context.Context, tag string, png []byte) (string, error) {
		return r.store.Write(sess.Sample.Slug(), sess.ID, tag, png)
	}), tag)
	if err != nil {
		return "", fmt.Errorf("screenshot %s: %w", tag, err)
	}

	sess.AddScreenshot(models.Screenshot{Tag: tag, Path: path, TakenAt: r.now()})
	r.notify(ProgressEvent{Type: EventScreenshot, RunID: sess.ID, Sample: sess.Sample, Tag: tag, Path: path})
	return path, nil
}
