// Package oracle decides, from what the page shows, whether a triggered run
// is still going, finished or failed.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spboyer/sampledrive/internal/models"
)

const (
	// SuccessMarker is what the console prints when a run completes.
	SuccessMarker = "✅ Done"

	doneWord  = "Done"
	costWords = "total cost"
)

const (
	DefaultInterval = 2 * time.Second
	DefaultMaxWait  = 120 * time.Second
)

// Observation is one read of the page.
type Observation struct {
	// Text is the page's visible text.
	Text string
	// ErrorControl is true when the error acknowledgment control is shown.
	ErrorControl bool
}

// Classify maps an observation to a state. It has no side effects.
//
// An error control wins over success text: a dialog left over from a
// previous run must not let a stale success message pass as this run's.
func Classify(obs Observation) models.State {
	switch {
	case obs.ErrorControl:
		return models.StateErrored
	case strings.Contains(obs.Text, SuccessMarker):
		return models.StateDone
	case strings.Contains(obs.Text, doneWord) && strings.Contains(strings.ToLower(obs.Text), costWords):
		return models.StateDone
	default:
		return models.StatePending
	}
}

// Observer reads the page once.
type Observer interface {
	Observe(ctx context.Context) (Observation, error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context) (Observation, error)

func (f ObserverFunc) Observe(ctx context.Context) (Observation, error) {
	return f(ctx)
}

// Verdict is the outcome of Await.
type Verdict struct {
	State models.State
	// Polls is the number of observations made.
	Polls int
	// Elapsed is the polling time spent, counted in whole intervals.
	Elapsed time.Duration
}

// Poller observes a page at a fixed interval until it reaches a terminal state.
type Poller struct {
	Interval time.Duration
	MaxWait  time.Duration

	// Sleep waits between polls. Nil uses a timer honoring ctx.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnPoll, when set, is called after each classification.
	OnPoll func(v Verdict)
}

// Await polls obs until it reports Done or Errored, or until MaxWait has
// passed, in which case the verdict is TimedOut. A MaxWait that is not a
// multiple of Interval gets one shorter final interval. Each
// interval is waited before its observation, so a page that is already done
// is reported on the first poll. Errors from obs or ctx end polling and are
// returned with the verdict so far.
func (p Poller) Await(ctx context.Context, obs Observer) (Verdict, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	maxWait := p.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	v := Verdict{State: models.StatePending}
	for v.Elapsed < maxWait {
		// The last wait is cut short so polling never runs past maxWait.
		wait := min(interval, maxWait-v.Elapsed)
		if err := sleep(ctx, wait); err != nil {
			return v, err
		}
		v.Elapsed += wait

		o, err := obs.Observe(ctx)
		v.Polls++
		if err != nil {
			return v, fmt.Errorf("observing page: %w", err)
		}

		v.State = Classify(o)
		slog.Debug("poll", "n", v.Polls, "elapsed", v.Elapsed, "state", v.State)
		if p.OnPoll != nil {
			p.OnPoll(v)
		}
		if v.State.Terminal() {
			return v, nil
		}
	}

	v.State = models.StateTimedOut
	return v, nil
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
