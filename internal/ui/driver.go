// Package ui holds the single-step interactions with the target
// application: open the samples menu, pick a sample, run, clear, dismiss
// the error dialog and capture screenshots.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spboyer/sampledrive/internal/browser"
	"github.com/spboyer/sampledrive/internal/oracle"
)

// ErrElementNotFound is returned when a control does not appear within the
// implicit wait.
var ErrElementNotFound = errors.New("element not found")

// Controls of the target application.
var (
	SamplesButton = browser.Locator{Selector: "button", Text: "Samples"}
	RunButton     = browser.Locator{Selector: "button", Text: "Run"}
	ClearButton   = browser.Locator{Selector: "button", Text: "Clear"}
	AbortButton   = browser.Locator{Selector: "button", Text: "Abort"}
)

// SampleItem locates the catalog entry whose text is exactly label.
func SampleItem(label string) browser.Locator {
	return browser.Locator{Selector: "div.font-medium", Text: label, Exact: true}
}

// Timing holds the waits around each interaction. The target app animates
// its transitions without exposing when they finish, so the settle delays
// are fixed sleeps.
type Timing struct {
	// ImplicitWait bounds how long a control is looked for.
	ImplicitWait time.Duration
	// PollEvery is the lookup retry interval within ImplicitWait.
	PollEvery time.Duration

	MenuSettle    time.Duration
	SelectSettle  time.Duration
	RunSettle     time.Duration
	ResetSettle   time.Duration
	DismissSettle time.Duration
}

// DefaultTiming mirrors the pacing the target app needs.
func DefaultTiming() Timing {
	return Timing{
		ImplicitWait:  5 * time.Second,
		PollEvery:     100 * time.Millisecond,
		MenuSettle:    500 * time.Millisecond,
		SelectSettle:  1000 * time.Millisecond,
		RunSettle:     1500 * time.Millisecond,
		ResetSettle:   500 * time.Millisecond,
		DismissSettle: 500 * time.Millisecond,
	}
}

// Capturer persists a screenshot for tag and returns where it went.
type Capturer interface {
	Capture(ctx context.Context, tag string, png []byte) (string, error)
}

// CapturerFunc adapts a function to Capturer.
type CapturerFunc func(ctx context.Context, tag string, png []byte) (string, error)

func (f CapturerFunc) Capture(ctx context.Context, tag string, png []byte) (string, error) {
	return f(ctx, tag, png)
}

// Driver performs UI actions against a page.
type Driver struct {
	page   browser.Page
	timing Timing
	sleep  func(ctx context.Context, d time.Duration) error
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithSleep replaces the settle and retry sleep, for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) DriverOption {
	return func(d *Driver) {
		d.sleep = fn
	}
}

// NewDriver returns a driver for page.
func NewDriver(page browser.Page, timing Timing, opts ...DriverOption) *Driver {
	d := &Driver{
		page:   page,
		timing: timing,
		sleep:  oracle.Sleep,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Page returns the page the driver acts on.
func (d *Driver) Page() browser.Page {
	return d.page
}

// OpenSamplesMenu reveals the sample catalog.
func (d *Driver) OpenSamplesMenu(ctx context.Context) error {
	return d.click(ctx, "samples menu", SamplesButton, d.timing.MenuSettle)
}

// SelectSample activates the catalog item labelled exactly label.
func (d *Driver) SelectSample(ctx context.Context, label string) error {
	return d.click(ctx, fmt.Sprintf("sample %q", label), SampleItem(label), d.timing.SelectSettle)
}

// TriggerRun starts the loaded workflow.
func (d *Driver) TriggerRun(ctx context.Context) error {
	return d.click(ctx, "run button", RunButton, d.timing.RunSettle)
}

// Reset clears the current run.
func (d *Driver) Reset(ctx context.Context) error {
	return d.click(ctx, "clear button", ClearButton, d.timing.ResetSettle)
}

// DismissError acknowledges the error dialog.
func (d *Driver) DismissError(ctx context.Context) error {
	return d.click(ctx, "abort button", AbortButton, d.timing.DismissSettle)
}

// ErrorControlPresent reports whether the error dialog is showing. It does
// not wait for the control to appear.
func (d *Driver) ErrorControlPresent(ctx context.Context) (bool, error) {
	n, err := d.page.Count(ctx, AbortButton)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Observe implements oracle.Observer.
func (d *Driver) Observe(ctx context.Context) (oracle.Observation, error) {
	text, err := d.page.VisibleText(ctx)
	if err != nil {
		return oracle.Observation{}, err
	}
	errCtl, err := d.ErrorControlPresent(ctx)
	if err != nil {
		return oracle.Observation{}, err
	}
	return oracle.Observation{Text: text, ErrorControl: errCtl}, nil
}

// Capture takes a viewport screenshot and hands it to c.
func (d *Driver) Capture(ctx context.Context, c Capturer, tag string) (string, error) {
	png, err := d.page.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	return c.Capture(ctx, tag, png)
}

// Settle sleeps for dur, honoring ctx.
func (d *Driver) Settle(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	slog.Debug("settle", "for", dur)
	return d.sleep(ctx, dur)
}

func (d *Driver) click(ctx context.Context, name string, loc browser.Locator, settle time.Duration) error {
	if err := d.waitFor(ctx, name, loc); err != nil {
		return err
	}
	if err := d.page.Click(ctx, loc); err != nil {
		if errors.Is(err, browser.ErrNoMatch) {
			return fmt.Errorf("%s: %w", name, ErrElementNotFound)
		}
		return fmt.Errorf("clicking %s: %w", name, err)
	}
	slog.Debug("clicked", "control", name, "locator", loc.String())
	return d.Settle(ctx, settle)
}

// waitFor polls until loc matches at least one element or the implicit
// wait runs out.
func (d *Driver) waitFor(ctx context.Context, name string, loc browser.Locator) error {
	every := d.timing.PollEvery
	if every <= 0 {
		every = 100 * time.Millisecond
	}

	var waited time.Duration
	for {
		n, err := d.page.Count(ctx, loc)
		if err != nil {
			return fmt.Errorf("looking for %s: %w", name, err)
		}
		if n > 0 {
			return nil
		}
		if waited >= d.timing.ImplicitWait {
			return fmt.Errorf("%s (%s) after %v: %w", name, loc, d.timing.ImplicitWait, ErrElementNotFound)
		}
		if err := d.sleep(ctx, every); err != nil {
			return err
		}
		waited += every
	}
}
