// Package browser owns the Chrome instance the driver talks to and exposes
// the small page capability the rest of sampledrive consumes.
package browser

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrSessionAcquisition is returned when the browser cannot be launched.
	ErrSessionAcquisition = errors.New("browser session could not be acquired")
	// ErrSessionClosed is returned for calls made after Close.
	ErrSessionClosed = errors.New("browser session closed")
	// ErrNoMatch is returned by Click when no element matches the locator.
	ErrNoMatch = errors.New("no element matches locator")
)

// Viewport is the page size in CSS pixels.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DefaultViewport matches the layout the target app is designed for.
var DefaultViewport = Viewport{Width: 1600, Height: 900}

// Locator selects elements by CSS selector and visible text.
type Locator struct {
	Selector string
	// Text filters the selector's matches. Empty matches everything.
	Text string
	// Exact requires the element's trimmed text to equal Text. Otherwise a
	// case-insensitive substring match is used.
	Exact bool
}

func (l Locator) String() string {
	if l.Text == "" {
		return l.Selector
	}
	if l.Exact {
		return l.Selector + ` text="` + l.Text + `"`
	}
	return l.Selector + ` has-text="` + l.Text + `"`
}

// Page is the set of page interactions sampledrive needs.
type Page interface {
	// Navigate loads url and waits for the network to go idle.
	Navigate(ctx context.Context, url string) error
	// VisibleText returns the rendered text of the whole document body.
	VisibleText(ctx context.Context) (string, error)
	// Count returns the number of elements matching loc.
	Count(ctx context.Context, loc Locator) (int, error)
	// Click activates the first element matching loc.
	Click(ctx context.Context, loc Locator) error
	// Screenshot returns a PNG of the current viewport.
	Screenshot(ctx context.Context) ([]byte, error)
}

// MatchText reports whether an element whose text is got satisfies want.
// Whitespace runs are collapsed before comparing.
func MatchText(got, want string, exact bool) bool {
	want = NormalizeSpace(want)
	if want == "" {
		return true
	}
	got = NormalizeSpace(got)
	if exact {
		return got == want
	}
	return strings.Contains(strings.ToLower(got), strings.ToLower(want))
}

// NormalizeSpace trims s and collapses internal whitespace to single spaces.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
