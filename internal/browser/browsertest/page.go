// Package browsertest provides an in-memory browser.Page backed by static
// HTML, for exercising UI flows without launching Chrome.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/spboyer/sampledrive/internal/browser"
)

// ClickHandler runs after an element matching its locator is clicked.
type ClickHandler func(p *Page)

// Page renders one HTML document at a time. Clicks can swap the document
// and queued frames are consumed one per VisibleText call, which lets tests
// script how a run progresses between poll ticks.
type Page struct {
	mu sync.Mutex

	doc      *goquery.Document
	frames   []string
	handlers []handler

	navigations []string
	clicks      []browser.Locator
	shots       int

	// Err, when set, is returned by every call.
	Err error
	// NavigateErr, when set, is returned by Navigate only.
	NavigateErr error
}

type handler struct {
	loc browser.Locator
	fn  ClickHandler
}

var _ browser.Page = (*Page)(nil)

// New returns a page showing html.
func New(html string) *Page {
	p := &Page{}
	p.SetHTML(html)
	return p
}

// SetHTML replaces the current document.
func (p *Page) SetHTML(html string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// goquery only fails on reader errors, which strings.Reader never returns.
		panic(err)
	}
	p.mu.Lock()
	p.doc = doc
	p.mu.Unlock()
}

// QueueFrames schedules documents to appear on successive VisibleText calls.
func (p *Page) QueueFrames(frames ...string) {
	p.mu.Lock()
	p.frames = append(p.frames, frames...)
	p.mu.Unlock()
}

// OnClick registers fn to run when an element matching loc is clicked.
func (p *Page) OnClick(loc browser.Locator, fn ClickHandler) {
	p.mu.Lock()
	p.handlers = append(p.handlers, handler{loc: loc, fn: fn})
	p.mu.Unlock()
}

// Navigations returns the URLs passed to Navigate.
func (p *Page) Navigations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigations...)
}

// Clicks returns the locators passed to successful Click calls.
func (p *Page) Clicks() []browser.Locator {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]browser.Locator(nil), p.clicks...)
}

// ClickCount returns how many successful clicks matched text.
func (p *Page) ClickCount(text string) int {
	n := 0
	for _, c := range p.Clicks() {
		if c.Text == text {
			n++
		}
	}
	return n
}

// Screenshots returns how many screenshots were taken.
func (p *Page) Screenshots() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shots
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := p.check(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	if err := p.NavigateErr; err != nil {
		p.mu.Unlock()
		return err
	}
	p.navigations = append(p.navigations, url)
	p.mu.Unlock()
	return nil
}

func (p *Page) VisibleText(ctx context.Context) (string, error) {
	if err := p.check(ctx); err != nil {
		return "", err
	}
	p.mu.Lock()
	if len(p.frames) > 0 {
		next := p.frames[0]
		p.frames = p.frames[1:]
		p.mu.Unlock()
		p.SetHTML(next)
		p.mu.Lock()
	}
	defer p.mu.Unlock()
	return strings.TrimSpace(p.doc.Find("body").Text()), nil
}

func (p *Page) Count(ctx context.Context, loc browser.Locator) (int, error) {
	if err := p.check(ctx); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.match(loc).Length(), nil
}

func (p *Page) Click(ctx context.Context, loc browser.Locator) error {
	if err := p.check(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	if p.match(loc).Length() == 0 {
		p.mu.Unlock()
		return fmt.Errorf("clicking %s: %w", loc, browser.ErrNoMatch)
	}
	p.clicks = append(p.clicks, loc)
	var fns []ClickHandler
	for _, h := range p.handlers {
		if h.loc == loc {
			fns = append(fns, h.fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
	return nil
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if err := p.check(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shots++
	return []byte(fmt.Sprintf("\x89PNG fake %d", p.shots)), nil
}

func (p *Page) match(loc browser.Locator) *goquery.Selection {
	return p.doc.Find(loc.Selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return browser.MatchText(s.Text(), loc.Text, loc.Exact)
	})
}

func (p *Page) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Err
}
