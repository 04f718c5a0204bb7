package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Options configures the launched browser.
type Options struct {
	Viewport Viewport
	Headless bool
	// SlowMo delays every click, which makes headed runs easier to follow.
	SlowMo time.Duration
	// ExecPath overrides the Chrome binary chromedp would pick.
	ExecPath string
	// IdleTimeout bounds the wait for network idle after navigation.
	IdleTimeout time.Duration
}

// DefaultOptions returns headed defaults used by the interactive suite.
func DefaultOptions() Options {
	return Options{
		Viewport:    DefaultViewport,
		Headless:    false,
		SlowMo:      80 * time.Millisecond,
		IdleTimeout: 30 * time.Second,
	}
}

// Session is one Chrome process with a single tab.
type Session struct {
	opts Options

	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	closeOnce sync.Once
	closed    chan struct{}
}

var _ Page = (*Session)(nil)

// Open launches Chrome and prepares one tab with the configured viewport.
// The caller must Close the session on every path.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = DefaultViewport
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultOptions().IdleTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(opts.Viewport.Width, opts.Viewport.Height),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			slog.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)

	// The first Run starts the browser process.
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(opts.Viewport.Width), int64(opts.Viewport.Height)),
		page.SetLifecycleEventsEnabled(true),
	)
	if err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %v", ErrSessionAcquisition, err)
	}

	slog.Debug("browser session opened",
		"headless", opts.Headless,
		"width", opts.Viewport.Width,
		"height", opts.Viewport.Height)

	return &Session{
		opts:        opts,
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		closed:      make(chan struct{}),
	}, nil
}

// Close shuts the tab and the browser process. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = chromedp.Cancel(s.ctx)
		s.cancelTab()
		s.cancelAlloc()
		slog.Debug("browser session closed")
	})
	return err
}

// run executes actions on the tab, aborting when ctx is done. Cancelling the
// derived context never closes the tab itself.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	select {
	case <-s.closed:
		return ErrSessionClosed
	default:
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	listenCtx, stopListening := context.WithCancel(s.ctx)
	defer stopListening()

	idle := make(chan struct{})
	var (
		mu      sync.Mutex
		started bool
		once    sync.Once
	)
	chromedp.ListenTarget(listenCtx, func(ev any) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch e.Name {
		case "init":
			started = true
		case "networkIdle":
			if started {
				once.Do(func() { close(idle) })
			}
		}
	})

	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}

	timer := time.NewTimer(s.opts.IdleTimeout)
	defer timer.Stop()

	select {
	case <-idle:
		return nil
	case <-timer.C:
		slog.Warn("network did not go idle", "url", url, "timeout", s.opts.IdleTimeout)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) VisibleText(ctx context.Context) (string, error) {
	var text string
	if err := s.run(ctx, chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text)); err != nil {
		return "", fmt.Errorf("reading page text: %w", err)
	}
	return text, nil
}

func (s *Session) Count(ctx context.Context, loc Locator) (int, error) {
	expr, err := locatorScript(loc, "matches.length")
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.run(ctx, chromedp.Evaluate(expr, &n)); err != nil {
		return 0, fmt.Errorf("counting %s: %w", loc, err)
	}
	return n, nil
}

func (s *Session) Click(ctx context.Context, loc Locator) error {
	if s.opts.SlowMo > 0 {
		if err := s.run(ctx, chromedp.Sleep(s.opts.SlowMo)); err != nil {
			return err
		}
	}

	expr, err := locatorScript(loc, `(matches.length === 0 ? false : (matches[0].scrollIntoView({block: "center"}), matches[0].click(), true))`)
	if err != nil {
		return err
	}
	var clicked bool
	if err := s.run(ctx, chromedp.Evaluate(expr, &clicked)); err != nil {
		return fmt.Errorf("clicking %s: %w", loc, err)
	}
	if !clicked {
		return fmt.Errorf("clicking %s: %w", loc, ErrNoMatch)
	}
	return nil
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return buf, nil
}

// locatorScript builds a JS expression that evaluates result with `matches`
// bound to the elements selected by loc. Text matching mirrors MatchText.
func locatorScript(loc Locator, result string) (string, error) {
	args, err := json.Marshal([]any{loc.Selector, loc.Text, loc.Exact})
	if err != nil {
		return "", fmt.Errorf("encoding locator: %w", err)
	}
	return fmt.Sprintf(`(function(sel, text, exact) {
	const norm = (s) => (s || "").replace(/\s+/g, " ").trim();
	const want = norm(text);
	const matches = Array.from(document.querySelectorAll(sel)).filter((el) => {
		if (!want) return true;
		const got = norm(el.innerText !== undefined ? el.innerText : el.textContent);
		return exact ? got === want : got.toLowerCase().includes(want.toLowerCase());
	});
	return %s;
}).apply(null, %s)`, result, args), nil
}
