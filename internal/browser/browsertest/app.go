package browsertest

import (
	"html"
	"strings"
	"sync"

	"github.com/spboyer/sampledrive/internal/browser"
)

// Canned page bodies for scripting a run.
const (
	BodyRunning    = `<pre class="font-mono">▶ Running…</pre>`
	BodyDone       = `<pre class="font-mono">✅ Done</pre>`
	BodyDoneCost   = `<pre class="font-mono">Done. TOTAL COST: $0.02</pre>`
	BodyErrorModal = `<div role="dialog"><p>Provider error</p><button>Abort</button><button>Retry</button></div>`
)

// App imitates the target application's UI contract: a "Samples" menu of
// div.font-medium items, a "Run" button, a "Clear" button, console output
// and an "Abort" control on error.
type App struct {
	*Page

	mu       sync.Mutex
	labels   []string
	menuOpen bool
	loaded   string
	body     string
	afterRun []string
}

// NewApp returns an app listing labels. Each afterRun body is shown on one
// VisibleText call after Run is clicked; the last one sticks.
func NewApp(labels []string, afterRun ...string) *App {
	a := &App{
		Page:     New(""),
		labels:   labels,
		afterRun: afterRun,
	}
	a.render()

	a.OnClick(browser.Locator{Selector: "button", Text: "Samples"}, func(*Page) {
		a.mu.Lock()
		a.menuOpen = true
		a.mu.Unlock()
		a.render()
	})
	for _, label := range labels {
		label := label
		a.OnClick(browser.Locator{Selector: "div.font-medium", Text: label, Exact: true}, func(*Page) {
			a.mu.Lock()
			a.menuOpen = false
			a.loaded = label
			a.body = `<p>Loaded ` + html.EscapeString(label) + `</p>`
			a.mu.Unlock()
			a.render()
		})
	}
	a.OnClick(browser.Locator{Selector: "button", Text: "Run"}, func(*Page) {
		a.mu.Lock()
		frames := make([]string, 0, len(a.afterRun))
		for _, body := range a.afterRun {
			frames = append(frames, a.document(body))
		}
		if len(a.afterRun) > 0 {
			a.body = a.afterRun[len(a.afterRun)-1]
		}
		a.mu.Unlock()
		a.QueueFrames(frames...)
	})
	a.OnClick(browser.Locator{Selector: "button", Text: "Clear"}, func(*Page) {
		a.mu.Lock()
		a.loaded = ""
		a.body = ""
		a.mu.Unlock()
		a.render()
	})
	a.OnClick(browser.Locator{Selector: "button", Text: "Abort"}, func(*Page) {
		a.SetBody(`<p>Run aborted</p>`)
	})
	return a
}

// SetBody replaces the main content area.
func (a *App) SetBody(body string) {
	a.mu.Lock()
	a.body = body
	a.mu.Unlock()
	a.render()
}

// Loaded returns the label of the currently loaded sample.
func (a *App) Loaded() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded
}

func (a *App) render() {
	a.mu.Lock()
	doc := a.document(a.body)
	a.mu.Unlock()
	a.SetHTML(doc)
}

// document must be called with a.mu held.
func (a *App) document(body string) string {
	var b strings.Builder
	b.WriteString(`<html><body><header><button>Samples</button><button>▶ Run</button><button>Clear</button></header>`)
	if a.menuOpen {
		b.WriteString(`<div class="menu">`)
		for _, label := range a.labels {
			b.WriteString(`<div class="item"><div class="font-medium">`)
			b.WriteString(html.EscapeString(label))
			b.WriteString(`</div></div>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`<main>`)
	b.WriteString(body)
	b.WriteString(`</main></body></html>`)
	return b.String()
}
