package browsertest

import (
	"context"
	"errors"
	"testing"

	"github.com/spboyer/sampledrive/internal/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_CountAndClick(t *testing.T) {
	ctx := context.Background()
	p := New(`<body><button>Run</button><button>Run again</button><div class="font-medium">RAG</div></body>`)

	n, err := p.Count(ctx, browser.Locator{Selector: "button", Text: "run"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = p.Count(ctx, browser.Locator{Selector: "div.font-medium", Text: "RA", Exact: true})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	err = p.Click(ctx, browser.Locator{Selector: "button", Text: "Abort"})
	assert.True(t, errors.Is(err, browser.ErrNoMatch))

	require.NoError(t, p.Click(ctx, browser.Locator{Selector: "button", Text: "Run"}))
	assert.Equal(t, 1, p.ClickCount("Run"))
}

func TestPage_QueuedFrames(t *testing.T) {
	ctx := context.Background()
	p := New(`<body>start</body>`)
	p.QueueFrames(`<body>one</body>`, `<body>two</body>`)

	for _, want := range []string{"one", "two", "two"} {
		text, err := p.VisibleText(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, text)
	}
}

func TestPage_Err(t *testing.T) {
	p := New(`<body></body>`)
	p.Err = errors.New("boom")
	_, err := p.VisibleText(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestApp_Flow(t *testing.T) {
	ctx := context.Background()
	a := NewApp([]string{"Router", "Router LLM"}, BodyRunning, BodyDone)

	n, err := a.Count(ctx, browser.Locator{Selector: "div.font-medium"})
	require.NoError(t, err)
	assert.Zero(t, n, "menu starts closed")

	require.NoError(t, a.Click(ctx, browser.Locator{Selector: "button", Text: "Samples"}))
	n, err = a.Count(ctx, browser.Locator{Selector: "div.font-medium", Text: "Router", Exact: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, a.Click(ctx, browser.Locator{Selector: "div.font-medium", Text: "Router", Exact: true}))
	assert.Equal(t, "Router", a.Loaded())

	require.NoError(t, a.Click(ctx, browser.Locator{Selector: "button", Text: "Run"}))
	text, err := a.VisibleText(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Running")
	text, err = a.VisibleText(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "✅ Done")

	require.NoError(t, a.Click(ctx, browser.Locator{Selector: "button", Text: "Clear"}))
	assert.Empty(t, a.Loaded())
}
