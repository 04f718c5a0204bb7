package checkpoint

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spboyer/sampledrive/internal/catalog"
	"github.com/spboyer/sampledrive/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rag = catalog.Entry{Key: "rag", Label: "RAG Pipeline"}

func TestPrompter_EnterContinues(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\n\n"), &out)

	require.NoError(t, p.Checkpoint(context.Background(), runner.PhaseLoaded, rag))
	require.NoError(t, p.Checkpoint(context.Background(), runner.PhaseResult, rag))

	assert.Contains(t, out.String(), "Inspect the graph layout for 'RAG Pipeline'")
	assert.Contains(t, out.String(), "Inspect the results for 'RAG Pipeline'")
}

func TestPrompter_Stop(t *testing.T) {
	p := New(strings.NewReader("q\n"), &bytes.Buffer{})
	err := p.Checkpoint(context.Background(), runner.PhaseLoaded, rag)
	assert.ErrorIs(t, err, runner.ErrStopped)
}

func TestPrompter_EOFContinues(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, p.Pause(context.Background(), "Press ENTER to close the browser"))
	require.NoError(t, p.Pause(context.Background(), "again"))
}

func TestPrompter_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer r.Close() //nolint:errcheck
	defer w.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(r, &bytes.Buffer{})
	assert.ErrorIs(t, p.Pause(ctx, "waiting"), context.Canceled)
}

func TestPrompter_PauseAfterCancel(t *testing.T) {
	r, w := io.Pipe()
	defer r.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(r, &bytes.Buffer{})
	require.ErrorIs(t, p.Pause(ctx, "waiting"), context.Canceled)

	go func() {
		_, _ = w.Write([]byte("q\n"))
		_ = w.Close()
	}()

	// The abandoned prompt's reader delivers the next line to the next prompt.
	assert.ErrorIs(t, p.Pause(context.Background(), "again"), runner.ErrStopped)
	assert.NoError(t, p.Pause(context.Background(), "closed"), "end of input continues")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "'RAG Pipeline': custom. Press ENTER to continue (q to stop)...", Message(runner.Phase("custom"), rag))
}

func TestDelay(t *testing.T) {
	var slept []time.Duration
	d := Delay{
		Phase:    runner.PhaseLoaded,
		Duration: 2500 * time.Millisecond,
		Sleep: func(_ context.Context, dur time.Duration) error {
			slept = append(slept, dur)
			return nil
		},
	}

	require.NoError(t, d.Checkpoint(context.Background(), runner.PhaseLoaded, rag))
	require.NoError(t, d.Checkpoint(context.Background(), runner.PhaseResult, rag))
	assert.Equal(t, []time.Duration{2500 * time.Millisecond}, slept)
}

func TestDelay_DefaultSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := Delay{Phase: runner.PhaseLoaded, Duration: time.Hour}
	assert.ErrorIs(t, d.Checkpoint(ctx, runner.PhaseLoaded, rag), context.Canceled)
	assert.NoError(t, Delay{Phase: runner.PhaseLoaded}.Checkpoint(ctx, runner.PhaseLoaded, rag))
}
