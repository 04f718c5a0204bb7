// Package checkpoint pauses the interactive suite for a human to look at the
// browser before it moves on.
package checkpoint

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/spboyer/sampledrive/internal/catalog"
	"github.com/spboyer/sampledrive/internal/runner"
	"golang.org/x/term"
)

// Prompter asks the operator to continue. On a terminal it shows a huh
// confirmation that can also stop the suite; otherwise it waits for a line
// on in, and treats end of input as "continue".
type Prompter struct {
	in  io.Reader
	out io.Writer
	tty bool

	// reader is only read by the goroutine started in next; a prompt
	// abandoned on cancellation leaves its line to the next prompt.
	reader *bufio.Reader
	start  sync.Once
	lines  chan line
}

type line struct {
	text string
	err  error
}

var _ runner.Checkpoint = (*Prompter)(nil)

// New returns a prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: in, out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.tty = true
	} else {
		p.reader = bufio.NewReader(in)
	}
	return p
}

// Message returns the prompt shown for phase.
func Message(phase runner.Phase, sample catalog.Entry) string {
	switch phase {
	case runner.PhaseLoaded:
		return fmt.Sprintf("👀 Inspect the graph layout for '%s'. Press ENTER to run (q to stop)...", sample.Label)
	case runner.PhaseResult:
		return fmt.Sprintf("👀 Inspect the results for '%s'. Press ENTER to continue to the next sample (q to stop)...", sample.Label)
	default:
		return fmt.Sprintf("'%s': %s. Press ENTER to continue (q to stop)...", sample.Label, phase)
	}
}

// Checkpoint implements runner.Checkpoint.
func (p *Prompter) Checkpoint(ctx context.Context, phase runner.Phase, sample catalog.Entry) error {
	return p.Pause(ctx, Message(phase, sample))
}

// Pause blocks until the operator continues. It returns runner.ErrStopped
// when they chose to stop.
func (p *Prompter) Pause(ctx context.Context, title string) error {
	if p.tty {
		return p.confirm(ctx, title)
	}
	return p.readLine(ctx, title)
}

func (p *Prompter) confirm(ctx context.Context, title string) error {
	proceed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Continue").
				Negative("Stop").
				Value(&proceed),
		),
	).
		WithInput(p.in).
		WithOutput(p.out)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return runner.ErrStopped
		}
		return fmt.Errorf("checkpoint prompt: %w", err)
	}
	if !proceed {
		return runner.ErrStopped
	}
	return nil
}

func (p *Prompter) readLine(ctx context.Context, title string) error {
	fmt.Fprintf(p.out, "\n  %s ", title) //nolint:errcheck

	select {
	case <-ctx.Done():
		return ctx.Err()
	case l, ok := <-p.next():
		if !ok || errors.Is(l.err, io.EOF) {
			fmt.Fprintln(p.out) //nolint:errcheck
		} else if l.err != nil {
			return fmt.Errorf("reading checkpoint input: %w", l.err)
		}
		switch strings.ToLower(strings.TrimSpace(l.text)) {
		case "q", "quit", "stop":
			return runner.ErrStopped
		}
		return nil
	}
}

// next returns the channel of input lines, starting the reader on first use.
// The channel is closed after the first read error.
func (p *Prompter) next() <-chan line {
	p.start.Do(func() {
		p.lines = make(chan line, 1)
		go func() {
			defer close(p.lines)
			for {
				text, err := p.reader.ReadString('\n')
				p.lines <- line{text: text, err: err}
				if err != nil {
					return
				}
			}
		}()
	})
	return p.lines
}
