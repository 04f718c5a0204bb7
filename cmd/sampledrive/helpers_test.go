package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spboyer/sampledrive/internal/browser"
	"github.com/spboyer/sampledrive/internal/browser/browsertest"
	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// fakeBrowser replaces the browser launcher with app for the duration of
// the test and reports how many times it was opened.
type fakeBrowser struct {
	app    *browsertest.App
	opened int
	closed int
	opts   browser.Options
}

func stubBrowser(t *testing.T, app *browsertest.App) *fakeBrowser {
	t.Helper()
	fb := &fakeBrowser{app: app}

	origOpen, origSleep := openBrowser, sleep
	openBrowser = func(_ context.Context, opts browser.Options) (browser.Page, func() error, error) {
		fb.opened++
		fb.opts = opts
		return app, func() error { fb.closed++; return nil }, nil
	}
	sleep = noSleep
	t.Cleanup(func() {
		openBrowser, sleep = origOpen, origSleep
	})
	return fb
}

// writeConfig writes a headless project config into a temp dir with
// screenshots going to a sibling directory. Suite settings keep their defaults.
func writeConfig(t *testing.T, extra string) (cfgPath, shotDir string) {
	t.Helper()
	dir := t.TempDir()
	shotDir = filepath.Join(dir, "shots")
	cfg := `base_url: http://localhost:3000
browser:
  headless: true
output:
  screenshot_dir: ` + shotDir + "\n" + extra
	cfgPath = filepath.Join(dir, ".sampledrive.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, shotDir
}

// runCLI runs the root command with args and returns its stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLIStreams(t, stdin, args...)
	return out, err
}

// runCLIStreams runs the root command with args and returns stdout and
// stderr separately.
func runCLIStreams(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// lines returns the non-empty lines of s.
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
