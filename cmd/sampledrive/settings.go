package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spboyer/sampledrive/internal/artifacts"
	"github.com/spboyer/sampledrive/internal/browser"
	"github.com/spboyer/sampledrive/internal/catalog"
	"github.com/spboyer/sampledrive/internal/oracle"
	"github.com/spboyer/sampledrive/internal/projectconfig"
	"github.com/spboyer/sampledrive/internal/runner"
	"github.com/spboyer/sampledrive/internal/session"
	"github.com/spboyer/sampledrive/internal/ui"
	"github.com/spf13/cobra"
)

// settings is the project config with command-line overrides applied.
type settings struct {
	Browser       browser.Options
	Timing        ui.Timing
	Runner        runner.Config
	ScreenshotDir string
	SessionLog    string
	Report        string
	Pause         bool
	CaptureMenu   bool
	Preview       time.Duration
	Hold          time.Duration
	Samples       *catalog.Catalog
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	var (
		cfg *projectconfig.ProjectConfig
		err error
	)
	if configPath != "" {
		cfg, err = projectconfig.LoadFile(configPath)
	} else {
		cfg, err = projectconfig.Load(".")
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = &headless
	}
	if flags.Changed("screenshot-dir") {
		cfg.Output.ScreenshotDir = screenshotDir
	}
	if flags.Changed("session-log") {
		cfg.Output.SessionLog = sessionLog
	}
	if flags.Changed("report") {
		cfg.Output.Report = reportPath
	}

	samples, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	st := &settings{
		Browser: browser.Options{
			Viewport:    browser.Viewport{Width: cfg.Browser.Viewport.Width, Height: cfg.Browser.Viewport.Height},
			Headless:    *cfg.Browser.Headless,
			SlowMo:      cfg.SlowMo(),
			ExecPath:    cfg.Browser.ExecPath,
			IdleTimeout: time.Duration(cfg.Browser.IdleTimeoutSeconds) * time.Second,
		},
		Timing:        ui.DefaultTiming(),
		Runner:        runner.DefaultConfig(cfg.BaseURL),
		ScreenshotDir: cfg.Output.ScreenshotDir,
		SessionLog:    cfg.Output.SessionLog,
		Report:        cfg.Output.Report,
		Pause:         *cfg.Suite.Pause,
		CaptureMenu:   *cfg.Suite.CaptureMenu,
		Samples:       samples,
	}
	st.Timing.ImplicitWait = time.Duration(cfg.Timing.ImplicitWaitMs) * time.Millisecond
	st.Runner.LoadGrace = time.Duration(cfg.Timing.LoadGraceMs) * time.Millisecond
	st.Runner.ResultGrace = time.Duration(cfg.Timing.ResultGraceMs) * time.Millisecond
	st.Runner.Poller.Interval = cfg.PollInterval()
	st.Runner.Poller.MaxWait = cfg.MaxWait()
	if flags.Changed("max-wait") {
		st.Runner.Poller.MaxWait = maxWait
	}

	// A headless browser has no one watching it.
	if !st.Browser.Headless {
		st.Preview = time.Duration(*cfg.Timing.PreviewMs) * time.Millisecond
		st.Hold = time.Duration(*cfg.Timing.HoldSeconds) * time.Second
	}
	return st, nil
}

// openBrowser launches the page the commands drive. Tests replace it.
var openBrowser = func(ctx context.Context, opts browser.Options) (browser.Page, func() error, error) {
	s, err := browser.Open(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

// sleep backs every settle delay and poll interval. Tests replace it.
var sleep = oracle.Sleep

func (st *settings) newRunner(page browser.Page, opts ...runner.Option) *runner.Runner {
	driver := ui.NewDriver(page, st.Timing, ui.WithSleep(sleep))
	cfg := st.Runner
	cfg.Poller.Sleep = sleep
	return runner.New(driver, artifacts.NewStore(st.ScreenshotDir), cfg, opts...)
}

func (st *settings) openSessionLog() (session.Logger, error) {
	l, err := session.Open(st.SessionLog)
	if err != nil {
		return nil, fmt.Errorf("session log: %w", err)
	}
	return l, nil
}

func closeQuietly(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		slog.Warn("closing "+name, "error", err)
	}
}
