// Package projectconfig provides the ProjectConfig struct and loader for
// .sampledrive.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spboyer/sampledrive/internal/catalog"
	"github.com/spboyer/sampledrive/internal/utils"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = ".sampledrive.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultBaseURL = "http://localhost:3000"

	DefaultHeadless           = false
	DefaultSlowMoMs           = 80
	DefaultViewportWidth      = 1600
	DefaultViewportHeight     = 900
	DefaultIdleTimeoutSeconds = 30

	DefaultPollIntervalMs = 2000
	DefaultMaxWaitSeconds = 120

	DefaultImplicitWaitMs = 5000
	DefaultLoadGraceMs    = 1200
	DefaultResultGraceMs  = 1000
	DefaultPreviewMs      = 2500
	DefaultHoldSeconds    = 8

	DefaultCaptureMenu = true
	DefaultPause       = true
)

// ViewportConfig is the browser window size.
type ViewportConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// BrowserConfig holds browser launch settings.
type BrowserConfig struct {
	Headless           *bool          `yaml:"headless,omitempty"`
	SlowMoMs           *int           `yaml:"slow_mo_ms,omitempty"`
	Viewport           ViewportConfig `yaml:"viewport,omitempty"`
	ExecPath           string         `yaml:"exec_path,omitempty"`
	IdleTimeoutSeconds int            `yaml:"idle_timeout_seconds,omitempty"`
}

// PollingConfig holds completion polling settings.
type PollingConfig struct {
	IntervalMs     int `yaml:"interval_ms,omitempty"`
	MaxWaitSeconds int `yaml:"max_wait_seconds,omitempty"`
}

// TimingConfig holds UI pacing settings.
type TimingConfig struct {
	ImplicitWaitMs int `yaml:"implicit_wait_ms,omitempty"`
	LoadGraceMs    int `yaml:"load_grace_ms,omitempty"`
	ResultGraceMs  int `yaml:"result_grace_ms,omitempty"`
	// PreviewMs is how long a headed single run shows the loaded sample
	// before running it.
	PreviewMs *int `yaml:"preview_ms,omitempty"`
	// HoldSeconds keeps a headed browser open after a single run.
	HoldSeconds *int `yaml:"hold_seconds,omitempty"`
}

// OutputConfig holds artifact locations.
type OutputConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir,omitempty"`
	SessionLog    string `yaml:"session_log,omitempty"`
	Report        string `yaml:"report,omitempty"`
}

// SuiteConfig holds interactive suite settings.
type SuiteConfig struct {
	CaptureMenu *bool `yaml:"capture_menu,omitempty"`
	Pause       *bool `yaml:"pause,omitempty"`
}

// SampleConfig is one catalog entry override.
type SampleConfig struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// ProjectConfig is the top-level configuration loaded from .sampledrive.yaml.
type ProjectConfig struct {
	BaseURL string         `yaml:"base_url,omitempty"`
	Browser BrowserConfig  `yaml:"browser,omitempty"`
	Polling PollingConfig  `yaml:"polling,omitempty"`
	Timing  TimingConfig   `yaml:"timing,omitempty"`
	Output  OutputConfig   `yaml:"output,omitempty"`
	Suite   SuiteConfig    `yaml:"suite,omitempty"`
	Samples []SampleConfig `yaml:"samples,omitempty"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		BaseURL: DefaultBaseURL,
		Browser: BrowserConfig{
			Headless: utils.Ptr(DefaultHeadless),
			SlowMoMs: utils.Ptr(DefaultSlowMoMs),
			Viewport: ViewportConfig{
				Width:  DefaultViewportWidth,
				Height: DefaultViewportHeight,
			},
			IdleTimeoutSeconds: DefaultIdleTimeoutSeconds,
		},
		Polling: PollingConfig{
			IntervalMs:     DefaultPollIntervalMs,
			MaxWaitSeconds: DefaultMaxWaitSeconds,
		},
		Timing: TimingConfig{
			ImplicitWaitMs: DefaultImplicitWaitMs,
			LoadGraceMs:    DefaultLoadGraceMs,
			ResultGraceMs:  DefaultResultGraceMs,
			PreviewMs:      utils.Ptr(DefaultPreviewMs),
			HoldSeconds:    utils.Ptr(DefaultHoldSeconds),
		},
		Suite: SuiteConfig{
			CaptureMenu: utils.Ptr(DefaultCaptureMenu),
			Pause:       utils.Ptr(DefaultPause),
		},
	}
}

// Load finds .sampledrive.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return parse(path, data)
}

// LoadFile reads an explicit config file. A missing file is an error.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*ProjectConfig, error) {
	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := New()
	mergeConfig(cfg, &fileCfg)
	cfg.Path = path

	// Output paths in the file are relative to the file, not the working directory.
	utils.ResolvePaths(filepath.Dir(path), &cfg.Output.ScreenshotDir, &cfg.Output.SessionLog, &cfg.Output.Report)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .sampledrive.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}

	// Browser
	if src.Browser.Headless != nil {
		dst.Browser.Headless = src.Browser.Headless
	}
	if src.Browser.SlowMoMs != nil {
		dst.Browser.SlowMoMs = src.Browser.SlowMoMs
	}
	if src.Browser.Viewport.Width != 0 {
		dst.Browser.Viewport.Width = src.Browser.Viewport.Width
	}
	if src.Browser.Viewport.Height != 0 {
		dst.Browser.Viewport.Height = src.Browser.Viewport.Height
	}
	if src.Browser.ExecPath != "" {
		dst.Browser.ExecPath = src.Browser.ExecPath
	}
	if src.Browser.IdleTimeoutSeconds != 0 {
		dst.Browser.IdleTimeoutSeconds = src.Browser.IdleTimeoutSeconds
	}

	// Polling
	if src.Polling.IntervalMs != 0 {
		dst.Polling.IntervalMs = src.Polling.IntervalMs
	}
	if src.Polling.MaxWaitSeconds != 0 {
		dst.Polling.MaxWaitSeconds = src.Polling.MaxWaitSeconds
	}

	// Timing
	if src.Timing.ImplicitWaitMs != 0 {
		dst.Timing.ImplicitWaitMs = src.Timing.ImplicitWaitMs
	}
	if src.Timing.LoadGraceMs != 0 {
		dst.Timing.LoadGraceMs = src.Timing.LoadGraceMs
	}
	if src.Timing.ResultGraceMs != 0 {
		dst.Timing.ResultGraceMs = src.Timing.ResultGraceMs
	}
	if src.Timing.PreviewMs != nil {
		dst.Timing.PreviewMs = src.Timing.PreviewMs
	}
	if src.Timing.HoldSeconds != nil {
		dst.Timing.HoldSeconds = src.Timing.HoldSeconds
	}

	// Output
	if src.Output.ScreenshotDir != "" {
		dst.Output.ScreenshotDir = src.Output.ScreenshotDir
	}
	if src.Output.SessionLog != "" {
		dst.Output.SessionLog = src.Output.SessionLog
	}
	if src.Output.Report != "" {
		dst.Output.Report = src.Output.Report
	}

	// Suite
	if src.Suite.CaptureMenu != nil {
		dst.Suite.CaptureMenu = src.Suite.CaptureMenu
	}
	if src.Suite.Pause != nil {
		dst.Suite.Pause = src.Suite.Pause
	}

	// An explicit empty list means no samples.
	if src.Samples != nil {
		dst.Samples = src.Samples
	}
}

// Catalog returns the configured samples, or the built-in catalog when the
// file has no samples key.
func (c *ProjectConfig) Catalog() (*catalog.Catalog, error) {
	if c.Samples == nil {
		return catalog.Default(), nil
	}
	entries := make([]catalog.Entry, len(c.Samples))
	for i, s := range c.Samples {
		entries[i] = catalog.Entry{Key: s.Key, Label: s.Label}
	}
	cat, err := catalog.New(entries...)
	if err != nil {
		return nil, fmt.Errorf("samples in %s: %w", c.Path, err)
	}
	return cat, nil
}

// PollInterval returns the completion polling interval.
func (c *ProjectConfig) PollInterval() time.Duration {
	return time.Duration(c.Polling.IntervalMs) * time.Millisecond
}

// MaxWait returns the completion polling budget.
func (c *ProjectConfig) MaxWait() time.Duration {
	return time.Duration(c.Polling.MaxWaitSeconds) * time.Second
}

// SlowMo returns the delay inserted before each browser interaction.
func (c *ProjectConfig) SlowMo() time.Duration {
	if c.Browser.SlowMoMs == nil {
		return 0
	}
	return time.Duration(*c.Browser.SlowMoMs) * time.Millisecond
}
