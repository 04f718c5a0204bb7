package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var version = "dev"

// Global flags. Zero values defer to the project config.
var (
	configPath    string
	baseURL       string
	screenshotDir string
	headless      bool
	maxWait       time.Duration
	sessionLog    string
	reportPath    string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sampledrive",
		Short: "sampledrive - visual end-to-end driver for the workflow builder samples",
		Long: `sampledrive opens the workflow builder in a real browser, loads its
sample workflows, runs them and captures screenshots of each stage.

Use "run" to drive a single sample unattended, or "suite" to walk through
every sample with a pause for inspection after loading and after the result.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Project config file (default: nearest .sampledrive.yaml)")
	flags.StringVar(&baseURL, "base-url", "", "Base URL of the application")
	flags.StringVar(&screenshotDir, "screenshot-dir", "", "Directory for screenshots (default: OS temp dir)")
	flags.BoolVar(&headless, "headless", false, "Run the browser without a window")
	flags.DurationVar(&maxWait, "max-wait", 0, "Completion polling budget per run (default: 2m)")
	flags.StringVar(&sessionLog, "session-log", "", "Write an NDJSON event log to this file or directory")
	flags.StringVar(&reportPath, "report", "", "Write a report (.md, .html or JUnit .xml)")

	debugLogging := flags.Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		configureColor(cmd.OutOrStdout())
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newSuiteCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newSessionCommand())

	return cmd
}
