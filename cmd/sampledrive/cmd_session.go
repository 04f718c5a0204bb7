package main

import (
	"fmt"

	"github.com/spboyer/sampledrive/internal/session"
	"github.com/spf13/cobra"
)

func newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "View session event logs",
		Long: `View session event logs.

Session logs are NDJSON files written by run and suite when --session-log is
set. They record each run's progress: loads, screenshots, dismissed error
dialogs and the final state.`,
	}

	cmd.AddCommand(newSessionViewCommand())

	return cmd
}

func newSessionViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <session-file>",
		Short: "View a session timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := session.ReadEvents(args[0])
			if err != nil {
				return fmt.Errorf("reading session: %w", err)
			}

			session.RenderTimeline(cmd.OutOrStdout(), events)
			return nil
		},
	}
}
