package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0 // Every run reached an accepted state
	ExitRunFailed = 1 // A run finished without Done under --strict
	ExitError     = 2 // Configuration, browser or UI error
)

// RunFailureError indicates that the driver worked as intended but a
// sample did not finish Done and --strict was set.
type RunFailureError struct {
	Message string
}

func (e *RunFailureError) Error() string {
	return e.Message
}

func main() {
	os.Exit(exitCode(execute()))
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(os.Stderr, err)

	// Check error type to determine exit code
	var runFailureErr *RunFailureError
	if errors.As(err, &runFailureErr) {
		return ExitRunFailed
	}

	// All other errors are configuration/runtime errors
	return ExitError
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCommand().ExecuteContext(ctx)
}
