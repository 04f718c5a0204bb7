// Package models holds the run session record and its lifecycle states.
package models

import (
	"sync"
	"time"

	"github.com/spboyer/sampledrive/internal/catalog"
)

// State classifies a run attempt.
type State string

const (
	StatePending  State = "pending"
	StateDone     State = "done"
	StateErrored  State = "errored"
	StateTimedOut State = "timed_out"
)

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateErrored || s == StateTimedOut
}

func (s State) String() string {
	return string(s)
}

// Screenshot is one captured image.
type Screenshot struct {
	Tag     string    `json:"tag"`
	Path    string    `json:"path"`
	TakenAt time.Time `json:"taken_at"`
}

// RunSession is the transient record of one workflow execution attempt.
type RunSession struct {
	mu sync.Mutex

	ID         string        `json:"id"`
	Sample     catalog.Entry `json:"sample"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	State      State         `json:"state"`
	Polls      int           `json:"polls"`
	Error      string        `json:"error,omitempty"`

	screenshots []Screenshot
}

// NewRunSession starts a pending session for sample.
func NewRunSession(id string, sample catalog.Entry, startedAt time.Time) *RunSession {
	return &RunSession{
		ID:        id,
		Sample:    sample,
		StartedAt: startedAt,
		State:     StatePending,
	}
}

// AddScreenshot appends a capture. Captures are never reordered or removed.
func (s *RunSession) AddScreenshot(shot Screenshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenshots = append(s.screenshots, shot)
}

// Screenshots returns the captures in the order they were taken.
func (s *RunSession) Screenshots() []Screenshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Screenshot(nil), s.screenshots...)
}

// Finish records the terminal state. Only the first call has an effect; it
// returns false for later calls or a non-terminal state.
func (s *RunSession) Finish(state State, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !state.Terminal() || s.State.Terminal() {
		return false
	}
	s.State = state
	s.FinishedAt = at
	return true
}

// RecordPolls stores how many observations the oracle made.
func (s *RunSession) RecordPolls(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Polls = n
}

// Fail records err without choosing a terminal state; the run never reached one.
func (s *RunSession) Fail(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.Error = err.Error()
	}
	if s.FinishedAt.IsZero() {
		s.FinishedAt = at
	}
}

// Duration is the wall time from start to finish, or zero while running.
func (s *RunSession) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Snapshot returns a copy safe to read while the session is still in use.
func (s *RunSession) Snapshot() RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RunSummary{
		ID:          s.ID,
		Sample:      s.Sample,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
		State:       s.State,
		Polls:       s.Polls,
		Error:       s.Error,
		Screenshots: append([]Screenshot(nil), s.screenshots...),
	}
}

// RunSummary is the serializable view of a RunSession.
type RunSummary struct {
	ID          string        `json:"id"`
	Sample      catalog.Entry `json:"sample"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at,omitempty"`
	State       State         `json:"state"`
	Polls       int           `json:"polls"`
	Error       string        `json:"error,omitempty"`
	Screenshots []Screenshot  `json:"screenshots"`
}
