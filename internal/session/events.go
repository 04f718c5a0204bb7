package session

import "time"

// EventType identifies the kind of session event.
type EventType string

const (
	EventSuiteStart    EventType = "suite_start"
	EventSuiteComplete EventType = "suite_complete"
	EventRunStart      EventType = "run_start"
	EventLoaded        EventType = "loaded"
	EventRunning       EventType = "running"
	EventScreenshot    EventType = "screenshot"
	EventDismissed     EventType = "error_dialog_dismissed"
	EventRunComplete   EventType = "run_complete"
	EventError         EventType = "error"
)

// Event is a single timestamped entry in a session log.
type Event struct {
	// Seq is assigned by the logger, starting at 1.
	Seq       int            `json:"seq,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}

// SuiteStartData returns event data for the start of a suite.
func SuiteStartData(baseURL string, sampleCount int) map[string]any {
	return map[string]any{
		"base_url":     baseURL,
		"sample_count": sampleCount,
	}
}

// SuiteCompleteData returns event data for the end of a suite.
func SuiteCompleteData(total, done, errored, timedOut, failed int, durationMs int64) map[string]any {
	return map[string]any{
		"total":       total,
		"done":        done,
		"errored":     errored,
		"timed_out":   timedOut,
		"failed":      failed,
		"duration_ms": durationMs,
	}
}

// RunData returns the fields shared by every per-run event.
func RunData(runID, label string) map[string]any {
	return map[string]any{
		"run_id": runID,
		"sample": label,
	}
}

// ScreenshotData returns event data for a captured screenshot.
func ScreenshotData(runID, label, tag, path string) map[string]any {
	d := RunData(runID, label)
	d["tag"] = tag
	d["path"] = path
	return d
}

// RunCompleteData returns event data for a run reaching a terminal state.
func RunCompleteData(runID, label, state string, polls int, durationMs int64) map[string]any {
	d := RunData(runID, label)
	d["state"] = state
	d["polls"] = polls
	d["duration_ms"] = durationMs
	return d
}

// ErrorData returns event data for an error.
func ErrorData(message string, context map[string]any) map[string]any {
	d := map[string]any{
		"message": message,
	}
	for k, v := range context {
		d[k] = v
	}
	return d
}
