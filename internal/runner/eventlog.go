package runner

import (
	"log/slog"

	"github.com/spboyer/sampledrive/internal/session"
)

// SessionLogListener writes progress events to l as session events.
// Write failures are logged and otherwise ignored.
func SessionLogListener(l session.Logger) Listener {
	return func(event ProgressEvent) {
		ev, ok := toSessionEvent(event)
		if !ok {
			return
		}
		if err := l.Log(ev); err != nil {
			slog.Warn("writing session log", "error", err)
		}
	}
}

func toSessionEvent(e ProgressEvent) (session.Event, bool) {
	label := e.Sample.Label
	switch e.Type {
	case EventRunStart:
		return session.NewEvent(session.EventRunStart, session.RunData(e.RunID, label)), true
	case EventLoaded:
		return session.NewEvent(session.EventLoaded, session.RunData(e.RunID, label)), true
	case EventRunning:
		return session.NewEvent(session.EventRunning, session.RunData(e.RunID, label)), true
	case EventScreenshot:
		return session.NewEvent(session.EventScreenshot, session.ScreenshotData(e.RunID, label, e.Tag, e.Path)), true
	case EventErrorDismissed:
		return session.NewEvent(session.EventDismissed, session.RunData(e.RunID, label)), true
	case EventDone, EventTimeoutOrError:
		return session.NewEvent(session.EventRunComplete,
			session.RunCompleteData(e.RunID, label, e.State.String(), e.Polls, e.Duration.Milliseconds())), true
	case EventRunFailed:
		msg := ""
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return session.NewEvent(session.EventError, session.ErrorData(msg, session.RunData(e.RunID, label))), true
	}
	return session.Event{}, false
}
