package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ReadEvents parses all events from a session log file.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue // skip malformed lines
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	return events, nil
}

// RenderTimeline writes a human-readable session timeline to w.
//
//nolint:errcheck // display-only writes; errors are not actionable
func RenderTimeline(w io.Writer, events []Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, " SESSION TIMELINE")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	start := events[0].Timestamp
	for _, ev := range events {
		ts := formatDuration(ev.Timestamp.Sub(start))
		sample := str(ev.Data["sample"])

		switch ev.Type {
		case EventSuiteStart:
			fmt.Fprintf(w, "[%s] 🚀 Suite started  url=%s  samples=%d\n",
				ts, str(ev.Data["base_url"]), jsonNumber(ev.Data["sample_count"]))

		case EventRunStart:
			fmt.Fprintf(w, "[%s] ▶  %s\n", ts, sample)

		case EventLoaded, EventRunning:
			fmt.Fprintf(w, "[%s]    %s\n", ts, ev.Type)

		case EventScreenshot:
			fmt.Fprintf(w, "[%s]    📸 %s  %s\n", ts, str(ev.Data["tag"]), str(ev.Data["path"]))

		case EventDismissed:
			fmt.Fprintf(w, "[%s]    ⚠ error dialog dismissed\n", ts)

		case EventRunComplete:
			state := str(ev.Data["state"])
			icon := "✓"
			if state != "done" {
				icon = "✗"
			}
			fmt.Fprintf(w, "[%s] %s  %s [%s] polls=%d (%dms)\n",
				ts, icon, sample, state, jsonNumber(ev.Data["polls"]), jsonNumber(ev.Data["duration_ms"]))

		case EventError:
			fmt.Fprintf(w, "[%s] ❌ Error: %s\n", ts, str(ev.Data["message"]))

		case EventSuiteComplete:
			fmt.Fprintf(w, "[%s] 🏁 Suite complete  %d/%d done  %d errored  %d timed out  %d failed  (%dms)\n",
				ts,
				jsonNumber(ev.Data["done"]),
				jsonNumber(ev.Data["total"]),
				jsonNumber(ev.Data["errored"]),
				jsonNumber(ev.Data["timed_out"]),
				jsonNumber(ev.Data["failed"]),
				jsonNumber(ev.Data["duration_ms"]))

		default:
			fmt.Fprintf(w, "[%s] %s %v\n", ts, ev.Type, ev.Data)
		}
	}
	fmt.Fprintln(w)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%6dms", d.Milliseconds())
	}
	return fmt.Sprintf("%6.1fs", d.Seconds())
}

func str(v any) string {
	s, _ := v.(string) //nolint:errcheck
	return s
}

// jsonNumber extracts a number from a JSON-decoded value (float64 or json.Number).
func jsonNumber(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, _ := n.Int64() //nolint:errcheck
		return int(i)
	}
	return 0
}
