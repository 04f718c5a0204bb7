package session

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrClosed is returned when logging to a closed JSONLogger.
var ErrClosed = errors.New("session log closed")

// Logger records session events.
type Logger interface {
	Log(event Event) error
	Close() error
}

// JSONLogger appends events to a file as newline-delimited JSON. Each event
// is flushed as soon as it is written so an interrupted run keeps its log.
type JSONLogger struct {
	mu     sync.Mutex
	file   *os.File
	buf    *bufio.Writer
	enc    *json.Encoder
	path   string
	seq    int
	closed bool
}

// Open returns the logger for target. An empty target discards events; an
// existing directory gets a timestamped file inside it; anything else is
// used as the file path.
func Open(target string) (Logger, error) {
	if target == "" {
		return NopLogger{}, nil
	}
	path := target
	if fi, err := os.Stat(target); err == nil && fi.IsDir() {
		path = DefaultLogPath(target)
	}
	return NewJSONLogger(path)
}

// NewJSONLogger opens path for appending, creating parent directories.
func NewJSONLogger(path string) (*JSONLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating session log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}

	buf := bufio.NewWriter(f)
	return &JSONLogger{
		file: f,
		buf:  buf,
		enc:  json.NewEncoder(buf),
		path: path,
	}, nil
}

// Log numbers the event and writes it as one JSON line.
func (l *JSONLogger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	l.seq++
	event.Seq = l.seq
	if err := l.enc.Encode(event); err != nil {
		return fmt.Errorf("encoding %s event: %w", event.Type, err)
	}
	return l.buf.Flush()
}

// Close flushes and closes the file. Closing twice is a no-op.
func (l *JSONLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return errors.Join(l.buf.Flush(), l.file.Close())
}

// Path returns the file the logger writes to.
func (l *JSONLogger) Path() string {
	return l.path
}

// NopLogger discards all events.
type NopLogger struct{}

func (NopLogger) Log(Event) error { return nil }
func (NopLogger) Close() error    { return nil }

// DefaultLogPath returns a timestamped log file path inside dir.
func DefaultLogPath(dir string) string {
	ts := time.Now().UTC().Format("20060102T150405.000Z")
	return filepath.Join(dir, ts+"-session.jsonl")
}
