// Package audit records sketch lifecycle events.
// Events are stored as JSON Lines (JSONL) files, one per sketch.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventCreate EventType = "create"
	EventBuild  EventType = "build"
	EventRun    EventType = "run"
	EventStop   EventType = "stop"
	EventDelete EventType = "delete"
	EventError  EventType = "error"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Sketch    string    `json:"sketch"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads audit events for sketches.
// Events are stored in {dir}/{name}.jsonl and survive deletion of the sketch.
type Logger struct {
	dir string
	mu  sync.Mutex
}

// NewLogger creates a new audit logger rooted at dir.
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir}
}

// eventPath returns the path to the JSONL event log for a sketch.
func (l *Logger) eventPath(sketch string) string {
	return filepath.Join(l.dir, sketch+".jsonl")
}

// Log appends an event to the sketch's audit log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	path := l.eventPath(event.Sketch)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, sketch, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Sketch:    sketch,
		Details:   details,
	})
}

// Events reads all events for a sketch in chronological order.
func (l *Logger) Events(sketch string) ([]Event, error) {
	path := l.eventPath(sketch)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// Last returns at most n of the most recent events. n <= 0 returns all.
func (l *Logger) Last(sketch string, n int) ([]Event, error) {
	events, err := l.Events(sketch)
	if err != nil || n <= 0 || len(events) <= n {
		return events, err
	}
	return events[len(events)-n:], nil
}

// Remove deletes the audit log for a sketch.
func (l *Logger) Remove(sketch string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := l.eventPath(sketch)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
