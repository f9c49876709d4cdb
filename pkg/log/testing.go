// Testing utilities: an in-memory logger that captures entries for
// inspection without touching process output.

package log

import (
	"fmt"
	"strings"
	"sync"
)

// TestLogger captures log messages in memory. Safe for concurrent use.
type TestLogger struct {
	mu      sync.Mutex
	entries []string
	fields  map[string]any
}

// NewTestLogger creates an empty TestLogger.
func NewTestLogger() *TestLogger {
	return &TestLogger{fields: map[string]any{}}
}

// Debug implements Logger.Debug.
func (t *TestLogger) Debug(msg string, fields ...any) { t.write("DEBUG", msg, fields) }

// Info implements Logger.Info.
func (t *TestLogger) Info(msg string, fields ...any) { t.write("INFO", msg, fields) }

// Warn implements Logger.Warn.
func (t *TestLogger) Warn(msg string, fields ...any) { t.write("WARN", msg, fields) }

// Error implements Logger.Error.
func (t *TestLogger) Error(msg string, fields ...any) { t.write("ERROR", msg, fields) }

// With implements Logger.With. The child shares the parent's entry buffer.
func (t *TestLogger) With(fields ...any) Logger {
	merged := map[string]any{}
	t.mu.Lock()
	for k, v := range t.fields {
		merged[k] = v
	}
	t.mu.Unlock()
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			merged[key] = fields[i+1]
		}
	}
	return &sharedTestLogger{parent: t, fields: merged}
}

// Entries returns a copy of all captured lines.
func (t *TestLogger) Entries() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.entries))
	copy(out, t.entries)
	return out
}

// Contains reports whether any captured line contains the substring.
func (t *TestLogger) Contains(sub string) bool {
	for _, e := range t.Entries() {
		if strings.Contains(e, sub) {
			return true
		}
	}
	return false
}

func (t *TestLogger) write(level, msg string, fields []any) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(msg)
	t.mu.Lock()
	for k, v := range t.fields {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	t.mu.Unlock()
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	t.mu.Lock()
	t.entries = append(t.entries, b.String())
	t.mu.Unlock()
}

// sharedTestLogger routes child-logger writes back to the root TestLogger
// so tests only need to inspect one buffer.
type sharedTestLogger struct {
	parent *TestLogger
	fields map[string]any
}

func (s *sharedTestLogger) Debug(msg string, fields ...any) { s.emit("DEBUG", msg, fields) }
func (s *sharedTestLogger) Info(msg string, fields ...any)  { s.emit("INFO", msg, fields) }
func (s *sharedTestLogger) Warn(msg string, fields ...any)  { s.emit("WARN", msg, fields) }
func (s *sharedTestLogger) Error(msg string, fields ...any) { s.emit("ERROR", msg, fields) }

func (s *sharedTestLogger) With(fields ...any) Logger {
	merged := map[string]any{}
	for k, v := range s.fields {
		merged[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			merged[key] = fields[i+1]
		}
	}
	return &sharedTestLogger{parent: s.parent, fields: merged}
}

func (s *sharedTestLogger) emit(level, msg string, fields []any) {
	all := make([]any, 0, len(s.fields)*2+len(fields))
	for k, v := range s.fields {
		all = append(all, k, v)
	}
	all = append(all, fields...)
	s.parent.write(level, msg, all)
}
