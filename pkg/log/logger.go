// Package log provides a small structured logging interface for the
// flotation predictor, backed by zerolog. The interface keeps call sites
// implementation-agnostic and test-friendly: handlers and the model loader
// log through Logger, tests swap in the in-memory TestLogger.
package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Standard attribute keys. Using these consistently keeps the JSON output
// filterable by field.
const (
	ComponentKey = "component"
	OperationKey = "operation"
	ModelPathKey = "model.path"
	RequestIDKey = "request_id"
	MethodKey    = "http.method"
	PathKey      = "http.path"
	StatusKey    = "http.status"
	DurationKey  = "duration_ms"
)

// Logger is the structured logging interface used across the application.
// Fields are alternating key/value pairs; an error value is logged under
// its key with zerolog's error handling.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger
}

var (
	mu       sync.RWMutex
	provider = newZerologProvider(os.Stderr, zerolog.InfoLevel)
)

// GetLogger returns the default logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return provider.logger()
}

// GetLoggerWithName returns a logger with the component field set.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLevel sets the minimum level emitted by the default provider.
// Unknown level strings fall back to info.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	provider.level = toZerologLevel(level)
}

// SetOutput redirects the default provider's output. Intended for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	provider.out = w
}

func toZerologLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type zerologProvider struct {
	out   io.Writer
	level zerolog.Level
}

func newZerologProvider(out io.Writer, level zerolog.Level) *zerologProvider {
	return &zerologProvider{out: out, level: level}
}

func (p *zerologProvider) logger() Logger {
	zl := zerolog.New(p.out).Level(p.level).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	emit(l.zl.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	emit(l.zl.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			ctx = ctx.AnErr(key, v)
		default:
			ctx = ctx.Interface(key, v)
		}
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func emit(event *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			event = event.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			event = event.Object(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	event.Msg(msg)
}
