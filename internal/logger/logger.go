// Package logger wraps github.com/charmbracelet/log for the diagnostics the
// core writes directly to the error stream (target-graph cycles, invocation
// cycles, missing target environments) rather than through the formatter.
package logger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	cblog "github.com/charmbracelet/log"
)

type correlationIDKey struct{}

// WithCorrelationID stores the provided correlation identifier in the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID retrieves the correlation identifier from the context, or
// "" if none was attached.
func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// GenerateCorrelationID creates a new correlation identifier for a build run.
func GenerateCorrelationID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Options configures the charmbracelet/log adapter.
type Options struct {
	Writer       io.Writer
	Level        string
	ReportCaller bool
	Formatter    cblog.Formatter
	Component    string
}

// Logger is a thin structured-logging wrapper used for error-stream
// diagnostics; it never participates in formatter event emission.
type Logger struct {
	base   *cblog.Logger
	fields []interface{}
}

// New creates a configured Logger.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	base := cblog.NewWithOptions(writer, cblog.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    opts.ReportCaller,
		Formatter:       opts.Formatter,
	})

	var fields []interface{}
	if opts.Component != "" {
		fields = []interface{}{"component", opts.Component}
	}

	return &Logger{base: base, fields: fields}, nil
}

// With returns a derived logger carrying the supplied key/value pairs on
// every subsequent entry.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	if l == nil {
		return l
	}
	next := make([]interface{}, 0, len(l.fields)+len(keyvals))
	next = append(next, l.fields...)
	next = append(next, keyvals...)
	return &Logger{base: l.base, fields: next}
}

// Debug writes a debug-level entry.
func (l *Logger) Debug(ctx context.Context, msg string, keyvals ...interface{}) {
	l.log(ctx, cblog.DebugLevel, msg, keyvals...)
}

// Info writes an info-level entry.
func (l *Logger) Info(ctx context.Context, msg string, keyvals ...interface{}) {
	l.log(ctx, cblog.InfoLevel, msg, keyvals...)
}

// Warn writes a warning-level entry.
func (l *Logger) Warn(ctx context.Context, msg string, keyvals ...interface{}) {
	l.log(ctx, cblog.WarnLevel, msg, keyvals...)
}

// Error writes an error-level entry.
func (l *Logger) Error(ctx context.Context, msg string, keyvals ...interface{}) {
	l.log(ctx, cblog.ErrorLevel, msg, keyvals...)
}

func (l *Logger) log(ctx context.Context, level cblog.Level, msg string, keyvals ...interface{}) {
	if l == nil || l.base == nil {
		return
	}
	payload := l.mergedFields(ctx, keyvals)
	switch level {
	case cblog.DebugLevel:
		l.base.Debug(msg, payload...)
	case cblog.WarnLevel:
		l.base.Warn(msg, payload...)
	case cblog.ErrorLevel:
		l.base.Error(msg, payload...)
	default:
		l.base.Info(msg, payload...)
	}
}

func (l *Logger) mergedFields(ctx context.Context, extra []interface{}) []interface{} {
	payload := make([]interface{}, 0, len(l.fields)+len(extra)+2)
	payload = append(payload, l.fields...)
	payload = append(payload, extra...)
	if id := GetCorrelationID(ctx); id != "" {
		payload = append(payload, "correlation_id", id)
	}
	return payload
}
