package log

import (
	"context"
	"io"
	"log/slog"
)

// Logger is a custom structured logger on top of slog.Logger
// that logs in JSON format.
type Logger struct {
	slogger *slog.Logger
}

// NewLogger creates a new Logger that writes records at or above level to
// the given writer. The writer is typically os.Stderr but can be any
// io.Writer.
func NewLogger(writer io.Writer, level slog.Level) Logger {
	slogger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	return Logger{
		slogger: slogger,
	}
}

// Discard returns a Logger that drops every record. It is the default for
// library code that was not handed a logger.
func Discard() Logger {
	return Logger{
		slogger: slog.New(slog.DiscardHandler),
	}
}

// IsInitialized reports whether the Logger was created with one of the
// constructors of this package.
func (l *Logger) IsInitialized() bool {
	return l.slogger != nil
}

// Enabled reports whether records at the given level are written. It lets
// callers skip building expensive key-value pairs.
func (l *Logger) Enabled(level slog.Level) bool {
	if l.slogger == nil {
		return false
	}
	return l.slogger.Enabled(context.Background(), level)
}

func (l *Logger) log(level slog.Level, msg string, args []any) {
	if l.slogger == nil {
		return
	}
	l.slogger.Log(context.Background(), level, msg, args...)
}

// Info logs structured info message.
//
// Accepts a message and a list of key-value pairs to be logged.
func (l *Logger) Info(msg string, keyVals ...KV) {
	l.log(slog.LevelInfo, msg, kvToArgs(keyVals...))
}

// InfoNs logs structured info message with a namespace.
//
// The namespace is used to differentiate logs from different parts
// and will be included as the first key-value pair in the log.
func (l *Logger) InfoNs(namespace string, msg string, keyVals ...KV) {
	l.log(slog.LevelInfo, msg, kvToArgsNs(namespace, keyVals...))
}

// Debug logs structured debug message.
func (l *Logger) Debug(msg string, keyVals ...KV) {
	l.log(slog.LevelDebug, msg, kvToArgs(keyVals...))
}

// DebugNs logs structured debug message with a namespace.
func (l *Logger) DebugNs(namespace string, msg string, keyVals ...KV) {
	l.log(slog.LevelDebug, msg, kvToArgsNs(namespace, keyVals...))
}

// Warn logs structured warning message.
func (l *Logger) Warn(msg string, keyVals ...KV) {
	l.log(slog.LevelWarn, msg, kvToArgs(keyVals...))
}

// WarnNs logs structured warning message with a namespace.
func (l *Logger) WarnNs(namespace string, msg string, keyVals ...KV) {
	l.log(slog.LevelWarn, msg, kvToArgsNs(namespace, keyVals...))
}

// Error logs structured error message.
func (l *Logger) Error(msg string, keyVals ...KV) {
	l.log(slog.LevelError, msg, kvToArgs(keyVals...))
}

// ErrorNs logs structured error message with a namespace.
func (l *Logger) ErrorNs(namespace string, msg string, keyVals ...KV) {
	l.log(slog.LevelError, msg, kvToArgsNs(namespace, keyVals...))
}

// ParseLevel converts a level name (debug, info, warn, error) into a
// slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
