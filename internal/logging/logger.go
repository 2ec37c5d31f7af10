// Package logging provides a small leveled key/value logger.
//
// Output goes to stderr by default: stdout carries the MCP protocol stream and
// CLI results.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Logger provides structured logging with a fixed prefix and optional
// context fields carried on every line.
type Logger struct {
	prefix string
	level  Level
	fields []interface{}
	logger *log.Logger
}

// NewLogger creates a logger writing to stderr.
func NewLogger(prefix string, level Level) *Logger {
	return New(os.Stderr, prefix, level)
}

// New creates a logger writing to w.
func New(w io.Writer, prefix string, level Level) *Logger {
	return &Logger{
		prefix: prefix,
		level:  level,
		logger: log.New(w, fmt.Sprintf("[%s] ", prefix), log.LstdFlags),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, "nop", LevelError+1)
}

// With returns a child logger that appends keysAndValues to every line.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	fields := make([]interface{}, 0, len(l.fields)+len(keysAndValues))
	fields = append(fields, l.fields...)
	fields = append(fields, keysAndValues...)
	return &Logger{
		prefix: l.prefix,
		level:  l.level,
		fields: fields,
		logger: l.logger,
	}
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelDebug, msg, keysAndValues...)
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelInfo, msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelWarn, msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelError, msg, keysAndValues...)
}

func (l *Logger) logWithKV(level Level, msg string, keysAndValues ...interface{}) {
	if l == nil || !l.Enabled(level) {
		return
	}
	var sb strings.Builder
	writeKV(&sb, l.fields)
	writeKV(&sb, keysAndValues)
	l.logger.Printf("[%s] %s%s", level, msg, sb.String())
}

func writeKV(sb *strings.Builder, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(sb, " %v=%v", kv[i], kv[i+1])
	}
}
