// Package logger provides a simple logging interface for wastewise components.
// Packages log debug, info, warn, and error messages through it without
// being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// DebugEnv enables debug output from the env logger when set.
const DebugEnv = "WASTEWISE_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger logs through the standard log package.
// Debug messages are only printed when WASTEWISE_DEBUG is set.
type envLogger struct {
	prefix string
	debug  bool
}

// NewEnvLogger creates a logger that respects the WASTEWISE_DEBUG environment variable.
// The prefix is prepended to all log messages (e.g., "[api]" or "[poll]").
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix}
}

// NewVerboseLogger creates a logger that always prints debug messages (for --verbose).
func NewVerboseLogger(prefix string) Logger {
	return &envLogger{prefix: prefix, debug: true}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if l.debug || os.Getenv(DebugEnv) != "" {
		log.Printf(l.prefix+" "+format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	log.Printf(l.prefix+" "+format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	log.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	log.Printf(l.prefix+" ERROR: "+format, args...)
}

type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// It is safe for concurrent use since pollers log from their own goroutines.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.add("debug", format, args...)
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.add("info", format, args...)
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.add("warn", format, args...)
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.add("error", format, args...)
}

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Snapshot() {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Count returns how many messages were logged at the given level.
func (l *BufferLogger) Count(level string) int {
	n := 0
	for _, m := range l.Snapshot() {
		if m.Level == level {
			n++
		}
	}
	return n
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewEnvLogger("")
)

// Default returns the default logger for the package.
// This is an environment-based logger with no prefix.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
