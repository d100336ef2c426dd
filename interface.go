package logmonitor

import (
	"github.com/lixenwraith/logmonitor/formatter"
)

// Entry is one (severity, message) pair of a batch
type Entry struct {
	Level   Level
	Message string
}

// Logger instance methods for logging at different levels.
// Arguments are rendered space-separated; values without a native text form are dumped.

// Error logs a message at error level and flushes the stream.
func (l *Logger) Error(stream string, args ...any) {
	l.logArgs(stream, LevelError, args)
}

// Warn logs a message at warning level.
func (l *Logger) Warn(stream string, args ...any) {
	l.logArgs(stream, LevelWarn, args)
}

// Info logs a message at info level.
func (l *Logger) Info(stream string, args ...any) {
	l.logArgs(stream, LevelInfo, args)
}

// Debug logs a message at debug level.
func (l *Logger) Debug(stream string, args ...any) {
	l.logArgs(stream, LevelDebug, args)
}

// logArgs filters before rendering so suppressed levels cost no formatting
func (l *Logger) logArgs(stream string, level Level, args []any) {
	if !l.accepts(level) {
		return
	}
	l.write(stream, level, formatter.FormatArgs(args...))
}
