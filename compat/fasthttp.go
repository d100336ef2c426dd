package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/logmonitor"
	"github.com/valyala/fasthttp"
)

// DefaultFastHTTPStream receives fasthttp output unless WithFastHTTPStream is used
const DefaultFastHTTPStream = "fasthttp"

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter routes fasthttp server logs into one logmonitor stream
type FastHTTPAdapter struct {
	logger        *logmonitor.Logger
	stream        string
	defaultLevel  logmonitor.Level
	levelDetector func(string) logmonitor.Level // Function to detect log level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *logmonitor.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		stream:        DefaultFastHTTPStream,
		defaultLevel:  logmonitor.LevelInfo,
		levelDetector: DetectLogLevel, // Default level detection
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the default log level for Printf calls
func WithDefaultLevel(level logmonitor.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content
func WithLevelDetector(detector func(string) logmonitor.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// WithFastHTTPStream sets the target stream
func WithFastHTTPStream(stream string) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.stream = stream
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != 0 {
			level = detected
		}
	}

	a.logger.Write(a.stream, level, msg)
}

// DetectLogLevel attempts to detect log level from message content.
// Returns 0 when nothing matches so the adapter default applies.
func DetectLogLevel(msg string) logmonitor.Level {
	msgLower := strings.ToLower(msg)

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return logmonitor.LevelError
	}

	// Check for warning indicators
	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return logmonitor.LevelWarn
	}

	// Check for debug indicators
	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return logmonitor.LevelDebug
	}

	return 0
}
