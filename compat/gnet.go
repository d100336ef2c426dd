package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/logmonitor"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

// DefaultGnetStream receives gnet output unless WithGnetStream is used
const DefaultGnetStream = "gnet"

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter routes gnet's engine logs into one logmonitor stream
type GnetAdapter struct {
	logger       *logmonitor.Logger
	stream       string
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *logmonitor.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		stream: DefaultGnetStream,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetStream sets the target stream
func WithGnetStream(stream string) GnetOption {
	return func(a *GnetAdapter) {
		a.stream = stream
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Write(a.stream, logmonitor.LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Write(a.stream, logmonitor.LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Write(a.stream, logmonitor.LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Write(a.stream, logmonitor.LevelError, fmt.Sprintf(format, args...))
}

// Fatalf logs at error level, drains every stream and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Write(a.stream, logmonitor.LevelError, "fatal: "+msg)

	// Ensure everything is on disk before exit
	_ = a.logger.FlushAll()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
