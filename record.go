package logmonitor

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	w io.Writer
}

// atomicSink holds the diagnostic writer
type atomicSink struct {
	v atomic.Value // stores *sink
}

func (s *atomicSink) store(w io.Writer) {
	s.v.Store(&sink{w: w})
}

func (s *atomicSink) load() io.Writer {
	if sk, ok := s.v.Load().(*sink); ok && sk != nil {
		return sk.w
	}
	return io.Discard
}

// internalLog reports logger failures on the diagnostic channel, if enabled.
// Output is rate limited; suppressed reports are counted.
func (l *Logger) internalLog(format string, args ...any) {
	if !l.cfg.InternalErrorsToStderr {
		return
	}

	if !l.diagLimiter.Allow() {
		l.state.DiagnosticsSuppressed.Add(1)
		return
	}

	// Ensure consistent prefix
	if !strings.HasPrefix(format, "logmonitor: ") {
		format = "logmonitor: " + format
	}

	fmt.Fprintf(l.diag.load(), format, args...)
}
