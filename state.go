package logmonitor

import (
	"sync/atomic"
	"time"
)

// profile is the flush policy pair swapped atomically by SetLowPowerMode
type profile struct {
	lowPower    bool
	idleTimeout time.Duration
	flushSize   int64
}

// State encapsulates the runtime state of the logger.
// Fields are independent atomics so callers never block on them.
type State struct {
	Started    atomic.Bool
	Running    atomic.Bool
	StopCalled atomic.Bool

	Level   atomic.Int64            // Level threshold
	Profile atomic.Pointer[profile] // Current timeout/threshold pair and low-power flag
	MaxSize atomic.Int64            // Rotation limit in bytes, 0 disables rotation

	// Statistics
	StartTime             atomic.Value  // stores time.Time for uptime calculation
	RecordsAccepted       atomic.Uint64 // Records appended to a stream buffer
	RecordsFiltered       atomic.Uint64 // Records rejected by the level filter
	RecordsDropped        atomic.Uint64 // Records rejected after stop or for an invalid stream
	BytesWritten          atomic.Uint64
	BytesDiscarded        atomic.Uint64 // Buffered bytes lost to open or write failures
	TotalFlushes          atomic.Uint64
	TotalRotations        atomic.Uint64
	TotalDeletions        atomic.Uint64
	OpenFailures          atomic.Uint64
	WriteFailures         atomic.Uint64
	DiagnosticsSuppressed atomic.Uint64
	HeartbeatSequence     atomic.Uint64
}
