package logmonitor

import (
	"time"

	"github.com/lixenwraith/logmonitor/formatter"
)

// Level is a record severity. Lower value means higher priority.
type Level int64

// Log level constants
const (
	LevelError Level = 1
	LevelWarn  Level = 2
	LevelInfo  Level = 3
	LevelDebug Level = 4
)

// String returns the label written into log lines
func (l Level) String() string {
	return formatter.LevelToString(int64(l))
}

// Valid reports whether l is one of the four defined severities
func (l Level) Valid() bool {
	return l >= LevelError && l <= LevelDebug
}

// File naming
const (
	logSuffix    = ".log"
	oldLogSuffix = ".log.old"
)

// Storage
const (
	// Size multiplier for KB
	sizeMultiplier = 1024
	// Tracked size of a handle whose on-disk size is not known
	sizeUnknown int64 = -1
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Diagnostic output throttle
	diagnosticBurst    = 10
	diagnosticInterval = time.Second
)
