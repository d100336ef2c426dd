package logmonitor

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lixenwraith/logmonitor/formatter"
)

// Stats is a point-in-time snapshot of logger counters
type Stats struct {
	StartTime time.Time
	Uptime    time.Duration
	Level     Level
	LowPower  bool

	RecordsAccepted       uint64
	RecordsFiltered       uint64
	RecordsDropped        uint64
	BytesWritten          uint64
	BytesDiscarded        uint64
	TotalFlushes          uint64
	TotalRotations        uint64
	TotalDeletions        uint64
	OpenFailures          uint64
	WriteFailures         uint64
	DiagnosticsSuppressed uint64

	Streams     int // Streams with a buffer entry
	OpenHandles int // Streams whose OS file handle is currently open
	Buffered    int64
}

// Stats returns current logger statistics
func (l *Logger) Stats() Stats {
	s := Stats{
		Level:                 l.Level(),
		LowPower:              l.LowPowerMode(),
		RecordsAccepted:       l.state.RecordsAccepted.Load(),
		RecordsFiltered:       l.state.RecordsFiltered.Load(),
		RecordsDropped:        l.state.RecordsDropped.Load(),
		BytesWritten:          l.state.BytesWritten.Load(),
		BytesDiscarded:        l.state.BytesDiscarded.Load(),
		TotalFlushes:          l.state.TotalFlushes.Load(),
		TotalRotations:        l.state.TotalRotations.Load(),
		TotalDeletions:        l.state.TotalDeletions.Load(),
		OpenFailures:          l.state.OpenFailures.Load(),
		WriteFailures:         l.state.WriteFailures.Load(),
		DiagnosticsSuppressed: l.state.DiagnosticsSuppressed.Load(),
	}
	if startTime, ok := l.state.StartTime.Load().(time.Time); ok && !startTime.IsZero() {
		s.StartTime = startTime
		s.Uptime = time.Since(startTime)
	}

	l.mu.Lock()
	s.Streams = len(l.buffers)
	s.OpenHandles = l.openHandleCountLocked()
	for _, sb := range l.buffers {
		s.Buffered += sb.len()
	}
	l.mu.Unlock()

	return s
}

// String renders the snapshot as key=value pairs on one line
func (s Stats) String() string {
	return fmt.Sprintf("uptime_hours=%.2f level=%s low_power=%t streams=%d open_handles=%d buffered_bytes=%d "+
		"records=%d filtered=%d dropped=%d written_bytes=%d discarded_bytes=%d flushes=%d rotations=%d "+
		"deletions=%d open_failures=%d write_failures=%d",
		s.Uptime.Hours(), s.Level, s.LowPower, s.Streams, s.OpenHandles, s.Buffered,
		s.RecordsAccepted, s.RecordsFiltered, s.RecordsDropped, s.BytesWritten, s.BytesDiscarded,
		s.TotalFlushes, s.TotalRotations, s.TotalDeletions, s.OpenFailures, s.WriteFailures)
}

// heartbeatLocked appends a stats line to the heartbeat stream when the interval is due.
// Heartbeats bypass the level filter and are checked only when the flush engine wakes.
func (l *Logger) heartbeatLocked(now time.Time) {
	interval := time.Duration(l.cfg.HeartbeatIntervalS) * time.Second
	if interval <= 0 || now.Sub(l.lastHeartbeat) < interval {
		return
	}
	l.lastHeartbeat = now

	sequence := l.state.HeartbeatSequence.Add(1)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	startTime, _ := l.state.StartTime.Load().(time.Time)
	msg := fmt.Sprintf("type=heartbeat sequence=%d uptime_hours=%.2f low_power=%t streams=%d open_handles=%d "+
		"records=%d dropped=%d written_bytes=%d discarded_bytes=%d rotations=%d alloc_mb=%.2f num_goroutine=%d",
		sequence, now.Sub(startTime).Hours(), l.state.Profile.Load().lowPower, len(l.buffers), l.openHandleCountLocked(),
		l.state.RecordsAccepted.Load(), l.state.RecordsDropped.Load(), l.state.BytesWritten.Load(),
		l.state.BytesDiscarded.Load(), l.state.TotalRotations.Load(),
		float64(memStats.Alloc)/(1000*1000), runtime.NumGoroutine())

	stream := l.cfg.HeartbeatStream
	sb := l.bufferLocked(stream)
	sb.buf = formatter.AppendLine(sb.buf, l.clock.Timestamp(), LevelInfo.String(), msg)
	sb.lastWrite = now
	l.state.RecordsAccepted.Add(1)
}
