package logmonitor

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lixenwraith/logmonitor/formatter"
	"github.com/lixenwraith/logmonitor/sanitizer"
	"golang.org/x/time/rate"
)

// Logger is the adaptive buffered writer. Records are appended to per-stream buffers
// and written to <directory>/<stream>.log by the caller on urgent records or by the
// flush engine goroutine.
type Logger struct {
	cfg       *Config
	dir       string
	state     State
	initMu    sync.Mutex
	clock     *formatter.Clock
	sanitizer *sanitizer.Sanitizer
	now       func() time.Time

	normal   *profile
	lowPower *profile

	// mu guards both tables; a flush reads one and writes the other atomically
	mu            sync.Mutex
	buffers       map[string]*streamBuffer
	files         map[string]*fileHandle
	lastHeartbeat time.Time

	wakeCh chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}

	diag        atomicSink
	diagLimiter *rate.Limiter
}

// NewLogger validates cfg, resolves a usable log directory and returns a logger.
// Records are accepted immediately; call Start to run the flush engine.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		return nil, fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmtErrorf("invalid configuration: %w", err)
	}

	dir, err := PrepareDirectory(cfg.Directory, cfg.FallbackDirectory)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		cfg:         cfg.Clone(),
		dir:         dir,
		clock:       formatter.NewClock(cfg.TimestampFormat),
		sanitizer:   sanitizer.New(),
		now:         time.Now,
		normal:      cfg.normalProfile(),
		lowPower:    cfg.lowPowerProfile(),
		buffers:     make(map[string]*streamBuffer),
		files:       make(map[string]*fileHandle),
		wakeCh:      make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		diagLimiter: rate.NewLimiter(rate.Every(diagnosticInterval), diagnosticBurst),
	}
	if cfg.Sanitize {
		l.sanitizer.Policy(sanitizer.PolicyTxt)
	}
	l.diag.store(os.Stderr)

	l.state.Running.Store(true)
	l.state.Level.Store(cfg.Level)
	l.state.MaxSize.Store(cfg.MaxSizeKB * sizeMultiplier)
	if cfg.LowPower {
		l.state.Profile.Store(l.lowPower)
	} else {
		l.state.Profile.Store(l.normal)
	}
	startTime := time.Now()
	l.state.StartTime.Store(startTime)
	l.lastHeartbeat = startTime

	return l, nil
}

// Start launches the flush engine. Safe to call multiple times.
// Returns an error once the logger has been stopped.
func (l *Logger) Start() error {
	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.StopCalled.Load() {
		return fmtErrorf("logger already stopped")
	}
	if l.state.Started.CompareAndSwap(false, true) {
		go l.processFlushes()
	}
	return nil
}

// Stop flushes every non-empty buffer and releases all file handles.
// It returns only after the flush engine has performed its final drain and exited.
// Only the first call has effect; later calls return nil.
func (l *Logger) Stop() error {
	if !l.state.StopCalled.CompareAndSwap(false, true) {
		return nil
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	l.state.Running.Store(false)
	close(l.stopCh)
	if l.state.Started.Load() {
		<-l.doneCh
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Covers records appended while the engine was draining, and the never-started case
	err := l.flushAllLocked()
	if closeErr := l.closeAllLocked(); closeErr != nil {
		err = combineErrors(err, closeErr)
	}
	return err
}

// Directory returns the resolved log directory
func (l *Logger) Directory() string {
	return l.dir
}

// Write appends one record to stream. It is a no-op for levels above the threshold.
// ERROR records, and records filling the buffer outside low-power mode, are flushed
// before Write returns.
func (l *Logger) Write(stream string, level Level, message string) {
	if !l.accepts(level) {
		return
	}
	l.write(stream, level, message)
}

// BatchWrite appends entries sharing one timestamp. Entries above the level threshold
// are dropped before formatting; the highest severity present decides on immediate flush.
func (l *Logger) BatchWrite(stream string, entries []Entry) {
	if len(entries) == 0 {
		return
	}
	if !l.state.Running.Load() {
		l.state.RecordsDropped.Add(uint64(len(entries)))
		return
	}

	threshold := l.state.Level.Load()
	ts := l.clock.Timestamp()

	var buf []byte
	var count int
	var highest Level
	for _, e := range entries {
		if !e.Level.Valid() || int64(e.Level) > threshold {
			l.state.RecordsFiltered.Add(1)
			continue
		}
		buf = formatter.AppendLine(buf, ts, e.Level.String(), l.sanitizer.Sanitize(e.Message))
		count++
		if highest == 0 || e.Level < highest {
			highest = e.Level
		}
	}
	if count == 0 {
		return
	}

	l.appendRecords(stream, buf, count, highest)
}

// Flush force-drains one stream's buffer regardless of thresholds
func (l *Logger) Flush(stream string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sb, ok := l.buffers[stream]
	if !ok {
		return nil
	}
	return l.flushStreamLocked(stream, sb)
}

// FlushAll force-drains every buffer regardless of thresholds
func (l *Logger) FlushAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.flushAllLocked()
}

// SetLowPowerMode swaps the idle timeout and flush threshold pair.
// It takes effect for subsequent decisions and does not flush.
func (l *Logger) SetLowPowerMode(enabled bool) {
	p := l.normal
	if enabled {
		p = l.lowPower
	}
	if old := l.state.Profile.Swap(p); old != p {
		l.wake()
	}
}

// LowPowerMode reports whether low-power mode is enabled
func (l *Logger) LowPowerMode() bool {
	return l.state.Profile.Load().lowPower
}

// SetLevel changes the level threshold
func (l *Logger) SetLevel(level Level) error {
	if !level.Valid() {
		return fmtErrorf("invalid level: %d", level)
	}
	l.state.Level.Store(int64(level))
	return nil
}

// Level returns the current level threshold
func (l *Logger) Level() Level {
	return Level(l.state.Level.Load())
}

// CleanLogs closes all handles, clears all buffers and removes every *.log and
// *.log.old file from the log directory. Other files are left alone.
func (l *Logger) CleanLogs() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.closeAllLocked()
	for _, sb := range l.buffers {
		l.state.BytesDiscarded.Add(uint64(sb.len()))
	}
	l.buffers = make(map[string]*streamBuffer)
	l.files = make(map[string]*fileHandle)

	entries, readErr := os.ReadDir(l.dir)
	if readErr != nil {
		l.internalLog("failed to read log directory '%s' for cleanup: %v\n", l.dir, readErr)
		return combineErrors(err, fmtErrorf("failed to read log directory '%s' for cleanup: %w", l.dir, readErr))
	}

	for _, entry := range entries {
		if entry.IsDir() || !isLogFileName(entry.Name()) {
			continue
		}
		filePath := filepath.Join(l.dir, entry.Name())
		if rmErr := os.Remove(filePath); rmErr != nil && !os.IsNotExist(rmErr) {
			l.internalLog("failed to remove log file '%s': %v\n", filePath, rmErr)
			err = combineErrors(err, fmtErrorf("failed to remove log file '%s': %w", filePath, rmErr))
			continue
		}
		l.state.TotalDeletions.Add(1)
	}

	return err
}

// SetDiagnosticWriter redirects internal error reports, default os.Stderr
func (l *Logger) SetDiagnosticWriter(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.diag.store(w)
}

// accepts applies the level filter and the running check
func (l *Logger) accepts(level Level) bool {
	if !level.Valid() || int64(level) > l.state.Level.Load() {
		l.state.RecordsFiltered.Add(1)
		return false
	}
	if !l.state.Running.Load() {
		l.state.RecordsDropped.Add(1)
		return false
	}
	return true
}

// write formats and appends a record that already passed the filter
func (l *Logger) write(stream string, level Level, message string) {
	ts := l.clock.Timestamp()
	label := level.String()
	msg := l.sanitizer.Sanitize(message)

	line := make([]byte, 0, formatter.LineLen(ts, label, msg))
	line = formatter.AppendLine(line, ts, label, msg)

	l.appendRecords(stream, line, 1, level)
}

// appendRecords adds formatted lines to a stream buffer and applies the immediate flush rule
func (l *Logger) appendRecords(stream string, data []byte, count int, highest Level) {
	if err := ValidateStreamName(stream); err != nil {
		l.state.RecordsDropped.Add(uint64(count))
		l.internalLog("dropped %d record(s): %v\n", count, err)
		return
	}

	p := l.state.Profile.Load()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Stop may have completed its final drain while this caller waited on the lock
	if !l.state.Running.Load() {
		l.state.RecordsDropped.Add(uint64(count))
		return
	}

	sb := l.bufferLocked(stream)
	sb.append(data, l.now())
	l.state.RecordsAccepted.Add(uint64(count))

	if highest == LevelError || (!p.lowPower && sb.len() >= p.flushSize) {
		_ = l.flushStreamLocked(stream, sb)
	}
}

// wake interrupts the flush engine sleep so it re-reads the current profile
func (l *Logger) wake() {
	select {
	case l.wakeCh <- struct{}{}:
	default:
	}
}
