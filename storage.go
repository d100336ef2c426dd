package logmonitor

import (
	"io"
	"os"
	"path/filepath"
	"time"
)

// handleState is the lifecycle of a stream's OS file handle
type handleState int

const (
	handleClosed handleState = iota
	handleOpen
)

// fileHandle tracks the output file of one stream.
// The table entry outlives the OS handle, which is closed and reopened as needed.
// size is only trustworthy while open; it is re-derived from the file on every open.
type fileHandle struct {
	path       string
	state      handleState
	file       *os.File
	size       int64
	lastAccess time.Time
}

func newFileHandle(path string) *fileHandle {
	return &fileHandle{path: path, state: handleClosed, size: sizeUnknown}
}

func (h *fileHandle) isOpen() bool {
	return h.state == handleOpen
}

// open transitions closed -> open, or leaves the handle closed with unknown size on failure
func (h *fileHandle) open(now time.Time) error {
	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		h.state = handleClosed
		h.size = sizeUnknown
		return fmtErrorf("failed to open/create log file '%s': %w", h.path, err)
	}

	h.file = file
	h.state = handleOpen
	h.size = 0
	if fi, errStat := file.Stat(); errStat == nil {
		h.size = fi.Size()
	}
	h.lastAccess = now
	return nil
}

// close transitions open -> closed; tracked size is kept as last known
func (h *fileHandle) close() error {
	if h.state != handleOpen {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	h.state = handleClosed
	if err != nil {
		return fmtErrorf("failed to close log file '%s': %w", h.path, err)
	}
	return nil
}

// write issues a single write; any failure closes the handle and marks the size unknown
func (h *fileHandle) write(p []byte, now time.Time) (int, error) {
	n, err := h.file.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		_ = h.close()
		h.size = sizeUnknown
		return n, fmtErrorf("failed to write log file '%s': %w", h.path, err)
	}
	h.size += int64(n)
	h.lastAccess = now
	return n, nil
}

// handleLocked returns the file handle entry for a stream, creating it lazily
func (l *Logger) handleLocked(stream string) *fileHandle {
	fh, ok := l.files[stream]
	if !ok {
		fh = newFileHandle(l.getLogFilePath(stream))
		l.files[stream] = fh
	}
	return fh
}

// getLogFilePath returns <dir>/<stream>.log
func (l *Logger) getLogFilePath(stream string) string {
	return filepath.Join(l.dir, stream+logSuffix)
}

// flushStreamLocked drains one buffer to its file: open, rotate, write, clear.
// On open or write failure the buffered content is discarded and the error reported.
func (l *Logger) flushStreamLocked(stream string, sb *streamBuffer) error {
	if sb.len() == 0 {
		return nil
	}

	fh := l.handleLocked(stream)
	now := l.now()

	// 1. (Re)open lazily; the tracked size is re-derived from the file
	if !fh.isOpen() {
		if err := l.openForFlushLocked(stream, sb, fh, now); err != nil {
			return err
		}
	}

	// 2. Rotate an oversized file and start a fresh one
	if limit := l.state.MaxSize.Load(); limit > 0 && fh.size > limit {
		l.rotateLogFileLocked(fh)
		if err := l.openForFlushLocked(stream, sb, fh, now); err != nil {
			return err
		}
	}

	// 3. One write call for the whole buffer
	n, err := fh.write(sb.buf, now)
	if err != nil {
		l.discardLocked(sb)
		l.state.WriteFailures.Add(1)
		l.internalLog("stream '%s' write failed, buffered data discarded: %v\n", stream, err)
		return err
	}

	// 4. Success
	l.state.BytesWritten.Add(uint64(n))
	l.state.TotalFlushes.Add(1)
	sb.reset()
	return nil
}

// openForFlushLocked opens the stream file, discarding the buffer on failure
func (l *Logger) openForFlushLocked(stream string, sb *streamBuffer, fh *fileHandle, now time.Time) error {
	if err := fh.open(now); err != nil {
		l.discardLocked(sb)
		l.state.OpenFailures.Add(1)
		l.internalLog("stream '%s' flush aborted, buffered data discarded: %v\n", stream, err)
		return err
	}
	return nil
}

// flushAllLocked drains every non-empty buffer, continuing past failures
func (l *Logger) flushAllLocked() error {
	var err error
	for stream, sb := range l.buffers {
		if sb.len() == 0 {
			continue
		}
		if flushErr := l.flushStreamLocked(stream, sb); flushErr != nil {
			err = combineErrors(err, flushErr)
		}
	}
	return err
}

// discardLocked drops buffered content to bound memory after an I/O failure
func (l *Logger) discardLocked(sb *streamBuffer) {
	l.state.BytesDiscarded.Add(uint64(sb.len()))
	sb.reset()
}

// rotateLogFileLocked closes the handle and renames <stream>.log to <stream>.log.old,
// replacing any previous .old file. Failures are reported and never abort the flush.
func (l *Logger) rotateLogFileLocked(fh *fileHandle) {
	if err := fh.close(); err != nil {
		l.internalLog("warning - %v, continuing rotation\n", err)
	}

	oldPath := fh.path + ".old"
	if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
		l.internalLog("warning - failed to remove previous rotated file '%s': %v\n", oldPath, err)
	}

	if err := os.Rename(fh.path, oldPath); err != nil {
		l.internalLog("warning - failed to rename log file from '%s' to '%s': %v\n", fh.path, oldPath, err)
	} else {
		l.state.TotalRotations.Add(1)
	}

	fh.size = 0
}

// closeIdleHandlesLocked closes OS handles unused for longer than maxIdle; entries are kept
func (l *Logger) closeIdleHandlesLocked(now time.Time, maxIdle time.Duration) {
	for _, fh := range l.files {
		if !fh.isOpen() || now.Sub(fh.lastAccess) <= maxIdle {
			continue
		}
		if err := fh.close(); err != nil {
			l.internalLog("warning - %v\n", err)
		}
	}
}

// closeAllLocked releases every open OS handle
func (l *Logger) closeAllLocked() error {
	var err error
	for _, fh := range l.files {
		if closeErr := fh.close(); closeErr != nil {
			err = combineErrors(err, closeErr)
		}
	}
	return err
}

// openHandleCountLocked counts streams with an open OS handle
func (l *Logger) openHandleCountLocked() int {
	count := 0
	for _, fh := range l.files {
		if fh.isOpen() {
			count++
		}
	}
	return count
}
