package logmonitor

import "time"

// streamBuffer accumulates formatted lines for one stream until the next flush.
// All access happens under Logger.mu.
type streamBuffer struct {
	buf       []byte
	lastWrite time.Time
}

func (sb *streamBuffer) append(data []byte, now time.Time) {
	sb.buf = append(sb.buf, data...)
	sb.lastWrite = now
}

func (sb *streamBuffer) len() int64 {
	return int64(len(sb.buf))
}

// reset empties the buffer, keeping its capacity unless it grew past the retained cap
func (sb *streamBuffer) reset() {
	if cap(sb.buf) > maxRetainedBuffer {
		sb.buf = nil
		return
	}
	sb.buf = sb.buf[:0]
}

// Buffers larger than this are released after a flush instead of reused
const maxRetainedBuffer = 64 * 1024

// bufferLocked returns the buffer for a stream, creating it on first use
func (l *Logger) bufferLocked(stream string) *streamBuffer {
	sb, ok := l.buffers[stream]
	if !ok {
		sb = &streamBuffer{}
		l.buffers[stream] = sb
	}
	return sb
}
