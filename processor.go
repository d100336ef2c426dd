package logmonitor

import (
	"time"
)

// processFlushes is the flush engine loop running in a separate goroutine.
// It sleeps for the current idle timeout and wakes early only on stop or a profile change.
func (l *Logger) processFlushes() {
	defer close(l.doneCh)

	timer := time.NewTimer(l.waitTime())
	defer timer.Stop()

	for {
		select {
		case <-l.stopCh:
			l.handleFinalDrain()
			return

		case <-l.wakeCh:
			// Profile changed, re-arm with the new wait time

		case <-timer.C:
			l.handleFlushTick()
		}

		timer.Reset(l.waitTime())
	}
}

// waitTime is the sleep between engine passes
func (l *Logger) waitTime() time.Duration {
	wait := l.state.Profile.Load().idleTimeout
	if wait < minWaitTime {
		wait = minWaitTime
	}
	return wait
}

// handleFlushTick flushes idle or half-full buffers and reclaims idle handles
func (l *Logger) handleFlushTick() {
	p := l.state.Profile.Load()
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for stream, sb := range l.buffers {
		if sb.len() == 0 {
			continue
		}
		if now.Sub(sb.lastWrite) > p.idleTimeout || sb.len() > p.flushSize/2 {
			_ = l.flushStreamLocked(stream, sb)
		}
	}

	l.closeIdleHandlesLocked(now, time.Duration(l.cfg.HandleIdleFactor)*p.idleTimeout)

	l.heartbeatLocked(now)
}

// handleFinalDrain writes out everything still buffered at shutdown
func (l *Logger) handleFinalDrain() {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.flushAllLocked()
}
