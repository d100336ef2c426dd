package logmonitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStopLifecycle(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	require.NoError(t, logger.Start())
	assert.True(t, logger.state.Started.Load())

	logger.Info("app", "drained on stop")
	require.NoError(t, logger.Stop())

	// Engine exited before Stop returned
	select {
	case <-logger.doneCh:
	default:
		t.Fatal("flush engine still running after Stop")
	}

	lines := readLines(t, filepath.Join(tmpDir, "app.log"))
	require.Len(t, lines, 1)
	assert.Equal(t, 0, logger.Stats().OpenHandles)
}

func TestStartAlreadyStarted(t *testing.T) {
	logger, _ := createTestLogger(t)

	require.NoError(t, logger.Start())
	require.NoError(t, logger.Start())
	require.NoError(t, logger.Stop())
}

func TestStopIdempotent(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	require.NoError(t, logger.Start())

	logger.Info("app", "once")
	require.NoError(t, logger.Stop())
	require.NoError(t, logger.Stop())

	lines := readLines(t, filepath.Join(tmpDir, "app.log"))
	assert.Len(t, lines, 1)
}

func TestStopWithoutStart(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	logger.Warn("app", "never started engine")

	done := make(chan error, 1)
	go func() { done <- logger.Stop() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked without a running engine")
	}

	assert.Len(t, readLines(t, filepath.Join(tmpDir, "app.log")), 1)
}

func TestStopWakesSleepingEngine(t *testing.T) {
	logger, _ := createTestLogger(t, "idle_timeout_ms=600000", "low_power_idle_timeout_ms=600000")
	require.NoError(t, logger.Start())

	start := time.Now()
	require.NoError(t, logger.Stop())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLoggingOnStoppedLogger(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	require.NoError(t, logger.Stop())

	logger.Error("app", "after stop")
	logger.BatchWrite("app", []Entry{{Level: LevelInfo, Message: "a"}, {Level: LevelWarn, Message: "b"}})

	assert.Equal(t, uint64(3), logger.Stats().RecordsDropped)
	_, err := os.Stat(filepath.Join(tmpDir, "app.log"))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, logger.Start(), "stopped logger cannot restart")
}
