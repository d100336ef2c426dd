package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/logmonitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures watcher records
type recordingLogger struct {
	mu      sync.Mutex
	records []string
}

func (r *recordingLogger) Write(stream string, level logmonitor.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, fmt.Sprintf("%s [%s] %s", stream, level, message))
}

func (r *recordingLogger) contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if strings.Contains(rec, substr) {
			return true
		}
	}
	return false
}

func readStatus(path string) string {
	b, _ := os.ReadFile(path)
	return string(b)
}

// startWatcher runs w in the background and returns a stop function that waits for exit
func startWatcher(t *testing.T, w *Watcher) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Allow the loop to start before files change
	time.Sleep(50 * time.Millisecond)

	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func TestNewValidation(t *testing.T) {
	logger := &recordingLogger{}

	_, err := New(Config{Patterns: []string{"/nonexistent"}}, logger)
	assert.Error(t, err, "script required")

	_, err = New(Config{Patterns: []string{filepath.Join(t.TempDir(), "*.conf")}, Script: "x.sh"}, logger)
	assert.Error(t, err, "no matching files")
}

func TestNewExpandsGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0755))
	for _, p := range []string{"top.conf", "a/mid.conf", "a/b/deep.conf", "a/skip.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, p), []byte("x"), 0644))
	}

	w, err := New(Config{Patterns: []string{filepath.Join(dir, "**", "*.conf")}, Command: "true"}, &recordingLogger{})
	require.NoError(t, err)
	defer w.fsw.Close()

	assert.Len(t, w.Paths(), 3)
	assert.Equal(t, DefaultStream, w.cfg.Stream)
}

func TestRunExecutesScriptOnChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.txt")
	marker := filepath.Join(dir, "marker")
	statusFile := filepath.Join(dir, "status")
	script := filepath.Join(dir, "update.sh")

	require.NoError(t, os.WriteFile(target, []byte("a=1\n"), 0644))
	require.NoError(t, os.WriteFile(script, []byte("echo ran >> "+marker+"\necho hello\n"), 0644))

	logger := &recordingLogger{}
	w, err := New(Config{
		Patterns:   []string{target},
		Script:     script,
		StatusFile: statusFile,
		Debounce:   50 * time.Millisecond,
	}, logger)
	require.NoError(t, err)

	stop := startWatcher(t, w)

	require.NoError(t, os.WriteFile(target, []byte("a=2\n"), 0644))

	assert.Eventually(t, func() bool {
		return readStatus(statusFile) == StatusPaused
	}, 5*time.Second, 20*time.Millisecond)

	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ran")
	assert.Eventually(t, func() bool { return logger.contains("script output: hello") }, time.Second, 10*time.Millisecond)

	stop()
	assert.Equal(t, StatusNormalExit, readStatus(statusFile))

	total, failed := w.Runs()
	assert.GreaterOrEqual(t, total, uint64(1))
	assert.Equal(t, uint64(0), failed)
}

func TestRunIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "watched.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	w, err := New(Config{Patterns: []string{target}, Command: "true", Debounce: 20 * time.Millisecond}, &recordingLogger{})
	require.NoError(t, err)

	stop := startWatcher(t, w)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("y"), 0644))
	time.Sleep(200 * time.Millisecond)
	stop()

	total, _ := w.Runs()
	assert.Equal(t, uint64(0), total)
}

func TestRunScriptFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.txt")
	statusFile := filepath.Join(dir, "status")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	logger := &recordingLogger{}
	w, err := New(Config{
		Patterns:   []string{target},
		Command:    "exit 3",
		StatusFile: statusFile,
		Debounce:   20 * time.Millisecond,
		Stream:     "fw",
	}, logger)
	require.NoError(t, err)

	stop := startWatcher(t, w)
	require.NoError(t, os.Chmod(target, 0600))

	assert.Eventually(t, func() bool {
		return readStatus(statusFile) == StatusError
	}, 5*time.Second, 20*time.Millisecond)
	stop()

	_, failed := w.Runs()
	assert.GreaterOrEqual(t, failed, uint64(1))
	assert.True(t, logger.contains("fw [ERROR] script failed"))
}
