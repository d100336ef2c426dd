package formatter

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockTimestamp(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	current := base
	c := NewClock("")
	c.now = func() time.Time { return current }

	t.Run("default layout", func(t *testing.T) {
		assert.Equal(t, "2024-01-01 12:00:00", c.Timestamp())
	})

	t.Run("cached within the same second", func(t *testing.T) {
		first := c.Timestamp()
		current = base.Add(900 * time.Millisecond)
		assert.Equal(t, first, c.Timestamp())
		assert.Equal(t, base.Unix(), c.cachedSec)
	})

	t.Run("refreshed on the next second", func(t *testing.T) {
		current = base.Add(1100 * time.Millisecond)
		assert.Equal(t, "2024-01-01 12:00:01", c.Timestamp())
	})

	t.Run("custom layout", func(t *testing.T) {
		cc := NewClock(time.RFC3339)
		cc.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
		assert.Equal(t, "2024-01-01T12:00:00Z", cc.Timestamp())
	})
}

func TestClockConcurrentAccess(t *testing.T) {
	c := NewClock("")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				ts := c.Timestamp()
				assert.Len(t, ts, len(DefaultTimestampFormat))
			}
		}()
	}
	wg.Wait()
}

func TestLevelToString(t *testing.T) {
	tests := []struct {
		level    int64
		expected string
	}{
		{1, "ERROR"},
		{2, "WARN"},
		{3, "INFO"},
		{4, "DEBUG"},
		{0, "LEVEL(0)"},
		{9, "LEVEL(9)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelToString(tt.level))
		})
	}
}

func TestAppendLine(t *testing.T) {
	line := AppendLine(nil, "2024-01-01 12:00:00", "ERROR", "disk full")
	assert.Equal(t, "2024-01-01 12:00:00 [ERROR] disk full\n", string(line))
	assert.Equal(t, len(line), LineLen("2024-01-01 12:00:00", "ERROR", "disk full"))

	// Appends after existing content
	buf := []byte("prefix\n")
	buf = AppendLine(buf, "ts", "INFO", "")
	assert.Equal(t, "prefix\nts [INFO] \n", string(buf))
}

type point struct {
	X, Y int
}

type named string

func (n named) String() string { return "named:" + string(n) }

func TestFormatArgs(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		args     []any
		expected string
	}{
		{"empty", nil, ""},
		{"strings", []any{"a", "b"}, "a b"},
		{"numbers", []any{1, int64(-2), uint(3), uint64(4), 1.5, float32(2.25)}, "1 -2 3 4 1.5 2.25"},
		{"bool and nil", []any{true, nil}, "true nil"},
		{"bytes", []any{[]byte("raw")}, "raw"},
		{"error", []any{errors.New("boom")}, "boom"},
		{"stringer", []any{named("x")}, "named:x"},
		{"time", []any{ts}, "2024-01-01 12:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatArgs(tt.args...))
		})
	}

	t.Run("complex value uses spew", func(t *testing.T) {
		out := FormatArgs("pos", point{X: 1, Y: 2})
		assert.True(t, strings.HasPrefix(out, "pos "))
		assert.Contains(t, out, "X:1")
		assert.Contains(t, out, "Y:2")
		assert.NotContains(t, out, "\n")
	})

	t.Run("maps are sorted", func(t *testing.T) {
		out := FormatArgs(map[string]int{"b": 2, "a": 1})
		assert.Less(t, strings.Index(out, "a"), strings.Index(out, "b"))
	})
}
