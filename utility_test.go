package logmonitor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"1", LevelError, false},
		{"4", LevelDebug, false},
		{"0", 0, true},
		{"5", 0, true},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, level)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.False(t, Level(0).Valid())
	assert.False(t, Level(5).Valid())
}

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestValidateStreamName(t *testing.T) {
	valid := []string{"sys", "filewatch", "app-1", "my.stream", "日志"}
	for _, name := range valid {
		assert.NoError(t, ValidateStreamName(name), name)
	}

	invalid := []string{"", "  ", ".", "..", "a/b", "../x", "nul\x00byte"}
	for _, name := range invalid {
		assert.Error(t, ValidateStreamName(name), name)
	}
}

func TestIsLogFileName(t *testing.T) {
	assert.True(t, isLogFileName("a.log"))
	assert.True(t, isLogFileName("a.log.old"))
	assert.False(t, isLogFileName("notes.txt"))
	assert.False(t, isLogFileName("a.log.1"))
	assert.False(t, isLogFileName("a.logs"))
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Error(t, err)
	assert.Equal(t, "logmonitor: test error: details", err.Error())

	// Already prefixed
	err = fmtErrorf("logmonitor: already prefixed")
	assert.Equal(t, "logmonitor: already prefixed", err.Error())
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, e1, combineErrors(e1, nil))
	assert.Equal(t, e2, combineErrors(nil, e2))

	combined := combineErrors(e1, e2)
	assert.Equal(t, "first; second", combined.Error())
	assert.ErrorIs(t, combined, e2)
}
