package logmonitor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "logmonitor: ") {
		format = "logmonitor: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// ParseLevel converts a level word (error, warn, info, debug) or its numeric code (1-4).
func ParseLevel(levelStr string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if lvl := Level(n); lvl.Valid() {
			return lvl, nil
		}
		return 0, fmtErrorf("invalid level code: %d (use 1-4)", n)
	}

	switch s {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use error, warn, info, debug or 1-4)", levelStr)
	}
}

// ValidateStreamName rejects names that cannot be used as a file name inside the log directory
func ValidateStreamName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmtErrorf("stream name cannot be empty")
	}
	if name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return fmtErrorf("invalid stream name '%s'", name)
	}
	if strings.ContainsRune(name, 0) {
		return fmtErrorf("stream name contains NUL byte")
	}
	return nil
}

// isLogFileName reports whether a directory entry belongs to the logger
func isLogFileName(name string) bool {
	return strings.HasSuffix(name, logSuffix) || strings.HasSuffix(name, oldLogSuffix)
}
