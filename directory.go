package logmonitor

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// PrepareDirectory returns the first of primary and fallback that exists, or can be created,
// and is writable and searchable by this process. A best-effort chmod is attempted on a
// directory that exists but fails the access check.
func PrepareDirectory(primary, fallback string) (string, error) {
	var err error
	for _, dir := range []string{primary, fallback} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		usable, dirErr := ensureLogDir(dir)
		if dirErr == nil {
			return usable, nil
		}
		err = combineErrors(err, dirErr)
	}
	if err == nil {
		err = fmtErrorf("no log directory configured")
	}
	return "", fmtErrorf("log directory unusable: %w", err)
}

// ensureLogDir creates dir if missing and verifies write and search permission
func ensureLogDir(dir string) (string, error) {
	dir = filepath.Clean(dir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmtErrorf("failed to create log directory '%s': %w", dir, err)
	}

	fi, err := os.Stat(dir)
	if err != nil {
		return "", fmtErrorf("failed to stat log directory '%s': %w", dir, err)
	}
	if !fi.IsDir() {
		return "", fmtErrorf("log path '%s' is not a directory", dir)
	}

	if unix.Access(dir, unix.W_OK|unix.X_OK) == nil {
		return dir, nil
	}

	// Best effort only, no privilege escalation
	_ = os.Chmod(dir, fi.Mode().Perm()|0700)
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return "", fmtErrorf("log directory '%s' is not writable: %w", dir, err)
	}
	return dir, nil
}
