package logmonitor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Longest batch line accepted by ParseBatch
const maxBatchLineSize = 1024 * 1024

// ParseBatch reads LEVEL|message records, one per line. Blank lines and lines starting
// with '#' are skipped. Malformed lines are skipped and described in the returned warnings.
// The error is non-nil only when reading fails.
func ParseBatch(r io.Reader) ([]Entry, []string, error) {
	var entries []Entry
	var warnings []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxBatchLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		levelStr, message, found := strings.Cut(line, "|")
		if !found {
			warnings = append(warnings, fmt.Sprintf("line %d: missing '|' separator, skipped", lineNum))
			continue
		}

		level, err := ParseLevel(levelStr)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v, skipped", lineNum, err))
			continue
		}

		entries = append(entries, Entry{Level: level, Message: message})
	}

	if err := scanner.Err(); err != nil {
		return entries, warnings, fmtErrorf("failed to read batch input at line %d: %w", lineNum+1, err)
	}
	return entries, warnings, nil
}

// BatchWriteFile parses a batch file and writes its records to stream.
// Malformed lines are reported as diagnostics.
func (l *Logger) BatchWriteFile(stream, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmtErrorf("failed to open batch file '%s': %w", path, err)
	}
	defer f.Close()

	entries, warnings, err := ParseBatch(f)
	for _, w := range warnings {
		l.internalLog("warning - batch file '%s' %s\n", path, w)
	}
	if err != nil {
		return err
	}

	l.BatchWrite(stream, entries)
	return nil
}
