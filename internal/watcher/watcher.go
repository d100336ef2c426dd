package watcher

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/lixenwraith/logmonitor"
)

// Status values written to the status file
const (
	StatusRunning    = "RUNNING"
	StatusPaused     = "PAUSED"
	StatusError      = "ERROR"
	StatusNormalExit = "NORMAL_EXIT"
)

// DefaultStream receives watcher records unless Config.Stream is set
const DefaultStream = "filewatch"

// Longest script output kept for the debug record
const maxOutputLog = 4096

// Logger is the subset of *logmonitor.Logger the watcher writes to
type Logger interface {
	Write(stream string, level logmonitor.Level, message string)
}

// Config describes what to watch and what to run on change
type Config struct {
	Patterns   []string      // Files to watch, doublestar globs allowed
	Script     string        // Run as "sh <script>" on change
	Command    string        // Run as "sh -c <command>"; takes precedence over Script
	StatusFile string        // Optional, receives RUNNING/PAUSED/ERROR/NORMAL_EXIT
	Debounce   time.Duration // Changes within this window trigger one run
	Stream     string
}

// Watcher runs a script whenever a watched file is modified or its attributes change
type Watcher struct {
	cfg    Config
	logger Logger
	fsw    *fsnotify.Watcher
	paths  []string
	abs    []string // Absolute patterns for matching events
	runs   atomic.Uint64
	fails  atomic.Uint64
}

// New expands the patterns and registers their directories with fsnotify.
// At least one existing file must match.
func New(cfg Config, logger Logger) (*Watcher, error) {
	if cfg.Script == "" && cfg.Command == "" {
		return nil, fmt.Errorf("watcher: script or command required")
	}
	if cfg.Stream == "" {
		cfg.Stream = DefaultStream
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = time.Second
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w := &Watcher{
		cfg:    cfg,
		logger: logger,
		fsw:    fsw,
	}

	dirs := make(map[string]struct{})
	for _, pattern := range cfg.Patterns {
		absPattern, err := filepath.Abs(pattern)
		if err != nil {
			w.warnf("failed to resolve pattern %q: %v", pattern, err)
			continue
		}
		w.abs = append(w.abs, filepath.ToSlash(absPattern))

		matches, err := expandGlob(absPattern)
		if err != nil {
			w.warnf("failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			w.paths = append(w.paths, m)
			dirs[filepath.Dir(m)] = struct{}{}
		}
	}

	if len(w.paths) == 0 {
		_ = fsw.Close()
		return nil, fmt.Errorf("watcher: no files match %v", cfg.Patterns)
	}

	// Watching directories survives editors that replace files
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watcher: cannot watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Paths returns the files matched at startup
func (w *Watcher) Paths() []string {
	return w.paths
}

// Runs returns how many times the script was executed, and how many of those failed
func (w *Watcher) Runs() (total, failed uint64) {
	return w.runs.Load(), w.fails.Load()
}

// Run blocks until ctx is cancelled, running the script after each debounced change
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	w.infof("watching %s", strings.Join(w.paths, ", "))

	debounce := time.NewTimer(w.cfg.Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			w.writeStatus(StatusNormalExit)
			w.infof("stopped watching")
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher: event channel closed")
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Write(w.cfg.Stream, logmonitor.LevelDebug, fmt.Sprintf("change detected: %s %s", ev.Op, ev.Name))
			if !pending {
				pending = true
				debounce.Reset(w.cfg.Debounce)
			}

		case <-debounce.C:
			pending = false
			w.execute(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher: error channel closed")
			}
			w.warnf("fsnotify error: %v", err)
		}
	}
}

// relevant keeps write, chmod and create events on paths matching a pattern
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Create) {
		return false
	}
	name := filepath.ToSlash(ev.Name)
	for _, pattern := range w.abs {
		if ok, _ := doublestar.PathMatch(pattern, name); ok {
			return true
		}
	}
	return false
}

// execute runs the script once and records the outcome in the status file
func (w *Watcher) execute(ctx context.Context) {
	w.runs.Add(1)
	w.writeStatus(StatusRunning)

	var cmd *exec.Cmd
	if w.cfg.Command != "" {
		cmd = exec.CommandContext(ctx, "sh", "-c", w.cfg.Command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", w.cfg.Script)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Round(time.Millisecond)

	if output := strings.TrimSpace(out.String()); output != "" {
		if len(output) > maxOutputLog {
			output = output[:maxOutputLog] + "..."
		}
		w.logger.Write(w.cfg.Stream, logmonitor.LevelDebug, "script output: "+output)
	}

	if err != nil {
		w.fails.Add(1)
		w.logger.Write(w.cfg.Stream, logmonitor.LevelError, fmt.Sprintf("script failed after %s: %v", elapsed, err))
		w.writeStatus(StatusError)
		return
	}

	w.infof("script completed in %s", elapsed)
	w.writeStatus(StatusPaused)
}

// writeStatus replaces the status file content, if one is configured
func (w *Watcher) writeStatus(status string) {
	if w.cfg.StatusFile == "" {
		return
	}
	if err := os.WriteFile(w.cfg.StatusFile, []byte(status), 0644); err != nil {
		w.warnf("failed to write status file %s: %v", w.cfg.StatusFile, err)
	}
}

func (w *Watcher) infof(format string, args ...any) {
	w.logger.Write(w.cfg.Stream, logmonitor.LevelInfo, fmt.Sprintf(format, args...))
}

func (w *Watcher) warnf(format string, args ...any) {
	w.logger.Write(w.cfg.Stream, logmonitor.LevelWarn, fmt.Sprintf(format, args...))
}

// expandGlob resolves a glob pattern to matching file paths.
// Supports recursive patterns like /data/**/*.conf via doublestar.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}
