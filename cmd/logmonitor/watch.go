package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/lixenwraith/logmonitor/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	watchStatusFile string
	watchCommand    string
	watchInterval   int
	watchStream     string
)

var watchCmd = &cobra.Command{
	Use:   "watch <file> <script>",
	Short: "Run a script whenever a file changes",
	Long: `Watches a file (or glob pattern) for modification and attribute changes
and runs the script with sh. Changes within the check interval trigger
a single run. The optional status file receives RUNNING, PAUSED, ERROR
or NORMAL_EXIT.

Examples:
  logmonitor watch /data/adb/modules/app/config.txt /data/adb/modules/app/update.sh
  logmonitor watch -s /data/status.txt --command "echo changed" "/data/conf/**/*.prop" -`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchStatusFile, "status", "s", "", "status file")
	watchCmd.Flags().StringVar(&watchCommand, "command", "", "shell command to run instead of the script")
	watchCmd.Flags().IntVarP(&watchInterval, "interval", "i", 1, "check interval in seconds")
	watchCmd.Flags().StringVarP(&watchStream, "name", "n", watcher.DefaultStream, "stream for watcher records")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval < 1 {
		watchInterval = 1
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	if err := logger.Start(); err != nil {
		return err
	}
	defer stopLogger(cmd, logger)

	script := args[1]
	if watchCommand != "" {
		script = ""
	}

	w, err := watcher.New(watcher.Config{
		Patterns:   []string{args[0]},
		Script:     script,
		Command:    watchCommand,
		StatusFile: watchStatusFile,
		Debounce:   time.Duration(watchInterval) * time.Second,
		Stream:     watchStream,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return w.Run(ctx)
}
