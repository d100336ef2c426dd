package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

// Background scheduling priority, as used for Android background threads
const backgroundNice = 10

var daemonStream string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Keep the flush engine running until SIGINT or SIGTERM",
	Long: `Runs the logger in the foreground at background priority.
Signals: SIGUSR1 enables low-power mode, SIGUSR2 disables it,
SIGHUP flushes every stream, SIGINT/SIGTERM drain and exit.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().StringVarP(&daemonStream, "name", "n", "system", "stream for daemon records")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	if err := logger.Start(); err != nil {
		return err
	}

	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, backgroundNice); err != nil {
		logger.Warn(daemonStream, "failed to lower scheduling priority:", err)
	}

	logger.Info(daemonStream, fmt.Sprintf("daemon started pid=%d dir=%s low_power=%t",
		os.Getpid(), logger.Directory(), logger.LowPowerMode()))

	sh := NewSignalHandler(logger, daemonStream)
	defer sh.Stop()

	sig := sh.Handle(context.Background())

	logger.Info(daemonStream, fmt.Sprintf("daemon stopping on %v: %s", sig, logger.Stats()))
	return stopLogger(cmd, logger)
}
