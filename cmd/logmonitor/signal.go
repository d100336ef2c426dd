package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/logmonitor"
)

// Manages OS signals for the daemon
type SignalHandler struct {
	logger  *logmonitor.Logger
	stream  string
	sigChan chan os.Signal
}

// Creates a signal handler
func NewSignalHandler(logger *logmonitor.Logger, stream string) *SignalHandler {
	sh := &SignalHandler{
		logger:  logger,
		stream:  stream,
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(sh.sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,  // Flush all streams
		syscall.SIGUSR1, // Enter low-power mode
		syscall.SIGUSR2, // Leave low-power mode
	)

	return sh
}

// Handle processes control signals and returns the first termination signal
func (sh *SignalHandler) Handle(ctx context.Context) os.Signal {
	for {
		select {
		case sig := <-sh.sigChan:
			switch sig {
			case syscall.SIGUSR1:
				sh.logger.SetLowPowerMode(true)
				sh.logger.Info(sh.stream, "low-power mode enabled by signal")
			case syscall.SIGUSR2:
				sh.logger.SetLowPowerMode(false)
				sh.logger.Info(sh.stream, "low-power mode disabled by signal")
			case syscall.SIGHUP:
				if err := sh.logger.FlushAll(); err != nil {
					sh.logger.Warn(sh.stream, "flush on SIGHUP failed:", err)
				}
			default:
				return sig
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Cleans up signal handling
func (sh *SignalHandler) Stop() {
	signal.Stop(sh.sigChan)
}
