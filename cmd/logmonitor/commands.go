package main

import (
	"fmt"

	"github.com/lixenwraith/logmonitor"
	"github.com/spf13/cobra"
)

var (
	streamName  string
	recordLevel string
	message     string
	batchFile   string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write one record to a stream",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logmonitor.ParseLevel(recordLevel)
		if err != nil {
			return err
		}

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		logger.Write(streamName, level, message)
		return stopLogger(cmd, logger)
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Write LEVEL|message records from a file to a stream",
	Long: `Reads one record per line in the form LEVEL|message. LEVEL is a word
(error, warn, info, debug) or its numeric code 1-4. Blank lines and lines
starting with # are skipped; malformed lines are skipped with a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		if err := logger.BatchWriteFile(streamName, batchFile); err != nil {
			_ = logger.Stop()
			return err
		}
		return stopLogger(cmd, logger)
	},
}

var flushCmd = &cobra.Command{
	Use:   "flush [name]",
	Short: "Flush one stream or all streams",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			err = logger.Flush(args[0])
		} else {
			err = logger.FlushAll()
		}
		if stopErr := stopLogger(cmd, logger); err == nil {
			err = stopErr
		}
		return err
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all .log and .log.old files from the log directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		err = logger.CleanLogs()
		if stopErr := stopLogger(cmd, logger); err == nil {
			err = stopErr
		}
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "cleaned %s\n", logger.Directory())
		}
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "logmonitor %s\n", version)
	},
}

func init() {
	writeCmd.Flags().StringVarP(&streamName, "name", "n", "system", "stream name")
	writeCmd.Flags().StringVarP(&recordLevel, "record-level", "l", "info", "record level: error, warn, info, debug or 1-4")
	writeCmd.Flags().StringVarP(&message, "message", "m", "", "message text")
	_ = writeCmd.MarkFlagRequired("message")

	batchCmd.Flags().StringVarP(&streamName, "name", "n", "system", "stream name")
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "batch file")
	_ = batchCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(writeCmd, batchCmd, flushCmd, cleanCmd, daemonCmd, watchCmd, versionCmd)
}
