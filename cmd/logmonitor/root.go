package main

import (
	"fmt"

	"github.com/lixenwraith/logmonitor"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logDir    string
	logLevel  string
	lowPower  bool
	overrides []string
	showStats bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "logmonitor",
	Short: "Low-power buffered multi-stream logger",
	Long: `logmonitor writes log records to per-stream files under a log directory,
batching them in memory to keep wake-ups and disk writes to a minimum.

Examples:
  logmonitor write -n service -l warn -m "battery low"
  logmonitor batch -n service -f records.txt
  logmonitor daemon --low-power
  logmonitor watch /data/adb/modules/app/config.txt /data/adb/modules/app/update.sh`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "TOML config file with a [logmonitor] table")
	rootCmd.PersistentFlags().StringVarP(&logDir, "dir", "d", "", "log directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "level", "", "level threshold: error, warn, info, debug or 1-4")
	rootCmd.PersistentFlags().BoolVar(&lowPower, "low-power", false, "start in low-power mode")
	rootCmd.PersistentFlags().StringArrayVar(&overrides, "set", nil, "config override key=value (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "print logger statistics on exit")
}

// loadConfig merges the config file, --set overrides and explicit flags, in that order
func loadConfig(cmd *cobra.Command) (*logmonitor.Config, error) {
	cfg := logmonitor.DefaultConfig()
	if cfgFile != "" {
		fileCfg, err := logmonitor.NewConfigFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	all := append([]string{}, overrides...)
	flags := cmd.Flags()
	if flags.Changed("dir") {
		all = append(all, "directory="+logDir)
	}
	if flags.Changed("level") {
		all = append(all, "level="+logLevel)
	}
	if flags.Changed("low-power") {
		all = append(all, fmt.Sprintf("low_power=%t", lowPower))
	}

	if len(all) == 0 {
		return cfg, nil
	}
	return logmonitor.ApplyOverride(cfg, all...)
}

// newLogger builds a logger from the resolved configuration
func newLogger(cmd *cobra.Command) (*logmonitor.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return logmonitor.NewLogger(cfg)
}

// stopLogger drains the logger and prints statistics when requested
func stopLogger(cmd *cobra.Command, logger *logmonitor.Logger) error {
	err := logger.Stop()
	if showStats {
		fmt.Fprintln(cmd.OutOrStdout(), logger.Stats())
	}
	return err
}
