package logmonitor

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Config returns a validated copy of the built configuration.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return b.cfg.Clone(), nil
}

// Build creates a new Logger instance with the specified configuration.
// The flush engine is not running until Start is called.
func (b *Builder) Build() (*Logger, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, err
	}
	return NewLogger(cfg)
}

// Level sets the log level.
func (b *Builder) Level(level Level) *Builder {
	b.cfg.Level = int64(level)
	return b
}

// LevelString sets the log level from a word or numeric code.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = int64(levelVal)
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// FallbackDirectory sets the directory used when the primary one is unusable.
func (b *Builder) FallbackDirectory(dir string) *Builder {
	b.cfg.FallbackDirectory = dir
	return b
}

// FlushSizeKB sets the normal-profile buffer flush threshold.
func (b *Builder) FlushSizeKB(size int64) *Builder {
	b.cfg.FlushSizeKB = size
	return b
}

// IdleTimeoutMs sets the normal-profile idle flush timeout.
func (b *Builder) IdleTimeoutMs(ms int64) *Builder {
	b.cfg.IdleTimeoutMs = ms
	return b
}

// LowPowerProfile sets the low-power buffer threshold and idle timeout.
func (b *Builder) LowPowerProfile(flushSizeKB, idleTimeoutMs int64) *Builder {
	b.cfg.LowPowerFlushSizeKB = flushSizeKB
	b.cfg.LowPowerIdleTimeoutMs = idleTimeoutMs
	return b
}

// LowPower sets the initial low-power mode.
func (b *Builder) LowPower(enabled bool) *Builder {
	b.cfg.LowPower = enabled
	return b
}

// MaxSizeKB sets the maximum log file size in KB.
func (b *Builder) MaxSizeKB(size int64) *Builder {
	b.cfg.MaxSizeKB = size
	return b
}

// MaxSizeMB sets the maximum log file size in MB. Convenience.
func (b *Builder) MaxSizeMB(size int64) *Builder {
	b.cfg.MaxSizeKB = size * sizeMultiplier
	return b
}

// Sanitize enables hex-encoding of non-printable message runes.
func (b *Builder) Sanitize(enabled bool) *Builder {
	b.cfg.Sanitize = enabled
	return b
}

// HeartbeatIntervalS sets the heartbeat interval, 0 disables it.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// InternalErrorsToStderr enables diagnostic output.
func (b *Builder) InternalErrorsToStderr(enabled bool) *Builder {
	b.cfg.InternalErrorsToStderr = enabled
	return b
}

// Example usage:
// logger, err := logmonitor.NewBuilder().
//
//	Directory("/data/adb/modules/app/logs").
//	LevelString("debug").
//	LowPower(true).
//	Build()
//
// if err == nil {
//
//	 logger.Start()
//	 defer logger.Stop()
//	 logger.Info("system", "service started")
//
// }
