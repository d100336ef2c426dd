package logmonitor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"
	"github.com/lixenwraith/logmonitor/formatter"
)

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Level             int64  `toml:"level"`              // 1=error, 2=warn, 3=info, 4=debug
	Directory         string `toml:"directory"`          // Log directory
	FallbackDirectory string `toml:"fallback_directory"` // Used when directory is unusable
	TimestampFormat   string `toml:"timestamp_format"`   // Time format for log timestamps

	// Flush policy, normal profile
	FlushSizeKB   int64 `toml:"flush_size_kb"`   // Buffer size that triggers a flush
	IdleTimeoutMs int64 `toml:"idle_timeout_ms"` // Idle time after which a buffer is flushed

	// Flush policy, low-power profile
	LowPowerFlushSizeKB   int64 `toml:"low_power_flush_size_kb"`
	LowPowerIdleTimeoutMs int64 `toml:"low_power_idle_timeout_ms"`
	LowPower              bool  `toml:"low_power"` // Start in low-power mode

	// Files
	MaxSizeKB        int64 `toml:"max_size_kb"`        // Rotation limit per stream file (0=disabled)
	HandleIdleFactor int64 `toml:"handle_idle_factor"` // Idle timeouts before an unused file handle is closed
	Sanitize         bool  `toml:"sanitize"`           // Hex-encode non-printable message runes

	// Heartbeat configuration
	HeartbeatIntervalS int64  `toml:"heartbeat_interval_s"` // 0=disabled
	HeartbeatStream    string `toml:"heartbeat_stream"`     // Stream receiving heartbeat lines

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Level:             int64(LevelInfo),
	Directory:         "./logs",
	FallbackDirectory: "",
	TimestampFormat:   formatter.DefaultTimestampFormat,

	// Flush policy
	FlushSizeKB:           8,
	IdleTimeoutMs:         15000,
	LowPowerFlushSizeKB:   32,
	LowPowerIdleTimeoutMs: 60000,
	LowPower:              false,

	// Files
	MaxSizeKB:        10240,
	HandleIdleFactor: 3,
	Sanitize:         true,

	// Heartbeat settings
	HeartbeatIntervalS: 0,
	HeartbeatStream:    "system",

	// Internal error handling
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config.
// Keys are read from the [logmonitor] table; a missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("logmonitor.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "logmonitor.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	// Apply overrides using reflection
	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case Level:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if !Level(c.Level).Valid() {
		return fmtErrorf("level must be between 1 (error) and 4 (debug): %d", c.Level)
	}

	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if c.FlushSizeKB <= 0 || c.LowPowerFlushSizeKB <= 0 {
		return fmtErrorf("flush size thresholds must be positive")
	}

	if c.IdleTimeoutMs <= 0 || c.LowPowerIdleTimeoutMs <= 0 {
		return fmtErrorf("idle timeouts must be positive")
	}

	if c.MaxSizeKB < 0 {
		return fmtErrorf("max_size_kb cannot be negative: %d", c.MaxSizeKB)
	}

	if c.HandleIdleFactor < 1 {
		return fmtErrorf("handle_idle_factor must be at least 1: %d", c.HandleIdleFactor)
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	if c.HeartbeatIntervalS > 0 {
		if err := ValidateStreamName(c.HeartbeatStream); err != nil {
			return fmtErrorf("invalid heartbeat_stream: %w", err)
		}
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// normalProfile returns the tight timeout/threshold pair
func (c *Config) normalProfile() *profile {
	return &profile{
		idleTimeout: time.Duration(c.IdleTimeoutMs) * time.Millisecond,
		flushSize:   c.FlushSizeKB * sizeMultiplier,
	}
}

// lowPowerProfile returns the coarse timeout/threshold pair
func (c *Config) lowPowerProfile() *profile {
	return &profile{
		lowPower:    true,
		idleTimeout: time.Duration(c.LowPowerIdleTimeoutMs) * time.Millisecond,
		flushSize:   c.LowPowerFlushSizeKB * sizeMultiplier,
	}
}
