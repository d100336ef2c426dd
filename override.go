package logmonitor

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to a copy of cfg and validates the result.
// Each override should be in the format "key=value".
//
// Example:
//
//	cfg, err := logmonitor.ApplyOverride(logmonitor.DefaultConfig(),
//	    "directory=/data/adb/modules/app/logs",
//	    "level=debug",
//	    "low_power=true",
//	)
func ApplyOverride(cfg *Config, overrides ...string) (*Config, error) {
	out := cfg.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(out, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, combineConfigErrors(errors)
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("logmonitor: multiple configuration errors:")
	for i, err := range errors {
		// Remove prefix from individual errors to avoid duplication
		errMsg := strings.TrimPrefix(err.Error(), "logmonitor: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "level":
		// Accepts both numeric and named values
		lvl, err := ParseLevel(value)
		if err != nil {
			return fmtErrorf("invalid level value '%s': %w", value, err)
		}
		cfg.Level = int64(lvl)
	case "directory":
		cfg.Directory = value
	case "fallback_directory":
		cfg.FallbackDirectory = value
	case "timestamp_format":
		cfg.TimestampFormat = value

	// Flush policy
	case "flush_size_kb":
		return setInt(&cfg.FlushSizeKB, key, value)
	case "idle_timeout_ms":
		return setInt(&cfg.IdleTimeoutMs, key, value)
	case "low_power_flush_size_kb":
		return setInt(&cfg.LowPowerFlushSizeKB, key, value)
	case "low_power_idle_timeout_ms":
		return setInt(&cfg.LowPowerIdleTimeoutMs, key, value)
	case "low_power":
		return setBool(&cfg.LowPower, key, value)

	// Files
	case "max_size_kb":
		return setInt(&cfg.MaxSizeKB, key, value)
	case "handle_idle_factor":
		return setInt(&cfg.HandleIdleFactor, key, value)
	case "sanitize":
		return setBool(&cfg.Sanitize, key, value)

	// Heartbeat configuration
	case "heartbeat_interval_s":
		return setInt(&cfg.HeartbeatIntervalS, key, value)
	case "heartbeat_stream":
		cfg.HeartbeatStream = value

	// Internal error handling
	case "internal_errors_to_stderr":
		return setBool(&cfg.InternalErrorsToStderr, key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}

func setBool(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}
