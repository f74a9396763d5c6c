// internal/config/validate.go
package config

import "fmt"

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
//
// Zero values mean "use the default" and pass; Normalize fills them
// in afterwards.
func Validate(cfg *Config) error {

	// ------------------------------------------------------------
	// CONNECTION
	// ------------------------------------------------------------

	if cfg.Connection.Host == "" {
		return fmt.Errorf("connection: host is required")
	}
	if cfg.Connection.Port < 0 || cfg.Connection.Port > 65535 {
		return fmt.Errorf("connection: port %d out of range", cfg.Connection.Port)
	}
	if cfg.Connection.UnitID < 0 || cfg.Connection.UnitID > 247 {
		return fmt.Errorf("connection: unit_id %d out of range (0-247)", cfg.Connection.UnitID)
	}
	if cfg.Connection.TimeoutSeconds < 0 {
		return fmt.Errorf("connection: timeout_seconds must be >= 0")
	}
	if cfg.Connection.Attempts < 0 {
		return fmt.Errorf("connection: attempts must be >= 0")
	}
	if cfg.Connection.RetryDelaySeconds < 0 {
		return fmt.Errorf("connection: retry_delay_seconds must be >= 0")
	}
	if cfg.Connection.RequestGapMs < 0 {
		return fmt.Errorf("connection: request_gap_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// POLLING
	// ------------------------------------------------------------

	if cfg.Polling.IntervalSeconds < 0 {
		return fmt.Errorf("polling: interval_seconds must be >= 0")
	}
	if cfg.Polling.FailureLimit < 0 {
		return fmt.Errorf("polling: failure_limit must be >= 0")
	}
	if cfg.Polling.ReconnectPauseSeconds < 0 {
		return fmt.Errorf("polling: reconnect_pause_seconds must be >= 0")
	}

	// ------------------------------------------------------------
	// CONTROLLER
	// ------------------------------------------------------------

	if cfg.Controller.IntervalSeconds < 0 {
		return fmt.Errorf("controller: interval_seconds must be >= 0")
	}
	if t := cfg.Controller.DefaultRoomTarget; t != 0 && (t < 10 || t > 30) {
		return fmt.Errorf("controller: default_room_target %.1f out of range (10-30)", t)
	}
	if cfg.Controller.AdjustThreshold < 0 {
		return fmt.Errorf("controller: adjust_threshold must be >= 0")
	}
	if cfg.Controller.PowerOnSettleSeconds < 0 {
		return fmt.Errorf("controller: power_on_settle_seconds must be >= 0")
	}

	// ------------------------------------------------------------
	// API
	// ------------------------------------------------------------

	if cfg.API.StaleAfterSeconds < 0 {
		return fmt.Errorf("api: stale_after_seconds must be >= 0")
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging: unknown format %q", cfg.Logging.Format)
	}

	return nil
}
