// internal/config/config.go

// Package config loads the daemon's YAML configuration.
// Load parses, Validate checks, Normalize applies defaults; callers
// run them in that order.
package config

import "time"

type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Polling    PollingConfig    `yaml:"polling"`
	Controller ControllerConfig `yaml:"controller"`
	API        APIConfig        `yaml:"api"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ---- CONNECTION ----

// ConnectionConfig describes the serial gateway and the retry policy
// used on its shared bus.
type ConnectionConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	UnitID            int    `yaml:"unit_id"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	Attempts          int    `yaml:"attempts"`
	RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
	RequestGapMs      int    `yaml:"request_gap_ms"`
}

func (c ConnectionConfig) Timeout() time.Duration    { return time.Duration(c.TimeoutSeconds) * time.Second }
func (c ConnectionConfig) RetryDelay() time.Duration { return time.Duration(c.RetryDelaySeconds) * time.Second }
func (c ConnectionConfig) RequestGap() time.Duration {
	return time.Duration(c.RequestGapMs) * time.Millisecond
}

// ---- POLLING ----

type PollingConfig struct {
	IntervalSeconds       int    `yaml:"interval_seconds"`
	FailureLimit          int    `yaml:"failure_limit"`
	ReconnectPauseSeconds int    `yaml:"reconnect_pause_seconds"`
	StatusFile            string `yaml:"status_file"`
}

func (c PollingConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c PollingConfig) ReconnectPause() time.Duration {
	return time.Duration(c.ReconnectPauseSeconds) * time.Second
}

// ---- CONTROLLER ----

type ControllerConfig struct {
	// Enabled starts the curve control loop active. Unset means on;
	// the loop can still be toggled at runtime through the API.
	Enabled              *bool   `yaml:"enabled"`
	IntervalSeconds      int     `yaml:"interval_seconds"`
	DefaultRoomTarget    float64 `yaml:"default_room_target"`
	AdjustThreshold      float64 `yaml:"adjust_threshold"` // 0 = curve policy decides
	PowerOnSettleSeconds int     `yaml:"power_on_settle_seconds"`
	CurvesFile           string  `yaml:"curves_file"`
	ThermostatURL        string  `yaml:"thermostat_url"` // empty = device outdoor sensor only
	ScheduleFile         string  `yaml:"schedule_file"`  // empty = scheduling off
}

func (c ControllerConfig) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

func (c ControllerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c ControllerConfig) PowerOnSettle() time.Duration {
	return time.Duration(c.PowerOnSettleSeconds) * time.Second
}

// ---- API ----

type APIConfig struct {
	Listen            string `yaml:"listen"`
	StaleAfterSeconds int    `yaml:"stale_after_seconds"`
}

func (c APIConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterSeconds) * time.Second
}

// ---- MQTT ----

// MQTTConfig is entirely optional; an empty broker URL disables
// publishing.
type MQTTConfig struct {
	BrokerURL   string `yaml:"broker_url"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// ---- LOGGING ----

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}
