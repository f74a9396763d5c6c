// internal/config/normalize.go
package config

// Default values applied by Normalize. The bus-facing timings mirror
// what the device tolerates on a shared RS-485 gateway; changing them
// is an installer decision, not a code one.
const (
	DefaultPort              = 502
	DefaultUnitID            = 1
	DefaultTimeoutSeconds    = 5
	DefaultAttempts          = 3
	DefaultRetryDelaySeconds = 2
	DefaultRequestGapMs      = 200

	DefaultPollIntervalSeconds   = 30
	DefaultFailureLimit          = 5
	DefaultReconnectPauseSeconds = 2
	DefaultStatusFile            = "/tmp/heatpump_status.json"

	DefaultControlIntervalSeconds = 60
	DefaultRoomTarget             = 21.0
	DefaultPowerOnSettleSeconds   = 2
	DefaultCurvesFile             = "heating_curves.yaml"

	DefaultListen            = ":8000"
	DefaultStaleAfterSeconds = 30

	DefaultMQTTClientID = "heatpumpd"
	DefaultTopicPrefix  = "heatpump"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ---- connection ----
	if cfg.Connection.Port == 0 {
		cfg.Connection.Port = DefaultPort
	}
	if cfg.Connection.UnitID == 0 {
		cfg.Connection.UnitID = DefaultUnitID
	}
	if cfg.Connection.TimeoutSeconds == 0 {
		cfg.Connection.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Connection.Attempts == 0 {
		cfg.Connection.Attempts = DefaultAttempts
	}
	if cfg.Connection.RetryDelaySeconds == 0 {
		cfg.Connection.RetryDelaySeconds = DefaultRetryDelaySeconds
	}
	if cfg.Connection.RequestGapMs == 0 {
		cfg.Connection.RequestGapMs = DefaultRequestGapMs
	}

	// ---- polling ----
	if cfg.Polling.IntervalSeconds == 0 {
		cfg.Polling.IntervalSeconds = DefaultPollIntervalSeconds
	}
	if cfg.Polling.FailureLimit == 0 {
		cfg.Polling.FailureLimit = DefaultFailureLimit
	}
	if cfg.Polling.ReconnectPauseSeconds == 0 {
		cfg.Polling.ReconnectPauseSeconds = DefaultReconnectPauseSeconds
	}
	if cfg.Polling.StatusFile == "" {
		cfg.Polling.StatusFile = DefaultStatusFile
	}

	// ---- controller ----
	if cfg.Controller.Enabled == nil {
		on := true
		cfg.Controller.Enabled = &on
	}
	if cfg.Controller.IntervalSeconds == 0 {
		cfg.Controller.IntervalSeconds = DefaultControlIntervalSeconds
	}
	if cfg.Controller.DefaultRoomTarget == 0 {
		cfg.Controller.DefaultRoomTarget = DefaultRoomTarget
	}
	if cfg.Controller.PowerOnSettleSeconds == 0 {
		cfg.Controller.PowerOnSettleSeconds = DefaultPowerOnSettleSeconds
	}
	if cfg.Controller.CurvesFile == "" {
		cfg.Controller.CurvesFile = DefaultCurvesFile
	}
	// AdjustThreshold 0 stays 0: the curve policy decides then.
	// ThermostatURL and ScheduleFile stay empty: both are opt-in.

	// ---- api ----
	if cfg.API.Listen == "" {
		cfg.API.Listen = DefaultListen
	}
	if cfg.API.StaleAfterSeconds == 0 {
		cfg.API.StaleAfterSeconds = DefaultStaleAfterSeconds
	}

	// ---- mqtt ----
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultMQTTClientID
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = DefaultTopicPrefix
	}

	// ---- logging ----
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
