// internal/mqtt/publisher.go

// Package mqtt publishes device snapshots to an MQTT broker for home
// automation consumers. Entirely optional: an empty broker URL
// disables it and the daemon runs without.
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 1000 // milliseconds
	keepAlive         = 60 * time.Second
)

// Config selects the broker and topic layout.
type Config struct {
	BrokerURL string // e.g. "tcp://broker:1883"; empty disables publishing
	ClientID  string
	Username  string
	Password  string
	Prefix    string // topic prefix, e.g. "heatpump"
}

// Publisher pushes snapshots to {prefix}/status and its own liveness
// to {prefix}/availability. Both are retained so late subscribers see
// the last state immediately.
type Publisher struct {
	cfg    Config
	log    *slog.Logger
	client pahomqtt.Client
}

// Connect dials the broker and announces availability. The broker
// takes over the offline announcement through the will message if we
// die without saying goodbye.
func Connect(cfg Config, log *slog.Logger) (*Publisher, error) {
	if cfg.BrokerURL == "" {
		return nil, errors.New("mqtt: broker URL required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "heatpumpd"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "heatpump"
	}

	p := &Publisher{cfg: cfg, log: log}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)
	opts.SetWill(p.availabilityTopic(), "offline", 1, true)
	opts.SetOnConnectHandler(func(c pahomqtt.Client) {
		// Runs on initial connect and every reconnect.
		c.Publish(p.availabilityTopic(), 1, true, "online")
		log.Info("mqtt connected", "broker", cfg.BrokerURL)
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		log.Warn("mqtt connection lost", "err", err)
	})

	p.client = pahomqtt.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt: connect to %s: timeout after %v", cfg.BrokerURL, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.BrokerURL, err)
	}
	return p, nil
}

// PublishSnapshot sends one snapshot as retained JSON. Meant to hang
// off the poller's OnSnapshot hook.
func (p *Publisher) PublishSnapshot(s status.Snapshot) error {
	payload, err := json.Marshal(snapshotPayload(s))
	if err != nil {
		return fmt.Errorf("mqtt: encode snapshot: %w", err)
	}

	token := p.client.Publish(p.statusTopic(), 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: publish %s: timeout after %v", p.statusTopic(), publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", p.statusTopic(), err)
	}
	return nil
}

// Close announces a graceful offline and disconnects.
func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}
	if p.client.IsConnected() {
		token := p.client.Publish(p.availabilityTopic(), 1, true, "offline")
		token.WaitTimeout(publishTimeout)
	}
	p.client.Disconnect(disconnectQuiesce)
	return nil
}

func (p *Publisher) statusTopic() string       { return p.cfg.Prefix + "/status" }
func (p *Publisher) availabilityTopic() string { return p.cfg.Prefix + "/availability" }

// snapshotPayload flattens a snapshot into the wire shape consumers
// (Home Assistant templates, Node-RED flows) bind to. Field names are
// part of the external contract; do not rename casually.
func snapshotPayload(s status.Snapshot) map[string]any {
	return map[string]any{
		"power_on":           s.PowerOn,
		"operating_mode":     s.OperatingMode.String(),
		"flow_temp":          s.FlowTemp,
		"return_temp":        s.ReturnTemp,
		"delta_t":            s.Delta(),
		"outdoor_temp":       s.OutdoorTemp,
		"flow_rate":          s.FlowRate,
		"water_pressure":     s.WaterPressure,
		"target_temp":        s.TargetTemp,
		"auto_mode_offset":   s.AutoModeOffset,
		"compressor_running": s.CompressorOn,
		"water_pump_running": s.WaterPumpOn,
		"error_code":         s.ErrorCode,
		"has_error":          s.HasError,
		"captured_at":        s.CapturedAt.UTC().Format(time.RFC3339),
	}
}
