// internal/thermostat/client.go

// Package thermostat talks to the external room thermostat service.
// The controller reads the active room target and the outdoor sensor
// from it; the scheduler rewrites its config at programmed times.
package thermostat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one thermostat request.
const DefaultTimeout = 10 * time.Second

// Reading is the subset of the thermostat status the controller uses.
// Pointers distinguish "absent from the response" from a real zero.
type Reading struct {
	// ActiveTarget is the room target currently in effect, already
	// adjusted for eco/auto mode.
	ActiveTarget *float64

	// ConfigTarget is the configured base target, the fallback when
	// no active target is reported.
	ConfigTarget *float64

	// Outdoor is the outdoor air temperature from the external sensor.
	Outdoor *float64
}

// Config mirrors the thermostat's config document. Fields the
// scheduler does not set are carried over from the current config.
type Config struct {
	TargetTemp      float64 `json:"target_temp"`
	EcoTemp         float64 `json:"eco_temp"`
	Mode            string  `json:"mode"`
	Hysteresis      float64 `json:"hysteresis"`
	MinOnTime       int     `json:"min_on_time"`
	MinOffTime      int     `json:"min_off_time"`
	TempSampleCount int     `json:"temp_sample_count"`
	ControlInterval int     `json:"control_interval"`
}

// Client is a thin JSON client for the thermostat HTTP API.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the thermostat at base, e.g.
// "http://192.168.2.11:8001". A zero timeout takes DefaultTimeout.
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Status fetches the current thermostat status.
func (c *Client) Status(ctx context.Context) (Reading, error) {
	var w struct {
		ActiveTarget *float64 `json:"active_target"`
		Config       struct {
			TargetTemp *float64 `json:"target_temp"`
		} `json:"config"`
		AllTemps struct {
			TempOutdoor *float64 `json:"temp_outdoor"`
		} `json:"all_temps"`
	}
	if err := c.get(ctx, "/api/v1/thermostat/status", &w); err != nil {
		return Reading{}, err
	}
	return Reading{
		ActiveTarget: w.ActiveTarget,
		ConfigTarget: w.Config.TargetTemp,
		Outdoor:      w.AllTemps.TempOutdoor,
	}, nil
}

// CurrentConfig fetches the thermostat's active config document.
func (c *Client) CurrentConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := c.get(ctx, "/api/v1/thermostat/config", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyConfig replaces the thermostat's config document.
func (c *Client) ApplyConfig(ctx context.Context, cfg Config) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("thermostat: encode config: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/api/v1/thermostat/config", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("thermostat: apply config: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("thermostat: apply config: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("thermostat: apply config: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("thermostat: %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("thermostat: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("thermostat: %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("thermostat: %s: decode: %w", path, err)
	}
	return nil
}
