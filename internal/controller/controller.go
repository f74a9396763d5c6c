// internal/controller/controller.go

// Package controller adjusts the heat pump's flow temperature from the
// heating-curve policy, the outdoor temperature, and the room target.
// It is the only component besides the CLI that writes to the device.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/stephan-aichholzer/lg-r290-control/internal/curve"
	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
	"github.com/stephan-aichholzer/lg-r290-control/internal/thermostat"
)

// deviceWriter is the exact write contract the controller uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type deviceWriter interface {
	WriteCoil(ctx context.Context, p registers.Point, on bool) error
	WriteRegister(ctx context.Context, p registers.Point, value uint16) error
}

// statusReader yields the latest polled snapshot.
type statusReader interface {
	Read() (status.Snapshot, error)
}

// policySource yields the active heating-curve policy.
type policySource interface {
	Active() *curve.Policy
	Reload() error
}

// roomSource reports the room target and the outdoor sensor.
type roomSource interface {
	Status(ctx context.Context) (thermostat.Reading, error)
}

// Config is the control loop's runtime configuration.
type Config struct {
	// Interval between control ticks.
	Interval time.Duration

	// DefaultRoomTarget is used when the thermostat reports nothing.
	DefaultRoomTarget float64

	// Threshold overrides the policy's adjustment threshold when > 0.
	Threshold float64

	// PowerOnSettle is the wait after switching the unit on before the
	// setpoint is written.
	PowerOnSettle time.Duration
}

// Defaults for the control loop.
const (
	DefaultInterval      = 60 * time.Second
	DefaultRoomTarget    = 21.0
	DefaultPowerOnSettle = 2 * time.Second
)

// State is the controller's observable state for the API.
// Pointer fields are nil until the first computed tick.
type State struct {
	Enabled        bool       `json:"enabled"`
	LastOutdoor    *float64   `json:"last_outdoor_temp"`
	LastRoomTarget *float64   `json:"last_target_room_temp"`
	LastFlowTarget *int       `json:"last_calculated_flow_temp"`
	LastUpdate     *time.Time `json:"last_update"`
}

// ErrOutOfRange rejects an operation value before any device I/O.
var ErrOutOfRange = errors.New("controller: value out of range")

// errDisabled aborts an automatic write sequence after a mid-tick
// disable.
var errDisabled = errors.New("controller: disabled mid-sequence")

// Controller runs the adaptive flow-temperature loop and executes
// imperative device commands for the API and the scheduler.
type Controller struct {
	cfg      Config
	dev      deviceWriter
	cache    statusReader
	policies policySource
	room     roomSource
	log      *slog.Logger

	mu sync.Mutex
	st State
}

// New creates a controller. The loop starts enabled; curve control is
// the default operating regime.
func New(cfg Config, dev deviceWriter, cache statusReader, policies policySource, room roomSource, log *slog.Logger) (*Controller, error) {
	if dev == nil {
		return nil, errors.New("controller: device writer required")
	}
	if cache == nil {
		return nil, errors.New("controller: status reader required")
	}
	if policies == nil {
		return nil, errors.New("controller: policy source required")
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.DefaultRoomTarget == 0 {
		cfg.DefaultRoomTarget = DefaultRoomTarget
	}
	if cfg.PowerOnSettle == 0 {
		cfg.PowerOnSettle = DefaultPowerOnSettle
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		cfg:      cfg,
		dev:      dev,
		cache:    cache,
		policies: policies,
		room:     room,
		log:      log,
		st:       State{Enabled: true},
	}, nil
}

// Run drives the control loop until ctx is canceled. The first tick
// runs immediately.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		c.tick(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Enabled reports whether automatic control is active.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Enabled
}

// Status returns a copy of the controller state.
func (c *Controller) Status() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// tick performs one control pass. Failures are logged and retried on
// the next tick, never escalated.
func (c *Controller) tick(ctx context.Context) {
	if !c.Enabled() {
		return
	}

	reading := c.readRoom(ctx)

	outdoor, ok := c.outdoorTemp(reading)
	if !ok {
		c.log.Warn("control tick skipped: no outdoor temperature from any source")
		return
	}
	roomTarget := c.roomTarget(reading)

	snap, err := c.cache.Read()
	if err != nil {
		c.log.Warn("control tick skipped: no device snapshot", "err", err)
		return
	}

	pol := c.policies.Active()
	decision, flow := pol.Evaluate(outdoor, roomTarget, snap.PowerOn)

	c.recordTick(outdoor, roomTarget, decision, flow)

	switch decision {
	case curve.DecisionOff:
		if !snap.PowerOn {
			return
		}
		c.log.Info("curve control: turning unit off", "outdoor", outdoor)
		if err := c.guardedPowerOff(ctx); err != nil {
			c.logWriteFailure("power off", err)
		}

	case curve.DecisionHold:
		c.log.Debug("curve control: no matching curve, holding",
			"outdoor", outdoor, "room_target", roomTarget)

	case curve.DecisionFlow:
		c.applyFlow(ctx, snap, outdoor, roomTarget, flow, pol)
	}
}

// applyFlow writes the computed setpoint when it differs enough from
// the current one, powering the unit on first if needed.
func (c *Controller) applyFlow(ctx context.Context, snap status.Snapshot, outdoor, roomTarget float64, flow int, pol *curve.Policy) {
	threshold := c.cfg.Threshold
	if threshold <= 0 {
		threshold = pol.Settings.AdjustThreshold
	}

	diff := math.Abs(float64(flow) - snap.TargetTemp)
	if diff < threshold {
		c.log.Debug("curve control: within threshold, no adjustment",
			"current", snap.TargetTemp, "optimal", flow, "threshold", threshold)
		return
	}

	if !snap.PowerOn {
		c.log.Info("curve control: turning unit on",
			"outdoor", outdoor, "room_target", roomTarget, "flow_target", flow)
		if err := c.powerOnSequence(ctx, c.Enabled); err != nil {
			c.logWriteFailure("power on", err)
			return
		}
	}

	if !c.Enabled() {
		return
	}
	c.log.Info("curve control: adjusting setpoint",
		"from", snap.TargetTemp, "to", flow,
		"outdoor", outdoor, "room_target", roomTarget)
	if err := c.dev.WriteRegister(ctx, registers.HoldingTargetTemp, registers.EncodeTemp(float64(flow))); err != nil {
		c.logWriteFailure("setpoint", err)
	}
}

// readRoom queries the thermostat; a failure just means empty reading.
func (c *Controller) readRoom(ctx context.Context) thermostat.Reading {
	if c.room == nil {
		return thermostat.Reading{}
	}
	reading, err := c.room.Status(ctx)
	if err != nil {
		c.log.Warn("thermostat unavailable", "err", err)
		return thermostat.Reading{}
	}
	return reading
}

// outdoorTemp prefers the thermostat's outdoor sensor and falls back
// to the heat pump's own. Exactly 0.0 from the device means "no
// reading", not zero degrees.
func (c *Controller) outdoorTemp(reading thermostat.Reading) (float64, bool) {
	if reading.Outdoor != nil {
		return *reading.Outdoor, true
	}
	snap, err := c.cache.Read()
	if err == nil && snap.OutdoorTemp != 0 {
		c.log.Debug("using device outdoor sensor", "outdoor", snap.OutdoorTemp)
		return snap.OutdoorTemp, true
	}
	return 0, false
}

// roomTarget resolves the room target: active thermostat target, then
// its configured base target, then the configured default.
func (c *Controller) roomTarget(reading thermostat.Reading) float64 {
	if reading.ActiveTarget != nil {
		return *reading.ActiveTarget
	}
	if reading.ConfigTarget != nil {
		return *reading.ConfigTarget
	}
	return c.cfg.DefaultRoomTarget
}

func (c *Controller) recordTick(outdoor, roomTarget float64, decision curve.Decision, flow int) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.LastOutdoor = &outdoor
	c.st.LastRoomTarget = &roomTarget
	if decision == curve.DecisionFlow {
		f := flow
		c.st.LastFlowTarget = &f
	}
	c.st.LastUpdate = &now
}

func (c *Controller) logWriteFailure(op string, err error) {
	if errors.Is(err, errDisabled) {
		c.log.Info("write sequence aborted, control disabled mid-tick", "op", op)
		return
	}
	c.log.Warn("device write failed, retrying next tick", "op", op, "err", err)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
