// internal/controller/ops.go
package controller

import (
	"context"
	"fmt"

	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
)

// always is the guard for operator-initiated sequences, which run even
// while automatic control is disabled.
func always() bool { return true }

// powerOnSequence switches the unit on: water-outlet control, heating
// mode, then the power coil, followed by a settle delay so the unit
// accepts the setpoint that comes next. guard is consulted before each
// write; the tick loop passes Enabled, operators pass always.
func (c *Controller) powerOnSequence(ctx context.Context, guard func() bool) error {
	if !guard() {
		return errDisabled
	}
	if err := c.dev.WriteRegister(ctx, registers.HoldingControlMethod, registers.ControlMethodWaterOutlet); err != nil {
		return fmt.Errorf("set control method: %w", err)
	}

	if !guard() {
		return errDisabled
	}
	if err := c.dev.WriteRegister(ctx, registers.HoldingModeSetting, uint16(registers.SettingHeat)); err != nil {
		return fmt.Errorf("set heating mode: %w", err)
	}

	if !guard() {
		return errDisabled
	}
	if err := c.dev.WriteCoil(ctx, registers.CoilPower, true); err != nil {
		return fmt.Errorf("set power coil: %w", err)
	}

	return sleep(ctx, c.cfg.PowerOnSettle)
}

// guardedPowerOff is the tick loop's power-off: a single coil write,
// skipped if control was disabled mid-tick.
func (c *Controller) guardedPowerOff(ctx context.Context) error {
	if !c.Enabled() {
		return errDisabled
	}
	return c.dev.WriteCoil(ctx, registers.CoilPower, false)
}

// ---- OPERATOR COMMANDS ----
// Each validates before any device I/O. Range violations return
// ErrOutOfRange; transport failures pass through untouched so callers
// can distinguish rejected input from an unreachable device.

// SetPower switches the unit on or off. Switching on runs the full
// power-on sequence.
func (c *Controller) SetPower(ctx context.Context, on bool) error {
	if on {
		return c.powerOnSequence(ctx, always)
	}
	return c.dev.WriteCoil(ctx, registers.CoilPower, false)
}

// SetTargetTemperature writes the flow-temperature setpoint.
func (c *Controller) SetTargetTemperature(ctx context.Context, temp float64) error {
	if temp < registers.TargetTempMin || temp > registers.TargetTempMax {
		return fmt.Errorf("%w: temperature %.1f°C outside [%.0f, %.0f]",
			ErrOutOfRange, temp, registers.TargetTempMin, registers.TargetTempMax)
	}
	return c.dev.WriteRegister(ctx, registers.HoldingTargetTemp, registers.EncodeTemp(temp))
}

// SetOffset writes the auto-mode temperature offset.
func (c *Controller) SetOffset(ctx context.Context, offset int) error {
	if offset < registers.OffsetMin || offset > registers.OffsetMax {
		return fmt.Errorf("%w: offset %+dK outside [%d, %d]",
			ErrOutOfRange, offset, registers.OffsetMin, registers.OffsetMax)
	}
	return c.dev.WriteRegister(ctx, registers.HoldingAutoOffset, registers.EncodeOffset(offset))
}

// SetMode writes the operating-mode setting.
func (c *Controller) SetMode(ctx context.Context, m registers.ModeSetting) error {
	if !m.Valid() {
		return fmt.Errorf("%w: mode setting %d", ErrOutOfRange, uint16(m))
	}
	return c.dev.WriteRegister(ctx, registers.HoldingModeSetting, uint16(m))
}

// SetEnabled toggles automatic curve control.
func (c *Controller) SetEnabled(on bool) {
	c.mu.Lock()
	changed := c.st.Enabled != on
	c.st.Enabled = on
	c.mu.Unlock()

	if changed {
		c.log.Info("curve control toggled", "enabled", on)
	}
}

// ReloadPolicy re-reads the heating-curve policy file.
func (c *Controller) ReloadPolicy() error {
	return c.policies.Reload()
}
