// internal/mockdev/mockdev.go

// Package mockdev emulates the heat pump's Modbus surface for
// development and end-to-end tests without hardware. It serves the
// same four banks the real unit exposes and mimics the couplings an
// operator would see: switching the power coil spins the compressor
// up, temperatures move toward the target.
package mockdev

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tbrandon/mbserver"

	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
)

// syncInterval is how often coupled state is recomputed from the
// writable banks.
const syncInterval = 250 * time.Millisecond

// Device is a fake R290 monobloc behind a Modbus TCP listener.
type Device struct {
	addr string
	log  *slog.Logger
	srv  *mbserver.Server
}

func New(addr string, log *slog.Logger) *Device {
	if addr == "" {
		addr = "127.0.0.1:1502"
	}
	return &Device{addr: addr, log: log}
}

// Run serves until ctx is canceled. mbserver's stock function
// handlers answer all reads and writes from its register memory; the
// loop here only keeps the derived registers consistent.
func (d *Device) Run(ctx context.Context) error {
	srv := mbserver.NewServer()
	d.srv = srv
	d.seed()

	if err := srv.ListenTCP(d.addr); err != nil {
		return fmt.Errorf("mockdev: listen %s: %w", d.addr, err)
	}
	defer srv.Close()
	d.log.Info("mock device listening", "addr", d.addr)

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.couple()
		}
	}
}

// seed fills the banks with a plausible idle unit: powered off,
// heat mode selected, mild winter day.
func (d *Device) seed() {
	m := d.srv

	m.Coils[registers.CoilPower.Wire()] = 0

	in := m.InputRegisters
	in[registers.InputErrorCode.Wire()] = 0
	in[registers.InputOduCycle.Wire()] = uint16(registers.ModeStandby)
	in[registers.InputReturnTemp.Wire()] = registers.EncodeTemp(28.0)
	in[registers.InputFlowTemp.Wire()] = registers.EncodeTemp(28.5)
	in[registers.InputFlowRate.Wire()] = 0
	in[registers.InputOutdoorTemp.Wire()] = registers.EncodeTemp(-2.0)
	in[registers.InputPressure.Wire()] = 18 // 1.8 bar

	h := m.HoldingRegisters
	h[registers.HoldingModeSetting.Wire()] = uint16(registers.SettingHeat)
	h[registers.HoldingControlMethod.Wire()] = registers.ControlMethodWaterOutlet
	h[registers.HoldingTargetTemp.Wire()] = registers.EncodeTemp(40.0)
	h[registers.HoldingAutoOffset.Wire()] = registers.EncodeOffset(0)
	h[registers.HoldingEnergyState.Wire()] = registers.EnergyStateNotUsed
}

// couple recomputes everything the unit derives from its own state.
// The real device does this continuously; a quarter second lag is
// plenty convincing for a poller on a multi-second interval.
func (d *Device) couple() {
	m := d.srv
	on := m.Coils[registers.CoilPower.Wire()] != 0
	target := registers.DecodeTemp(m.HoldingRegisters[registers.HoldingTargetTemp.Wire()])

	in := m.InputRegisters
	di := m.DiscreteInputs

	if on {
		in[registers.InputOduCycle.Wire()] = uint16(registers.ModeHeating)
		di[registers.DiscreteWaterPump.Wire()] = 1
		di[registers.DiscreteCompressor.Wire()] = 1
		in[registers.InputFlowRate.Wire()] = 152 // 15.2 l/min
		in[registers.InputFlowTemp.Wire()] = registers.EncodeTemp(target - 1.5)
		in[registers.InputReturnTemp.Wire()] = registers.EncodeTemp(target - 6.5)
		in[registers.InputPressure.Wire()] = 21
		return
	}

	in[registers.InputOduCycle.Wire()] = uint16(registers.ModeStandby)
	di[registers.DiscreteWaterPump.Wire()] = 0
	di[registers.DiscreteCompressor.Wire()] = 0
	in[registers.InputFlowRate.Wire()] = 0
	in[registers.InputFlowTemp.Wire()] = registers.EncodeTemp(28.5)
	in[registers.InputReturnTemp.Wire()] = registers.EncodeTemp(28.0)
	in[registers.InputPressure.Wire()] = 18
}
