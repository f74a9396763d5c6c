// internal/poller/poller.go

// Package poller drives the periodic read cycle against the heat pump
// and publishes complete snapshots to the status cache. It owns the
// connection lifecycle: connect, poll, and rebuild after repeated
// failures.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
)

// Conn abstracts the transport operations the poll loop needs.
// Reads take the documented start point and a quantity; the transport
// translates to wire addressing.
type Conn interface {
	Connect(ctx context.Context) error
	Close() error
	ReadCoils(ctx context.Context, start registers.Point, qty uint16) ([]bool, error)
	ReadDiscreteInputs(ctx context.Context, start registers.Point, qty uint16) ([]bool, error)
	ReadInputRegisters(ctx context.Context, start registers.Point, qty uint16) ([]uint16, error)
	ReadHoldingRegisters(ctx context.Context, start registers.Point, qty uint16) ([]uint16, error)
}

// Poller is a clock-driven reader with a failure-triggered reconnect.
type Poller struct {
	cfg   Config
	conn  Conn
	cache status.Cache
	log   *slog.Logger
	hooks Hooks

	state    atomic.Uint32
	failures int // consecutive failed cycles, poll goroutine only
}

// New creates a poller. Zero config fields take the package defaults.
func New(cfg Config, conn Conn, cache status.Cache, log *slog.Logger, hooks Hooks) (*Poller, error) {
	if conn == nil {
		return nil, errors.New("poller: conn required")
	}
	if cache == nil {
		return nil, errors.New("poller: cache required")
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Interval < 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.FailureLimit == 0 {
		cfg.FailureLimit = DefaultFailureLimit
	}
	if cfg.FailureLimit < 0 {
		return nil, errors.New("poller: failure limit must be > 0")
	}
	if cfg.ReconnectPause == 0 {
		cfg.ReconnectPause = DefaultReconnectPause
	}
	if log == nil {
		log = slog.Default()
	}
	return &Poller{cfg: cfg, conn: conn, cache: cache, log: log, hooks: hooks}, nil
}

// State reports the current lifecycle state. Safe from any goroutine.
func (p *Poller) State() State {
	return State(p.state.Load())
}

func (p *Poller) setState(s State) {
	p.state.Store(uint32(s))
}

// PollOnce performs one complete poll cycle: all four register banks,
// all-or-nothing. Any failed read aborts the cycle and nothing is
// published.
func (p *Poller) PollOnce(ctx context.Context) (status.Snapshot, error) {
	coils, err := p.conn.ReadCoils(ctx, registers.CoilBank, registers.CoilBankSize)
	if err != nil {
		return status.Snapshot{}, err
	}
	discretes, err := p.conn.ReadDiscreteInputs(ctx, registers.DiscreteInputBank, registers.DiscreteInputBankSize)
	if err != nil {
		return status.Snapshot{}, err
	}
	inputs, err := p.conn.ReadInputRegisters(ctx, registers.InputRegisterBank, registers.InputRegisterBankSize)
	if err != nil {
		return status.Snapshot{}, err
	}
	holdings, err := p.conn.ReadHoldingRegisters(ctx, registers.HoldingBank, registers.HoldingBankSize)
	if err != nil {
		return status.Snapshot{}, err
	}

	return decode(coils, discretes, inputs, holdings), nil
}

// index maps a point into its bank slice. Every bank starts at the
// first documented number, so the slice index is Number-1.
func index(p registers.Point) int {
	return int(p.Number - 1)
}

func decode(coils, discretes []bool, inputs, holdings []uint16) status.Snapshot {
	return status.Snapshot{
		PowerOn:       coils[index(registers.CoilPower)],
		OperatingMode: registers.OperatingMode(inputs[index(registers.InputOduCycle)]),
		ModeSetting:   registers.ModeSetting(holdings[index(registers.HoldingModeSetting)]),
		ControlMethod: holdings[index(registers.HoldingControlMethod)],

		FlowTemp:      registers.DecodeTemp(inputs[index(registers.InputFlowTemp)]),
		ReturnTemp:    registers.DecodeTemp(inputs[index(registers.InputReturnTemp)]),
		OutdoorTemp:   registers.DecodeTemp(inputs[index(registers.InputOutdoorTemp)]),
		FlowRate:      registers.DecodeScaled(inputs[index(registers.InputFlowRate)]),
		WaterPressure: registers.DecodeScaled(inputs[index(registers.InputPressure)]),

		TargetTemp:     registers.DecodeTemp(holdings[index(registers.HoldingTargetTemp)]),
		AutoModeOffset: registers.DecodeOffset(holdings[index(registers.HoldingAutoOffset)]),
		EnergyState:    holdings[index(registers.HoldingEnergyState)],

		ErrorCode:    inputs[index(registers.InputErrorCode)],
		HasError:     discretes[index(registers.DiscreteError)],
		CompressorOn: discretes[index(registers.DiscreteCompressor)],
		WaterPumpOn:  discretes[index(registers.DiscreteWaterPump)],

		CapturedAt: time.Now(),
	}
}
