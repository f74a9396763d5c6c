// internal/transport/client.go

// Package transport wraps a single Modbus TCP connection to the serial
// gateway with bounded retries, linear backoff and bus-friendly pacing.
// Callers get typed reads and writes over documented register points;
// framing and CRC belong to the underlying library.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
)

// Field-tested timing for the shared Waveshare gateway.
const (
	DefaultTimeout    = 5 * time.Second
	DefaultAttempts   = 3
	DefaultRetryDelay = 2 * time.Second
	DefaultRequestGap = 200 * time.Millisecond
)

// Config is the transport runtime configuration.
type Config struct {
	Address    string        // gateway host:port
	UnitID     byte          // Modbus slave id of the heat pump
	Timeout    time.Duration // per-request deadline
	Attempts   int           // attempts per logical operation
	RetryDelay time.Duration // backoff base, multiplied by attempt number
	RequestGap time.Duration // pause before every bus request
}

// Client is the exclusive owner of the gateway connection.
// One logical operation, including all of its retries, is in flight
// at any instant.
type Client struct {
	cfg Config
	log *slog.Logger

	mu        sync.Mutex
	handler   *modbus.TCPClientHandler
	mb        modbus.Client
	connected bool
}

// New creates an unconnected client with immutable config.
func New(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.Address == "" {
		return nil, errors.New("transport: address required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("transport: timeout must be > 0")
	}
	if cfg.Attempts < 1 {
		return nil, errors.New("transport: attempts must be >= 1")
	}
	if cfg.RetryDelay < 0 || cfg.RequestGap < 0 {
		return nil, errors.New("transport: delays must be >= 0")
	}

	handler := modbus.NewTCPClientHandler(cfg.Address)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.UnitID
	handler.Logger = slog.NewLogLogger(log.Handler(), slog.LevelDebug)

	return &Client{
		cfg:     cfg,
		log:     log,
		handler: handler,
		mb:      modbus.NewClient(handler),
	}, nil
}

// Connect dials the gateway. Idempotent while connected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if c.connected {
		return nil
	}
	if err := c.handler.Connect(); err != nil {
		return &Error{Kind: classify(err), Op: "connect", Err: err}
	}
	c.connected = true
	c.log.Info("connected to gateway", "address", c.cfg.Address, "unit", c.cfg.UnitID)
	return nil
}

// Close drops the connection. Safe to call repeatedly.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	return c.handler.Close()
}

// Connected reports whether the link is believed up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// ---- TYPED READS ----

// ReadCoils reads qty coils starting at the documented point.
func (c *Client) ReadCoils(ctx context.Context, start registers.Point, qty uint16) ([]bool, error) {
	var out []bool
	err := c.do(ctx, "read coils", func(mb modbus.Client) error {
		raw, err := mb.ReadCoils(start.Wire(), qty)
		if err != nil {
			return err
		}
		bits, err := unpackBits(raw, int(qty))
		if err != nil {
			return err
		}
		out = bits
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadDiscreteInputs reads qty discrete inputs starting at the documented point.
func (c *Client) ReadDiscreteInputs(ctx context.Context, start registers.Point, qty uint16) ([]bool, error) {
	var out []bool
	err := c.do(ctx, "read discrete inputs", func(mb modbus.Client) error {
		raw, err := mb.ReadDiscreteInputs(start.Wire(), qty)
		if err != nil {
			return err
		}
		bits, err := unpackBits(raw, int(qty))
		if err != nil {
			return err
		}
		out = bits
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadInputRegisters reads qty input registers starting at the documented point.
func (c *Client) ReadInputRegisters(ctx context.Context, start registers.Point, qty uint16) ([]uint16, error) {
	var out []uint16
	err := c.do(ctx, "read input registers", func(mb modbus.Client) error {
		raw, err := mb.ReadInputRegisters(start.Wire(), qty)
		if err != nil {
			return err
		}
		regs, err := unpackRegisters(raw, int(qty))
		if err != nil {
			return err
		}
		out = regs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadHoldingRegisters reads qty holding registers starting at the documented point.
func (c *Client) ReadHoldingRegisters(ctx context.Context, start registers.Point, qty uint16) ([]uint16, error) {
	var out []uint16
	err := c.do(ctx, "read holding registers", func(mb modbus.Client) error {
		raw, err := mb.ReadHoldingRegisters(start.Wire(), qty)
		if err != nil {
			return err
		}
		regs, err := unpackRegisters(raw, int(qty))
		if err != nil {
			return err
		}
		out = regs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---- TYPED WRITES ----

// WriteRegister writes one holding register.
func (c *Client) WriteRegister(ctx context.Context, p registers.Point, value uint16) error {
	op := fmt.Sprintf("write %v", p)
	return c.do(ctx, op, func(mb modbus.Client) error {
		_, err := mb.WriteSingleRegister(p.Wire(), value)
		return err
	})
}

// WriteCoil writes one coil.
func (c *Client) WriteCoil(ctx context.Context, p registers.Point, on bool) error {
	var value uint16
	if on {
		value = 0xFF00
	}
	op := fmt.Sprintf("write %v", p)
	return c.do(ctx, op, func(mb modbus.Client) error {
		_, err := mb.WriteSingleCoil(p.Wire(), value)
		return err
	})
}

// ---- RESPONSE UNPACKING ----

// unpackRegisters decodes big-endian words and insists on the exact
// requested count. A short payload means another master answered or
// the frame was clipped on the shared bus.
func unpackRegisters(data []byte, want int) ([]uint16, error) {
	if len(data) != want*2 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", errLength, len(data), want*2)
	}
	out := make([]uint16, want)
	for i := range out {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out, nil
}

// unpackBits decodes LSB-first packed bits.
func unpackBits(data []byte, want int) ([]bool, error) {
	if len(data) < (want+7)/8 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d bits", errLength, len(data), want)
	}
	out := make([]bool, want)
	for i := range out {
		out[i] = data[i/8]&(1<<(i%8)) != 0
	}
	return out, nil
}
