// internal/transport/errors.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"github.com/goburrow/modbus"
)

// Kind classifies a failed bus operation.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindTimeout
	KindProtocol   // device answered with an exception code
	KindMalformed  // short or garbled response, typically a bus collision
	KindConnection // link down or refused
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindProtocol:
		return "protocol error"
	case KindMalformed:
		return "malformed response"
	case KindConnection:
		return "connection lost"
	default:
		return "unknown"
	}
}

// Error is the terminal failure of one logical operation after all
// attempts are spent.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind. Foreign errors map to KindUnknown.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

var (
	errNotConnected = errors.New("not connected")
	errLength       = errors.New("response length mismatch")
)

// classify maps a raw attempt error onto the failure taxonomy.
func classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return KindProtocol
	}

	if errors.Is(err, errLength) {
		return KindMalformed
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}

	if errors.Is(err, errNotConnected) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return KindConnection
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return KindConnection
	}

	// Anything else came out of response decoding: treat as garbled.
	return KindMalformed
}
