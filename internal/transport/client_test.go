// internal/transport/client_test.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"
	"time"

	"github.com/goburrow/modbus"

	"github.com/stephan-aichholzer/lg-r290-control/internal/logging"
	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
)

// fakeModbus stubs the library client. Unused methods panic via the
// embedded nil interface.
type fakeModbus struct {
	modbus.Client

	calls int

	readCoils   func(addr, qty uint16) ([]byte, error)
	readHolding func(addr, qty uint16) ([]byte, error)
	writeCoil   func(addr, value uint16) ([]byte, error)
	writeReg    func(addr, value uint16) ([]byte, error)
}

func (f *fakeModbus) ReadCoils(addr, qty uint16) ([]byte, error) {
	f.calls++
	return f.readCoils(addr, qty)
}

func (f *fakeModbus) ReadHoldingRegisters(addr, qty uint16) ([]byte, error) {
	f.calls++
	return f.readHolding(addr, qty)
}

func (f *fakeModbus) WriteSingleCoil(addr, value uint16) ([]byte, error) {
	f.calls++
	return f.writeCoil(addr, value)
}

func (f *fakeModbus) WriteSingleRegister(addr, value uint16) ([]byte, error) {
	f.calls++
	return f.writeReg(addr, value)
}

func testClient(f *fakeModbus) *Client {
	return &Client{
		cfg: Config{
			Address:    "test:1",
			Attempts:   3,
			Timeout:    time.Second,
			RetryDelay: time.Millisecond,
			RequestGap: 0,
		},
		log:       logging.Discard(),
		mb:        f,
		connected: true,
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"exception", &modbus.ModbusError{FunctionCode: 3, ExceptionCode: 2}, KindProtocol},
		{"short", fmt.Errorf("%w: got 2 bytes, want 20", errLength), KindMalformed},
		{"timeout", timeoutErr{}, KindTimeout},
		{"eof", io.EOF, KindConnection},
		{"reset", syscall.ECONNRESET, KindConnection},
		{"refused", syscall.ECONNREFUSED, KindConnection},
		{"not connected", errNotConnected, KindConnection},
		{"garbled", errors.New("unexpected frame"), KindMalformed},
	}

	for _, c := range cases {
		if got := classify(c.err); got != c.want {
			t.Errorf("%s: classify() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	err := &Error{Kind: KindTimeout, Op: "x", Err: timeoutErr{}}
	if KindOf(err) != KindTimeout {
		t.Fatalf("KindOf = %v, want timeout", KindOf(err))
	}
	if KindOf(errors.New("other")) != KindUnknown {
		t.Fatal("foreign error must map to KindUnknown")
	}
}

func TestUnpackRegisters(t *testing.T) {
	regs, err := unpackRegisters([]byte{0x01, 0x5E, 0xFF, 0xCE}, 2)
	if err != nil {
		t.Fatalf("unpackRegisters err=%v", err)
	}
	if regs[0] != 350 || regs[1] != 65486 {
		t.Fatalf("unpackRegisters = %v", regs)
	}

	// Short payloads are rejected, never truncated.
	if _, err := unpackRegisters([]byte{0x01, 0x5E}, 2); !errors.Is(err, errLength) {
		t.Fatalf("expected short-response error, got %v", err)
	}
	if _, err := unpackRegisters([]byte{0x01, 0x5E, 0x00, 0x00, 0x00, 0x00}, 2); !errors.Is(err, errLength) {
		t.Fatalf("oversized payload must be rejected, got %v", err)
	}
}

func TestUnpackBits(t *testing.T) {
	bits, err := unpackBits([]byte{0b00001010, 0b00000001}, 9)
	if err != nil {
		t.Fatalf("unpackBits err=%v", err)
	}
	want := []bool{false, true, false, true, false, false, false, false, true}
	for i := range want {
		if bits[i] != want[i] {
			t.Fatalf("bit %d = %v, want %v", i, bits[i], want[i])
		}
	}

	if _, err := unpackBits([]byte{0xFF}, 9); !errors.Is(err, errLength) {
		t.Fatalf("expected short-response error, got %v", err)
	}
}

func TestDo_RetriesThenRecovers(t *testing.T) {
	fail := 2
	f := &fakeModbus{}
	f.readHolding = func(addr, qty uint16) ([]byte, error) {
		if f.calls <= fail {
			return nil, timeoutErr{}
		}
		return make([]byte, qty*2), nil
	}

	c := testClient(f)
	regs, err := c.ReadHoldingRegisters(context.Background(), registers.HoldingBank, 10)
	if err != nil {
		t.Fatalf("expected recovery within the attempt limit, got %v", err)
	}
	if len(regs) != 10 {
		t.Fatalf("got %d registers, want 10", len(regs))
	}
	if f.calls != 3 {
		t.Fatalf("calls = %d, want 3", f.calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	f := &fakeModbus{}
	f.readHolding = func(addr, qty uint16) ([]byte, error) {
		return nil, &modbus.ModbusError{FunctionCode: 3, ExceptionCode: 2}
	}

	c := testClient(f)
	_, err := c.ReadHoldingRegisters(context.Background(), registers.HoldingBank, 10)
	if err == nil {
		t.Fatal("expected failure after attempts exhausted")
	}
	if f.calls != 3 {
		t.Fatalf("calls = %d, want 3", f.calls)
	}
	if KindOf(err) != KindProtocol {
		t.Fatalf("KindOf = %v, want protocol error", KindOf(err))
	}

	var me *modbus.ModbusError
	if !errors.As(err, &me) {
		t.Fatal("device exception must stay reachable through the wrapper")
	}
}

// A response carrying fewer registers than requested is a collision
// artifact: it must be retried and finally reported as malformed.
func TestShortResponseRetriedAndRejected(t *testing.T) {
	f := &fakeModbus{}
	f.readHolding = func(addr, qty uint16) ([]byte, error) {
		return make([]byte, 2), nil // one register instead of qty
	}

	c := testClient(f)
	_, err := c.ReadHoldingRegisters(context.Background(), registers.HoldingBank, 10)
	if err == nil {
		t.Fatal("expected malformed-response failure")
	}
	if KindOf(err) != KindMalformed {
		t.Fatalf("KindOf = %v, want malformed response", KindOf(err))
	}
	if f.calls != 3 {
		t.Fatalf("short responses must be retried: calls = %d, want 3", f.calls)
	}
}

func TestDo_NotConnected(t *testing.T) {
	f := &fakeModbus{}
	c := testClient(f)
	c.connected = false

	_, err := c.ReadCoils(context.Background(), registers.CoilBank, 1)
	if KindOf(err) != KindConnection {
		t.Fatalf("KindOf = %v, want connection lost", KindOf(err))
	}
	if f.calls != 0 {
		t.Fatalf("no bus traffic expected while disconnected, got %d calls", f.calls)
	}
}

func TestDo_CancelledContext(t *testing.T) {
	f := &fakeModbus{}
	c := testClient(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ReadCoils(ctx, registers.CoilBank, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if f.calls != 0 {
		t.Fatalf("cancelled operation must not touch the bus, got %d calls", f.calls)
	}
}

func TestWriteCoil_WireValues(t *testing.T) {
	var got []uint16
	f := &fakeModbus{}
	f.writeCoil = func(addr, value uint16) ([]byte, error) {
		got = append(got, addr, value)
		return nil, nil
	}

	c := testClient(f)
	if err := c.WriteCoil(context.Background(), registers.CoilPower, true); err != nil {
		t.Fatalf("WriteCoil(on) err=%v", err)
	}
	if err := c.WriteCoil(context.Background(), registers.CoilPower, false); err != nil {
		t.Fatalf("WriteCoil(off) err=%v", err)
	}

	// Documented coil 1 is wire address 0; ON is 0xFF00 on the wire.
	want := []uint16{0, 0xFF00, 0, 0x0000}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wire values = %v, want %v", got, want)
		}
	}
}

func TestWriteRegister_Encoding(t *testing.T) {
	var gotAddr, gotValue uint16
	f := &fakeModbus{}
	f.writeReg = func(addr, value uint16) ([]byte, error) {
		gotAddr, gotValue = addr, value
		return nil, nil
	}

	c := testClient(f)
	err := c.WriteRegister(context.Background(), registers.HoldingTargetTemp, registers.EncodeTemp(40.0))
	if err != nil {
		t.Fatalf("WriteRegister err=%v", err)
	}
	if gotAddr != 2 || gotValue != 400 {
		t.Fatalf("wrote addr=%d value=%d, want addr=2 value=400", gotAddr, gotValue)
	}
}
