// internal/controller/ops_test.go
package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
)

func TestSetTargetTemperature(t *testing.T) {
	f := newFixture(t, status.Snapshot{})

	if err := f.ctl.SetTargetTemperature(context.Background(), 42.5); err != nil {
		t.Fatalf("SetTargetTemperature(42.5) err=%v", err)
	}
	writes := f.dev.log()
	if len(writes) != 1 || writes[0].point != registers.HoldingTargetTemp || writes[0].value != 425 {
		t.Fatalf("writes = %+v, want target temp 425", writes)
	}
}

func TestSetTargetTemperature_OutOfRange(t *testing.T) {
	f := newFixture(t, status.Snapshot{})

	for _, temp := range []float64{19.9, 60.1, -5, 100} {
		err := f.ctl.SetTargetTemperature(context.Background(), temp)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SetTargetTemperature(%v) err=%v, want ErrOutOfRange", temp, err)
		}
	}
	if writes := f.dev.log(); len(writes) != 0 {
		t.Fatalf("rejected input must not reach the device, got %+v", writes)
	}
}

func TestSetOffset(t *testing.T) {
	f := newFixture(t, status.Snapshot{})

	if err := f.ctl.SetOffset(context.Background(), -3); err != nil {
		t.Fatalf("SetOffset(-3) err=%v", err)
	}
	writes := f.dev.log()
	if len(writes) != 1 || writes[0].point != registers.HoldingAutoOffset {
		t.Fatalf("writes = %+v, want auto offset register", writes)
	}
	if writes[0].value != 65533 {
		t.Errorf("value = %d, want 65533 (-3 two's complement)", writes[0].value)
	}

	for _, k := range []int{-6, 6} {
		if err := f.ctl.SetOffset(context.Background(), k); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SetOffset(%d) err=%v, want ErrOutOfRange", k, err)
		}
	}
}

func TestSetMode(t *testing.T) {
	f := newFixture(t, status.Snapshot{})

	if err := f.ctl.SetMode(context.Background(), registers.SettingAuto); err != nil {
		t.Fatalf("SetMode(auto) err=%v", err)
	}
	writes := f.dev.log()
	if len(writes) != 1 || writes[0].point != registers.HoldingModeSetting || writes[0].value != 3 {
		t.Fatalf("writes = %+v, want mode setting 3", writes)
	}

	if err := f.ctl.SetMode(context.Background(), registers.ModeSetting(2)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SetMode(2) err=%v, want ErrOutOfRange", err)
	}
}

// Operator power-on runs the full sequence even with curve control
// disabled.
func TestSetPower_OnRunsSequenceWhileDisabled(t *testing.T) {
	f := newFixture(t, status.Snapshot{})
	f.ctl.SetEnabled(false)

	if err := f.ctl.SetPower(context.Background(), true); err != nil {
		t.Fatalf("SetPower(true) err=%v", err)
	}
	writes := f.dev.log()
	if len(writes) != 3 {
		t.Fatalf("writes = %d, want 3 sequence steps: %+v", len(writes), writes)
	}
	if !writes[2].isCoil || !writes[2].on {
		t.Errorf("last step = %+v, want coil on", writes[2])
	}
}

func TestSetPower_OffIsSingleCoilWrite(t *testing.T) {
	f := newFixture(t, status.Snapshot{})

	if err := f.ctl.SetPower(context.Background(), false); err != nil {
		t.Fatalf("SetPower(false) err=%v", err)
	}
	writes := f.dev.log()
	if len(writes) != 1 || !writes[0].isCoil || writes[0].on {
		t.Fatalf("writes = %+v, want one coil-off", writes)
	}
}

func TestReloadPolicy(t *testing.T) {
	f := newFixture(t, status.Snapshot{})

	if err := f.ctl.ReloadPolicy(); err != nil {
		t.Fatalf("ReloadPolicy() err=%v", err)
	}
	if f.pols.reloads != 1 {
		t.Fatalf("reloads = %d, want 1", f.pols.reloads)
	}
}
