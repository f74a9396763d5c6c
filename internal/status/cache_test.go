// internal/status/cache_test.go
package status

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
)

func sample(at time.Time) Snapshot {
	return Snapshot{
		PowerOn:        true,
		OperatingMode:  registers.ModeHeating,
		ModeSetting:    registers.SettingHeat,
		FlowTemp:       36.5,
		ReturnTemp:     31.0,
		OutdoorTemp:    -2.5,
		TargetTemp:     37.0,
		AutoModeOffset: -2,
		CompressorOn:   true,
		WaterPumpOn:    true,
		CapturedAt:     at,
	}
}

func TestFileCache_PublishRead(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(filepath.Join(dir, "status.json"))
	if err != nil {
		t.Fatalf("NewFileCache err=%v", err)
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := c.Publish(sample(at)); err != nil {
		t.Fatalf("Publish err=%v", err)
	}

	got, err := c.Read()
	if err != nil {
		t.Fatalf("Read err=%v", err)
	}
	if !got.PowerOn || got.FlowTemp != 36.5 || got.OutdoorTemp != -2.5 {
		t.Fatalf("snapshot mangled: %+v", got)
	}
	if got.AutoModeOffset != -2 {
		t.Fatalf("offset = %d, want -2", got.AutoModeOffset)
	}
	if !got.CapturedAt.Equal(at) {
		t.Fatalf("captured_at = %v, want %v", got.CapturedAt, at)
	}

	// The staging file must be gone after the rename.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err=%v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "status.json" {
		t.Fatalf("staging leftovers in %v", entries)
	}
}

func TestFileCache_ReadMissing(t *testing.T) {
	c, _ := NewFileCache(filepath.Join(t.TempDir(), "status.json"))

	if _, err := c.Read(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := c.Age(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from Age, got %v", err)
	}
}

func TestFileCache_TouchCreatesMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	c, _ := NewFileCache(path)

	if err := c.Touch(); err != nil {
		t.Fatalf("Touch err=%v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("marker not created: %v", err)
	}

	// An empty marker is not a snapshot.
	if _, err := c.Read(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for empty marker, got %v", err)
	}
}

// Touch keeps the liveness marker fresh but must not reset the
// snapshot age: stale data stays observably stale.
func TestFileCache_TouchDoesNotResetAge(t *testing.T) {
	c, _ := NewFileCache(filepath.Join(t.TempDir(), "status.json"))

	old := time.Now().Add(-2 * time.Minute)
	if err := c.Publish(sample(old)); err != nil {
		t.Fatalf("Publish err=%v", err)
	}
	if err := c.Touch(); err != nil {
		t.Fatalf("Touch err=%v", err)
	}

	age, err := c.Age()
	if err != nil {
		t.Fatalf("Age err=%v", err)
	}
	if age < 2*time.Minute {
		t.Fatalf("age = %v, want >= 2m despite Touch", age)
	}
}

func TestFileCache_PublishReplacesWholesale(t *testing.T) {
	c, _ := NewFileCache(filepath.Join(t.TempDir(), "status.json"))

	first := sample(time.Now().Add(-time.Hour))
	if err := c.Publish(first); err != nil {
		t.Fatalf("Publish err=%v", err)
	}

	second := sample(time.Now())
	second.PowerOn = false
	second.FlowTemp = 0
	if err := c.Publish(second); err != nil {
		t.Fatalf("Publish err=%v", err)
	}

	got, err := c.Read()
	if err != nil {
		t.Fatalf("Read err=%v", err)
	}
	if got.PowerOn || got.FlowTemp != 0 {
		t.Fatalf("old snapshot leaked through: %+v", got)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()

	if _, err := c.Read(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	at := time.Now().Add(-45 * time.Second)
	if err := c.Publish(sample(at)); err != nil {
		t.Fatalf("Publish err=%v", err)
	}

	got, err := c.Read()
	if err != nil || got.FlowTemp != 36.5 {
		t.Fatalf("Read = %+v err=%v", got, err)
	}

	age, err := c.Age()
	if err != nil {
		t.Fatalf("Age err=%v", err)
	}
	if age < 45*time.Second {
		t.Fatalf("age = %v, want >= 45s", age)
	}

	c.Touch()
	c.Touch()
	if c.Touches() != 2 {
		t.Fatalf("Touches = %d, want 2", c.Touches())
	}
}

func TestSnapshotDelta(t *testing.T) {
	s := Snapshot{FlowTemp: 36.5, ReturnTemp: 31.0}
	if d := s.Delta(); d < 5.49 || d > 5.51 {
		t.Fatalf("Delta = %v, want 5.5", d)
	}
}
