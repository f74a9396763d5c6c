// internal/status/snapshot.go

// Package status holds the most recent complete device reading and
// makes it available to consumers without touching the transport.
package status

import (
	"time"

	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
)

// Snapshot is one complete reading of the device state.
// It is replaced wholesale each successful poll cycle and never
// partially mutated.
type Snapshot struct {
	PowerOn       bool                    `json:"power_on"`
	OperatingMode registers.OperatingMode `json:"operating_mode"`
	ModeSetting   registers.ModeSetting   `json:"mode_setting"`
	ControlMethod uint16                  `json:"control_method"`

	FlowTemp      float64 `json:"flow_temp"`
	ReturnTemp    float64 `json:"return_temp"`
	OutdoorTemp   float64 `json:"outdoor_temp"`
	FlowRate      float64 `json:"flow_rate"`
	WaterPressure float64 `json:"water_pressure"`

	TargetTemp     float64 `json:"target_temp"`
	AutoModeOffset int     `json:"auto_mode_offset"`
	EnergyState    uint16  `json:"energy_state"`

	ErrorCode    uint16 `json:"error_code"`
	HasError     bool   `json:"has_error"`
	CompressorOn bool   `json:"compressor_running"`
	WaterPumpOn  bool   `json:"water_pump_running"`

	CapturedAt time.Time `json:"captured_at"`
}

// Delta is flow minus return: the temperature spread over the
// heating circuit.
func (s Snapshot) Delta() float64 {
	return s.FlowTemp - s.ReturnTemp
}
