// internal/curve/default.go
package curve

// DefaultPolicy is the built-in fallback, tuned for a Central European
// single-family radiator/floor mix. The daemon must always have a
// policy, so a missing or broken file falls back to this one.
func DefaultPolicy() *Policy {
	return &Policy{
		Curves: map[string]Curve{
			"eco": {
				Name:      "ECO (≤21°C)",
				RoomRange: [2]float64{0, 21.0},
				Points: []Breakpoint{
					{OutdoorMin: -999, OutdoorMax: -10, FlowTemp: 46.0},
					{OutdoorMin: -10, OutdoorMax: 0, FlowTemp: 43.0},
					{OutdoorMin: 0, OutdoorMax: 10, FlowTemp: 38.0},
					{OutdoorMin: 10, OutdoorMax: 18, FlowTemp: 33.0},
				},
			},
			"comfort": {
				Name:      "Comfort (21-23°C)",
				RoomRange: [2]float64{21.0, 23.0},
				Points: []Breakpoint{
					{OutdoorMin: -999, OutdoorMax: -10, FlowTemp: 48.0},
					{OutdoorMin: -10, OutdoorMax: 0, FlowTemp: 45.0},
					{OutdoorMin: 0, OutdoorMax: 10, FlowTemp: 40.0},
					{OutdoorMin: 10, OutdoorMax: 18, FlowTemp: 35.0},
				},
			},
			"high": {
				Name:      "High demand (>23°C)",
				RoomRange: [2]float64{23.0, 999},
				Points: []Breakpoint{
					{OutdoorMin: -999, OutdoorMax: -10, FlowTemp: 50.0},
					{OutdoorMin: -10, OutdoorMax: 0, FlowTemp: 47.0},
					{OutdoorMin: 0, OutdoorMax: 10, FlowTemp: 42.0},
					{OutdoorMin: 10, OutdoorMax: 18, FlowTemp: 37.0},
				},
			},
		},
		Settings: Settings{
			OutdoorCutoff:   18.0,
			OutdoorRestart:  17.0,
			UpdateInterval:  600,
			MinFlow:         30.0,
			MaxFlow:         50.0,
			AdjustThreshold: 2.0,
		},
	}
}
