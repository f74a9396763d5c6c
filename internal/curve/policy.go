// internal/curve/policy.go

// Package curve holds the heating-curve policy: piecewise outdoor→flow
// mappings selected by target room temperature, guarded by a
// two-threshold outdoor hysteresis.
package curve

import (
	"fmt"
	"math"
)

// Breakpoint maps one outdoor interval to a flow temperature.
// Intervals are half-open: [OutdoorMin, OutdoorMax).
type Breakpoint struct {
	OutdoorMin float64 `yaml:"outdoor_min"`
	OutdoorMax float64 `yaml:"outdoor_max"`
	FlowTemp   float64 `yaml:"flow_temp"`
}

// Curve is one named heating curve. RoomRange bounds are inclusive.
type Curve struct {
	Name      string       `yaml:"name"`
	RoomRange [2]float64   `yaml:"target_temp_range"`
	Points    []Breakpoint `yaml:"curve"`
}

// Settings are the numeric policy knobs.
type Settings struct {
	OutdoorCutoff   float64 `yaml:"outdoor_cutoff_temp"`
	OutdoorRestart  float64 `yaml:"outdoor_restart_temp"`
	UpdateInterval  int     `yaml:"update_interval_seconds"`
	MinFlow         float64 `yaml:"min_flow_temp"`
	MaxFlow         float64 `yaml:"max_flow_temp"`
	AdjustThreshold float64 `yaml:"adjustment_threshold"`
}

// Policy is a complete heating-curve policy. Immutable once built;
// a reload swaps the whole policy.
type Policy struct {
	Curves   map[string]Curve `yaml:"heating_curves"`
	Settings Settings         `yaml:"settings"`
}

// Decision is the outcome of one policy evaluation.
type Decision uint8

const (
	// DecisionOff: the pump should not run. Either the outdoor
	// temperature is at or above the cutoff, or the pump is off and
	// the restart threshold has not been reached yet.
	DecisionOff Decision = iota
	// DecisionHold: no applicable curve or breakpoint. Leave the
	// device exactly as it is.
	DecisionHold
	// DecisionFlow: run with the computed flow temperature.
	DecisionFlow
)

func (d Decision) String() string {
	switch d {
	case DecisionOff:
		return "off"
	case DecisionHold:
		return "hold"
	case DecisionFlow:
		return "flow"
	default:
		return fmt.Sprintf("decision(%d)", uint8(d))
	}
}

// Evaluate applies the hysteresis and the curve table.
// flow is meaningful only when the decision is DecisionFlow; it is
// clamped to [MinFlow, MaxFlow] and rounded to a whole degree.
//
// The two thresholds form a dead band: a running pump stays on until
// the outdoor temperature reaches the cutoff, a stopped pump stays off
// until it drops to the restart. In between, the current state wins.
func (p *Policy) Evaluate(outdoor, targetRoom float64, powerOn bool) (Decision, int) {
	s := p.Settings

	if outdoor >= s.OutdoorCutoff {
		return DecisionOff, 0
	}
	if !powerOn && outdoor > s.OutdoorRestart {
		return DecisionOff, 0
	}

	cv := p.selectCurve(targetRoom)
	if cv == nil {
		return DecisionHold, 0
	}

	flow, ok := cv.flowFor(outdoor)
	if !ok {
		return DecisionHold, 0
	}

	if flow < s.MinFlow {
		flow = s.MinFlow
	}
	if flow > s.MaxFlow {
		flow = s.MaxFlow
	}
	return DecisionFlow, int(math.Round(flow))
}

// selectCurve picks the curve whose room range contains targetRoom.
// Ranges may share a boundary; the curve with the lower range wins
// there, so 21.0 lands in eco rather than comfort.
func (p *Policy) selectCurve(targetRoom float64) *Curve {
	var best *Curve
	for name := range p.Curves {
		cv := p.Curves[name]
		if targetRoom < cv.RoomRange[0] || targetRoom > cv.RoomRange[1] {
			continue
		}
		if best == nil || cv.RoomRange[0] < best.RoomRange[0] {
			best = &cv
		}
	}
	return best
}

// flowFor finds the first breakpoint containing outdoor.
func (c *Curve) flowFor(outdoor float64) (float64, bool) {
	for _, bp := range c.Points {
		if outdoor >= bp.OutdoorMin && outdoor < bp.OutdoorMax {
			return bp.FlowTemp, true
		}
	}
	return 0, false
}
