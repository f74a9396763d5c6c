// internal/curve/validate.go
package curve

import (
	"errors"
	"fmt"
)

// Required curve names. The controller maps any sane room target onto
// one of these three bands.
var requiredCurves = []string{"eco", "comfort", "high"}

// Validate checks a loaded policy wholesale.
// It performs declarative validation only and MUST NOT mutate the policy.
// A policy that fails here is rejected in full; no partial application.
func (p *Policy) Validate() error {
	if len(p.Curves) == 0 {
		return errors.New("curve: at least one heating curve required")
	}
	for _, name := range requiredCurves {
		if _, ok := p.Curves[name]; !ok {
			return fmt.Errorf("curve: missing required curve %q", name)
		}
	}

	for name, cv := range p.Curves {
		if cv.RoomRange[0] > cv.RoomRange[1] {
			return fmt.Errorf(
				"curve %q: target_temp_range inverted: %.1f > %.1f",
				name, cv.RoomRange[0], cv.RoomRange[1],
			)
		}
		if len(cv.Points) == 0 {
			return fmt.Errorf("curve %q: no breakpoints", name)
		}
		for i, bp := range cv.Points {
			if bp.OutdoorMin >= bp.OutdoorMax {
				return fmt.Errorf(
					"curve %q: breakpoint %d: outdoor range inverted: [%.1f, %.1f)",
					name, i, bp.OutdoorMin, bp.OutdoorMax,
				)
			}
		}
	}

	s := p.Settings
	if s.OutdoorRestart > s.OutdoorCutoff {
		return fmt.Errorf(
			"curve: outdoor_restart_temp %.1f above outdoor_cutoff_temp %.1f breaks hysteresis",
			s.OutdoorRestart, s.OutdoorCutoff,
		)
	}
	if s.MinFlow <= 0 || s.MaxFlow <= 0 {
		return errors.New("curve: flow temperature limits must be > 0")
	}
	if s.MinFlow > s.MaxFlow {
		return fmt.Errorf(
			"curve: min_flow_temp %.1f above max_flow_temp %.1f",
			s.MinFlow, s.MaxFlow,
		)
	}
	if s.AdjustThreshold <= 0 {
		return errors.New("curve: adjustment_threshold must be > 0")
	}
	if s.UpdateInterval <= 0 {
		return errors.New("curve: update_interval_seconds must be > 0")
	}

	return nil
}
