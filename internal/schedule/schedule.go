// internal/schedule/schedule.go

// Package schedule applies programmed room targets and auto-mode
// offsets at fixed weekday/times, via the thermostat and the
// controller. It never touches the device directly.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Period is one programmed switch point within a day.
type Period struct {
	Time       string  `json:"time"` // "HH:MM", 24h
	TargetTemp float64 `json:"target_temp"`
	AutoOffset int     `json:"auto_offset"`
}

// Rule binds a set of weekdays to a list of periods.
type Rule struct {
	Days    []string `json:"days"`
	Periods []Period `json:"periods"`
}

// Schedule is the whole programmed week.
type Schedule struct {
	Enabled bool   `json:"enabled"`
	Rules   []Rule `json:"schedules"`
}

var validDays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Validate checks the whole schedule. It MUST NOT mutate.
func (s *Schedule) Validate() error {
	for i, r := range s.Rules {
		if len(r.Days) == 0 {
			return fmt.Errorf("schedule: rule %d: days must not be empty", i)
		}
		for _, d := range r.Days {
			if !validDays[strings.ToLower(d)] {
				return fmt.Errorf("schedule: rule %d: unknown day %q", i, d)
			}
		}
		if len(r.Periods) == 0 {
			return fmt.Errorf("schedule: rule %d: periods must not be empty", i)
		}
		for j, p := range r.Periods {
			if _, err := time.Parse("15:04", p.Time); err != nil {
				return fmt.Errorf("schedule: rule %d period %d: bad time %q (want HH:MM)", i, j, p.Time)
			}
			if p.AutoOffset < -5 || p.AutoOffset > 5 {
				return fmt.Errorf("schedule: rule %d period %d: offset %+d outside [-5, +5]", i, j, p.AutoOffset)
			}
		}
	}
	return nil
}

// ActionAt returns the period programmed for the given instant, if
// any. Matching is exact on weekday and HH:MM; first match wins.
func (s *Schedule) ActionAt(t time.Time) (Period, bool) {
	if !s.Enabled {
		return Period{}, false
	}
	day := strings.ToLower(t.Weekday().String())
	clock := t.Format("15:04")

	for _, r := range s.Rules {
		for _, d := range r.Days {
			if strings.ToLower(d) != day {
				continue
			}
			for _, p := range r.Periods {
				if p.Time == clock {
					return p, true
				}
			}
		}
	}
	return Period{}, false
}
