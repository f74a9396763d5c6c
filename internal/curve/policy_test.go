// internal/curve/policy_test.go
package curve

import (
	"testing"
)

// testPolicy is the default table with the site-tuned thresholds
// used on the real installation.
func testPolicy() *Policy {
	p := DefaultPolicy()
	p.Settings.OutdoorCutoff = 16.0
	p.Settings.OutdoorRestart = 15.0
	return p
}

func TestDefaultPolicyIsValid(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("built-in default must validate: %v", err)
	}
}

// While OFF, the pump must stay off anywhere inside the dead band,
// no matter how often the policy is evaluated.
func TestHysteresis_StaysOffInsideDeadBand(t *testing.T) {
	p := testPolicy()

	for i := 0; i < 10; i++ {
		dec, _ := p.Evaluate(15.5, 21.0, false)
		if dec != DecisionOff {
			t.Fatalf("tick %d: decision = %v, want off", i, dec)
		}
	}
}

// Crossing the restart threshold from above turns the decision into a
// flow temperature within the configured limits.
func TestHysteresis_RestartTransition(t *testing.T) {
	p := testPolicy()

	dec, _ := p.Evaluate(15.1, 21.0, false)
	if dec != DecisionOff {
		t.Fatalf("at 15.1°C the pump must stay off, got %v", dec)
	}

	dec, flow := p.Evaluate(15.0, 21.0, false)
	if dec != DecisionFlow {
		t.Fatalf("at restart temp the pump must start, got %v", dec)
	}
	if float64(flow) < p.Settings.MinFlow || float64(flow) > p.Settings.MaxFlow {
		t.Fatalf("flow %d outside [%v, %v]", flow, p.Settings.MinFlow, p.Settings.MaxFlow)
	}
}

// While ON inside the dead band the pump keeps running.
func TestHysteresis_KeepsRunningUntilCutoff(t *testing.T) {
	p := testPolicy()

	dec, flow := p.Evaluate(15.5, 21.0, true)
	if dec != DecisionFlow {
		t.Fatalf("decision = %v, want flow while inside dead band and on", dec)
	}
	if flow != 33 {
		t.Fatalf("flow = %d, want 33 for outdoor 15.5 on eco", flow)
	}

	dec, _ = p.Evaluate(16.0, 21.0, true)
	if dec != DecisionOff {
		t.Fatalf("at cutoff the pump must turn off, got %v", dec)
	}
}

func TestEvaluate_CurveSelection(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		room float64
		want int // expected flow for outdoor 5.0
	}{
		{20.0, 38}, // eco
		{21.0, 38}, // boundary resolves to the lower band
		{22.0, 40}, // comfort
		{23.5, 42}, // high
	}

	for _, c := range cases {
		dec, flow := p.Evaluate(5.0, c.room, true)
		if dec != DecisionFlow {
			t.Fatalf("room %.1f: decision = %v, want flow", c.room, dec)
		}
		if flow != c.want {
			t.Errorf("room %.1f: flow = %d, want %d", c.room, flow, c.want)
		}
	}
}

func TestEvaluate_BreakpointBoundaries(t *testing.T) {
	p := DefaultPolicy()

	// Half-open intervals: the upper bound belongs to the next segment.
	cases := []struct {
		outdoor float64
		want    int
	}{
		{-10.1, 46},
		{-10.0, 43},
		{-0.1, 43},
		{0.0, 38},
		{9.9, 38},
		{10.0, 33},
		{17.9, 33},
	}

	for _, c := range cases {
		dec, flow := p.Evaluate(c.outdoor, 20.0, true)
		if dec != DecisionFlow {
			t.Fatalf("outdoor %.1f: decision = %v, want flow", c.outdoor, dec)
		}
		if flow != c.want {
			t.Errorf("outdoor %.1f: flow = %d, want %d", c.outdoor, flow, c.want)
		}
	}
}

func TestEvaluate_NoCurveMeansHold(t *testing.T) {
	p := DefaultPolicy()

	// Room target below every configured band: leave the device alone.
	dec, _ := p.Evaluate(5.0, -3.0, true)
	if dec != DecisionHold {
		t.Fatalf("decision = %v, want hold for uncovered room target", dec)
	}
}

func TestEvaluate_NoBreakpointMeansHold(t *testing.T) {
	p := DefaultPolicy()
	cv := p.Curves["eco"]
	cv.Points = []Breakpoint{{OutdoorMin: -999, OutdoorMax: -100, FlowTemp: 46}}
	p.Curves["eco"] = cv

	dec, _ := p.Evaluate(5.0, 20.0, true)
	if dec != DecisionHold {
		t.Fatalf("decision = %v, want hold for uncovered outdoor temp", dec)
	}
}

func TestEvaluate_ClampsAndRounds(t *testing.T) {
	p := DefaultPolicy()
	cv := p.Curves["eco"]
	cv.Points = []Breakpoint{
		{OutdoorMin: -999, OutdoorMax: 0, FlowTemp: 61.0}, // above max
		{OutdoorMin: 0, OutdoorMax: 10, FlowTemp: 12.0},   // below min
		{OutdoorMin: 10, OutdoorMax: 18, FlowTemp: 34.6},  // fractional
	}
	p.Curves["eco"] = cv

	if _, flow := p.Evaluate(-5, 20.0, true); flow != 50 {
		t.Errorf("flow = %d, want clamp to 50", flow)
	}
	if _, flow := p.Evaluate(5, 20.0, true); flow != 30 {
		t.Errorf("flow = %d, want clamp to 30", flow)
	}
	if _, flow := p.Evaluate(12, 20.0, true); flow != 35 {
		t.Errorf("flow = %d, want 34.6 rounded to 35", flow)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"missing comfort", func(p *Policy) { delete(p.Curves, "comfort") }},
		{"restart above cutoff", func(p *Policy) { p.Settings.OutdoorRestart = 19.0 }},
		{"zero threshold", func(p *Policy) { p.Settings.AdjustThreshold = 0 }},
		{"inverted flow limits", func(p *Policy) { p.Settings.MinFlow = 55 }},
		{"zero interval", func(p *Policy) { p.Settings.UpdateInterval = 0 }},
		{"empty breakpoints", func(p *Policy) {
			cv := p.Curves["eco"]
			cv.Points = nil
			p.Curves["eco"] = cv
		}},
		{"inverted breakpoint", func(p *Policy) {
			cv := p.Curves["eco"]
			cv.Points = []Breakpoint{{OutdoorMin: 10, OutdoorMax: -10, FlowTemp: 40}}
			p.Curves["eco"] = cv
		}},
		{"inverted room range", func(p *Policy) {
			cv := p.Curves["eco"]
			cv.RoomRange = [2]float64{22, 20}
			p.Curves["eco"] = cv
		}},
	}

	for _, c := range cases {
		p := DefaultPolicy()
		c.mutate(p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}
