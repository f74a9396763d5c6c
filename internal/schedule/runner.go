// internal/schedule/runner.go
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/stephan-aichholzer/lg-r290-control/internal/thermostat"
)

// offsetSetter is the exact contract the scheduler uses on the
// controller.
type offsetSetter interface {
	SetOffset(ctx context.Context, offset int) error
}

// thermostatConfigurer reads and rewrites the thermostat config.
type thermostatConfigurer interface {
	CurrentConfig(ctx context.Context) (thermostat.Config, error)
	ApplyConfig(ctx context.Context, cfg thermostat.Config) error
}

// wakeInterval is shorter than a minute so no programmed switch point
// can fall between two checks.
const wakeInterval = 30 * time.Second

// Runner fires schedule periods at their programmed minute.
type Runner struct {
	store *Store
	therm thermostatConfigurer
	ctl   offsetSetter
	log   *slog.Logger

	lastMinute time.Time
	now        func() time.Time // test hook
}

// NewRunner wires the scheduler. therm and ctl receive the programmed
// target and offset when a period fires.
func NewRunner(store *Store, therm thermostatConfigurer, ctl offsetSetter, log *slog.Logger) *Runner {
	return &Runner{store: store, therm: therm, ctl: ctl, log: log, now: time.Now}
}

// Run checks the schedule until ctx is canceled. It wakes twice per
// minute but acts at most once per wall-clock minute.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(wakeInterval)
	defer ticker.Stop()

	for {
		r.check(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// check fires the period programmed for the current minute, if any.
func (r *Runner) check(ctx context.Context) {
	now := r.now()
	minute := now.Truncate(time.Minute)
	if minute.Equal(r.lastMinute) {
		return
	}
	r.lastMinute = minute

	period, ok := r.store.Active().ActionAt(now)
	if !ok {
		return
	}

	r.log.Info("schedule period due",
		"time", period.Time, "target", period.TargetTemp, "offset", period.AutoOffset)
	r.apply(ctx, period)
}

// apply pushes the programmed target to the thermostat and the offset
// to the device. Thermostat modes ECO and OFF are left alone; the
// schedule only steers AUTO and ON.
func (r *Runner) apply(ctx context.Context, p Period) {
	cfg, err := r.therm.CurrentConfig(ctx)
	if err != nil {
		r.log.Warn("schedule skipped, thermostat config unavailable", "err", err)
		return
	}

	if cfg.Mode != "AUTO" && cfg.Mode != "ON" {
		r.log.Info("schedule skipped, thermostat mode not steered", "mode", cfg.Mode)
		return
	}

	next := cfg
	next.TargetTemp = p.TargetTemp
	next.Mode = "AUTO"
	fillConfigDefaults(&next)

	if err := r.therm.ApplyConfig(ctx, next); err != nil {
		r.log.Warn("schedule target not applied", "err", err)
		return
	}
	r.log.Info("schedule target applied", "target", p.TargetTemp, "was_mode", cfg.Mode)

	if err := r.ctl.SetOffset(ctx, p.AutoOffset); err != nil {
		r.log.Warn("schedule offset not applied", "offset", p.AutoOffset, "err", err)
		return
	}
	r.log.Info("schedule offset applied", "offset", p.AutoOffset)
}

// fillConfigDefaults completes fields an older thermostat build may
// not report, so the rewrite never zeroes them.
func fillConfigDefaults(cfg *thermostat.Config) {
	if cfg.EcoTemp == 0 {
		cfg.EcoTemp = 19.0
	}
	if cfg.Hysteresis == 0 {
		cfg.Hysteresis = 0.1
	}
	if cfg.MinOnTime == 0 {
		cfg.MinOnTime = 40
	}
	if cfg.MinOffTime == 0 {
		cfg.MinOffTime = 20
	}
	if cfg.TempSampleCount == 0 {
		cfg.TempSampleCount = 4
	}
	if cfg.ControlInterval == 0 {
		cfg.ControlInterval = 60
	}
}
