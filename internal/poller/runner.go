// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run drives the poll loop until ctx is canceled. It connects, polls
// on the configured interval, and rebuilds the connection after
// FailureLimit consecutive failed cycles. The first cycle runs
// immediately after each connect so fresh data is available without
// waiting a full interval.
func (p *Poller) Run(ctx context.Context) error {
	defer func() {
		p.conn.Close()
		p.setState(StateDisconnected)
	}()

	for {
		if err := p.connect(ctx); err != nil {
			return err
		}
		if err := p.pollUntilBroken(ctx); err != nil {
			return err
		}
		// Connection was torn down after repeated failures; dial again.
	}
}

// connect dials until it succeeds or ctx is canceled.
func (p *Poller) connect(ctx context.Context) error {
	p.setState(StateConnecting)

	for {
		err := p.conn.Connect(ctx)
		if err == nil {
			p.log.Info("poller connected")
			return nil
		}
		p.log.Warn("poller connect failed", "err", err)

		if err := sleep(ctx, p.cfg.ReconnectPause); err != nil {
			return err
		}
	}
}

// pollUntilBroken runs poll cycles until the failure limit trips.
// It returns nil to request a reconnect, or the ctx error.
func (p *Poller) pollUntilBroken(ctx context.Context) error {
	p.failures = 0
	p.setState(StatePolling)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := p.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if p.failures >= p.cfg.FailureLimit {
				p.log.Error("failure limit reached, rebuilding connection",
					"failures", p.failures)
				p.conn.Close()
				p.setState(StateReconnecting)
				if p.hooks.OnReconnect != nil {
					p.hooks.OnReconnect()
				}
				return sleep(ctx, p.cfg.ReconnectPause)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// cycle performs one poll and publishes or records the failure.
func (p *Poller) cycle(ctx context.Context) error {
	snap, err := p.PollOnce(ctx)
	if err != nil {
		p.failures++
		p.log.Warn("poll cycle failed",
			"err", err, "consecutive", p.failures, "limit", p.cfg.FailureLimit)

		// Refresh the liveness marker so a supervisor can tell a
		// failing bus from a dead loop. The snapshot itself stays
		// untouched and keeps aging.
		if terr := p.cache.Touch(); terr != nil {
			p.log.Warn("status touch failed", "err", terr)
		}
		if p.hooks.OnFailure != nil {
			p.hooks.OnFailure(err)
		}
		return err
	}

	p.failures = 0
	if perr := p.cache.Publish(snap); perr != nil {
		p.log.Warn("status publish failed", "err", perr)
	}
	if p.hooks.OnSnapshot != nil {
		p.hooks.OnSnapshot(snap)
	}

	p.log.Debug("poll cycle complete",
		"power", snap.PowerOn,
		"mode", snap.OperatingMode.String(),
		"flow", snap.FlowTemp,
		"return", snap.ReturnTemp,
		"outdoor", snap.OutdoorTemp,
		"target", snap.TargetTemp)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
