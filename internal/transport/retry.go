// internal/transport/retry.go
package transport

import (
	"context"
	"time"

	"github.com/goburrow/modbus"
)

// do runs one logical bus operation: pacing gap, bounded attempts,
// linear backoff between attempts. The connection mutex is held for
// the whole sequence, so exactly one operation is on the wire at a
// time. Retry policy lives here and nowhere else.
func (c *Client) do(ctx context.Context, op string, fn func(mb modbus.Client) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return &Error{Kind: KindConnection, Op: op, Err: errNotConnected}
	}

	var last error
	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if attempt > 1 {
			// Backoff grows with each failed attempt: base, 2×base, ...
			if err := pause(ctx, time.Duration(attempt-1)*c.cfg.RetryDelay); err != nil {
				return err
			}
		}
		// Courtesy gap before touching the bus. The gateway is shared
		// with the WAGO meter; back-to-back requests collide.
		if err := pause(ctx, c.cfg.RequestGap); err != nil {
			return err
		}

		err := fn(c.mb)
		if err == nil {
			if attempt > 1 {
				c.log.Info("bus operation recovered", "op", op, "attempt", attempt)
			}
			return nil
		}
		last = err
		c.log.Warn("bus operation failed",
			"op", op, "attempt", attempt, "max", c.cfg.Attempts, "err", err)
	}

	return &Error{Kind: classify(last), Op: op, Err: last}
}

// pause sleeps unless the context ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
