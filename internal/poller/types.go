// internal/poller/types.go
package poller

import (
	"fmt"
	"time"

	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
)

// State is the poll loop's connection lifecycle.
type State uint32

const (
	StateDisconnected State = iota
	StateConnecting
	StatePolling
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StatePolling:
		return "polling"
	case StateReconnecting:
		return "reconnecting"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

// Config is the poll loop's runtime configuration.
type Config struct {
	// Interval between poll cycles. The device drops external control
	// after about a minute without traffic, so keep this well below.
	Interval time.Duration

	// FailureLimit is the number of consecutive failed cycles after
	// which the connection is torn down and rebuilt.
	FailureLimit int

	// ReconnectPause is the wait between closing a bad connection and
	// dialing again.
	ReconnectPause time.Duration
}

// Defaults for the poll loop.
const (
	DefaultInterval       = 30 * time.Second
	DefaultFailureLimit   = 5
	DefaultReconnectPause = 2 * time.Second
)

// Hooks are optional callbacks for observers. Nil hooks are skipped.
// They run on the poll goroutine, so they must return quickly.
type Hooks struct {
	OnSnapshot  func(status.Snapshot)
	OnFailure   func(error)
	OnReconnect func()
}
