// internal/status/cache.go
package status

import (
	"errors"
	"time"
)

// ErrUnavailable means no snapshot has been published yet.
var ErrUnavailable = errors.New("status: no snapshot available")

// Cache is the single most-recent-snapshot store.
//
// Publish replaces the snapshot atomically; readers never observe a
// half-written state. Touch refreshes only the liveness marker and is
// called on failed poll cycles so external supervisors can tell "loop
// alive but bus unhappy" from "loop dead". Age is measured from the
// snapshot's own capture time, so it keeps growing while polls fail.
type Cache interface {
	Publish(Snapshot) error
	Read() (Snapshot, error)
	Age() (time.Duration, error)
	Touch() error
}
