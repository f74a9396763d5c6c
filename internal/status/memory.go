// internal/status/memory.go
package status

import (
	"sync"
	"time"
)

// MemoryCache is the in-memory Cache used by tests and by components
// that do not need the snapshot on disk.
type MemoryCache struct {
	mu      sync.Mutex
	snap    Snapshot
	has     bool
	touches int

	now func() time.Time // test hook
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

func (c *MemoryCache) Publish(s Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = s
	c.has = true
	return nil
}

func (c *MemoryCache) Read() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.has {
		return Snapshot{}, ErrUnavailable
	}
	return c.snap, nil
}

func (c *MemoryCache) Age() (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.has {
		return 0, ErrUnavailable
	}
	return c.now().Sub(c.snap.CapturedAt), nil
}

func (c *MemoryCache) Touch() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touches++
	return nil
}

// Touches counts Touch calls. Test observability.
func (c *MemoryCache) Touches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touches
}
