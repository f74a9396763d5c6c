// internal/schedule/store.go
package schedule

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Store holds the active schedule and swaps it atomically on reload.
type Store struct {
	path string
	log  *slog.Logger

	mu     sync.RWMutex
	active *Schedule
}

// NewStore loads the schedule at path. A missing or invalid file
// leaves scheduling disabled; the daemon runs fine without one.
func NewStore(path string, log *slog.Logger) *Store {
	st := &Store{path: path, log: log}

	s, err := load(path)
	if err != nil {
		log.Warn("schedule unavailable, scheduling disabled", "path", path, "err", err)
		s = &Schedule{}
	} else {
		log.Info("schedule loaded", "path", path, "enabled", s.Enabled, "rules", len(s.Rules))
	}
	st.active = s
	return st
}

// Active returns the current schedule.
func (st *Store) Active() *Schedule {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.active
}

// Reload re-reads the schedule file. On any error the active schedule
// stays in place and the error is returned.
func (st *Store) Reload() error {
	s, err := load(st.path)
	if err != nil {
		st.log.Warn("schedule reload rejected, keeping active schedule",
			"path", st.path, "err", err)
		return err
	}

	st.mu.Lock()
	st.active = s
	st.mu.Unlock()

	st.log.Info("schedule reloaded", "path", st.path, "enabled", s.Enabled, "rules", len(s.Rules))
	return nil
}

func load(path string) (*Schedule, error) {
	if path == "" {
		return nil, fmt.Errorf("schedule: path not set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schedule: read: %w", err)
	}

	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schedule: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
