// internal/curve/store.go
package curve

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store holds the active policy and swaps it atomically on reload.
// Readers always see a complete policy, never a half-updated one.
type Store struct {
	path string
	log  *slog.Logger

	mu     sync.RWMutex
	active *Policy
}

// NewStore loads the policy at path. A missing or invalid file falls
// back to the built-in default so the daemon always has a policy.
func NewStore(path string, log *slog.Logger) *Store {
	st := &Store{path: path, log: log}

	p, err := load(path)
	if err != nil {
		log.Warn("heating curve policy unavailable, using built-in default",
			"path", path, "err", err)
		p = DefaultPolicy()
	} else {
		log.Info("heating curve policy loaded", "path", path, "curves", len(p.Curves))
	}
	st.active = p
	return st
}

// Active returns the current policy.
func (st *Store) Active() *Policy {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.active
}

// Reload re-reads the policy file. On any error the active policy
// stays in place and the error is returned.
func (st *Store) Reload() error {
	p, err := load(st.path)
	if err != nil {
		st.log.Warn("heating curve policy reload rejected, keeping active policy",
			"path", st.path, "err", err)
		return err
	}

	st.mu.Lock()
	st.active = p
	st.mu.Unlock()

	st.log.Info("heating curve policy reloaded", "path", st.path)
	return nil
}

func load(path string) (*Policy, error) {
	if path == "" {
		return nil, errors.New("curve: policy path not set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("curve: read policy: %w", err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("curve: parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
