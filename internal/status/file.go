// internal/status/file.go
package status

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileCache persists snapshots to a single JSON file with
// atomic-replace semantics. Readers in other processes rely on the
// rename only; no lock file is involved.
type FileCache struct {
	path string
	mu   sync.Mutex // serializes writers
}

// NewFileCache creates a cache at path. The file may not exist yet.
func NewFileCache(path string) (*FileCache, error) {
	if path == "" {
		return nil, errors.New("status: file path required")
	}
	return &FileCache{path: path}, nil
}

// Path returns the snapshot location, for log lines and supervisors.
func (c *FileCache) Path() string {
	return c.path
}

// Publish stages the snapshot next to the target and renames it into
// place, so a concurrent reader sees either the old or the new file,
// never a torn one.
func (c *FileCache) Publish(s Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("status: encode snapshot: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".status-*.json")
	if err != nil {
		return fmt.Errorf("status: create staging file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("status: write staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("status: close staging file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("status: chmod staging file: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("status: replace snapshot: %w", err)
	}
	return nil
}

// Read loads the current snapshot.
func (c *FileCache) Read() (Snapshot, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, ErrUnavailable
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("status: read snapshot: %w", err)
	}
	// Touch may have created an empty marker before the first publish.
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, ErrUnavailable
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("status: decode snapshot: %w", err)
	}
	return s, nil
}

// Age measures from the snapshot's capture time, not the file mtime;
// Touch must not make stale data look fresh.
func (c *FileCache) Age() (time.Duration, error) {
	s, err := c.Read()
	if err != nil {
		return 0, err
	}
	return time.Since(s.CapturedAt), nil
}

// Touch refreshes the file mtime without rewriting contents, creating
// an empty marker when no snapshot exists yet.
func (c *FileCache) Touch() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	err := os.Chtimes(c.path, now, now)
	if errors.Is(err, fs.ErrNotExist) {
		f, cerr := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY, 0o644)
		if cerr != nil {
			return fmt.Errorf("status: create marker: %w", cerr)
		}
		return f.Close()
	}
	if err != nil {
		return fmt.Errorf("status: touch marker: %w", err)
	}
	return nil
}
