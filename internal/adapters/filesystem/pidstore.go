package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/advgen/internal/ports/secondary"
)

// PIDStore keeps one <shard>.pid file per shard under a fixed directory.
type PIDStore struct {
	dir string
}

// NewPIDStore creates a PID store rooted at dir.
func NewPIDStore(dir string) *PIDStore {
	return &PIDStore{dir: dir}
}

// Write records the pid for a shard, creating the directory on first use.
func (s *PIDStore) Write(shardID string, pid int) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create pid dir: %w", err)
	}

	path := s.path(shardID)
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}

	return nil
}

// Read returns the recorded pid for a shard. A missing record reports
// exists=false without error; a corrupt record is an error.
func (s *PIDStore) Read(shardID string) (int, bool, error) {
	data, err := os.ReadFile(s.path(shardID))
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false, fmt.Errorf("corrupt pid file for %s: %w", shardID, err)
	}

	return pid, true, nil
}

// Remove deletes the shard's record. Removing a missing record is a no-op.
func (s *PIDStore) Remove(shardID string) error {
	err := os.Remove(s.path(shardID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove pid file: %w", err)
	}

	return nil
}

func (s *PIDStore) path(shardID string) string {
	return filepath.Join(s.dir, shardID+".pid")
}

// Ensure PIDStore implements the interface
var _ secondary.PIDStore = (*PIDStore)(nil)
