package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/advgen/internal/ports/secondary"
)

// ErrWorkspace is returned when a workspace operation targets a path
// outside the managed prefix.
var ErrWorkspace = errors.New("path outside workspace prefix")

// WorkspaceManager creates and removes per-shard temporary workspaces under
// a single base directory so stray workspaces are findable by prefix.
type WorkspaceManager struct {
	base string
}

// NewWorkspaceManager creates a workspace manager rooted at base.
func NewWorkspaceManager(base string) *WorkspaceManager {
	return &WorkspaceManager{base: base}
}

// Create makes a fresh private workspace for the shard.
func (m *WorkspaceManager) Create(shardID string) (string, error) {
	if err := os.MkdirAll(m.base, 0755); err != nil {
		return "", fmt.Errorf("failed to create workspace base: %w", err)
	}

	dir, err := os.MkdirTemp(m.base, shardID+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}

	return dir, nil
}

// Remove deletes one workspace directory. Paths outside the managed base
// are refused.
func (m *WorkspaceManager) Remove(dir string) error {
	if !strings.HasPrefix(filepath.Clean(dir), filepath.Clean(m.base)+string(os.PathSeparator)) {
		return fmt.Errorf("%w: %s", ErrWorkspace, dir)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove workspace: %w", err)
	}

	return nil
}

// CleanShard removes every workspace the shard left behind.
func (m *WorkspaceManager) CleanShard(shardID string) error {
	matches, err := filepath.Glob(filepath.Join(m.base, shardID+"-*"))
	if err != nil {
		return fmt.Errorf("failed to scan workspaces: %w", err)
	}

	for _, dir := range matches {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove workspace %s: %w", dir, err)
		}
	}

	return nil
}

// Ensure WorkspaceManager implements the interface
var _ secondary.WorkspaceManager = (*WorkspaceManager)(nil)
