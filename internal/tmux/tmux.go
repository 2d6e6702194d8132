// Package tmux manages the log-tail sessions behind 'advgen attach'.
package tmux

import (
	"fmt"
	"strings"

	"github.com/GianlucaP106/gotmux/gotmux"
)

// SessionName returns the tmux session name for a shard.
func SessionName(shardID string) string {
	return "advgen-" + shardID
}

// Adapter wraps gotmux for shard log session lifecycle.
type Adapter struct {
	tmux *gotmux.Tmux
}

// NewAdapter creates a new gotmux adapter.
func NewAdapter() (*Adapter, error) {
	client, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("failed to create tmux client: %w", err)
	}
	return &Adapter{tmux: client}, nil
}

// escapeShellCommand works around a gotmux quoting bug where ShellCommand is
// wrapped in single quotes, making the shell treat a multi-word command as a
// single token. Replacing spaces with ' ' (close-quote, space, open-quote)
// yields separately quoted words.
func escapeShellCommand(cmd string) string {
	return strings.ReplaceAll(cmd, " ", "' '")
}

// SessionExists checks if a tmux session exists.
func (a *Adapter) SessionExists(name string) bool {
	sessions, err := a.tmux.ListSessions()
	if err != nil {
		return false
	}
	for _, s := range sessions {
		if s.Name == name {
			return true
		}
	}
	return false
}

// CreateLogSession creates a detached session following the shard log.
func (a *Adapter) CreateLogSession(name, logPath string) error {
	_, err := a.tmux.NewSession(&gotmux.SessionOptions{
		Name:         name,
		ShellCommand: escapeShellCommand("tail -f " + logPath),
	})
	if err != nil {
		return fmt.Errorf("failed to create log session: %w", err)
	}

	return nil
}

// KillSession terminates a tmux session.
func (a *Adapter) KillSession(name string) error {
	sessions, err := a.tmux.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	for _, s := range sessions {
		if s.Name == name {
			return s.Kill()
		}
	}

	return fmt.Errorf("session %s not found", name)
}
