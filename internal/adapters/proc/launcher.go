package proc

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/example/advgen/internal/models"
	"github.com/example/advgen/internal/ports/secondary"
)

// SelfLauncher spawns shard workers by re-executing the current binary with
// the worker subcommand. Workers run in their own session so they survive
// the supervisor exiting.
type SelfLauncher struct{}

// NewSelfLauncher creates a worker launcher.
func NewSelfLauncher() *SelfLauncher {
	return &SelfLauncher{}
}

// Launch starts a detached worker for the shard with stdout and stderr
// appended to the shard log, returning the worker pid.
func (l *SelfLauncher) Launch(shard models.Shard, logPath string) (int, error) {
	self, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve own binary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create log dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open shard log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(self, "worker",
		"--domain", shard.Domain,
		"--attack", strconv.Itoa(shard.Attack),
	)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start worker: %w", err)
	}

	pid := cmd.Process.Pid
	// The worker is detached; the supervisor never waits on it.
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("failed to release worker process: %w", err)
	}

	return pid, nil
}

// Ensure SelfLauncher implements the interface
var _ secondary.WorkerLauncher = (*SelfLauncher)(nil)
