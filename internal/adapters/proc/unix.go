// Package proc contains the OS process adapters: liveness probing, graceful
// termination and detached worker launching.
package proc

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/example/advgen/internal/ports/secondary"
)

// Controller probes and signals processes on Unix systems.
type Controller struct{}

// NewController creates a process controller.
func NewController() *Controller {
	return &Controller{}
}

// Exists reports whether a process with the given pid is alive, using a
// signal-0 probe. EPERM means the process exists but belongs to another
// user, which still counts as alive.
func (c *Controller) Exists(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}

	return errors.Is(err, syscall.EPERM)
}

// Terminate sends SIGTERM. Escalation to SIGKILL is left to the operator.
func (c *Controller) Terminate(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}

	return nil
}

// Ensure Controller implements the interface
var _ secondary.ProcessController = (*Controller)(nil)
