package app

import (
	"context"
	"fmt"
	"log"

	"github.com/example/advgen/internal/config"
	"github.com/example/advgen/internal/models"
	"github.com/example/advgen/internal/ports/primary"
	"github.com/example/advgen/internal/ports/secondary"
)

// SupervisorService manages shard worker processes through PID records:
// idempotent start, liveness status and graceful stop. Stale records
// (recorded pid no longer alive) are repaired on sight by any operation.
type SupervisorService struct {
	cfg        *config.Config
	pids       secondary.PIDStore
	processes  secondary.ProcessController
	launcher   secondary.WorkerLauncher
	workspaces secondary.WorkspaceManager
	logger     *log.Logger
}

// NewSupervisorService creates a supervisor service.
func NewSupervisorService(
	cfg *config.Config,
	pids secondary.PIDStore,
	processes secondary.ProcessController,
	launcher secondary.WorkerLauncher,
	workspaces secondary.WorkspaceManager,
	logger *log.Logger,
) *SupervisorService {
	return &SupervisorService{
		cfg:        cfg,
		pids:       pids,
		processes:  processes,
		launcher:   launcher,
		workspaces: workspaces,
		logger:     logger,
	}
}

// Start launches a worker for the shard unless one is already live. A
// stale record is repaired first, then a fresh worker is launched.
func (s *SupervisorService) Start(ctx context.Context, shard models.Shard) (*primary.StartOutcome, error) {
	id := shard.ID()
	outcome := &primary.StartOutcome{ShardID: id, LogPath: s.cfg.ShardLogPath(id)}

	pid, exists, err := s.pids.Read(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read pid record for %s: %w", id, err)
	}

	if exists {
		if s.processes.Exists(pid) {
			outcome.AlreadyLive = true
			outcome.PID = pid
			return outcome, nil
		}
		if err := s.repairStale(id); err != nil {
			return nil, err
		}
		outcome.StaleRepaired = true
	}

	newPID, err := s.launcher.Launch(shard, outcome.LogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to launch worker for %s: %w", id, err)
	}
	if err := s.pids.Write(id, newPID); err != nil {
		return nil, fmt.Errorf("failed to record pid for %s: %w", id, err)
	}

	s.logger.Printf("started worker %d for shard %s", newPID, id)
	outcome.PID = newPID

	return outcome, nil
}

// Status reports whether the shard's worker is alive, repairing stale
// records as a side effect.
func (s *SupervisorService) Status(ctx context.Context, shard models.Shard) (*primary.ShardStatus, error) {
	id := shard.ID()
	status := &primary.ShardStatus{ShardID: id, State: models.ShardStopped, LogPath: s.cfg.ShardLogPath(id)}

	pid, exists, err := s.pids.Read(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read pid record for %s: %w", id, err)
	}
	if !exists {
		return status, nil
	}

	if s.processes.Exists(pid) {
		status.State = models.ShardRunning
		status.PID = pid
		return status, nil
	}

	if err := s.repairStale(id); err != nil {
		return nil, err
	}
	status.StaleRepaired = true

	return status, nil
}

// Stop requests graceful termination of the shard's worker. The PID record
// and workspaces are removed regardless of the worker's fate; a worker that
// ignores SIGTERM is the operator's to kill.
func (s *SupervisorService) Stop(ctx context.Context, shard models.Shard) (*primary.StopOutcome, error) {
	id := shard.ID()
	outcome := &primary.StopOutcome{ShardID: id}

	pid, exists, err := s.pids.Read(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read pid record for %s: %w", id, err)
	}
	if !exists {
		return outcome, nil
	}

	if s.processes.Exists(pid) {
		outcome.WasRunning = true
		if err := s.processes.Terminate(pid); err != nil {
			s.logger.Printf("failed to terminate worker %d for %s: %v", pid, id, err)
			outcome.TermFailed = true
			outcome.Recommendation = fmt.Sprintf("SIGTERM undeliverable, run: kill -9 %d", pid)
		}
	}

	if err := s.repairStale(id); err != nil {
		return nil, err
	}

	return outcome, nil
}

// repairStale removes the shard's pid record and any workspaces the dead
// worker left behind.
func (s *SupervisorService) repairStale(id string) error {
	if err := s.pids.Remove(id); err != nil {
		return fmt.Errorf("failed to remove pid record for %s: %w", id, err)
	}
	if err := s.workspaces.CleanShard(id); err != nil {
		return fmt.Errorf("failed to clean workspaces for %s: %w", id, err)
	}

	return nil
}

// Ensure SupervisorService implements the interface
var _ primary.SupervisorService = (*SupervisorService)(nil)
