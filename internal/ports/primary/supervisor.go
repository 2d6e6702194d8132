package primary

import (
	"context"

	"github.com/example/advgen/internal/models"
)

// StartOutcome reports what Start did for one shard.
type StartOutcome struct {
	ShardID       string
	PID           int
	AlreadyLive   bool // a live worker existed; nothing was launched
	StaleRepaired bool // a dead worker's record was discarded first
	LogPath       string
}

// ShardStatus is the supervisor's view of one shard.
type ShardStatus struct {
	ShardID       string
	State         string // models.ShardRunning or models.ShardStopped
	PID           int    // valid only when State == RUNNING
	StaleRepaired bool   // a stale record was discovered and removed
	LogPath       string
}

// StopOutcome reports what Stop did for one shard.
type StopOutcome struct {
	ShardID        string
	WasRunning     bool
	TermFailed     bool   // SIGTERM could not be delivered
	Recommendation string // manual follow-up when TermFailed
}

// SupervisorService launches, inspects and terminates shard workers.
// Every operation is idempotent and safe to interleave across shards.
type SupervisorService interface {
	Start(ctx context.Context, shard models.Shard) (*StartOutcome, error)
	Status(ctx context.Context, shard models.Shard) (*ShardStatus, error)
	Stop(ctx context.Context, shard models.Shard) (*StopOutcome, error)
}
