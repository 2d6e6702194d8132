package secondary

import "github.com/example/advgen/internal/models"

// ProcessController is the platform capability set the supervisor needs:
// a non-invasive liveness probe and graceful termination. The supervisor
// logic itself stays platform-neutral.
type ProcessController interface {
	// Exists reports whether a process with the given pid is alive. It
	// must not affect the process (signal-0 style probe).
	Exists(pid int) bool
	// Terminate requests graceful termination (SIGTERM equivalent).
	Terminate(pid int) error
}

// PIDStore persists one PID record per shard at a well-known path derived
// from the shard identifier.
type PIDStore interface {
	Write(shardID string, pid int) error
	// Read returns the recorded pid and whether a record exists. A missing
	// record is not an error.
	Read(shardID string) (pid int, exists bool, err error)
	Remove(shardID string) error
}

// WorkerLauncher spawns a detached shard worker process with its output
// redirected to the shard log, returning the new pid.
type WorkerLauncher interface {
	Launch(shard models.Shard, logPath string) (int, error)
}

// WorkspaceManager creates and cleans the isolated temporary workspaces
// shard workers extract archives into.
type WorkspaceManager interface {
	// Create makes a fresh private workspace for the shard.
	Create(shardID string) (string, error)
	// Remove deletes one workspace directory.
	Remove(dir string) error
	// CleanShard removes every workspace left behind by the shard.
	CleanShard(shardID string) error
}
