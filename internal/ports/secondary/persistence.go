package secondary

import "context"

// Dictionary kinds stored in the dictionary repository.
const (
	DictionaryActions = "action"
	DictionaryGoals   = "goal"
)

// DictionaryRepository persists per-domain token dictionaries. A dictionary
// is rebuilt atomically with Replace and loaded read-only at shard start.
type DictionaryRepository interface {
	// Load returns the token -> id mapping for a domain and kind. An empty
	// dictionary means it was never built.
	Load(ctx context.Context, domain, kind string) (map[string]int, error)
	// Replace drops the existing dictionary and stores the given tokens
	// with ids assigned by sorted token order.
	Replace(ctx context.Context, domain, kind string, tokens []string) error
}

// RunRecord is one row of the shard run registry.
type RunRecord struct {
	ID             string
	ShardID        string
	Domain         string
	Attack         int
	PID            int
	Status         string // "running", "completed", "failed"
	ProblemsOK     int
	ProblemsFailed int
	RealizedPerc   float64
	StartedAt      string
	FinishedAt     string
}

// RunRepository records shard worker runs for inspection.
type RunRepository interface {
	// Create registers a run in the "running" state and fills in run.ID.
	// Allocation is atomic: concurrent workers each get a distinct id.
	Create(ctx context.Context, run *RunRecord) error
	Finish(ctx context.Context, id, status string, problemsOK, problemsFailed int, realizedPerc float64) error
	List(ctx context.Context, limit int) ([]*RunRecord, error)
}
