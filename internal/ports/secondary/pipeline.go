// Package secondary defines the driven-side ports: interfaces the
// application services depend on, implemented by adapters.
package secondary

import (
	"context"

	"github.com/example/advgen/internal/models"
)

// ProblemSource lists and loads problem bundles for one domain at one hole
// percentage. List returns bundle names in lexicographic order so shard
// output is deterministic regardless of filesystem iteration order.
type ProblemSource interface {
	List(ctx context.Context, domain string, holePerc int) ([]string, error)
	// Load extracts the named bundle into workDir and reads its contents.
	Load(ctx context.Context, domain string, holePerc int, name, workDir string) (*models.Problem, error)
}

// ActionSpaceProvider supplies the full set of grounded, syntactically
// valid actions for a problem that has been extracted to problemDir. The
// returned space is deduplicated and sorted. Failures wrap the provider's
// grounding error; the aggregator treats the provider as a black box.
type ActionSpaceProvider interface {
	Ground(ctx context.Context, problemDir string) ([]string, error)
}

// ResultStore persists one shard's dataset records and attack statistics,
// keyed by hole percentage. Both writers return the path written.
type ResultStore interface {
	WriteRecords(domain string, attack int, byHole map[int]map[string]models.DatasetRecord) (string, error)
	WriteStats(domain string, attack int, byHole map[int]models.AttackStats) (string, error)
}
