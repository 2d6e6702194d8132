// Package primary defines the driving-side ports: the service interfaces
// the CLI layer calls into.
package primary

import (
	"context"

	"github.com/example/advgen/internal/models"
)

// ShardResult summarizes one shard worker run.
type ShardResult struct {
	ProblemsOK     int
	ProblemsFailed int
	RealizedPerc   float64
	ResultsPath    string
	StatsPath      string
}

// DatasetService runs the perturbation pipeline over every problem of a
// shard and persists the labeled dataset plus attack statistics.
type DatasetService interface {
	RunShard(ctx context.Context, cfg models.AttackConfig, workDir string) (*ShardResult, error)
}

// DictionarySummary reports the outcome of rebuilding one domain's
// dictionaries.
type DictionarySummary struct {
	Domain          string
	ActionTokens    int
	GoalTokens      int
	BundlesScanned  int
	BundlesSkipped  int
}

// DictionaryService rebuilds per-domain token dictionaries from the corpus.
type DictionaryService interface {
	Rebuild(ctx context.Context, domain, workDir string) (*DictionarySummary, error)
	// Tokens returns a domain's stored action and goal tokens in id order.
	Tokens(ctx context.Context, domain string) (actions, goals []string, err error)
}
