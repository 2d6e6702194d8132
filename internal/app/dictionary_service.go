package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/example/advgen/internal/codec"
	"github.com/example/advgen/internal/ports/primary"
	"github.com/example/advgen/internal/ports/secondary"
)

// dictionaryHole is the hole percentage whose bundles carry the complete
// observation sequences, making them the vocabulary source of truth.
const dictionaryHole = 100

// DictionaryService rebuilds a domain's token dictionaries by scanning the
// full-observability bundles.
type DictionaryService struct {
	problems     secondary.ProblemSource
	actionSpaces secondary.ActionSpaceProvider
	dictionaries secondary.DictionaryRepository
	logger       *log.Logger
}

// NewDictionaryService creates a dictionary service.
func NewDictionaryService(
	problems secondary.ProblemSource,
	actionSpaces secondary.ActionSpaceProvider,
	dictionaries secondary.DictionaryRepository,
	logger *log.Logger,
) *DictionaryService {
	return &DictionaryService{
		problems:     problems,
		actionSpaces: actionSpaces,
		dictionaries: dictionaries,
		logger:       logger,
	}
}

// Rebuild scans every full-observability bundle of the domain and replaces
// both dictionaries. Action tokens come from the observed sequences plus
// the grounded action spaces; goal tokens from every hypothesis and real
// goal. Grounding failures degrade to observation-only vocabulary for that
// bundle instead of failing the rebuild.
func (s *DictionaryService) Rebuild(ctx context.Context, domain, workDir string) (*primary.DictionarySummary, error) {
	names, err := s.problems.List(ctx, domain, dictionaryHole)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no full-observability bundles found for %s", domain)
	}

	actionTokens := map[string]struct{}{}
	goalTokens := map[string]struct{}{}
	summary := &primary.DictionarySummary{Domain: domain}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rebuild interrupted: %w", err)
		}

		bundleDir := filepath.Join(workDir, name)
		if err := os.MkdirAll(bundleDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create bundle dir: %w", err)
		}

		if err := s.scanBundle(ctx, domain, name, bundleDir, actionTokens, goalTokens); err != nil {
			s.logger.Printf("skipping bundle %s: %v", name, err)
			summary.BundlesSkipped++
		} else {
			summary.BundlesScanned++
		}
		os.RemoveAll(bundleDir)
	}

	if len(actionTokens) == 0 || len(goalTokens) == 0 {
		return nil, fmt.Errorf("no usable bundles for %s (%d skipped)", domain, summary.BundlesSkipped)
	}

	if err := s.dictionaries.Replace(ctx, domain, secondary.DictionaryActions, sortedKeys(actionTokens)); err != nil {
		return nil, fmt.Errorf("failed to store action dictionary: %w", err)
	}
	if err := s.dictionaries.Replace(ctx, domain, secondary.DictionaryGoals, sortedKeys(goalTokens)); err != nil {
		return nil, fmt.Errorf("failed to store goal dictionary: %w", err)
	}

	summary.ActionTokens = len(actionTokens)
	summary.GoalTokens = len(goalTokens)
	s.logger.Printf("rebuilt %s dictionaries: %d actions, %d goals (%d bundles, %d skipped)",
		domain, summary.ActionTokens, summary.GoalTokens, summary.BundlesScanned, summary.BundlesSkipped)

	return summary, nil
}

func (s *DictionaryService) scanBundle(ctx context.Context, domain, name, bundleDir string, actionTokens, goalTokens map[string]struct{}) error {
	problem, err := s.problems.Load(ctx, domain, dictionaryHole, name, bundleDir)
	if err != nil {
		return err
	}

	for _, obs := range problem.Observations {
		addToken(actionTokens, obs)
	}
	for _, predicate := range problem.RealGoal {
		addToken(goalTokens, predicate)
	}
	for _, hypothesis := range problem.Hypotheses {
		for _, predicate := range hypothesis {
			addToken(goalTokens, predicate)
		}
	}

	// Grounded actions widen the vocabulary beyond what was observed; a
	// broken grounder must not block the rebuild.
	space, err := s.actionSpaces.Ground(ctx, bundleDir)
	if err != nil {
		s.logger.Printf("grounding unavailable for %s: %v", name, err)
		return nil
	}
	for _, action := range space {
		addToken(actionTokens, action)
	}

	return nil
}

// Tokens returns the stored dictionaries of a domain in id order, so
// 'advgen dict show' prints exactly the encoding the datasets use.
func (s *DictionaryService) Tokens(ctx context.Context, domain string) ([]string, []string, error) {
	actions, err := s.dictionaries.Load(ctx, domain, secondary.DictionaryActions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load action dictionary: %w", err)
	}
	goals, err := s.dictionaries.Load(ctx, domain, secondary.DictionaryGoals)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load goal dictionary: %w", err)
	}
	if len(actions) == 0 || len(goals) == 0 {
		return nil, nil, fmt.Errorf("dictionaries for %s not built, run 'advgen dict rebuild' first", domain)
	}

	return codec.NewDictionary(actions).Tokens(), codec.NewDictionary(goals).Tokens(), nil
}

func addToken(set map[string]struct{}, token string) {
	if normalized := codec.NormalizeToken(token); normalized != "" {
		set[normalized] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ensure DictionaryService implements the interface
var _ primary.DictionaryService = (*DictionaryService)(nil)
