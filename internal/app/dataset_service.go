// Package app contains the application services that drive the adapters:
// dataset generation, dictionary rebuilds and worker supervision.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/example/advgen/internal/codec"
	"github.com/example/advgen/internal/core/mutate"
	"github.com/example/advgen/internal/models"
	"github.com/example/advgen/internal/ports/primary"
	"github.com/example/advgen/internal/ports/secondary"
)

// progressInterval controls how often the shard logs problem progress.
const progressInterval = 25

// DatasetService runs the perturbation pipeline for one shard: every
// problem of every hole percentage is loaded, grounded, mutated, encoded
// and collected into the shard's result files.
type DatasetService struct {
	problems     secondary.ProblemSource
	actionSpaces secondary.ActionSpaceProvider
	dictionaries secondary.DictionaryRepository
	results      secondary.ResultStore
	logger       *log.Logger
}

// NewDatasetService creates a dataset service.
func NewDatasetService(
	problems secondary.ProblemSource,
	actionSpaces secondary.ActionSpaceProvider,
	dictionaries secondary.DictionaryRepository,
	results secondary.ResultStore,
	logger *log.Logger,
) *DatasetService {
	return &DatasetService{
		problems:     problems,
		actionSpaces: actionSpaces,
		dictionaries: dictionaries,
		results:      results,
		logger:       logger,
	}
}

// RunShard processes the whole shard. Problems that fail to load, ground
// or encode are logged and skipped; the shard only fails on errors that
// invalidate all of its output (missing dictionaries, unreadable corpus,
// unwritable results). The shard seed fully determines the mutation
// stream given the deterministic problem order.
func (s *DatasetService) RunShard(ctx context.Context, cfg models.AttackConfig, workDir string) (*primary.ShardResult, error) {
	domainCodec, err := s.loadCodec(ctx, cfg.Domain)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	holes := append([]int(nil), cfg.HolePercentages...)
	sort.Ints(holes)

	result := &primary.ShardResult{}
	byHoleRecords := map[int]map[string]models.DatasetRecord{}
	byHoleStats := map[int]models.AttackStats{}
	totalObservations, totalAttacks := 0, 0

	for _, hole := range holes {
		names, err := s.problems.List(ctx, cfg.Domain, hole)
		if errors.Is(err, fs.ErrNotExist) {
			// Not every domain carries every hole tier; the remaining
			// holes still produce output.
			s.logger.Printf("hole %d%%: no corpus directory, skipping", hole)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list problems for hole %d: %w", hole, err)
		}
		s.logger.Printf("hole %d%%: %d problems", hole, len(names))

		records := map[string]models.DatasetRecord{}
		histogram := map[int]int{}
		holeObservations, holeAttacks := 0, 0

		for i, name := range names {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("shard interrupted: %w", err)
			}

			record, attacks, observations, err := s.processProblem(ctx, cfg, hole, name, workDir, domainCodec, rng)
			if err != nil {
				s.logger.Printf("skipping %s (hole %d%%): %v", name, hole, err)
				result.ProblemsFailed++
				continue
			}

			// Records are keyed by problem name, so p01.zip and
			// p01.tar.bz2 in one hole directory would clobber each other.
			if _, dup := records[record.name]; dup {
				s.logger.Printf("skipping %s (hole %d%%): duplicate problem name %s", name, hole, record.name)
				result.ProblemsFailed++
				continue
			}

			records[record.name] = record.data
			histogram[attacks]++
			holeObservations += observations
			holeAttacks += attacks
			result.ProblemsOK++

			if (i+1)%progressInterval == 0 {
				s.logger.Printf("hole %d%%: %d/%d problems done", hole, i+1, len(names))
			}
		}

		byHoleRecords[hole] = records
		byHoleStats[hole] = models.AttackStats{
			Histogram:         histogram,
			TotalObservations: holeObservations,
			TotalAttacks:      holeAttacks,
			RequestedPerc:     cfg.AttackPercentage,
			RealizedPerc:      models.Realized(holeAttacks, holeObservations),
		}
		totalObservations += holeObservations
		totalAttacks += holeAttacks
	}

	result.RealizedPerc = models.Realized(totalAttacks, totalObservations)

	result.ResultsPath, err = s.results.WriteRecords(cfg.Domain, cfg.AttackPercentage, byHoleRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to write dataset records: %w", err)
	}
	result.StatsPath, err = s.results.WriteStats(cfg.Domain, cfg.AttackPercentage, byHoleStats)
	if err != nil {
		return nil, fmt.Errorf("failed to write attack stats: %w", err)
	}

	s.logger.Printf("shard done: %d ok, %d failed, realized %.2f%%",
		result.ProblemsOK, result.ProblemsFailed, result.RealizedPerc)

	return result, nil
}

// namedRecord pairs a dataset record with its problem name.
type namedRecord struct {
	name string
	data models.DatasetRecord
}

func (s *DatasetService) processProblem(
	ctx context.Context,
	cfg models.AttackConfig,
	hole int,
	name, workDir string,
	domainCodec *codec.Codec,
	rng *rand.Rand,
) (namedRecord, int, int, error) {
	problemDir := filepath.Join(workDir, fmt.Sprintf("%d-%s", hole, name))
	if err := os.MkdirAll(problemDir, 0755); err != nil {
		return namedRecord{}, 0, 0, fmt.Errorf("failed to create problem dir: %w", err)
	}
	defer os.RemoveAll(problemDir)

	problem, err := s.problems.Load(ctx, cfg.Domain, hole, name, problemDir)
	if err != nil {
		return namedRecord{}, 0, 0, err
	}

	actionSpace, err := s.actionSpaces.Ground(ctx, problemDir)
	if err != nil {
		return namedRecord{}, 0, 0, err
	}

	perturbed, mask, err := mutate.Mutate(problem.Observations, actionSpace, cfg.AttackPercentage, rng)
	if err != nil {
		return namedRecord{}, 0, 0, err
	}

	record, err := encodeRecord(domainCodec, problem, perturbed, mask)
	if err != nil {
		return namedRecord{}, 0, 0, err
	}

	return namedRecord{name: problem.Name, data: record}, mutate.CountAttacks(mask), len(mask), nil
}

// encodeRecord converts one perturbed problem into its integer form. Goals
// are one-hot against the goal dictionary; the initial state is projected
// onto the same vocabulary.
func encodeRecord(domainCodec *codec.Codec, problem *models.Problem, perturbed []string, mask []int) (models.DatasetRecord, error) {
	observations, err := domainCodec.EncodeActions(perturbed)
	if err != nil {
		return models.DatasetRecord{}, fmt.Errorf("failed to encode observations: %w", err)
	}

	realIDs, err := domainCodec.EncodeGoal(problem.RealGoal)
	if err != nil {
		return models.DatasetRecord{}, fmt.Errorf("failed to encode real goal: %w", err)
	}

	size := domainCodec.GoalSize()
	goals := make([][]int, 0, len(problem.Hypotheses))
	for _, hypothesis := range problem.Hypotheses {
		ids, err := domainCodec.EncodeGoal(hypothesis)
		if err != nil {
			return models.DatasetRecord{}, fmt.Errorf("failed to encode hypothesis: %w", err)
		}
		goals = append(goals, codec.OneHot(ids, size))
	}

	return models.DatasetRecord{
		InitState:    codec.OneHot(domainCodec.EncodeState(problem.InitState), size),
		Observations: observations,
		Mask:         mask,
		RealGoal:     codec.OneHot(realIDs, size),
		Goals:        goals,
	}, nil
}

// loadCodec builds the domain codec from the stored dictionaries. Empty
// dictionaries fail the shard up front.
func (s *DatasetService) loadCodec(ctx context.Context, domain string) (*codec.Codec, error) {
	actions, err := s.dictionaries.Load(ctx, domain, secondary.DictionaryActions)
	if err != nil {
		return nil, fmt.Errorf("failed to load action dictionary: %w", err)
	}
	goals, err := s.dictionaries.Load(ctx, domain, secondary.DictionaryGoals)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal dictionary: %w", err)
	}
	if len(actions) == 0 || len(goals) == 0 {
		return nil, fmt.Errorf("dictionaries for %s not built, run 'advgen dict rebuild' first", domain)
	}

	return codec.New(codec.NewDictionary(actions), codec.NewDictionary(goals)), nil
}

// Ensure DatasetService implements the interface
var _ primary.DatasetService = (*DatasetService)(nil)
