package app

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/example/advgen/internal/models"
	"github.com/example/advgen/internal/ports/secondary"
)

func testProblem(name string) *models.Problem {
	return &models.Problem{
		Name:         name,
		InitState:    []string{"on a b", "handempty"},
		Observations: []string{"unstack a b", "putdown a"},
		RealGoal:     []string{"on a b"},
		Hypotheses:   [][]string{{"on a b"}, {"ontable a"}},
	}
}

func datasetFixture() (*fakeProblemSource, *fakeGrounder, *fakeDictRepo, *fakeResultStore) {
	source := &fakeProblemSource{
		byHole: map[int][]string{
			10: {"p01.zip", "p02.zip"},
		},
		problems: map[string]*models.Problem{
			"10/p01.zip": testProblem("p01"),
			"10/p02.zip": testProblem("p02"),
		},
	}
	grounder := &fakeGrounder{
		space: []string{"UNSTACK A B", "PUTDOWN A", "PICKUP A", "STACK A B"},
	}
	dicts := newFakeDictRepo()
	dicts.set("blocksworld", secondary.DictionaryActions, "PICKUP A", "PUTDOWN A", "STACK A B", "UNSTACK A B")
	dicts.set("blocksworld", secondary.DictionaryGoals, "ON A B", "ONTABLE A")
	return source, grounder, dicts, &fakeResultStore{}
}

func testAttackConfig(attack int) models.AttackConfig {
	return models.AttackConfig{
		Domain:           "blocksworld",
		AttackPercentage: attack,
		HolePercentages:  []int{10},
		Seed:             42,
	}
}

func TestDatasetService_ZeroAttackKeepsObservations(t *testing.T) {
	source, grounder, dicts, results := datasetFixture()
	service := NewDatasetService(source, grounder, dicts, results, testLogger())

	result, err := service.RunShard(context.Background(), testAttackConfig(0), t.TempDir())
	if err != nil {
		t.Fatalf("RunShard failed: %v", err)
	}

	if result.ProblemsOK != 2 || result.ProblemsFailed != 0 {
		t.Errorf("counters = %d/%d, want 2/0", result.ProblemsOK, result.ProblemsFailed)
	}
	if result.RealizedPerc != 0 {
		t.Errorf("realized = %f, want 0", result.RealizedPerc)
	}

	record, ok := results.records[10]["p01"]
	if !ok {
		t.Fatal("record for p01 missing")
	}
	if !reflect.DeepEqual(record.Mask, []int{0, 0}) {
		t.Errorf("mask = %v, want all zeros", record.Mask)
	}
	// UNSTACK A B = 3, PUTDOWN A = 1 in sorted dictionary order.
	if !reflect.DeepEqual(record.Observations, []int{3, 1}) {
		t.Errorf("observations = %v, want [3 1]", record.Observations)
	}
	if !reflect.DeepEqual(record.RealGoal, []int{1, 0}) {
		t.Errorf("real goal = %v, want [1 0]", record.RealGoal)
	}
	if !reflect.DeepEqual(record.Goals, [][]int{{1, 0}, {0, 1}}) {
		t.Errorf("goals = %v", record.Goals)
	}
	// "handempty" is outside the goal vocabulary and projected away.
	if !reflect.DeepEqual(record.InitState, []int{1, 0}) {
		t.Errorf("init state = %v, want [1 0]", record.InitState)
	}

	stats := results.stats[10]
	if stats.TotalObservations != 4 || stats.TotalAttacks != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Histogram[0] != 2 {
		t.Errorf("histogram = %v, want two zero-attack problems", stats.Histogram)
	}
}

func TestDatasetService_FullAttackMutatesEverything(t *testing.T) {
	source, grounder, dicts, results := datasetFixture()
	service := NewDatasetService(source, grounder, dicts, results, testLogger())

	result, err := service.RunShard(context.Background(), testAttackConfig(100), t.TempDir())
	if err != nil {
		t.Fatalf("RunShard failed: %v", err)
	}

	if result.RealizedPerc != 100 {
		t.Errorf("realized = %f, want 100", result.RealizedPerc)
	}
	for name, record := range results.records[10] {
		if !reflect.DeepEqual(record.Mask, []int{1, 1}) {
			t.Errorf("%s mask = %v, want all ones", name, record.Mask)
		}
	}
	if results.stats[10].Histogram[2] != 2 {
		t.Errorf("histogram = %v", results.stats[10].Histogram)
	}
}

func TestDatasetService_Deterministic(t *testing.T) {
	run := func() map[int]map[string]models.DatasetRecord {
		source, grounder, dicts, results := datasetFixture()
		service := NewDatasetService(source, grounder, dicts, results, testLogger())
		if _, err := service.RunShard(context.Background(), testAttackConfig(50), t.TempDir()); err != nil {
			t.Fatalf("RunShard failed: %v", err)
		}
		return results.records
	}

	if !reflect.DeepEqual(run(), run()) {
		t.Error("same seed produced different datasets")
	}
}

func TestDatasetService_SkipsFailingProblems(t *testing.T) {
	source, grounder, dicts, results := datasetFixture()
	grounder.errOnCall = 1
	service := NewDatasetService(source, grounder, dicts, results, testLogger())

	result, err := service.RunShard(context.Background(), testAttackConfig(0), t.TempDir())
	if err != nil {
		t.Fatalf("RunShard failed: %v", err)
	}

	if result.ProblemsOK != 1 || result.ProblemsFailed != 1 {
		t.Errorf("counters = %d/%d, want 1/1", result.ProblemsOK, result.ProblemsFailed)
	}
	if len(results.records[10]) != 1 {
		t.Errorf("got %d records, want 1", len(results.records[10]))
	}
}

func TestDatasetService_LoadFailureIsSkipped(t *testing.T) {
	source, grounder, dicts, results := datasetFixture()
	source.loadErr = map[string]error{"10/p02.zip": fmt.Errorf("truncated archive")}
	service := NewDatasetService(source, grounder, dicts, results, testLogger())

	result, err := service.RunShard(context.Background(), testAttackConfig(0), t.TempDir())
	if err != nil {
		t.Fatalf("RunShard failed: %v", err)
	}
	if result.ProblemsOK != 1 || result.ProblemsFailed != 1 {
		t.Errorf("counters = %d/%d, want 1/1", result.ProblemsOK, result.ProblemsFailed)
	}
}

func TestDatasetService_MissingDictionariesFailShard(t *testing.T) {
	source, grounder, _, results := datasetFixture()
	service := NewDatasetService(source, grounder, newFakeDictRepo(), results, testLogger())

	if _, err := service.RunShard(context.Background(), testAttackConfig(0), t.TempDir()); err == nil {
		t.Fatal("expected error for unbuilt dictionaries")
	}
}

func TestDatasetService_MissingHoleDirectoryIsSkipped(t *testing.T) {
	source, grounder, dicts, results := datasetFixture()
	service := NewDatasetService(source, grounder, dicts, results, testLogger())

	cfg := testAttackConfig(0)
	cfg.HolePercentages = []int{10, 99}
	result, err := service.RunShard(context.Background(), cfg, t.TempDir())
	if err != nil {
		t.Fatalf("RunShard failed: %v", err)
	}

	if result.ProblemsOK != 2 || result.ProblemsFailed != 0 {
		t.Errorf("counters = %d/%d, want 2/0", result.ProblemsOK, result.ProblemsFailed)
	}
	if _, ok := results.records[10]; !ok {
		t.Error("records for hole 10 missing")
	}
	if _, ok := results.records[99]; ok {
		t.Error("records written for a hole with no corpus directory")
	}
}

func TestDatasetService_UnreadableCorpusFailsShard(t *testing.T) {
	source, grounder, dicts, results := datasetFixture()
	source.listErr = fmt.Errorf("permission denied")
	service := NewDatasetService(source, grounder, dicts, results, testLogger())

	if _, err := service.RunShard(context.Background(), testAttackConfig(0), t.TempDir()); err == nil {
		t.Fatal("expected error for unreadable corpus")
	}
}

func TestDatasetService_DuplicateProblemNameIsSkipped(t *testing.T) {
	source, grounder, dicts, results := datasetFixture()
	// Same problem packed in both archive formats resolves to one name.
	source.byHole[10] = []string{"p01.tar.bz2", "p01.zip"}
	source.problems["10/p01.tar.bz2"] = testProblem("p01")
	service := NewDatasetService(source, grounder, dicts, results, testLogger())

	result, err := service.RunShard(context.Background(), testAttackConfig(0), t.TempDir())
	if err != nil {
		t.Fatalf("RunShard failed: %v", err)
	}

	if result.ProblemsOK != 1 || result.ProblemsFailed != 1 {
		t.Errorf("counters = %d/%d, want 1/1", result.ProblemsOK, result.ProblemsFailed)
	}
	if len(results.records[10]) != 1 {
		t.Errorf("got %d records, want 1", len(results.records[10]))
	}
	if results.stats[10].TotalObservations != 2 {
		t.Errorf("duplicate bundle counted in stats: %+v", results.stats[10])
	}
}
