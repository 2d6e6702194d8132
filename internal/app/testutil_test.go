package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"testing"

	"github.com/example/advgen/internal/models"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fakeProblemSource serves problems from memory, keyed by hole percentage.
type fakeProblemSource struct {
	byHole   map[int][]string
	problems map[string]*models.Problem // key: "<hole>/<name>"
	loadErr  map[string]error
	listErr  error
}

func (f *fakeProblemSource) List(ctx context.Context, domain string, holePerc int) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	names, ok := f.byHole[holePerc]
	if !ok {
		return nil, fmt.Errorf("no corpus for hole %d: %w", holePerc, fs.ErrNotExist)
	}
	return names, nil
}

func (f *fakeProblemSource) Load(ctx context.Context, domain string, holePerc int, name, workDir string) (*models.Problem, error) {
	key := fmt.Sprintf("%d/%s", holePerc, name)
	if err := f.loadErr[key]; err != nil {
		return nil, err
	}
	problem, ok := f.problems[key]
	if !ok {
		return nil, fmt.Errorf("no such problem %s", key)
	}
	return problem, nil
}

// fakeGrounder returns a fixed action space, with optional per-call errors.
type fakeGrounder struct {
	space []string
	err   error
	calls int
	// errOnCall fails the n-th call (1-based) when set.
	errOnCall int
}

func (f *fakeGrounder) Ground(ctx context.Context, problemDir string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.errOnCall > 0 && f.calls == f.errOnCall {
		return nil, fmt.Errorf("grounder exploded")
	}
	return f.space, nil
}

// fakeDictRepo keeps dictionaries in memory.
type fakeDictRepo struct {
	data map[string]map[string]int // key: "<domain>/<kind>"
}

func newFakeDictRepo() *fakeDictRepo {
	return &fakeDictRepo{data: map[string]map[string]int{}}
}

func (f *fakeDictRepo) set(domain, kind string, tokens ...string) {
	mapping := map[string]int{}
	for i, t := range tokens {
		mapping[t] = i
	}
	f.data[domain+"/"+kind] = mapping
}

func (f *fakeDictRepo) Load(ctx context.Context, domain, kind string) (map[string]int, error) {
	mapping := f.data[domain+"/"+kind]
	if mapping == nil {
		return map[string]int{}, nil
	}
	return mapping, nil
}

func (f *fakeDictRepo) Replace(ctx context.Context, domain, kind string, tokens []string) error {
	mapping := map[string]int{}
	for i, t := range tokens {
		mapping[t] = i
	}
	f.data[domain+"/"+kind] = mapping
	return nil
}

// fakeResultStore captures what the service writes.
type fakeResultStore struct {
	records map[int]map[string]models.DatasetRecord
	stats   map[int]models.AttackStats
}

func (f *fakeResultStore) WriteRecords(domain string, attack int, byHole map[int]map[string]models.DatasetRecord) (string, error) {
	f.records = byHole
	return fmt.Sprintf("%s/%d_mask.json", domain, attack), nil
}

func (f *fakeResultStore) WriteStats(domain string, attack int, byHole map[int]models.AttackStats) (string, error) {
	f.stats = byHole
	return fmt.Sprintf("%s/%d_analysis.json", domain, attack), nil
}

// fakePIDStore keeps pid records in memory.
type fakePIDStore struct {
	pids map[string]int
}

func newFakePIDStore() *fakePIDStore {
	return &fakePIDStore{pids: map[string]int{}}
}

func (f *fakePIDStore) Write(shardID string, pid int) error {
	f.pids[shardID] = pid
	return nil
}

func (f *fakePIDStore) Read(shardID string) (int, bool, error) {
	pid, ok := f.pids[shardID]
	return pid, ok, nil
}

func (f *fakePIDStore) Remove(shardID string) error {
	delete(f.pids, shardID)
	return nil
}

// fakeController tracks liveness and termination requests.
type fakeController struct {
	alive      map[int]bool
	terminated []int
	termErr    error
}

func newFakeController(alivePids ...int) *fakeController {
	alive := map[int]bool{}
	for _, pid := range alivePids {
		alive[pid] = true
	}
	return &fakeController{alive: alive}
}

func (f *fakeController) Exists(pid int) bool {
	return f.alive[pid]
}

func (f *fakeController) Terminate(pid int) error {
	if f.termErr != nil {
		return f.termErr
	}
	f.terminated = append(f.terminated, pid)
	return nil
}

// fakeLauncher hands out sequential pids.
type fakeLauncher struct {
	nextPID  int
	launched []models.Shard
	err      error
}

func (f *fakeLauncher) Launch(shard models.Shard, logPath string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.launched = append(f.launched, shard)
	f.nextPID++
	return 1000 + f.nextPID, nil
}

// fakeWorkspaces records cleanup requests.
type fakeWorkspaces struct {
	cleaned []string
}

func (f *fakeWorkspaces) Create(shardID string) (string, error) {
	return "/tmp/fake/" + shardID, nil
}

func (f *fakeWorkspaces) Remove(dir string) error {
	return nil
}

func (f *fakeWorkspaces) CleanShard(shardID string) error {
	f.cleaned = append(f.cleaned, shardID)
	return nil
}

func requireCleaned(t *testing.T, w *fakeWorkspaces, shardID string) {
	t.Helper()
	for _, id := range w.cleaned {
		if id == shardID {
			return
		}
	}
	t.Errorf("workspaces of %s were not cleaned (cleaned: %v)", shardID, w.cleaned)
}
