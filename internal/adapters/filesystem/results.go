package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/advgen/internal/models"
	"github.com/example/advgen/internal/ports/secondary"
)

// ResultStore writes shard outputs as JSON under
// <root>/<domain>/<attack>_mask.json and <root>/<domain>/<attack>_analysis.json.
type ResultStore struct {
	root string
}

// NewResultStore creates a result store rooted at the results directory.
func NewResultStore(root string) *ResultStore {
	return &ResultStore{root: root}
}

// WriteRecords persists the per-problem dataset records keyed by hole
// percentage, returning the path written.
func (s *ResultStore) WriteRecords(domain string, attack int, byHole map[int]map[string]models.DatasetRecord) (string, error) {
	path := filepath.Join(s.root, domain, fmt.Sprintf("%d_mask.json", attack))
	if err := s.writeJSON(path, byHole); err != nil {
		return "", err
	}

	return path, nil
}

// WriteStats persists the attack statistics keyed by hole percentage,
// returning the path written.
func (s *ResultStore) WriteStats(domain string, attack int, byHole map[int]models.AttackStats) (string, error) {
	path := filepath.Join(s.root, domain, fmt.Sprintf("%d_analysis.json", attack))
	if err := s.writeJSON(path, byHole); err != nil {
		return "", err
	}

	return path, nil
}

func (s *ResultStore) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create results dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	return nil
}

// Ensure ResultStore implements the interface
var _ secondary.ResultStore = (*ResultStore)(nil)
