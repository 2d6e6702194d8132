//go:build ignore

// One-off importer for result files produced by the old per-hole layout,
// where each hole percentage had its own <attack>_mask.json under
// <data>/<domain>/<hole>/. The current layout keeps one file per shard
// with records nested under hole-percentage keys.
//
// Usage:
//
//	go run scripts/import_legacy_results.go -legacy old_results -out .advgen/results -domain blocksworld -attack 20
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

func main() {
	legacyDir := flag.String("legacy", "", "legacy results root (<root>/<domain>/<hole>/<attack>_mask.json)")
	outDir := flag.String("out", ".advgen/results", "new results root")
	domain := flag.String("domain", "", "domain to import")
	attack := flag.Int("attack", 0, "attack percentage to import")
	flag.Parse()

	if *legacyDir == "" || *domain == "" || *attack == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := importShard(*legacyDir, *outDir, *domain, *attack); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func importShard(legacyDir, outDir, domain string, attack int) error {
	domainDir := filepath.Join(legacyDir, domain)
	entries, err := os.ReadDir(domainDir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", domainDir, err)
	}

	merged := map[int]json.RawMessage{}
	var holes []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		hole, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		legacyFile := filepath.Join(domainDir, entry.Name(), fmt.Sprintf("%d_mask.json", attack))
		data, err := os.ReadFile(legacyFile)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", legacyFile, err)
		}
		if !json.Valid(data) {
			return fmt.Errorf("%s is not valid JSON", legacyFile)
		}

		merged[hole] = json.RawMessage(data)
		holes = append(holes, hole)
	}

	if len(merged) == 0 {
		return fmt.Errorf("no legacy files for %s attack %d", domain, attack)
	}
	sort.Ints(holes)
	fmt.Printf("importing %s attack %d: holes %v\n", domain, attack, holes)

	out := filepath.Join(outDir, domain, fmt.Sprintf("%d_mask.json", attack))
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal merged results: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("wrote %s\n", out)

	return nil
}
