// Package config loads and persists the experiment configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the flat advgen configuration. One file drives the whole
// domain x attack-level grid; individual shards receive their slice of it.
type Config struct {
	Version           string   `json:"version"`
	Domains           []string `json:"domains"`
	AttackPercentages []int    `json:"attack_percentages"`
	HolePercentages   []int    `json:"hole_percentages"`
	DataDir           string   `json:"data_dir"`   // problem corpus: <data_dir>/<domain>/<hole>/*.zip|.tar.bz2
	StateDir          string   `json:"state_dir"`  // pids, logs, results, database
	TmpPrefix         string   `json:"tmp_prefix"` // base directory for shard workspaces
	RandomSeed        int64    `json:"random_seed"`
	GrounderCommand   []string `json:"grounder_command"` // argv prefix; domain and problem files are appended
}

// Default returns a configuration mirroring the reference experiment setup.
func Default() *Config {
	return &Config{
		Version:           "1",
		Domains:           []string{"blocksworld", "logistics", "driverlog", "satellite", "depots", "zenotravel"},
		AttackPercentages: []int{10, 20, 30},
		HolePercentages:   []int{10, 30, 50, 70, 100},
		DataDir:           "data",
		StateDir:          ".advgen",
		TmpPrefix:         filepath.Join(os.TempDir(), "advgen"),
		RandomSeed:        42,
		GrounderCommand:   []string{"fd-ground"},
	}
}

// Load reads .advgen/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ".advgen", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Save writes config.json to the .advgen directory under dir.
func Save(dir string, cfg *Config) error {
	stateDir := filepath.Join(dir, ".advgen")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create .advgen dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(stateDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// PIDDir returns the directory holding per-shard PID records.
func (c *Config) PIDDir() string {
	return filepath.Join(c.StateDir, "pids")
}

// LogDir returns the directory holding per-shard log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// ResultsDir returns the directory holding per-shard output files.
func (c *Config) ResultsDir() string {
	return filepath.Join(c.StateDir, "results")
}

// DBPath returns the sqlite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.StateDir, "advgen.db")
}

// ShardLogPath returns the well-known log path for a shard id.
func (c *Config) ShardLogPath(shardID string) string {
	return filepath.Join(c.LogDir(), shardID+".log")
}

// ShardSeed derives a shard's random seed from the base seed so parallel
// shards use disjoint, reproducible streams.
func (c *Config) ShardSeed(attack int) int64 {
	return c.RandomSeed + int64(attack)
}
