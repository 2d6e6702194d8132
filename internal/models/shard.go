package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Shard identifies one unit of parallel work: a (domain, attack percentage)
// partition processed by exactly one worker process.
type Shard struct {
	Domain string
	Attack int
}

// ID returns the canonical shard identifier, e.g. "logistics-20".
func (s Shard) ID() string {
	return fmt.Sprintf("%s-%d", s.Domain, s.Attack)
}

// ParseShardID parses a canonical shard identifier back into a Shard.
// The attack percentage is everything after the last dash, so domain
// names containing dashes are allowed.
func ParseShardID(id string) (Shard, error) {
	idx := strings.LastIndex(id, "-")
	if idx <= 0 || idx == len(id)-1 {
		return Shard{}, fmt.Errorf("invalid shard id %q (want <domain>-<attack>)", id)
	}

	attack, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return Shard{}, fmt.Errorf("invalid attack percentage in shard id %q: %w", id, err)
	}

	return Shard{Domain: id[:idx], Attack: attack}, nil
}

// AttackConfig is the immutable per-shard configuration for dataset
// generation. One instance exists per shard; the seed fully determines
// the mutation stream.
type AttackConfig struct {
	Domain           string
	AttackPercentage int
	HolePercentages  []int
	Seed             int64
}

// Shard returns the shard this config belongs to.
func (c AttackConfig) Shard() Shard {
	return Shard{Domain: c.Domain, Attack: c.AttackPercentage}
}

// Supervisor-visible shard liveness states.
const (
	ShardRunning = "RUNNING"
	ShardStopped = "STOPPED"
)
