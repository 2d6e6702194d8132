// Package cli contains the cobra commands of the advgen binary.
package cli

import (
	"fmt"

	"github.com/example/advgen/internal/config"
	"github.com/example/advgen/internal/models"
)

// resolveShards turns command arguments into shards. With all set, the
// whole domain x attack grid from the config is returned.
func resolveShards(cfg *config.Config, args []string, all bool) ([]models.Shard, error) {
	if all {
		var shards []models.Shard
		for _, domain := range cfg.Domains {
			for _, attack := range cfg.AttackPercentages {
				shards = append(shards, models.Shard{Domain: domain, Attack: attack})
			}
		}
		if len(shards) == 0 {
			return nil, fmt.Errorf("config defines no domains or attack percentages")
		}
		return shards, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("specify shard ids (<domain>-<attack>) or --all")
	}

	shards := make([]models.Shard, 0, len(args))
	for _, arg := range args {
		shard, err := models.ParseShardID(arg)
		if err != nil {
			return nil, err
		}
		shards = append(shards, shard)
	}

	return shards, nil
}
