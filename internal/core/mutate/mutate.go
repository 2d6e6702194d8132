// Package mutate contains the pure adversarial perturbation logic.
// Mutation is a pure function of its inputs plus the generator's stream
// position, so a fixed seed and processing order replay exactly.
package mutate

import (
	"errors"
	"math/rand"
)

// ErrInvalidProblem indicates the grounded action space is empty, which
// makes the problem unusable for perturbation.
var ErrInvalidProblem = errors.New("empty action space")

// Mask values for the provenance sequence.
const (
	MaskOriginal = 0
	MaskModified = 1
)

// Mutate perturbs an observation sequence. For each position it draws a
// Bernoulli trial with probability attackPercentage/100 on rng; on success
// the action is replaced by one drawn uniformly from the action space minus
// the original action, and the mask records 1. Length is always preserved:
// substitution only, no insertion or deletion.
//
// A position whose only valid action is the original itself is left
// untouched with mask 0 even when the trial succeeds; likewise when the
// action space has cardinality 1 there is never an alternative. The action
// space is expected to be deduplicated by the caller so the uniform draw is
// unbiased.
//
// Empty observations return empty sequences without error. An empty action
// space returns ErrInvalidProblem.
func Mutate(observations, actionSpace []string, attackPercentage int, rng *rand.Rand) ([]string, []int, error) {
	if len(actionSpace) == 0 {
		return nil, nil, ErrInvalidProblem
	}

	perturbed := make([]string, 0, len(observations))
	mask := make([]int, 0, len(observations))
	threshold := float64(attackPercentage) / 100

	for _, obs := range observations {
		attacked := rng.Float64() < threshold
		if !attacked || len(actionSpace) == 1 {
			perturbed = append(perturbed, obs)
			mask = append(mask, MaskOriginal)
			continue
		}

		candidates := alternatives(actionSpace, obs)
		if len(candidates) == 0 {
			// Documented edge case: no valid-but-wrong action exists.
			perturbed = append(perturbed, obs)
			mask = append(mask, MaskOriginal)
			continue
		}

		perturbed = append(perturbed, candidates[rng.Intn(len(candidates))])
		mask = append(mask, MaskModified)
	}

	return perturbed, mask, nil
}

// CountAttacks returns the number of substituted positions in a mask.
func CountAttacks(mask []int) int {
	n := 0
	for _, m := range mask {
		if m == MaskModified {
			n++
		}
	}
	return n
}

// alternatives returns the action space minus the original action.
func alternatives(actionSpace []string, original string) []string {
	out := make([]string, 0, len(actionSpace))
	for _, a := range actionSpace {
		if a != original {
			out = append(out, a)
		}
	}
	return out
}
