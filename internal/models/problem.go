// Package models contains the domain entities shared across services and
// adapters.
package models

// Problem is one goal-recognition problem bundle: an initial state, the
// observed action sequence, the declared real goal, and the candidate goal
// hypotheses (exactly one of which equals the real goal). Immutable once
// read from its archive.
type Problem struct {
	Name         string
	InitState    []string
	Observations []string
	RealGoal     []string
	Hypotheses   [][]string
}

// DatasetRecord is the per-problem output of the aggregator. Observation
// and mask sequences are parallel; goals are one-hot encoded against the
// domain's goal dictionary so all goals share a uniform vector width.
type DatasetRecord struct {
	InitState    []int   `json:"init_state"`
	Observations []int   `json:"obs"`
	Mask         []int   `json:"mask"`
	RealGoal     []int   `json:"real_goal"`
	Goals        [][]int `json:"goals"`
}

// AttackStats summarizes mutation outcomes over all successfully processed
// problems of one (hole percentage, attack percentage) configuration. The
// realized percentage is a random variable, not exactly the requested one.
type AttackStats struct {
	Histogram         map[int]int `json:"histogram"`
	TotalObservations int         `json:"total_observations"`
	TotalAttacks      int         `json:"total_attacks"`
	RequestedPerc     int         `json:"requested_perc"`
	RealizedPerc      float64     `json:"realized_perc"`
}

// Realized returns the realized attack percentage for the given counters.
func Realized(totalAttacks, totalObservations int) float64 {
	if totalObservations == 0 {
		return 0
	}
	return float64(totalAttacks) / float64(totalObservations) * 100
}
