package sim

import (
	"github.com/mitchellh/hashstructure/v2"
)

// hashableConfig is the subset of ExperimentConfig that determines cache
// validity: if any of it changes, every previously cached evaluation is
// stale.
type hashableConfig struct {
	MapText           string
	Individuals       []IndividualType
	ScenarioSeeds     []int64
	SimulationSeed    int64
	UseThreeObjective bool
	MaxIterations     int
}

// instanceHash computes a stable digest of the experiment configuration.
func instanceHash(cfg hashableConfig) (uint64, error) {
	return hashstructure.Hash(cfg, hashstructure.FormatV2, nil)
}
