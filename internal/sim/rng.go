package sim

import "math/rand"

// Seeds bundles the two independent RNG streams a scenario run needs:
// the scenario stream drives environment construction (random individual
// placement, candidate resolution); the simulation stream drives
// per-step movement choices. The two streams MUST NOT be interleaved —
// each is a distinct *rand.Rand handle, passed by value/reference rather
// than relying on any package-level or thread-local generator.
type Seeds struct {
	ScenarioSeed   int64
	SimulationSeed int64
}

// newScenarioRNG returns a fresh generator seeded for environment
// construction.
func newScenarioRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404
}

// newSimulationRNG returns a fresh generator seeded for per-step movement
// choices, independent of the scenario RNG stream.
func newSimulationRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404
}
