package sim

// scenarioOptionKind controls the pass in which a ScenarioOption is
// applied: infrastructure options (map, seeds) always run before
// individual options, whatever order the caller lists them in.
type scenarioOptionKind int

const (
	scenarioOptInfra scenarioOptionKind = iota // map text, seeds — applied first
	scenarioOptIndividual                      // individual types — applied after
)

// ScenarioOption is a builder function applied while assembling a
// testScenarioBuilder, the deterministic construction path this package's
// tests use to build a whole Scenario instead of hand-wiring
// StructureMap/WallMap/StaticMap directly.
type ScenarioOption struct {
	kind scenarioOptionKind
	fn   func(*testScenarioBuilder)
}

type testScenarioBuilder struct {
	mapText        string
	individuals    []IndividualType
	explicitStarts []*[2]int
	seeds          Seeds
}

// WithMap sets the map text.
func WithMap(text string) ScenarioOption {
	return ScenarioOption{scenarioOptInfra, func(b *testScenarioBuilder) {
		b.mapText = text
	}}
}

// WithSeeds sets the scenario/simulation RNG seed pair.
func WithSeeds(scenarioSeed, simulationSeed int64) ScenarioOption {
	return ScenarioOption{scenarioOptInfra, func(b *testScenarioBuilder) {
		b.seeds = Seeds{ScenarioSeed: scenarioSeed, SimulationSeed: simulationSeed}
	}}
}

// WithIndividualType appends one individual-type row.
func WithIndividualType(t IndividualType) ScenarioOption {
	return ScenarioOption{scenarioOptIndividual, func(b *testScenarioBuilder) {
		b.individuals = append(b.individuals, t)
	}}
}

// WithExplicitStart pins the idx-th expanded individual (0-based, in
// row-major type/Amount expansion order) to (row, col) instead of letting
// BuildScenario place it randomly. Tests use this for exact placements the
// scenario RNG would not reliably reproduce.
func WithExplicitStart(idx, row, col int) ScenarioOption {
	return ScenarioOption{scenarioOptIndividual, func(b *testScenarioBuilder) {
		for len(b.explicitStarts) <= idx {
			b.explicitStarts = append(b.explicitStarts, nil)
		}
		pos := [2]int{row, col}
		b.explicitStarts[idx] = &pos
	}}
}

// NewTestScenario builds a Scenario from the given options, applying the
// infra pass (map, seeds) before the individual pass.
func NewTestScenario(opts ...ScenarioOption) (*Scenario, error) {
	b := &testScenarioBuilder{seeds: Seeds{ScenarioSeed: 1, SimulationSeed: 1}}
	for _, o := range opts {
		if o.kind == scenarioOptInfra {
			o.fn(b)
		}
	}
	for _, o := range opts {
		if o.kind == scenarioOptIndividual {
			o.fn(b)
		}
	}

	structure, err := LoadStructureMap(b.mapText)
	if err != nil {
		return nil, err
	}
	return BuildScenario(structure, b.individuals, b.seeds, b.explicitStarts)
}
