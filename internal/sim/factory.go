package sim

import (
	"math"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Evaluator is the capability NSGA-II and the brute-force engine depend
// on: decode a gene into a Chromosome, or evaluate a gene into Objectives.
// Neither driver ever reaches into Simulator/Scenario directly.
type Evaluator interface {
	Create(gene Gene) (*Chromosome, error)
	Evaluate(gene Gene) (Objectives, error)
}

// Instance is the immutable experiment configuration plus the derived
// candidate DoorSlots, the shared Cache, and the instance hash used to
// invalidate it. There is no module-level mutable state: an Instance owns
// everything an evaluation touches.
type Instance struct {
	baseMap        *StructureMap
	slots          []DoorSlot
	individuals    []IndividualType
	scenarioSeeds  []int64
	simulationSeed int64
	maxIterations  int
	threeObjective bool

	cache *Cache
	log   zerolog.Logger

	simCalls atomic.Int64 // evaluation counter, exposed via SimCallCount for tests
}

// NewInstance derives candidate doors from mapText and builds the initial
// Cache keyed by this config's hash.
func NewInstance(mapText string, individuals []IndividualType, scenarioSeeds []int64, simulationSeed int64, maxIterations int, threeObjective bool, log zerolog.Logger) (*Instance, error) {
	base, err := LoadStructureMap(mapText)
	if err != nil {
		return nil, err
	}
	if len(scenarioSeeds) == 0 {
		return nil, newErr(KindInvalidConfig, "Instance", "at least one scenario_seed is required")
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	slots := DiscoverDoorSlots(base)
	// Hash the canonical re-rendered text, not the raw input: refreshHash
	// re-renders too, so a trailing newline in mapText must not read as a
	// config change on the first lookup.
	h, err := instanceHash(hashableConfig{
		MapText: base.Text(), Individuals: individuals, ScenarioSeeds: scenarioSeeds,
		SimulationSeed: simulationSeed, UseThreeObjective: threeObjective, MaxIterations: maxIterations,
	})
	if err != nil {
		return nil, newErr(KindInvalidConfig, "Instance", "hashing config: %v", err)
	}

	return &Instance{
		baseMap: base, slots: slots, individuals: individuals,
		scenarioSeeds: scenarioSeeds, simulationSeed: simulationSeed,
		maxIterations: maxIterations, threeObjective: threeObjective,
		cache: newCache(h), log: log,
	}, nil
}

// NumDoors returns N, the gene length (number of candidate DoorSlots).
func (in *Instance) NumDoors() int { return len(in.slots) }

// Slots returns the candidate DoorSlots, in discovery order.
func (in *Instance) Slots() []DoorSlot { return in.slots }

// SimCallCount reports how many times RunSimulation has actually executed,
// as opposed to been served from Cache.
func (in *Instance) SimCallCount() int64 { return in.simCalls.Load() }

// refreshHash recomputes the instance hash and drops the cache if the
// config changed since the last call.
func (in *Instance) refreshHash() error {
	h, err := instanceHash(hashableConfig{
		MapText: in.baseMap.Text(), Individuals: in.individuals, ScenarioSeeds: in.scenarioSeeds,
		SimulationSeed: in.simulationSeed, UseThreeObjective: in.threeObjective, MaxIterations: in.maxIterations,
	})
	if err != nil {
		return newErr(KindInvalidConfig, "Instance", "hashing config: %v", err)
	}
	in.cache.invalidateIfChanged(h)
	return nil
}

// decode popcounts the gene; zero doors is the no-doors non-error worst
// case; otherwise iterations/distance are averaged across every configured
// scenario seed, through the coalesced Cache.
func (in *Instance) decode(gene Gene) (cacheEntry, error) {
	if err := in.refreshHash(); err != nil {
		return cacheEntry{}, err
	}

	numDoors := gene.PopCount()
	if numDoors == 0 {
		return cacheEntry{NumDoors: 0, Iterations: float64(in.maxIterations), Distance: 0}, nil
	}

	return in.cache.getOrCompute(gene.key(), func() (cacheEntry, error) {
		builder := NewMapBuilder(in.baseMap, in.slots)
		structure := builder.Build(gene)

		var sumIter, sumDist float64
		for _, scenarioSeed := range in.scenarioSeeds {
			sc, err := BuildScenario(structure, in.individuals, Seeds{ScenarioSeed: scenarioSeed, SimulationSeed: in.simulationSeed}, nil)
			if err != nil {
				return cacheEntry{}, err
			}
			in.simCalls.Add(1)
			res := RunSimulation(sc, in.simulationSeed, in.maxIterations)
			sumIter += float64(res.Iterations)
			sumDist += res.TotalDistance
		}
		n := float64(len(in.scenarioSeeds))
		entry := cacheEntry{NumDoors: numDoors, Iterations: sumIter / n, Distance: sumDist / n}
		in.log.Debug().Str("gene", gene.key()).Int("num_doors", numDoors).
			Float64("iterations", entry.Iterations).Float64("distance", entry.Distance).Msg("evaluated gene")
		return entry, nil
	})
}

// worstDistance saturates the distance objective for a door-less layout.
// The recorded travel for that layout really is 0 (nobody moves), but as a
// minimized objective a 0 would dominate every real configuration, so the
// drivers see the evacuation-failure case as worst instead. Kept finite so
// result records stay JSON-encodable.
const worstDistance = math.MaxFloat64

// objectives converts a decoded entry into the mode-appropriate Objectives
// vector.
func (in *Instance) objectives(e cacheEntry) Objectives {
	dist := e.Distance
	if e.NumDoors == 0 {
		dist = worstDistance
	}
	if in.threeObjective {
		return Objectives{float64(e.NumDoors), e.Iterations, dist}
	}
	return Objectives{float64(e.NumDoors), dist}
}

// Decode exposes the evaluation triple for a gene: active door count, mean
// iteration count, and mean total travel distance. Results come from the
// same Cache the drivers share, so calling it on an already-searched gene
// is free.
func (in *Instance) Decode(gene Gene) (numDoors int, iterations, distance float64, err error) {
	e, err := in.decode(gene)
	if err != nil {
		return 0, 0, 0, err
	}
	return e.NumDoors, e.Iterations, e.Distance, nil
}

// Create implements Evaluator.
func (in *Instance) Create(gene Gene) (*Chromosome, error) {
	obj, err := in.Evaluate(gene)
	if err != nil {
		return nil, err
	}
	return &Chromosome{Gene: gene.clone(), Obj: obj, evaluated: true}, nil
}

// Evaluate implements Evaluator.
func (in *Instance) Evaluate(gene Gene) (Objectives, error) {
	e, err := in.decode(gene)
	if err != nil {
		return nil, err
	}
	return in.objectives(e), nil
}
