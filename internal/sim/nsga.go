package sim

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// NSGAConfig is the NSGA configuration input.
type NSGAConfig struct {
	PopulationSize     int
	Generations        int
	CrossoverRate      float64
	MutationRate       float64
	UseThreeObjectives bool
}

// validate rejects out-of-range rates and non-positive sizes.
func (c NSGAConfig) validate() error {
	if c.PopulationSize <= 0 {
		return newErr(KindInvalidConfig, "NSGA", "population_size must be positive, got %d", c.PopulationSize)
	}
	if c.Generations <= 0 {
		return newErr(KindInvalidConfig, "NSGA", "generations must be positive, got %d", c.Generations)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return newErr(KindInvalidConfig, "NSGA", "crossover_rate out of [0,1]: %v", c.CrossoverRate)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return newErr(KindInvalidConfig, "NSGA", "mutation_rate out of [0,1]: %v", c.MutationRate)
	}
	return nil
}

// bitFlipRate is the inner per-bit flip probability once an offspring has
// been selected for mutation at all (the outer gate is MutationRate).
const bitFlipRate = 0.1

// NSGA2 runs the door-subset NSGA-II variant against an Evaluator,
// returning the final generation's rank-0 (non-dominated) front. The driver
// never touches Simulator/Scenario directly — only eval.
type NSGA2 struct {
	eval     Evaluator
	numGenes int
	cfg      NSGAConfig
	rng      *rand.Rand
	cutIdx   int
	log      zerolog.Logger
}

// NewNSGA2 constructs a driver for a gene space of size numGenes. seed
// drives every stochastic NSGA-II decision (initial population, tournament
// draws, crossover trigger, mutation) — a stream independent of any
// Scenario's scenario_rng/simulation_rng.
func NewNSGA2(eval Evaluator, numGenes int, cfg NSGAConfig, seed int64, log zerolog.Logger) (*NSGA2, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if numGenes <= 0 {
		return nil, newErr(KindInvalidConfig, "NSGA", "gene length must be positive, got %d", numGenes)
	}
	return &NSGA2{
		eval: eval, numGenes: numGenes, cfg: cfg,
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404 -- deterministic driver RNG
		cutIdx: int(0.3 * float64(numGenes)),
		log:    log,
	}, nil
}

// Run executes Generations generations against a background context and
// returns the final front F1, sorted canonically by gene key so repeated
// runs with the same seed produce byte-identical output.
func (n *NSGA2) Run() ([]*Chromosome, error) {
	return n.RunContext(context.Background())
}

// RunContext is Run with an external cancellation token: on cancel, the
// best-known Pareto front so far is returned. Cancellation is checked once
// per generation boundary; a generation already in flight completes before
// the check. An honored cancellation is a successful partial result, not an
// error.
func (n *NSGA2) RunContext(ctx context.Context) ([]*Chromosome, error) {
	pop := n.initPopulation()
	if err := n.evaluateMissing(ctx, pop); err != nil {
		return nil, err
	}
	fronts := n.rankAndCrowd(pop)

	for gen := 1; gen <= n.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			n.log.Warn().Int("generation", gen-1).Msg("nsga2 cancelled, returning best-known front")
			return bestFront(fronts), nil
		}

		offspring, err := n.makeOffspring(ctx, pop, uint32(gen)) // #nosec G115 -- gen bounded by cfg.Generations
		if err != nil {
			return nil, err
		}
		union := append(append([]*Chromosome{}, pop...), offspring...)
		fronts = n.rankAndCrowd(union)
		pop = n.nextPopulation(fronts)
		n.log.Info().Int("generation", gen).Int("fronts", len(fronts)).Msg("nsga2 generation complete")
	}

	fronts = n.rankAndCrowd(pop)
	return bestFront(fronts), nil
}

// bestFront returns fronts[0] (rank-0, non-dominated) sorted canonically by
// gene key.
func bestFront(fronts [][]*Chromosome) []*Chromosome {
	front1 := append([]*Chromosome{}, fronts[0]...)
	sortChromosomesByGene(front1)
	return front1
}

func (n *NSGA2) initPopulation() []*Chromosome {
	pop := make([]*Chromosome, n.cfg.PopulationSize)
	for i := range pop {
		gene := make(Gene, n.numGenes)
		for b := range gene {
			gene[b] = n.rng.Float64() < 0.5 // #nosec G404
		}
		pop[i] = &Chromosome{Generation: 0, Gene: gene}
	}
	return pop
}

// evaluateMissing fans out every not-yet-evaluated chromosome's Evaluate
// call through an errgroup bounded by evalConcurrency; evaluations within a
// generation are independent, and the shared Evaluator's Cache coalesces
// identical genes across goroutines.
func (n *NSGA2) evaluateMissing(ctx context.Context, pop []*Chromosome) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(evalConcurrency())
	for _, c := range pop {
		if c.evaluated {
			continue
		}
		c := c
		g.Go(func() error {
			obj, err := n.eval.Evaluate(c.Gene)
			if err != nil {
				return err
			}
			c.Obj = obj
			c.evaluated = true
			return nil
		})
	}
	// A full generation's worth of genes is always evaluated to completion
	// once started: partially-evaluated chromosomes would violate
	// rankAndCrowd's assumption that every member has an Obj. Cancellation
	// is honored at generation boundaries instead (RunContext).
	return g.Wait()
}

// makeOffspring produces exactly PopulationSize offspring via repeated
// binary tournament selection, cut-point crossover, and bit-flip mutation.
func (n *NSGA2) makeOffspring(ctx context.Context, pop []*Chromosome, generation uint32) ([]*Chromosome, error) {
	offspring := make([]*Chromosome, 0, n.cfg.PopulationSize)
	for len(offspring) < n.cfg.PopulationSize {
		p1 := n.tournament(pop)
		p2 := n.tournament(pop)
		c1, c2 := n.crossover(p1, p2)
		n.mutate(c1)
		n.mutate(c2)
		c1.Generation, c2.Generation = generation, generation
		offspring = append(offspring, c1, c2)
	}
	offspring = offspring[:n.cfg.PopulationSize]
	if err := n.evaluateMissing(ctx, offspring); err != nil {
		return nil, err
	}
	return offspring, nil
}

// tournament picks the better of two uniformly-random population members by
// (rank asc, crowding desc).
func (n *NSGA2) tournament(pop []*Chromosome) *Chromosome {
	a := pop[n.rng.Intn(len(pop))] // #nosec G404
	b := pop[n.rng.Intn(len(pop))] // #nosec G404
	if betterThan(a, b) {
		return a
	}
	return b
}

func betterThan(a, b *Chromosome) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Crowding > b.Crowding
}

// crossover applies cut-point crossover at the fixed index n.cutIdx =
// floor(0.3·N) with probability CrossoverRate; otherwise both offspring are
// direct copies of their parents.
func (n *NSGA2) crossover(p1, p2 *Chromosome) (*Chromosome, *Chromosome) {
	g1, g2 := p1.Gene.clone(), p2.Gene.clone()
	if n.rng.Float64() < n.cfg.CrossoverRate { // #nosec G404
		for i := n.cutIdx; i < n.numGenes; i++ {
			g1[i], g2[i] = p2.Gene[i], p1.Gene[i]
		}
	}
	return &Chromosome{Gene: g1}, &Chromosome{Gene: g2}
}

// mutate applies the two-level gate: with probability MutationRate the
// offspring is mutated at all, in which case each bit flips independently
// with probability bitFlipRate.
func (n *NSGA2) mutate(c *Chromosome) {
	if n.rng.Float64() >= n.cfg.MutationRate { // #nosec G404
		return
	}
	for i := range c.Gene {
		if n.rng.Float64() < bitFlipRate { // #nosec G404
			c.Gene[i] = !c.Gene[i]
		}
	}
}

// rankAndCrowd runs fast non-dominated sort over pop, assigns Rank and
// Crowding in place, and returns the fronts in rank order.
func (n *NSGA2) rankAndCrowd(pop []*Chromosome) [][]*Chromosome {
	fronts := fastNonDominatedSort(pop)
	for rank, front := range fronts {
		assignCrowdingDistance(front)
		for _, c := range front {
			c.Rank = uint32(rank) // #nosec G115 -- bounded by population size
		}
	}
	return fronts
}

// nextPopulation builds the next generation: whole fronts while they fit,
// then the partial front sorted by crowding distance descending for the
// remainder. Population size is preserved exactly.
func (n *NSGA2) nextPopulation(fronts [][]*Chromosome) []*Chromosome {
	next := make([]*Chromosome, 0, n.cfg.PopulationSize)
	for _, front := range fronts {
		if len(next)+len(front) <= n.cfg.PopulationSize {
			next = append(next, front...)
			continue
		}
		remaining := n.cfg.PopulationSize - len(next)
		if remaining <= 0 {
			break
		}
		sorted := append([]*Chromosome{}, front...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Crowding > sorted[j].Crowding })
		next = append(next, sorted[:remaining]...)
		break
	}
	return next
}

// fastNonDominatedSort is the standard O(N²·m) non-dominated sort,
// deterministic tie handling by chromosome index within pop.
func fastNonDominatedSort(pop []*Chromosome) [][]*Chromosome {
	n := len(pop)
	dominatedBy := make([][]int, n)
	dominationCount := make([]int, n)
	rankZero := []int{}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if pop[i].Obj.dominates(pop[j].Obj) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if pop[j].Obj.dominates(pop[i].Obj) {
				dominationCount[i]++
			}
		}
		if dominationCount[i] == 0 {
			rankZero = append(rankZero, i)
		}
	}

	var fronts [][]int
	current := rankZero
	for len(current) > 0 {
		fronts = append(fronts, current)
		var next []int
		for _, i := range current {
			for _, j := range dominatedBy[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					next = append(next, j)
				}
			}
		}
		sort.Ints(next)
		current = next
	}

	out := make([][]*Chromosome, len(fronts))
	for fi, front := range fronts {
		out[fi] = make([]*Chromosome, len(front))
		for i, idx := range front {
			out[fi][i] = pop[idx]
		}
	}
	return out
}

// assignCrowdingDistance sets Crowding on every chromosome in front in
// place: boundary elements get +Inf; interior elements
// accumulate (obj[i+1]-obj[i-1])/(max-min) per objective, with 0/0 treated
// as 0.
func assignCrowdingDistance(front []*Chromosome) {
	for _, c := range front {
		c.Crowding = 0
	}
	if len(front) <= 2 {
		for _, c := range front {
			c.Crowding = math.Inf(1)
		}
		return
	}

	numObj := len(front[0].Obj)
	for m := 0; m < numObj; m++ {
		sorted := append([]*Chromosome{}, front...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Obj[m] < sorted[j].Obj[m] })

		sorted[0].Crowding = math.Inf(1)
		sorted[len(sorted)-1].Crowding = math.Inf(1)

		lo, hi := sorted[0].Obj[m], sorted[len(sorted)-1].Obj[m]
		span := hi - lo
		if span == 0 {
			continue // every contribution for this objective is 0/0 == 0
		}
		for i := 1; i < len(sorted)-1; i++ {
			if math.IsInf(sorted[i].Crowding, 1) {
				continue
			}
			sorted[i].Crowding += (sorted[i+1].Obj[m] - sorted[i-1].Obj[m]) / span
		}
	}
}

// sortChromosomesByGene sorts chromosomes by their canonical gene key, the
// deterministic output order used for the final front.
func sortChromosomesByGene(cs []*Chromosome) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Gene.key() < cs[j].Gene.key() })
}
