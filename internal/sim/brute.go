package sim

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// BruteForce enumerates every possible door configuration for a gene space
// and extracts the Pareto-optimal front by pairwise dominance. Unlike
// NSGA2, it visits the full 2^N search space exhaustively —
// appropriate only for small N.
type BruteForce struct {
	eval     Evaluator
	numGenes int
}

// NewBruteForce constructs the brute-force driver. numGenes above MaxDoors
// is rejected immediately rather than left to exhaust memory.
func NewBruteForce(eval Evaluator, numGenes int) (*BruteForce, error) {
	if numGenes < 0 {
		return nil, newErr(KindInvalidConfig, "BruteForce", "gene length must be non-negative, got %d", numGenes)
	}
	if numGenes > MaxDoors {
		return nil, newErr(KindTooLarge, "BruteForce", "gene length %d exceeds brute-force ceiling %d", numGenes, MaxDoors)
	}
	return &BruteForce{eval: eval, numGenes: numGenes}, nil
}

// Run evaluates all 2^N gene vectors against a background context and
// returns the Pareto front, sorted by (num_doors asc, distance asc) for
// stable, reproducible output.
func (b *BruteForce) Run() ([]*Chromosome, error) {
	return b.RunContext(context.Background())
}

// RunContext is Run with an external cancellation token. Once
// ctx is done, no further gene evaluations are launched; the Pareto front
// is computed over whatever subset has already completed.
// Independent evaluations fan out through an errgroup bounded by
// evalConcurrency, with the shared Evaluator's Cache coalescing duplicate
// genes across goroutines.
func (b *BruteForce) RunContext(ctx context.Context) ([]*Chromosome, error) {
	total := 1 << uint(b.numGenes)
	all := make([]*Chromosome, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(evalConcurrency())
	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			gene := intToGene(i, b.numGenes)
			c, err := b.eval.Create(gene)
			if err != nil {
				return err
			}
			all[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var completed []*Chromosome
	for _, c := range all {
		if c != nil {
			completed = append(completed, c)
		}
	}

	front := paretoFront(completed)
	sort.Slice(front, func(i, j int) bool {
		if front[i].Obj[0] != front[j].Obj[0] {
			return front[i].Obj[0] < front[j].Obj[0]
		}
		return front[i].Obj[len(front[i].Obj)-1] < front[j].Obj[len(front[j].Obj)-1]
	})
	return front, nil
}

// intToGene expands i into an n-bit Gene, bit b of i selecting door slot b.
func intToGene(i, n int) Gene {
	g := make(Gene, n)
	for b := 0; b < n; b++ {
		g[b] = i&(1<<uint(b)) != 0
	}
	return g
}

// paretoFront extracts the non-dominated subset of cs by pairwise
// comparison: simple O(n²) scan, adequate since brute force
// is already bounded by MaxDoors.
func paretoFront(cs []*Chromosome) []*Chromosome {
	var front []*Chromosome
	for i, c := range cs {
		dominated := false
		for j, other := range cs {
			if i == j {
				continue
			}
			if other.Obj.dominates(c.Obj) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, c)
		}
	}
	return front
}
