package sim

import (
	"math"
	"math/rand"
)

// Individual is one pedestrian agent. Position is cell coordinates
// (row, col); the K-weights parameterize the movement rule's attraction
// formula.
type Individual struct {
	Label string
	Row   int
	Col   int
	Speed int // sub-steps attempted per simulator iteration, ≥ 1

	KD, KS, KW, KI float64

	Evacuated bool
	Steps     uint32
	Distance  float64

	idx        int // this individual's slot, used as the CrowdMap occupant id
	lastDR     int // direction of the last accepted move, for inertia(c)
	lastDC     int
	hasLastDir bool
}

// fieldView bundles the five per-scenario maps an Individual reads when
// evaluating candidate cells, keeping Individual itself free of Scenario's
// broader bookkeeping.
type fieldView struct {
	structure *StructureMap
	wall      *WallMap
	static    *StaticMap
	dynamic   *DynamicMap
	crowd     *CrowdMap
}

// candidate is one neighbor (or the current cell) considered for a move.
type candidate struct {
	r, c       int
	dr, dc     int
	attraction float64
}

// attraction computes A(c) = KS·staticField(c) − KW·wallField(c) −
// KD·dynamicField(c) + KI·inertia(c) for a candidate offset.
// StaticMap stores distance-to-door (lower is better), so the attraction
// term uses its negation: moving to a cell closer to a door increases A(c).
func (ind *Individual) attraction(fv fieldView, r, c, dr, dc int) float64 {
	a := ind.KS*(-fv.static.At(r, c)) - ind.KW*fv.wall.At(r, c) - ind.KD*fv.dynamic.At(r, c)
	if ind.hasLastDir && dr == ind.lastDR && dc == ind.lastDC {
		a += ind.KI
	}
	return a
}

// allowedCandidates scans the fixed 8-neighborhood traversal order plus the
// current cell (always allowed to stay) and returns every cell the
// individual may move into this sub-step: in bounds, not WALL/OBJECT/VOID,
// and unoccupied in CrowdMap (except the current cell).
func (ind *Individual) allowedCandidates(fv fieldView) []candidate {
	out := make([]candidate, 0, 9)
	// "Stay" is always allowed.
	out = append(out, candidate{r: ind.Row, c: ind.Col, dr: 0, dc: 0,
		attraction: ind.attraction(fv, ind.Row, ind.Col, 0, 0)})

	for _, d := range eightNeighborhood {
		nr, nc := ind.Row+d[0], ind.Col+d[1]
		if !fv.structure.inBounds(nr, nc) {
			continue
		}
		if fv.structure.At(nr, nc).blocksField() {
			continue
		}
		if !fv.crowd.IsEmpty(nr, nc) {
			continue
		}
		out = append(out, candidate{r: nr, c: nc, dr: d[0], dc: d[1],
			attraction: ind.attraction(fv, nr, nc, d[0], d[1])})
	}
	return out
}

// choose performs softmax sampling over candidates: probability ∝
// exp(attraction), ties broken by traversal order. rng is
// the scenario's dedicated simulation RNG stream.
func choose(cands []candidate, rng *rand.Rand) candidate {
	if len(cands) == 1 {
		return cands[0]
	}
	weights := make([]float64, len(cands))
	total := 0.0
	maxA := cands[0].attraction
	for _, c := range cands {
		if c.attraction > maxA {
			maxA = c.attraction
		}
	}
	for i, c := range cands {
		// Subtract maxA before exponentiating: a numerically-stable softmax
		// that is mathematically identical to exp(A(c))/Σexp(A) at
		// softmaxTemperature == 1.
		w := math.Exp((c.attraction - maxA) / softmaxTemperature)
		weights[i] = w
		total += w
	}
	roll := rng.Float64() * total // #nosec G404 -- scenario/simulation RNG, not a security context
	acc := 0.0
	for i, w := range weights {
		acc += w
		if roll <= acc {
			return cands[i]
		}
	}
	return cands[len(cands)-1]
}
