package sim

import (
	"math/rand"
	"sort"
)

// State is the Simulator's lifecycle state.
type State int

const (
	StateInit State = iota
	StateRunning
	StateDone   // all individuals evacuated
	StateCapped // iteration reached MaxIterations
)

// SimResult is what one simulation run reports back to the Factory.
type SimResult struct {
	Iterations     uint32
	TotalDistance  float64
	EvacuatedCount uint32
	FinalState     State
}

// RunSimulation resets sc for a fresh run seeded by simulationSeed, then
// executes the cellular-automaton loop until every individual has evacuated
// or the iteration count reaches maxIterations. Reaching the
// cap is not an error: the result is returned as-is (KindCancelled/etc. are
// for external interruption only, not the cap itself).
func RunSimulation(sc *Scenario, simulationSeed int64, maxIterations int) SimResult {
	sc.Reset(simulationSeed)

	state := StateInit
	iteration := 0
	for {
		if allEvacuated(sc.Individuals) {
			state = StateDone
			break
		}
		if iteration >= maxIterations {
			state = StateCapped
			break
		}
		state = StateRunning
		stepOnce(sc)
		iteration++
	}

	return collectResult(sc, iteration, state)
}

// stepOnce executes exactly one simulator iteration: dynamic-field
// decay+diffuse, then a deterministic movement pass, then trail deposit at
// each individual's pre-iteration position.
func stepOnce(sc *Scenario) {
	sc.Dynamic.Step() // (1) decay + diffuse

	order := movementOrder(sc) // (2)
	priorPos := make([][2]int, len(sc.Individuals))
	for _, i := range order {
		priorPos[i] = [2]int{sc.Individuals[i].Row, sc.Individuals[i].Col}
	}

	fv := sc.fields()
	for _, i := range order { // (3) each individual moves up to speed sub-steps
		ind := &sc.Individuals[i]
		if ind.Evacuated {
			continue
		}
		moveOneIteration(ind, fv, sc.simRNG)
	}

	for _, i := range order { // (4) deposit at prior (pre-iteration) positions
		sc.Dynamic.Deposit(priorPos[i][0], priorPos[i][1])
	}
	// (5) advance iteration — done by the caller's loop counter.
}

// movementOrder sorts every individual index ascending by
// StaticMap value at their current cell (closer to an exit moves first),
// ties broken by individual index.
// Already-evacuated individuals are included (skipped by callers) so index
// bookkeeping stays stable; only their relative order among themselves
// matters not at all since they're inert.
func movementOrder(sc *Scenario) []int {
	order := make([]int, len(sc.Individuals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		sa := sc.Static.At(sc.Individuals[ia].Row, sc.Individuals[ia].Col)
		sb := sc.Static.At(sc.Individuals[ib].Row, sc.Individuals[ib].Col)
		if sa != sb {
			return sa < sb
		}
		return ia < ib
	})
	return order
}

// moveOneIteration advances a single individual through up to ind.Speed
// sub-steps, recomputing direction (via softmax choice over allowed
// candidates) at each sub-step, accumulating distance, and stopping early
// the moment it steps onto a DOOR cell.
func moveOneIteration(ind *Individual, fv fieldView, rng *rand.Rand) {
	for step := 0; step < ind.Speed; step++ {
		cands := ind.allowedCandidates(fv)
		pick := choose(cands, rng)

		if pick.dr != 0 || pick.dc != 0 {
			fv.crowd.Move(ind.idx, ind.Row, ind.Col, pick.r, pick.c)
			ind.Row, ind.Col = pick.r, pick.c
			ind.Distance += stepCost(pick.dr, pick.dc)
			ind.Steps++
			ind.lastDR, ind.lastDC, ind.hasLastDir = pick.dr, pick.dc, true
		}

		if fv.structure.At(ind.Row, ind.Col) == TerrainDoor {
			ind.Evacuated = true
			return
		}
	}
}

func allEvacuated(individuals []Individual) bool {
	for i := range individuals {
		if !individuals[i].Evacuated {
			return false
		}
	}
	return true
}

func collectResult(sc *Scenario, iterations int, state State) SimResult {
	var totalDist float64
	var evacuated uint32
	for i := range sc.Individuals {
		totalDist += sc.Individuals[i].Distance
		if sc.Individuals[i].Evacuated {
			evacuated++
		}
	}
	return SimResult{
		Iterations:     uint32(iterations), // #nosec G115 -- bounded by maxIterations, a small configured cap
		TotalDistance:  totalDist,
		EvacuatedCount: evacuated,
		FinalState:     state,
	}
}
