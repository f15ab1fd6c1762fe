package sim

import "math/rand"

// IndividualType is one row of the individuals descriptor: amount
// individuals sharing a label, speed and K-weight profile. Optional Color
// is carried through purely for an external rendering hook and never read
// by the engine itself.
type IndividualType struct {
	Label  string
	Amount int
	Speed  int
	KS     float64
	KW     float64
	KD     float64
	KI     float64
	Color  *[3]uint8
}

// Scenario is the bundle of maps, individuals, and seeds that defines one
// simulation context. WallMap and StaticMap are
// fixed at Build time (they depend only on which doors are active); CrowdMap,
// DynamicMap, and every Individual's transient state are (re)initialized by
// Reset, called once per simulation run.
//
// A Scenario is owned exclusively by the caller that built it and must
// never be shared across goroutines/threads.
type Scenario struct {
	Structure *StructureMap
	Wall      *WallMap
	Static    *StaticMap
	Dynamic   *DynamicMap
	Crowd     *CrowdMap

	Individuals []Individual
	starts      [][2]int // each individual's scenario-determined start cell

	scenarioRNG *rand.Rand
	simRNG      *rand.Rand
}

// BuildScenario derives the fixed maps from structure, then places one
// Individual per (type, instance) using explicit positions when given or a
// uniformly random empty cell via the scenario RNG otherwise.
// explicitStarts, if non-nil, must have one entry per
// expanded individual (sum of Amount across types); a nil entry within the
// slice means "place randomly for this one".
func BuildScenario(structure *StructureMap, types []IndividualType, seeds Seeds, explicitStarts []*[2]int) (*Scenario, error) {
	sc := &Scenario{
		Structure:   structure,
		Wall:        NewWallMap(structure),
		Static:      NewStaticMap(structure),
		scenarioRNG: newScenarioRNG(seeds.ScenarioSeed),
	}

	var emptyCells [][2]int
	for r := 0; r < structure.Rows(); r++ {
		for c := 0; c < structure.Cols(); c++ {
			if !structure.At(r, c).blocksField() {
				emptyCells = append(emptyCells, [2]int{r, c})
			}
		}
	}

	crowd := NewCrowdMap(structure.Rows(), structure.Cols())
	var individuals []Individual
	var starts [][2]int

	idx := 0
	for _, t := range types {
		for n := 0; n < t.Amount; n++ {
			ind := Individual{
				Label: t.Label, Speed: maxInt(1, t.Speed),
				KS: t.KS, KW: t.KW, KD: t.KD, KI: t.KI,
				idx: idx,
			}
			var pos [2]int
			if idx < len(explicitStarts) && explicitStarts[idx] != nil {
				pos = *explicitStarts[idx]
				if err := crowd.Place(idx, pos[0], pos[1]); err != nil {
					return nil, err
				}
			} else {
				if err := crowd.PlaceRandom(idx, emptyCells, sc.scenarioRNG); err != nil {
					return nil, err
				}
				pos = findOccupant(crowd, idx)
			}
			ind.Row, ind.Col = pos[0], pos[1]
			individuals = append(individuals, ind)
			starts = append(starts, pos)
			idx++
		}
	}

	sc.Crowd = crowd
	sc.Dynamic = NewDynamicMap(structure.Rows(), structure.Cols())
	sc.Individuals = individuals
	sc.starts = starts
	return sc, nil
}

// findOccupant scans the crowd map for the cell holding idx. Used only right
// after PlaceRandom, where the search set is already narrowed to empties, so
// the linear scan cost is bounded by grid size once per individual at
// scenario-build time (not per simulator iteration).
func findOccupant(crowd *CrowdMap, idx int) [2]int {
	for r := 0; r < crowd.rows; r++ {
		for c := 0; c < crowd.cols; c++ {
			if crowd.occupant[crowd.index(r, c)] == idx {
				return [2]int{r, c}
			}
		}
	}
	return [2]int{0, 0}
}

// Reset reinitializes CrowdMap, DynamicMap, and every Individual's
// transient state back to the scenario's fixed starting layout, and seeds a
// fresh simulation RNG stream. Called once at the start of every Simulator
// run.
func (sc *Scenario) Reset(simulationSeed int64) {
	sc.Crowd = NewCrowdMap(sc.Structure.Rows(), sc.Structure.Cols())
	for i, pos := range sc.starts {
		sc.Crowd.occupant[sc.Crowd.index(pos[0], pos[1])] = i
	}
	sc.Dynamic = NewDynamicMap(sc.Structure.Rows(), sc.Structure.Cols())
	for i := range sc.Individuals {
		ind := &sc.Individuals[i]
		ind.Row, ind.Col = sc.starts[i][0], sc.starts[i][1]
		ind.Evacuated = false
		ind.Steps = 0
		ind.Distance = 0
		ind.hasLastDir = false
	}
	sc.simRNG = newSimulationRNG(simulationSeed)
}

func (sc *Scenario) fields() fieldView {
	return fieldView{structure: sc.Structure, wall: sc.Wall, static: sc.Static, dynamic: sc.Dynamic, crowd: sc.Crowd}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
