package sim

import "math/rand"

// crowdEmpty marks a CrowdMap cell as unoccupied.
const crowdEmpty = -1

// CrowdMap tracks which individual (by index) occupies each cell at any
// instant. Invariant: at most one individual per cell.
type CrowdMap struct {
	rows, cols int
	occupant   []int // crowdEmpty, or an index into Scenario.individuals
}

// NewCrowdMap allocates an all-empty occupancy grid shaped rows×cols.
func NewCrowdMap(rows, cols int) *CrowdMap {
	occ := make([]int, rows*cols)
	for i := range occ {
		occ[i] = crowdEmpty
	}
	return &CrowdMap{rows: rows, cols: cols, occupant: occ}
}

func (cm *CrowdMap) index(r, c int) int { return r*cm.cols + c }

// IsEmpty reports whether (r, c) is in-bounds and unoccupied.
func (cm *CrowdMap) IsEmpty(r, c int) bool {
	if r < 0 || r >= cm.rows || c < 0 || c >= cm.cols {
		return false
	}
	return cm.occupant[cm.index(r, c)] == crowdEmpty
}

// OccupantAt returns the individual index at (r, c), or crowdEmpty.
func (cm *CrowdMap) OccupantAt(r, c int) int {
	if r < 0 || r >= cm.rows || c < 0 || c >= cm.cols {
		return crowdEmpty
	}
	return cm.occupant[cm.index(r, c)]
}

// Place sets a single individual's starting cell. Fails with KindInvalidConfig
// (Overlap) if the cell is already occupied.
func (cm *CrowdMap) Place(idx, r, c int) error {
	if !cm.IsEmpty(r, c) {
		return newErr(KindInvalidConfig, "CrowdMap", "overlap placing individual %d at (%d,%d)", idx, r, c)
	}
	cm.occupant[cm.index(r, c)] = idx
	return nil
}

// PlaceRandom picks a uniformly random empty cell among candidates using the
// scenario RNG and places idx there. It
// fails with KindInvalidConfig if no empty candidate cell exists.
func (cm *CrowdMap) PlaceRandom(idx int, candidates [][2]int, rng *rand.Rand) error {
	var empties [][2]int
	for _, rc := range candidates {
		if cm.IsEmpty(rc[0], rc[1]) {
			empties = append(empties, rc)
		}
	}
	if len(empties) == 0 {
		return newErr(KindInvalidConfig, "CrowdMap", "no empty cell available for individual %d", idx)
	}
	pick := empties[rng.Intn(len(empties))] // #nosec G404 -- scenario RNG, not a security context
	cm.occupant[cm.index(pick[0], pick[1])] = idx
	return nil
}

// Move atomically relocates an individual from one cell to another. Callers
// must have already verified the destination is allowed (structure +
// crowd); Move itself just updates the two grid cells.
func (cm *CrowdMap) Move(idx, fromR, fromC, toR, toC int) {
	if cm.inBounds(fromR, fromC) {
		cm.occupant[cm.index(fromR, fromC)] = crowdEmpty
	}
	if cm.inBounds(toR, toC) {
		cm.occupant[cm.index(toR, toC)] = idx
	}
}

func (cm *CrowdMap) inBounds(r, c int) bool {
	return r >= 0 && r < cm.rows && c >= 0 && c < cm.cols
}
