package sim

import "container/heap"

// StaticMap is the floor field: the shortest weighted distance from each
// cell to the nearest active DOOR cell, obstructed by WALL/OBJECT/VOID
// terrain. It depends only on the active door subset and
// is recomputed whenever that subset changes.
type StaticMap struct {
	rows, cols int
	values     []float64
}

// fieldNode is a single entry in the multi-source Dijkstra frontier: no
// heuristic term, and every active DOOR cell is pushed as a seed up front,
// so the sweep yields distance-to-nearest-door everywhere at once.
type fieldNode struct {
	idx  int // row-major cell index, doubles as the deterministic tie-break key
	dist float64
}

type fieldHeap []fieldNode

func (h fieldHeap) Len() int { return len(h) }
func (h fieldHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	// Deterministic tie-break: row-major index order, independent of push
	// order, so repeated runs over the same door set always relax cells in
	// the same sequence.
	return h[i].idx < h[j].idx
}
func (h fieldHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *fieldHeap) Push(x any)        { *h = append(*h, x.(fieldNode)) }
func (h *fieldHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// NewStaticMap computes the floor field for the given StructureMap, whose
// DOOR cells define the seed set. Cells with WALL/OBJECT/VOID terrain are
// permanently blocked and carry the sWall sentinel. Every other reachable
// cell holds a strictly positive distance to the nearest DOOR using
// 8-connectivity, where diagonal steps cost distanceMultiplier and
// orthogonal steps cost 1. Unreachable non-blocked cells (isolated by walls
// from every door) retain the sWall sentinel as well, since they have no
// finite distance to report.
func NewStaticMap(m *StructureMap) *StaticMap {
	n := m.rows * m.cols
	values := make([]float64, n)
	visited := make([]bool, n)
	for i := range values {
		values[i] = sWall
	}

	h := &fieldHeap{}
	// Seed row-major so initial push order is deterministic; the heap's own
	// tie-break (by idx) makes this true regardless, but row-major seeding
	// keeps the construction itself legible.
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if m.At(r, c) == TerrainDoor {
				idx := m.index(r, c)
				values[idx] = 1.0
				heap.Push(h, fieldNode{idx: idx, dist: 1.0})
			}
		}
	}

	for h.Len() > 0 {
		cur := heap.Pop(h).(fieldNode)
		if visited[cur.idx] {
			continue
		}
		visited[cur.idx] = true
		cr, cc := cur.idx/m.cols, cur.idx%m.cols

		for _, d := range eightNeighborhood {
			nr, nc := cr+d[0], cc+d[1]
			if !m.inBounds(nr, nc) {
				continue
			}
			if m.At(nr, nc).blocksField() {
				continue
			}
			nIdx := m.index(nr, nc)
			if visited[nIdx] {
				continue
			}
			cand := cur.dist + stepCost(d[0], d[1])
			if values[nIdx] == sWall || cand < values[nIdx] {
				values[nIdx] = cand
				heap.Push(h, fieldNode{idx: nIdx, dist: cand})
			}
		}
	}

	return &StaticMap{rows: m.rows, cols: m.cols, values: values}
}

// At returns the floor-field value at (r, c): sWall if blocked or
// unreachable, otherwise the positive shortest distance to the nearest
// active door.
func (sm *StaticMap) At(r, c int) float64 {
	if r < 0 || r >= sm.rows || c < 0 || c >= sm.cols {
		return sWall
	}
	return sm.values[r*sm.cols+c]
}

// IsBlocked reports whether (r, c) carries the sWall sentinel.
func (sm *StaticMap) IsBlocked(r, c int) bool {
	return sm.At(r, c) == sWall
}
