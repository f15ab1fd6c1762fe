package sim

import "strings"

// StructureMap is the parsed, immutable R×C grid of terrain codes: the
// authoritative per-cell terrain representation for one scenario.
type StructureMap struct {
	rows  int
	cols  int
	cells []TerrainCode // row-major: index = row*cols + col
}

// LoadStructureMap parses a text grid: one row per newline-terminated line,
// one ASCII byte per cell. Rows of inconsistent width, or an
// empty file, fail with KindInvalidMap.
func LoadStructureMap(text string) (*StructureMap, error) {
	lines := splitMapLines(text)
	if len(lines) == 0 {
		return nil, newErr(KindInvalidMap, "StructureMap", "map text has no rows")
	}
	cols := len(lines[0])
	if cols == 0 {
		return nil, newErr(KindInvalidMap, "StructureMap", "row 0 is empty")
	}
	cells := make([]TerrainCode, len(lines)*cols)
	for r, line := range lines {
		if len(line) != cols {
			return nil, newErr(KindInvalidMap, "StructureMap",
				"row %d has width %d, want %d", r, len(line), cols)
		}
		for c := 0; c < cols; c++ {
			cells[r*cols+c] = terrainCodeFromByte(line[c])
		}
	}
	return &StructureMap{rows: len(lines), cols: cols, cells: cells}, nil
}

// splitMapLines splits map text into non-empty-file rows, tolerating a
// trailing newline and CRLF line endings. Any other carriage return stays in
// its row as an ordinary cell byte.
func splitMapLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Rows returns the number of grid rows.
func (m *StructureMap) Rows() int { return m.rows }

// Cols returns the number of grid columns.
func (m *StructureMap) Cols() int { return m.cols }

// inBounds reports whether (r, c) lies within the grid.
func (m *StructureMap) inBounds(r, c int) bool {
	return r >= 0 && r < m.rows && c >= 0 && c < m.cols
}

// At returns the terrain code at (r, c). Out-of-bounds cells read as
// TerrainVoid (defensive default, consistent with the unconditional
// treat-as-EMPTY/blocked fallback used by every derived map).
func (m *StructureMap) At(r, c int) TerrainCode {
	if !m.inBounds(r, c) {
		return TerrainVoid
	}
	return m.cells[r*m.cols+c]
}

// index converts (r, c) to the flat row-major index. Caller must have
// already validated inBounds.
func (m *StructureMap) index(r, c int) int { return r*m.cols + c }

// Text renders the grid back to the map-text format (inverse of LoadStructureMap).
func (m *StructureMap) Text() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < m.cols; c++ {
			b.WriteByte(terrainCodeToByte(m.cells[m.index(r, c)]))
		}
	}
	return b.String()
}

// clone returns a deep copy, used by MapBuilder so regeneration never
// mutates the caller's original StructureMap.
func (m *StructureMap) clone() *StructureMap {
	cp := make([]TerrainCode, len(m.cells))
	copy(cp, m.cells)
	return &StructureMap{rows: m.rows, cols: m.cols, cells: cp}
}
