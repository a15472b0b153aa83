package particle

import (
	"cmp"
	"slices"
)

// grid buckets particle indices into square cells of the connect distance so
// edge search only visits neighbouring cells.
type grid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int
}

func newGrid(width, height, cellSize float64) *grid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}
	return &grid{cellSize: cellSize, cols: cols, rows: rows, cells: cells}
}

func (g *grid) clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *grid) cell(x, y float64) (col, row int) {
	col = int(x / g.cellSize)
	row = int(y / g.cellSize)
	col = min(max(col, 0), g.cols-1)
	row = min(max(row, 0), g.rows-1)
	return col, row
}

func (g *grid) insert(i int, x, y float64) {
	col, row := g.cell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// gridEdges finds the same pairs as the brute-force scan. Edges use plain
// Euclidean distance, so neighbour cells do not wrap.
func (f *Field) gridEdges(dst []Edge) []Edge {
	if f.grid == nil {
		f.grid = newGrid(f.width, f.height, f.cfg.ConnectDistance)
	}
	g := f.grid
	g.clear()
	for i := range f.particles {
		g.insert(i, f.particles[i].X, f.particles[i].Y)
	}

	start := len(dst)
	for i := range f.particles {
		col, row := g.cell(f.particles[i].X, f.particles[i].Y)
		for dr := -1; dr <= 1; dr++ {
			r := row + dr
			if r < 0 || r >= g.rows {
				continue
			}
			for dc := -1; dc <= 1; dc++ {
				c := col + dc
				if c < 0 || c >= g.cols {
					continue
				}
				for _, j := range g.cells[r*g.cols+c] {
					if j > i {
						dst = f.appendEdge(dst, i, j)
					}
				}
			}
		}
	}

	slices.SortFunc(dst[start:], func(a, b Edge) int {
		if c := cmp.Compare(a.I, b.I); c != 0 {
			return c
		}
		return cmp.Compare(a.J, b.J)
	})
	return dst
}
