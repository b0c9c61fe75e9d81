// Package heatmap accumulates visit density over an unbounded plane.
//
// Positions are bucketed into square cells of a fixed size using floor
// division, so negative coordinates land in negative cells. Storage is a
// sparse map: only visited cells cost memory.
package heatmap

import (
	"github.com/san-kum/entropywalk/internal/walk"
)

// Cell addresses one square of the grid.
type Cell struct {
	X int `json:"x" csv:"cell_x"`
	Y int `json:"y" csv:"cell_y"`
}

// Grid counts the destination cell of every recorded move.
type Grid struct {
	cellSize int
	counts   map[Cell]int
	total    int
}

func New(cellSize int) (*Grid, error) {
	if cellSize <= 0 {
		return nil, walk.InvalidConfig("cell_size", "must be positive, got %d", cellSize)
	}
	return &Grid{
		cellSize: cellSize,
		counts:   make(map[Cell]int),
	}, nil
}

func (g *Grid) CellSize() int { return g.cellSize }

// CellOf returns the cell containing p.
func (g *Grid) CellOf(p walk.Point) Cell {
	return Cell{X: floorDiv(p.X, g.cellSize), Y: floorDiv(p.Y, g.cellSize)}
}

// Record counts one visit to the cell containing p.
func (g *Grid) Record(p walk.Point) {
	g.counts[g.CellOf(p)]++
	g.total++
}

// DensityAt returns the visit count of c, zero if never visited.
func (g *Grid) DensityAt(c Cell) int {
	return g.counts[c]
}

// Total is the number of recorded visits.
func (g *Grid) Total() int { return g.total }

// Len is the number of visited cells.
func (g *Grid) Len() int { return len(g.counts) }

// Max returns the highest cell count, at least 1 so it can normalize.
func (g *Grid) Max() int {
	m := 1
	for _, c := range g.counts {
		if c > m {
			m = c
		}
	}
	return m
}

// Snapshot copies the grid. Later records do not show up in it.
func (g *Grid) Snapshot() Snapshot {
	counts := make(map[Cell]int, len(g.counts))
	for c, n := range g.counts {
		counts[c] = n
	}
	return Snapshot{cellSize: g.cellSize, counts: counts, total: g.total, peak: g.Max()}
}

func (g *Grid) Reset() {
	clear(g.counts)
	g.total = 0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
