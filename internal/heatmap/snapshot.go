package heatmap

import (
	"sort"

	"github.com/san-kum/entropywalk/internal/walk"
)

// Snapshot is a read-only copy of a Grid.
type Snapshot struct {
	cellSize int
	counts   map[Cell]int
	total    int
	peak     int
}

// CellCount pairs a cell with its visit count.
type CellCount struct {
	Cell
	Count int `json:"count" csv:"count"`
}

func (s Snapshot) CellSize() int { return s.cellSize }
func (s Snapshot) Len() int      { return len(s.counts) }
func (s Snapshot) Total() int    { return s.total }

func (s Snapshot) At(c Cell) int { return s.counts[c] }

// Max returns the highest cell count, at least 1.
func (s Snapshot) Max() int { return max(s.peak, 1) }

// Normalized returns the density of c relative to the busiest cell.
func (s Snapshot) Normalized(c Cell) float64 {
	return float64(s.counts[c]) / float64(s.Max())
}

// Cells lists visited cells ordered by row, then column.
func (s Snapshot) Cells() []CellCount {
	out := make([]CellCount, 0, len(s.counts))
	for c, n := range s.counts {
		out = append(out, CellCount{Cell: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Bounds returns the smallest and largest visited cell coordinates. ok is
// false for an empty snapshot.
func (s Snapshot) Bounds() (lo, hi Cell, ok bool) {
	for c := range s.counts {
		if !ok {
			lo, hi, ok = c, c, true
			continue
		}
		lo.X, lo.Y = min(lo.X, c.X), min(lo.Y, c.Y)
		hi.X, hi.Y = max(hi.X, c.X), max(hi.Y, c.Y)
	}
	return lo, hi, ok
}

// FromCells rebuilds a snapshot from stored cell counts. Cells with a
// non-positive count are dropped.
func FromCells(cellSize int, cells []CellCount) (Snapshot, error) {
	if cellSize <= 0 {
		return Snapshot{}, walk.InvalidConfig("cell_size", "must be positive, got %d", cellSize)
	}
	s := Snapshot{cellSize: cellSize, counts: make(map[Cell]int, len(cells))}
	for _, c := range cells {
		if c.Count <= 0 {
			continue
		}
		s.counts[c.Cell] += c.Count
		s.total += c.Count
		s.peak = max(s.peak, s.counts[c.Cell])
	}
	return s, nil
}

// CellOf returns the cell containing p.
func (s Snapshot) CellOf(p walk.Point) Cell {
	return Cell{X: floorDiv(p.X, s.cellSize), Y: floorDiv(p.Y, s.cellSize)}
}
