package metrics

import (
	"math"

	"github.com/san-kum/entropywalk/internal/walk"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultEntropyWindow  = 1000
	DefaultDistanceWindow = 500

	// MinWindowSamples is the number of recent directions needed before
	// WindowedEntropy reports anything but zero.
	MinWindowSamples = 10

	// MaxEntropy is the entropy of a uniform split over four directions.
	MaxEntropy = 2.0
)

// Histogram counts moves per direction, indexed by walk.Direction.
type Histogram [walk.NumDirections]int

func (h Histogram) Total() int {
	sum := 0
	for _, c := range h {
		sum += c
	}
	return sum
}

// Summary is a point-in-time view of a tracker.
type Summary struct {
	Dispersion      float64 `json:"dispersion"`
	Entropy         float64 `json:"entropy"`
	WindowedEntropy float64 `json:"windowed_entropy"`
	ReturnRate      float64 `json:"return_rate"`
	TotalMoves      int     `json:"total_moves"`
	TotalReturns    int     `json:"total_returns"`
}

// Tracker keeps running direction and return statistics for one population.
// Derived values are computed on demand.
type Tracker struct {
	origin       walk.Point
	returnRadius int

	histogram    Histogram
	totalMoves   int
	totalReturns int

	recent    *window[walk.Direction]
	distances *window[float64]
}

func NewTracker(origin walk.Point, returnRadius int) (*Tracker, error) {
	return NewTrackerWithWindows(origin, returnRadius, DefaultEntropyWindow, DefaultDistanceWindow)
}

func NewTrackerWithWindows(origin walk.Point, returnRadius, entropyWindow, distanceWindow int) (*Tracker, error) {
	if returnRadius < 0 {
		return nil, walk.InvalidConfig("return_radius", "must be non-negative, got %d", returnRadius)
	}
	if entropyWindow <= 0 {
		return nil, walk.InvalidConfig("entropy_window", "must be positive, got %d", entropyWindow)
	}
	if distanceWindow <= 0 {
		return nil, walk.InvalidConfig("distance_window", "must be positive, got %d", distanceWindow)
	}
	return &Tracker{
		origin:       origin,
		returnRadius: returnRadius,
		recent:       newWindow[walk.Direction](entropyWindow),
		distances:    newWindow[float64](distanceWindow),
	}, nil
}

func (t *Tracker) Origin() walk.Point { return t.origin }
func (t *Tracker) ReturnRadius() int  { return t.returnRadius }

// Record counts one move that ended at pos.
func (t *Tracker) Record(d walk.Direction, pos walk.Point) {
	if !d.Valid() {
		return
	}
	t.histogram[d]++
	t.totalMoves++
	if t.isReturn(pos) {
		t.totalReturns++
	}
	t.recent.push(d)
	t.distances.push(pos.DistanceTo(t.origin))
}

func (t *Tracker) isReturn(pos walk.Point) bool {
	if t.returnRadius == 0 {
		return pos == t.origin
	}
	dx, dy := pos.X-t.origin.X, pos.Y-t.origin.Y
	return dx*dx+dy*dy <= t.returnRadius*t.returnRadius
}

// Dispersion is the mean Euclidean distance of positions from origin. It is
// recomputed from the given positions on every call.
func Dispersion(positions []walk.Point, origin walk.Point) float64 {
	if len(positions) == 0 {
		return 0
	}
	dists := make([]float64, len(positions))
	for i, p := range positions {
		dists[i] = p.DistanceTo(origin)
	}
	return stat.Mean(dists, nil)
}

// Dispersion measures positions against the tracker's origin.
func (t *Tracker) Dispersion(positions []walk.Point) float64 {
	return Dispersion(positions, t.origin)
}

// ShannonEntropy is the entropy in bits of the full direction histogram.
func (t *Tracker) ShannonEntropy() float64 {
	return entropy(t.histogram[:], t.totalMoves)
}

// WindowedEntropy is the entropy of the most recent directions only.
func (t *Tracker) WindowedEntropy() float64 {
	if t.recent.len() < MinWindowSamples {
		return 0
	}
	var counts Histogram
	for _, d := range t.recent.values() {
		counts[d]++
	}
	return entropy(counts[:], t.recent.len())
}

func (t *Tracker) ReturnRate() float64 {
	if t.totalMoves == 0 {
		return 0
	}
	return float64(t.totalReturns) / float64(t.totalMoves)
}

// Distribution returns the share of each direction in percent. An empty
// tracker reports the ideal uniform split.
func (t *Tracker) Distribution() [walk.NumDirections]float64 {
	var out [walk.NumDirections]float64
	if t.totalMoves == 0 {
		for i := range out {
			out[i] = 100.0 / walk.NumDirections
		}
		return out
	}
	for i, c := range t.histogram {
		out[i] = float64(c) / float64(t.totalMoves) * 100
	}
	return out
}

func (t *Tracker) Histogram() Histogram { return t.histogram }
func (t *Tracker) TotalMoves() int      { return t.totalMoves }
func (t *Tracker) TotalReturns() int    { return t.totalReturns }

// DistanceSamples returns the recent distance-from-origin samples, oldest first.
func (t *Tracker) DistanceSamples() []float64 {
	return t.distances.values()
}

func (t *Tracker) Summary(positions []walk.Point) Summary {
	return Summary{
		Dispersion:      t.Dispersion(positions),
		Entropy:         t.ShannonEntropy(),
		WindowedEntropy: t.WindowedEntropy(),
		ReturnRate:      t.ReturnRate(),
		TotalMoves:      t.totalMoves,
		TotalReturns:    t.totalReturns,
	}
}

func (t *Tracker) Reset() {
	t.histogram = Histogram{}
	t.totalMoves = 0
	t.totalReturns = 0
	t.recent.reset()
	t.distances.reset()
}

// entropy uses the 0*log(0) = 0 convention.
func entropy(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}
