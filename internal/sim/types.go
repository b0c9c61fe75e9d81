package sim

import (
	"github.com/san-kum/entropywalk/internal/heatmap"
	"github.com/san-kum/entropywalk/internal/metrics"
	"github.com/san-kum/entropywalk/internal/walk"
)

// Observer receives the moves applied to a lane on every successful tick.
type Observer interface {
	OnMoves(lane string, tick int, moves []walk.Move)
}

type ObserverFunc func(lane string, tick int, moves []walk.Move)

func (f ObserverFunc) OnMoves(lane string, tick int, moves []walk.Move) { f(lane, tick, moves) }

// LaneSpec describes one population before it is built.
type LaneSpec struct {
	Name    string
	Source  walk.Source
	Walkers int
	Origin  walk.Point
}

// Options are shared by every lane of a simulation.
type Options struct {
	CellSize       int
	ReturnRadius   int
	EntropyWindow  int
	DistanceWindow int
	// SampleEvery is the series sampling period in ticks for Run.
	SampleEvery int
}

func DefaultOptions() Options {
	return Options{
		CellSize:       10,
		EntropyWindow:  metrics.DefaultEntropyWindow,
		DistanceWindow: metrics.DefaultDistanceWindow,
		SampleEvery:    10,
	}
}

// LaneTick is the outcome of one lane for one tick. Moves is nil when the
// lane was skipped.
type LaneTick struct {
	Name  string
	Moves []walk.Move
	Err   error
}

func (lt LaneTick) Skipped() bool { return lt.Err != nil }

type TickReport struct {
	Tick  int
	Lanes []LaneTick
}

// Skipped returns the names of lanes that did not advance.
func (r TickReport) Skipped() []string {
	var names []string
	for _, lt := range r.Lanes {
		if lt.Skipped() {
			names = append(names, lt.Name)
		}
	}
	return names
}

// LaneSnapshot is a read-only view of one lane.
type LaneSnapshot struct {
	Name      string             `json:"name"`
	Source    string             `json:"source"`
	Origin    walk.Point         `json:"origin"`
	Positions []walk.Point       `json:"-"`
	Heatmap   heatmap.Snapshot   `json:"-"`
	Stats     metrics.Summary    `json:"stats"`
	Metrics   map[string]float64 `json:"metrics"`
	Health    Health             `json:"health"`
}

type Snapshot struct {
	Tick  int
	Lanes []LaneSnapshot
}

// LaneCharts carries the inputs of the distribution charts for one lane.
type LaneCharts struct {
	Name         string
	Histogram    metrics.Histogram
	Distribution [walk.NumDirections]float64
	Distances    []float64
	Stats        metrics.Summary
}

// Sample is one row of the sampled metric series.
type Sample struct {
	Tick            int     `csv:"tick" json:"tick"`
	Lane            string  `csv:"lane" json:"lane"`
	Dispersion      float64 `csv:"dispersion" json:"dispersion"`
	Entropy         float64 `csv:"entropy" json:"entropy"`
	WindowedEntropy float64 `csv:"windowed_entropy" json:"windowed_entropy"`
	ReturnRate      float64 `csv:"return_rate" json:"return_rate"`
	TotalMoves      int     `csv:"total_moves" json:"total_moves"`
	Skipped         int     `csv:"skipped" json:"skipped"`
	Quality         float64 `csv:"quality" json:"quality"`
}

type Result struct {
	Ticks  int            `json:"ticks"`
	Lanes  []LaneSnapshot `json:"lanes"`
	Series []Sample       `json:"-"`
}
