package sim

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/entropywalk/internal/config"
	"github.com/san-kum/entropywalk/internal/entropy"
	"github.com/san-kum/entropywalk/internal/walk"
)

// Simulation ticks a fixed set of lanes in order. It is not safe for
// concurrent use; callers serialize ticks and resets.
type Simulation struct {
	lanes     []*Lane
	opts      Options
	observers []Observer
	logger    *log.Logger
	tick      int
}

// New builds a simulation from a validated config, resolving sources
// through reg.
func New(cfg *config.Config, reg *entropy.Registry, logger *log.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	specs := make([]LaneSpec, 0, len(cfg.Populations))
	for _, p := range cfg.Populations {
		src, err := BuildSource(p, reg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, LaneSpec{Name: p.Name, Source: src, Walkers: p.Walkers, Origin: p.Origin})
	}
	return NewFromSpecs(specs, OptionsFromConfig(cfg), logger)
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CellSize:       cfg.CellSize,
		ReturnRadius:   cfg.ReturnRadius,
		EntropyWindow:  cfg.EntropyWindow,
		DistanceWindow: cfg.DistanceWindow,
		SampleEvery:    cfg.SampleEvery,
	}
}

func NewFromSpecs(specs []LaneSpec, opts Options, logger *log.Logger) (*Simulation, error) {
	if len(specs) == 0 {
		return nil, walk.InvalidConfig("lanes", "at least one lane is required")
	}
	if opts.SampleEvery <= 0 {
		return nil, walk.InvalidConfig("sample_every", "must be positive, got %d", opts.SampleEvery)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Simulation{opts: opts, logger: logger}
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if seen[spec.Name] {
			return nil, walk.InvalidConfig("lane.name", "duplicate lane %q", spec.Name)
		}
		seen[spec.Name] = true

		lane, err := newLane(spec, opts, logger)
		if err != nil {
			return nil, err
		}
		s.lanes = append(s.lanes, lane)
	}
	return s, nil
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Lanes() []*Lane { return s.lanes }
func (s *Simulation) Ticks() int     { return s.tick }

// Lane returns the lane with the given name, or nil.
func (s *Simulation) Lane(name string) *Lane {
	for _, l := range s.lanes {
		if l.name == name {
			return l
		}
	}
	return nil
}

// Tick advances every lane once, in order. A lane whose source fails is
// skipped for this tick and the others still advance.
func (s *Simulation) Tick() TickReport {
	s.tick++
	report := TickReport{Tick: s.tick, Lanes: make([]LaneTick, len(s.lanes))}

	for i, lane := range s.lanes {
		moves, err := lane.step()
		report.Lanes[i] = LaneTick{Name: lane.name, Moves: moves, Err: err}
		if err != nil {
			continue
		}
		for _, obs := range s.observers {
			obs.OnMoves(lane.name, s.tick, moves)
		}
	}
	return report
}

// Run performs ticks ticks, sampling the series every SampleEvery ticks and
// after the last one. On cancellation it returns what it has so far along
// with ctx.Err().
func (s *Simulation) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks < 0 {
		return nil, walk.InvalidConfig("ticks", "must not be negative, got %d", ticks)
	}
	result := &Result{
		Series: make([]Sample, 0, (ticks/s.opts.SampleEvery+1)*len(s.lanes)),
	}

	s.logger.Debug("run started", "ticks", ticks, "lanes", len(s.lanes))
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, i)
			return result, ctx.Err()
		default:
		}

		s.Tick()
		if (i+1)%s.opts.SampleEvery == 0 || i == ticks-1 {
			s.sample(result)
		}
	}

	s.finish(result, ticks)
	s.logger.Debug("run finished", "ticks", ticks)
	return result, nil
}

func (s *Simulation) sample(r *Result) {
	for _, lane := range s.lanes {
		r.Series = append(r.Series, lane.sample(s.tick))
	}
}

func (s *Simulation) finish(r *Result, ticks int) {
	r.Ticks = ticks
	r.Lanes = s.Snapshot().Lanes
}

// ClearTrails returns every walker to its origin and empties the heatmaps.
// Statistics are kept.
func (s *Simulation) ClearTrails() {
	for _, lane := range s.lanes {
		lane.pop.ResetAll()
		lane.grid.Reset()
	}
	s.logger.Debug("trails cleared")
}

// ResetStats zeroes every tracker and attached metric. Positions and
// heatmaps are kept.
func (s *Simulation) ResetStats() {
	for _, lane := range s.lanes {
		lane.tracker.Reset()
		for _, m := range lane.metrics {
			m.Reset()
		}
	}
	s.logger.Debug("statistics reset")
}

func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{Tick: s.tick, Lanes: make([]LaneSnapshot, len(s.lanes))}
	for i, lane := range s.lanes {
		snap.Lanes[i] = lane.snapshot()
	}
	return snap
}

func (s *Simulation) Charts() []LaneCharts {
	out := make([]LaneCharts, len(s.lanes))
	for i, lane := range s.lanes {
		out[i] = lane.charts()
	}
	return out
}
