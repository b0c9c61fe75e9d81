package sim

import (
	"github.com/charmbracelet/log"
	"github.com/san-kum/entropywalk/internal/heatmap"
	"github.com/san-kum/entropywalk/internal/metrics"
	"github.com/san-kum/entropywalk/internal/walk"
)

// Lane is one population with its tracker, grid and health.
type Lane struct {
	name    string
	pop     *walk.Population
	tracker *metrics.Tracker
	grid    *heatmap.Grid
	health  Health
	metrics []metrics.Metric
	logger  *log.Logger
}

func newLane(spec LaneSpec, opts Options, logger *log.Logger) (*Lane, error) {
	if spec.Name == "" {
		return nil, walk.InvalidConfig("lane.name", "must not be empty")
	}
	pop, err := walk.NewPopulation(spec.Walkers, spec.Origin, spec.Source)
	if err != nil {
		return nil, err
	}
	tracker, err := metrics.NewTrackerWithWindows(spec.Origin, opts.ReturnRadius, opts.EntropyWindow, opts.DistanceWindow)
	if err != nil {
		return nil, err
	}
	grid, err := heatmap.New(opts.CellSize)
	if err != nil {
		return nil, err
	}

	l := &Lane{
		name:    spec.Name,
		pop:     pop,
		tracker: tracker,
		grid:    grid,
		health:  newHealth(),
		metrics: metrics.DefaultMetrics(),
		logger:  logger.WithPrefix(spec.Name),
	}
	l.health.observe(spec.Source)
	return l, nil
}

func (l *Lane) Name() string                 { return l.name }
func (l *Lane) Population() *walk.Population { return l.pop }
func (l *Lane) Tracker() *metrics.Tracker    { return l.tracker }
func (l *Lane) Grid() *heatmap.Grid          { return l.grid }
func (l *Lane) Health() Health               { return l.health }

func (l *Lane) step() ([]walk.Move, error) {
	moves, err := l.pop.Tick()
	l.health.observe(l.pop.Source())
	if err != nil {
		l.health.recordFailure(err)
		if l.health.ConsecutiveFailures == 1 {
			l.logger.Warn("source unavailable, tick skipped", "err", err, "quality", l.health.Quality)
		} else {
			l.logger.Debug("tick skipped", "consecutive", l.health.ConsecutiveFailures)
		}
		return nil, err
	}

	if l.health.LastFailed {
		l.logger.Info("source recovered", "skipped", l.health.SkippedTicks)
	}
	l.health.recordSuccess()

	origin := l.pop.Origin()
	for _, m := range moves {
		l.tracker.Record(m.Direction, m.To)
		l.grid.Record(m.To)
		for _, met := range l.metrics {
			met.Observe(m, origin)
		}
	}
	return moves, nil
}

func (l *Lane) summary() metrics.Summary {
	return l.tracker.Summary(l.pop.Positions())
}

func (l *Lane) snapshot() LaneSnapshot {
	values := make(map[string]float64, len(l.metrics))
	for _, m := range l.metrics {
		values[m.Name()] = m.Value()
	}
	return LaneSnapshot{
		Name:      l.name,
		Source:    walk.SourceName(l.pop.Source()),
		Origin:    l.pop.Origin(),
		Positions: l.pop.Positions(),
		Heatmap:   l.grid.Snapshot(),
		Stats:     l.summary(),
		Metrics:   values,
		Health:    l.health,
	}
}

func (l *Lane) charts() LaneCharts {
	return LaneCharts{
		Name:         l.name,
		Histogram:    l.tracker.Histogram(),
		Distribution: l.tracker.Distribution(),
		Distances:    l.tracker.DistanceSamples(),
		Stats:        l.summary(),
	}
}

func (l *Lane) sample(tick int) Sample {
	s := l.summary()
	return Sample{
		Tick:            tick,
		Lane:            l.name,
		Dispersion:      s.Dispersion,
		Entropy:         s.Entropy,
		WindowedEntropy: s.WindowedEntropy,
		ReturnRate:      s.ReturnRate,
		TotalMoves:      s.TotalMoves,
		Skipped:         l.health.SkippedTicks,
		Quality:         l.health.Quality,
	}
}
