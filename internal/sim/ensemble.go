package sim

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/san-kum/entropywalk/internal/config"
	"github.com/san-kum/entropywalk/internal/entropy"
	"gonum.org/v1/gonum/stat"
)

// Ensemble runs independent copies of a config in parallel, offsetting
// every population seed by the run index.
type Ensemble struct {
	cfg     *config.Config
	reg     *entropy.Registry
	logger  *log.Logger
	numRuns int
}

func NewEnsemble(cfg *config.Config, reg *entropy.Registry, numRuns int, logger *log.Logger) *Ensemble {
	return &Ensemble{cfg: cfg, reg: reg, logger: logger, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, ticks int) ([]*Result, error) {
	sims := make([]*Simulation, e.numRuns)
	for i := range sims {
		cfg := e.cfg.Clone()
		for j := range cfg.Populations {
			cfg.Populations[j].Seed += uint64(i)
		}
		s, err := New(cfg, e.reg, e.logger)
		if err != nil {
			return nil, err
		}
		sims[i] = s
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i, s := range sims {
		wg.Add(1)
		go func(idx int, s *Simulation) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, ticks)
		}(i, s)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// LaneAggregate summarizes one lane across ensemble runs.
type LaneAggregate struct {
	Name           string
	Runs           int
	DispersionMean float64
	DispersionStd  float64
	EntropyMean    float64
	EntropyStd     float64
	ReturnRateMean float64
	SkippedMean    float64
}

// Aggregate folds ensemble results lane by lane. All results must come from
// the same config.
func Aggregate(results []*Result) []LaneAggregate {
	if len(results) == 0 {
		return nil
	}
	n := len(results[0].Lanes)
	out := make([]LaneAggregate, n)

	disp := make([]float64, len(results))
	ent := make([]float64, len(results))
	ret := make([]float64, len(results))
	skip := make([]float64, len(results))

	for i := 0; i < n; i++ {
		for r, res := range results {
			lane := res.Lanes[i]
			disp[r] = lane.Stats.Dispersion
			ent[r] = lane.Stats.Entropy
			ret[r] = lane.Stats.ReturnRate
			skip[r] = float64(lane.Health.SkippedTicks)
		}
		agg := LaneAggregate{Name: results[0].Lanes[i].Name, Runs: len(results)}
		agg.DispersionMean, agg.DispersionStd = stat.MeanStdDev(disp, nil)
		agg.EntropyMean, agg.EntropyStd = stat.MeanStdDev(ent, nil)
		agg.ReturnRateMean = stat.Mean(ret, nil)
		agg.SkippedMean = stat.Mean(skip, nil)
		if len(results) == 1 {
			agg.DispersionStd, agg.EntropyStd = 0, 0
		}
		out[i] = agg
	}
	return out
}
