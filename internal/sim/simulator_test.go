package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/entropywalk/internal/config"
	"github.com/san-kum/entropywalk/internal/entropy"
	"github.com/san-kum/entropywalk/internal/heatmap"
	"github.com/san-kum/entropywalk/internal/sim"
	"github.com/san-kum/entropywalk/internal/walk"
)

func replay(script string) walk.Source {
	r, err := entropy.ParseReplay(script, true)
	Expect(err).NotTo(HaveOccurred())
	return r
}

func pseudoSpecs(seed uint64) []sim.LaneSpec {
	return []sim.LaneSpec{
		{Name: "left", Source: entropy.NewPseudo(seed), Walkers: 15},
		{Name: "right", Source: entropy.NewPseudo(seed + 1), Walkers: 15, Origin: walk.Point{X: 40, Y: -7}},
	}
}

var _ = Describe("Simulation", func() {
	var (
		s    *sim.Simulation
		opts sim.Options
	)

	BeforeEach(func() {
		opts = sim.DefaultOptions()
	})

	Describe("construction", func() {
		It("rejects an empty lane list", func() {
			_, err := sim.NewFromSpecs(nil, opts, nil)
			Expect(err).To(MatchError(walk.ErrInvalidConfig))
		})

		It("rejects duplicate lane names", func() {
			specs := []sim.LaneSpec{
				{Name: "a", Source: replay("U"), Walkers: 1},
				{Name: "a", Source: replay("D"), Walkers: 1},
			}
			_, err := sim.NewFromSpecs(specs, opts, nil)
			Expect(err).To(MatchError(walk.ErrInvalidConfig))
		})

		It("propagates population and grid errors", func() {
			_, err := sim.NewFromSpecs([]sim.LaneSpec{{Name: "a", Source: replay("U"), Walkers: 0}}, opts, nil)
			Expect(err).To(MatchError(walk.ErrInvalidConfig))

			opts.CellSize = 0
			_, err = sim.NewFromSpecs([]sim.LaneSpec{{Name: "a", Source: replay("U"), Walkers: 1}}, opts, nil)
			Expect(err).To(MatchError(walk.ErrInvalidConfig))
		})

		It("builds lanes from a config through the registry", func() {
			cfg := config.GetPreset("bias")
			s, err := sim.New(cfg, entropy.NewRegistry(nil), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Lanes()).To(HaveLen(2))
			Expect(s.Lane("biased")).NotTo(BeNil())
			Expect(s.Snapshot().Lanes[1].Source).To(Equal("biased"))
		})

		It("resolves replay scripts and fault injection", func() {
			cfg := config.GetPreset("zigzag")
			cfg.Populations[0].FaultEvery = 3
			s, err := sim.New(cfg, entropy.NewRegistry(nil), nil)
			Expect(err).NotTo(HaveOccurred())

			snap := s.Snapshot()
			Expect(snap.Lanes[0].Source).To(Equal("pseudo+faults"))
			Expect(snap.Lanes[1].Source).To(Equal("replay"))
		})

		It("rejects unknown sources", func() {
			cfg := config.DefaultConfig()
			cfg.Populations[1].Source = "quantum"
			_, err := sim.New(cfg, entropy.NewRegistry(nil), nil)
			Expect(err).To(MatchError(walk.ErrInvalidConfig))
		})
	})

	Describe("ticking", func() {
		BeforeEach(func() {
			var err error
			s, err = sim.NewFromSpecs([]sim.LaneSpec{
				{Name: "steady", Source: replay("R"), Walkers: 3},
				{Name: "flaky", Source: entropy.NewFaulty(replay("U"), 4), Walkers: 2},
			}, opts, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("feeds every applied move to the tracker and grid", func() {
			for range 4 {
				s.Tick()
			}
			steady := s.Lane("steady")
			Expect(steady.Tracker().TotalMoves()).To(Equal(12))
			Expect(steady.Tracker().Histogram()[walk.Right]).To(Equal(12))
			Expect(steady.Tracker().ShannonEntropy()).To(Equal(0.0))
			Expect(steady.Grid().Total()).To(Equal(12))
			Expect(steady.Grid().DensityAt(heatmap.Cell{X: 0, Y: 0})).To(Equal(12))

			snap := s.Snapshot()
			Expect(snap.Tick).To(Equal(4))
			Expect(snap.Lanes[0].Positions).To(HaveEach(walk.Point{X: 4, Y: 0}))
			Expect(snap.Lanes[0].Stats.Dispersion).To(Equal(4.0))
		})

		It("skips a failing lane without touching the others", func() {
			report := s.Tick()
			Expect(report.Skipped()).To(BeEmpty())

			report = s.Tick()
			Expect(report.Skipped()).To(Equal([]string{"flaky"}))
			Expect(report.Lanes[1].Err).To(MatchError(walk.ErrSourceUnavailable))
			Expect(report.Lanes[1].Moves).To(BeNil())
			Expect(report.Lanes[0].Moves).To(HaveLen(3))

			flaky := s.Lane("flaky")
			Expect(flaky.Tracker().TotalMoves()).To(Equal(2))
			Expect(flaky.Population().Positions()).To(HaveEach(walk.Point{X: 0, Y: -1}))
			Expect(flaky.Grid().Total()).To(Equal(2))

			h := flaky.Health()
			Expect(h.LastFailed).To(BeTrue())
			Expect(h.ConsecutiveFailures).To(Equal(1))
			Expect(h.SkippedTicks).To(Equal(1))
			Expect(h.Degraded()).To(BeTrue())
			Expect(h.Status()).To(Equal("FAILING"))
			Expect(h.LastError).To(ContainSubstring("injected fault"))
		})

		It("recovers health after a successful tick", func() {
			s.Tick()
			s.Tick()
			s.Tick()

			h := s.Lane("flaky").Health()
			Expect(h.LastFailed).To(BeFalse())
			Expect(h.ConsecutiveFailures).To(Equal(0))
			Expect(h.SkippedTicks).To(Equal(1))
			Expect(h.Quality).To(BeNumerically("~", 5.0/6.0, 1e-9))
			Expect(h.Degraded()).To(BeFalse())
			Expect(h.Status()).To(Equal("OK"))
		})

		It("notifies observers only for applied moves", func() {
			seen := map[string]int{}
			s.AddObserver(sim.ObserverFunc(func(lane string, tick int, moves []walk.Move) {
				seen[lane] += len(moves)
			}))
			for range 4 {
				s.Tick()
			}
			Expect(seen).To(Equal(map[string]int{"steady": 12, "flaky": 4}))
		})

		It("clears trails but keeps statistics", func() {
			s.Tick()
			s.ClearTrails()

			steady := s.Lane("steady")
			Expect(steady.Population().Positions()).To(HaveEach(walk.Point{}))
			Expect(steady.Grid().Len()).To(Equal(0))
			Expect(steady.Tracker().TotalMoves()).To(Equal(3))
		})

		It("resets statistics but keeps positions", func() {
			s.Tick()
			s.ResetStats()
			s.ResetStats()

			steady := s.Lane("steady")
			Expect(steady.Tracker().TotalMoves()).To(Equal(0))
			Expect(steady.Tracker().ShannonEntropy()).To(Equal(0.0))
			Expect(steady.Population().Positions()).To(HaveEach(walk.Point{X: 1, Y: 0}))
			Expect(s.Snapshot().Lanes[0].Metrics).To(HaveKeyWithValue("max_distance", 0.0))
		})

		It("exposes chart inputs per lane", func() {
			s.Tick()
			charts := s.Charts()
			Expect(charts).To(HaveLen(2))
			Expect(charts[0].Distribution[walk.Right]).To(Equal(100.0))
			Expect(charts[0].Distances).To(HaveLen(3))
		})
	})

	Describe("bookkeeping", func() {
		It("keeps histogram, move count and heatmap totals equal", func() {
			var err error
			s, err = sim.NewFromSpecs(pseudoSpecs(9), opts, nil)
			Expect(err).NotTo(HaveOccurred())

			for range 200 {
				s.Tick()
			}
			for _, lane := range s.Lanes() {
				total := lane.Tracker().TotalMoves()
				Expect(total).To(Equal(200 * 15))
				Expect(lane.Tracker().Histogram().Total()).To(Equal(total))
				Expect(lane.Grid().Total()).To(Equal(total))

				e := lane.Tracker().ShannonEntropy()
				Expect(e).To(BeNumerically(">", 1.95))
				Expect(e).To(BeNumerically("<=", 2.0))
			}
		})

		It("replays identically for identical source streams", func() {
			a, err := sim.NewFromSpecs(pseudoSpecs(21), opts, nil)
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.NewFromSpecs(pseudoSpecs(21), opts, nil)
			Expect(err).NotTo(HaveOccurred())

			for range 100 {
				a.Tick()
				b.Tick()
			}
			sa, sb := a.Snapshot(), b.Snapshot()
			for i := range sa.Lanes {
				Expect(sa.Lanes[i].Positions).To(Equal(sb.Lanes[i].Positions))
				Expect(sa.Lanes[i].Stats).To(Equal(sb.Lanes[i].Stats))
				Expect(sa.Lanes[i].Heatmap.Cells()).To(Equal(sb.Lanes[i].Heatmap.Cells()))
			}
		})
	})

	Describe("Run", func() {
		BeforeEach(func() {
			var err error
			s, err = sim.NewFromSpecs(pseudoSpecs(4), opts, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("samples the series periodically and at the end", func() {
			res, err := s.Run(context.Background(), 25)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(25))
			Expect(res.Lanes).To(HaveLen(2))
			Expect(res.Series).To(HaveLen(6))

			var ticks []int
			for _, row := range res.Series {
				ticks = append(ticks, row.Tick)
			}
			Expect(ticks).To(Equal([]int{10, 10, 20, 20, 25, 25}))
			Expect(res.Series[5].Lane).To(Equal("right"))
			Expect(res.Series[5].TotalMoves).To(Equal(25 * 15))
		})

		It("stops on cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := s.Run(ctx, 100)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Ticks).To(Equal(0))
			Expect(s.Ticks()).To(Equal(0))
		})

		It("rejects a negative tick count", func() {
			res, err := s.Run(context.Background(), -25)
			Expect(err).To(MatchError(walk.ErrInvalidConfig))
			Expect(res).To(BeNil())
			Expect(s.Ticks()).To(Equal(0))
		})
	})

	Describe("Ensemble", func() {
		It("runs independent copies and aggregates lanes", func() {
			cfg := config.GetPreset("bias")
			results, err := sim.NewEnsemble(cfg, entropy.NewRegistry(nil), 3, nil).Run(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))

			agg := sim.Aggregate(results)
			Expect(agg).To(HaveLen(2))
			Expect(agg[0].Name).To(Equal("fair"))
			Expect(agg[0].Runs).To(Equal(3))
			Expect(agg[0].EntropyMean).To(BeNumerically(">", agg[1].EntropyMean))
			Expect(agg[1].EntropyMean).To(BeNumerically("<", 2.0))
		})

		It("reports zero spread for a single run", func() {
			cfg := config.GetPreset("bias")
			results, err := sim.NewEnsemble(cfg, entropy.NewRegistry(nil), 1, nil).Run(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())
			agg := sim.Aggregate(results)
			Expect(agg[0].DispersionStd).To(Equal(0.0))
			Expect(sim.Aggregate(nil)).To(BeNil())
		})
	})
})
