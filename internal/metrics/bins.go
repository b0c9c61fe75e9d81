package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bins is a fixed-width histogram of distance samples.
type Bins struct {
	Dividers []float64
	Counts   []float64
}

// BinDistances splits samples into n equal-width bins spanning their range.
// It returns empty Bins when there are no samples or n < 1.
func BinDistances(samples []float64, n int) Bins {
	if len(samples) == 0 || n < 1 {
		return Bins{}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	} else {
		hi = math.Nextafter(hi, math.Inf(1))
	}

	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)

	counts := stat.Histogram(nil, dividers, sorted, nil)
	return Bins{Dividers: dividers, Counts: counts}
}

// Count bins samples into b's dividers. Samples outside the divider range
// are dropped.
func (b Bins) Count(samples []float64) []float64 {
	if len(b.Dividers) < 2 {
		return nil
	}
	lo, hi := b.Dividers[0], b.Dividers[len(b.Dividers)-1]
	sorted := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s >= lo && s < hi {
			sorted = append(sorted, s)
		}
	}
	if len(sorted) == 0 {
		return make([]float64, len(b.Dividers)-1)
	}
	sort.Float64s(sorted)
	return stat.Histogram(nil, b.Dividers, sorted, nil)
}
