package entropy

import (
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/entropywalk/internal/walk"
)

// DefaultBias favours Up. Its entropy is about 1.92 bits.
var DefaultBias = [walk.NumDirections]float64{0.4, 0.2, 0.2, 0.2}

// Weighted draws directions with fixed, possibly unequal, probabilities.
type Weighted struct {
	rng *rand.Rand
	cum [walk.NumDirections]float64
}

func NewWeighted(seed uint64, weights [walk.NumDirections]float64) (*Weighted, error) {
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, walk.InvalidConfig("weights", "weight for %s is negative", walk.Direction(i))
		}
		total += w
	}
	if total == 0 {
		return nil, walk.InvalidConfig("weights", "all weights are zero")
	}

	var cum [walk.NumDirections]float64
	acc := 0.0
	for i, w := range weights {
		acc += w / total
		cum[i] = acc
	}
	cum[walk.NumDirections-1] = 1

	return &Weighted{
		rng: rand.New(rand.NewPCG(seed, seed^pcgStream)),
		cum: cum,
	}, nil
}

func (w *Weighted) Name() string     { return "biased" }
func (w *Weighted) Quality() float64 { return 1 }

func (w *Weighted) NextDirection() (walk.Direction, error) {
	u := w.rng.Float64()
	for i, c := range w.cum {
		if u < c {
			return walk.Direction(i), nil
		}
	}
	return walk.Direction(walk.NumDirections - 1), nil
}

func (w *Weighted) String() string {
	return fmt.Sprintf("Weighted%v", w.cum)
}
