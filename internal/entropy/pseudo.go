package entropy

import (
	"math/rand/v2"

	"github.com/san-kum/entropywalk/internal/walk"
)

// pcgStream decorrelates the PCG increment from the user seed.
const pcgStream = 0x9e3779b97f4a7c15

// Pseudo is a deterministic generator: the same seed always yields the same
// direction stream.
type Pseudo struct {
	seed uint64
	rng  *rand.Rand
}

func NewPseudo(seed uint64) *Pseudo {
	return &Pseudo{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^pcgStream)),
	}
}

func (p *Pseudo) Name() string     { return "pseudo" }
func (p *Pseudo) Seed() uint64     { return p.seed }
func (p *Pseudo) Quality() float64 { return 1 }

func (p *Pseudo) NextDirection() (walk.Direction, error) {
	return walk.Direction(p.rng.IntN(walk.NumDirections)), nil
}
