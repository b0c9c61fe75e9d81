package metrics

import (
	"math"

	"github.com/san-kum/entropywalk/internal/walk"
)

// Metric is an extra named measurement attached to a population. It sees
// every applied move.
type Metric interface {
	Name() string
	Observe(m walk.Move, origin walk.Point)
	Value() float64
	Reset()
}

// MaxDistance reports the farthest any walker has been from origin.
type MaxDistance struct {
	name string
	max  float64
}

func NewMaxDistance() *MaxDistance {
	return &MaxDistance{name: "max_distance"}
}

func (m *MaxDistance) Name() string { return m.name }

func (m *MaxDistance) Observe(mv walk.Move, origin walk.Point) {
	m.max = math.Max(m.max, mv.To.DistanceTo(origin))
}

func (m *MaxDistance) Value() float64 { return m.max }

func (m *MaxDistance) Reset() { m.max = 0 }

// Persistence is the fraction of moves that repeat the same walker's
// previous direction. An unbiased source sits near 0.25.
type Persistence struct {
	name    string
	last    map[int]walk.Direction
	repeats int
	samples int
}

func NewPersistence() *Persistence {
	return &Persistence{
		name: "persistence",
		last: make(map[int]walk.Direction),
	}
}

func (p *Persistence) Name() string { return p.name }

func (p *Persistence) Observe(mv walk.Move, origin walk.Point) {
	prev, ok := p.last[mv.WalkerID]
	p.last[mv.WalkerID] = mv.Direction
	if !ok {
		return
	}
	if prev == mv.Direction {
		p.repeats++
	}
	p.samples++
}

func (p *Persistence) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return float64(p.repeats) / float64(p.samples)
}

func (p *Persistence) Reset() {
	clear(p.last)
	p.repeats = 0
	p.samples = 0
}

// DefaultMetrics returns the metrics attached to every population.
func DefaultMetrics() []Metric {
	return []Metric{
		NewMaxDistance(),
		NewPersistence(),
	}
}
