package walk

// Population is an ordered, fixed-size set of walkers sharing one Source.
// The source is borrowed: the population never starts or stops it.
type Population struct {
	origin  Point
	walkers []*Walker
	source  Source
	draws   []Direction
}

// NewPopulation stacks count walkers on origin.
func NewPopulation(count int, origin Point, source Source) (*Population, error) {
	if count <= 0 {
		return nil, InvalidConfig("walker_count", "must be positive, got %d", count)
	}
	if source == nil {
		return nil, InvalidConfig("source", "must not be nil")
	}

	walkers := make([]*Walker, count)
	for i := range walkers {
		walkers[i] = NewWalker(i, origin)
	}

	return &Population{
		origin:  origin,
		walkers: walkers,
		source:  source,
		draws:   make([]Direction, count),
	}, nil
}

func (p *Population) Origin() Point  { return p.origin }
func (p *Population) Len() int       { return len(p.walkers) }
func (p *Population) Source() Source { return p.source }

// Tick draws one direction per walker, in walker order, and then moves every
// walker. All draws happen before any walker moves, so a failed draw leaves
// the population untouched and is returned as a SourceUnavailableError.
func (p *Population) Tick() ([]Move, error) {
	for i := range p.walkers {
		d, err := p.source.NextDirection()
		if err != nil {
			return nil, Unavailable(SourceName(p.source), err)
		}
		if !d.Valid() {
			return nil, Unavailable(SourceName(p.source), ErrInvalidDirection)
		}
		p.draws[i] = d
	}

	moves := make([]Move, len(p.walkers))
	for i, w := range p.walkers {
		from := w.Position
		w.Step(p.draws[i])
		moves[i] = Move{
			WalkerID:  w.ID,
			From:      from,
			Direction: p.draws[i],
			To:        w.Position,
		}
	}
	return moves, nil
}

// ResetAll returns every walker to the origin. Statistics and heatmaps are
// reset separately.
func (p *Population) ResetAll() {
	for _, w := range p.walkers {
		w.Reset()
	}
}

// Positions returns the current walker positions in walker order.
func (p *Population) Positions() []Point {
	out := make([]Point, len(p.walkers))
	for i, w := range p.walkers {
		out[i] = w.Position
	}
	return out
}

// Distances returns each walker's distance from origin in walker order.
func (p *Population) Distances() []float64 {
	out := make([]float64, len(p.walkers))
	for i, w := range p.walkers {
		out[i] = w.Distance()
	}
	return out
}

// Walkers returns copies of the walkers.
func (p *Population) Walkers() []Walker {
	out := make([]Walker, len(p.walkers))
	for i, w := range p.walkers {
		out[i] = *w
	}
	return out
}
