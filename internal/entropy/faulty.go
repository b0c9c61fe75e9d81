package entropy

import (
	"errors"

	"github.com/san-kum/entropywalk/internal/walk"
)

var ErrInjected = errors.New("entropy: injected fault")

// Faulty fails every nth draw of the wrapped source. The failing draw does
// not consume from the inner source.
type Faulty struct {
	inner walk.Source
	every int
	draws int
	fails int
}

func NewFaulty(inner walk.Source, every int) *Faulty {
	return &Faulty{inner: inner, every: every}
}

func (f *Faulty) Name() string { return walk.SourceName(f.inner) + "+faults" }

func (f *Faulty) NextDirection() (walk.Direction, error) {
	f.draws++
	if f.every > 0 && f.draws%f.every == 0 {
		f.fails++
		return 0, walk.Unavailable(f.Name(), ErrInjected)
	}
	return f.inner.NextDirection()
}

// Quality is the inner quality scaled by the observed success ratio.
func (f *Faulty) Quality() float64 {
	q := 1.0
	if qr, ok := f.inner.(walk.QualityReporter); ok {
		q = qr.Quality()
	}
	if f.draws == 0 {
		return q
	}
	return q * float64(f.draws-f.fails) / float64(f.draws)
}

func (f *Faulty) Failures() int { return f.fails }
