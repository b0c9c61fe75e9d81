package sim

import (
	"fmt"

	"github.com/san-kum/entropywalk/internal/config"
	"github.com/san-kum/entropywalk/internal/entropy"
	"github.com/san-kum/entropywalk/internal/walk"
)

// ReplaySource is the source name that plays back a population's script.
const ReplaySource = "replay"

// BuildSource resolves the entropy source for one population, wrapping it
// with fault injection when FaultEvery is set.
func BuildSource(p config.Population, reg *entropy.Registry) (walk.Source, error) {
	var (
		src walk.Source
		err error
	)
	if p.Source == ReplaySource {
		src, err = entropy.ParseReplay(p.Script, true)
	} else {
		src, err = reg.Get(p.Source, p.Seed)
	}
	if err != nil {
		return nil, fmt.Errorf("population %s: %w", p.Name, err)
	}

	if p.FaultEvery > 0 {
		src = entropy.NewFaulty(src, p.FaultEvery)
	}
	return src, nil
}
