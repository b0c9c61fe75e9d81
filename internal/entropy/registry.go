package entropy

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/san-kum/entropywalk/internal/walk"
)

// Factory builds a source from a seed. Sources that do not need a seed
// ignore it.
type Factory func(seed uint64) (walk.Source, error)

type Registry struct {
	logger  *log.Logger
	sources map[string]Factory
	about   map[string]string
}

func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Registry{
		logger:  logger,
		sources: make(map[string]Factory),
		about:   make(map[string]string),
	}

	r.Register("pseudo", "seeded PCG generator (reproducible)", func(seed uint64) (walk.Source, error) {
		return NewPseudo(seed), nil
	})
	r.Register("hybrid", "ChaCha8 reseeded from the OS entropy pool", func(seed uint64) (walk.Source, error) {
		return NewHybrid(HybridOptions{}, r.logger.WithPrefix("hybrid")), nil
	})
	r.Register("biased", "seeded generator favouring UP (40/20/20/20)", func(seed uint64) (walk.Source, error) {
		return NewWeighted(seed, DefaultBias)
	})

	return r
}

func (r *Registry) Register(name, about string, f Factory) {
	r.sources[name] = f
	r.about[name] = about
}

func (r *Registry) Get(name string, seed uint64) (walk.Source, error) {
	fn, ok := r.sources[name]
	if !ok {
		return nil, walk.InvalidConfig("source", "unknown source %q (available: %v)", name, r.List())
	}
	src, err := fn(seed)
	if err != nil {
		return nil, fmt.Errorf("build source %s: %w", name, err)
	}
	return src, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Describe(name string) string {
	return r.about[name]
}
