// Package walk provides the core primitives of the random-walk simulation.
//
// The package defines the agent model and the entropy contract:
//
//   - [Direction]: one of the four unit moves on the integer plane
//   - [Walker]: a single agent with a fixed origin and per-agent counters
//   - [Population]: an ordered set of walkers sharing one [Source]
//   - [Source]: anything that can produce the next direction
//
// # Example
//
//	pop, err := walk.NewPopulation(15, walk.Point{X: 300, Y: 300}, src)
//	if err != nil {
//	    return err
//	}
//	moves, err := pop.Tick()
//
// # Determinism
//
// A population draws one direction per walker per tick, always in walker
// order. A source that replays a fixed stream therefore yields a
// bit-identical replay of the whole population.
//
// # Thread Safety
//
// Populations and walkers are NOT thread-safe. They are owned by a single
// simulation driver which ticks and resets them sequentially.
package walk
