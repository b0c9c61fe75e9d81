package walk

import (
	"errors"
	"testing"
)

func TestNewPopulation_Invalid(t *testing.T) {
	src := &seqSource{}

	tests := []struct {
		name  string
		count int
		src   Source
	}{
		{"zero walkers", 0, src},
		{"negative walkers", -3, src},
		{"nil source", 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPopulation(tt.count, Point{}, tt.src)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Errorf("expected *ConfigurationError, got %T", err)
			}
		})
	}
}

func TestPopulation_StartsStacked(t *testing.T) {
	origin := Point{X: 150, Y: 300}
	pop, err := NewPopulation(5, origin, &seqSource{})
	if err != nil {
		t.Fatalf("new population: %v", err)
	}

	if pop.Len() != 5 {
		t.Errorf("expected 5 walkers, got %d", pop.Len())
	}
	for i, p := range pop.Positions() {
		if p != origin {
			t.Errorf("walker %d at %v, want %v", i, p, origin)
		}
	}
}

func TestPopulation_TickOrder(t *testing.T) {
	src := &seqSource{dirs: []Direction{Up, Left, Right}}
	pop, err := NewPopulation(3, Point{}, src)
	if err != nil {
		t.Fatalf("new population: %v", err)
	}

	moves, err := pop.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}

	want := []Move{
		{WalkerID: 0, From: Point{}, Direction: Up, To: Point{X: 0, Y: -1}},
		{WalkerID: 1, From: Point{}, Direction: Left, To: Point{X: -1, Y: 0}},
		{WalkerID: 2, From: Point{}, Direction: Right, To: Point{X: 1, Y: 0}},
	}
	if len(moves) != len(want) {
		t.Fatalf("expected %d moves, got %d", len(want), len(moves))
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("move %d = %+v, want %+v", i, moves[i], want[i])
		}
	}
}

func TestPopulation_TickSkipsOnFailure(t *testing.T) {
	// Two walkers, three directions: the second tick fails half way.
	src := &seqSource{dirs: []Direction{Right, Right, Down}}
	pop, err := NewPopulation(2, Point{}, src)
	if err != nil {
		t.Fatalf("new population: %v", err)
	}

	if _, err := pop.Tick(); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	before := pop.Walkers()

	moves, err := pop.Tick()
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if moves != nil {
		t.Errorf("expected no moves, got %v", moves)
	}

	after := pop.Walkers()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("walker %d changed on failed tick: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestPopulation_InvalidDirectionIsUnavailable(t *testing.T) {
	src := SourceFunc(func() (Direction, error) { return Direction(42), nil })
	pop, err := NewPopulation(1, Point{}, src)
	if err != nil {
		t.Fatalf("new population: %v", err)
	}

	_, err = pop.Tick()
	if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected unavailable + invalid direction, got %v", err)
	}
}

func TestPopulation_Determinism(t *testing.T) {
	seq := []Direction{Up, Right, Right, Down, Left, Up, Up, Right, Down, Down, Left, Left}

	run := func() []Point {
		pop, err := NewPopulation(3, Point{X: 5, Y: 5}, &seqSource{dirs: seq})
		if err != nil {
			t.Fatalf("new population: %v", err)
		}
		for range 4 {
			if _, err := pop.Tick(); err != nil {
				t.Fatalf("tick: %v", err)
			}
		}
		return pop.Positions()
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("walker %d diverged: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPopulation_ResetAll(t *testing.T) {
	src := &seqSource{dirs: []Direction{Up, Up}}
	pop, err := NewPopulation(2, Point{X: 1, Y: 2}, src)
	if err != nil {
		t.Fatalf("new population: %v", err)
	}
	if _, err := pop.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	pop.ResetAll()
	for _, w := range pop.Walkers() {
		if w.Position != w.Origin || w.Steps != 0 {
			t.Errorf("walker %d not reset: %+v", w.ID, w)
		}
	}
	for _, d := range pop.Distances() {
		if d != 0 {
			t.Errorf("expected zero distance, got %f", d)
		}
	}
}

func TestSourceUnavailableError_NoDoubleWrap(t *testing.T) {
	inner := &SourceUnavailableError{Source: "hybrid", Err: errors.New("pool empty")}
	err := Unavailable("other", inner)
	if err != error(inner) {
		t.Errorf("expected the original error to be returned, got %v", err)
	}
}
