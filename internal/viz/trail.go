package viz

import (
	"github.com/san-kum/entropywalk/internal/sim"
	"github.com/san-kum/entropywalk/internal/walk"
)

// trail keeps the most recent moves of one lane for drawing. Trails exist
// only in the view.
type trail struct {
	moves []walk.Move
	next  int
	full  bool
}

func newTrail(capacity int) *trail {
	return &trail{moves: make([]walk.Move, max(capacity, 1))}
}

func (t *trail) add(moves []walk.Move) {
	for _, m := range moves {
		t.moves[t.next] = m
		t.next = (t.next + 1) % len(t.moves)
		if t.next == 0 {
			t.full = true
		}
	}
}

func (t *trail) len() int {
	if t.full {
		return len(t.moves)
	}
	return t.next
}

// each visits the retained moves oldest first.
func (t *trail) each(fn func(walk.Move)) {
	if t.full {
		for _, m := range t.moves[t.next:] {
			fn(m)
		}
	}
	for _, m := range t.moves[:t.next] {
		fn(m)
	}
}

func (t *trail) reset() {
	t.next = 0
	t.full = false
}

// trailRecorder feeds applied moves into the trail of the matching lane.
type trailRecorder map[string]*trail

var _ sim.Observer = trailRecorder(nil)

func (r trailRecorder) OnMoves(lane string, _ int, moves []walk.Move) {
	if t, ok := r[lane]; ok {
		t.add(moves)
	}
}

// projector maps plane coordinates to canvas dots, centring origin.
type projector struct {
	origin walk.Point
	cx, cy int
	scale  int
}

func newProjector(origin walk.Point, c *Canvas, scale int) projector {
	return projector{origin: origin, cx: c.SubWidth() / 2, cy: c.SubHeight() / 2, scale: max(scale, 1)}
}

func (p projector) dot(pt walk.Point) (int, int) {
	return p.cx + (pt.X-p.origin.X)*p.scale, p.cy + (pt.Y-p.origin.Y)*p.scale
}

// point is the inverse of dot.
func (p projector) point(x, y int) walk.Point {
	return walk.Point{
		X: p.origin.X + floorDiv(x-p.cx, p.scale),
		Y: p.origin.Y + floorDiv(y-p.cy, p.scale),
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
