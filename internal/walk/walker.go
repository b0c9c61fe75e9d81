package walk

// Walker is a single agent. Its position is always reachable from Origin in
// exactly Steps unit moves; coordinates are never clipped.
type Walker struct {
	ID       int
	Origin   Point
	Position Point
	Steps    int
	Returns  int
}

func NewWalker(id int, origin Point) *Walker {
	return &Walker{ID: id, Origin: origin, Position: origin}
}

// Step applies d and counts a return when the walker lands on its origin.
// Invalid directions are ignored.
func (w *Walker) Step(d Direction) {
	if !d.Valid() {
		return
	}
	w.Position = w.Position.Add(d)
	w.Steps++
	if w.Position == w.Origin {
		w.Returns++
	}
}

// Reset puts the walker back on its origin with zeroed counters.
func (w *Walker) Reset() {
	w.Position = w.Origin
	w.Steps = 0
	w.Returns = 0
}

// Distance is the Euclidean distance from origin.
func (w *Walker) Distance() float64 {
	return w.Position.DistanceTo(w.Origin)
}
