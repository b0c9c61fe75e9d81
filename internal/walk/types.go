package walk

import (
	"fmt"
	"math"
	"strings"
)

// Direction is one of the four unit moves. The zero value is Up.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// NumDirections is the size of the direction alphabet.
const NumDirections = 4

// Directions lists every direction in histogram order.
var Directions = [NumDirections]Direction{Up, Down, Left, Right}

var directionNames = [NumDirections]string{"UP", "DOWN", "LEFT", "RIGHT"}

// Screen coordinates: y grows downward.
var directionDeltas = [NumDirections][2]int{
	{0, -1},
	{0, 1},
	{-1, 0},
	{1, 0},
}

func (d Direction) Valid() bool { return d < NumDirections }

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Delta returns the unit displacement for d, or (0, 0) if d is invalid.
func (d Direction) Delta() (dx, dy int) {
	if !d.Valid() {
		return 0, 0
	}
	v := directionDeltas[d]
	return v[0], v[1]
}

// ParseDirection accepts the String form of a direction, case-insensitively,
// as well as the single letters U, D, L and R.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP", "U":
		return Up, nil
	case "DOWN", "D":
		return Down, nil
	case "LEFT", "L":
		return Left, nil
	case "RIGHT", "R":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Point is a position on the unbounded integer plane.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) Add(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// Manhattan returns the L1 distance between p and q.
func (p Point) Manhattan(q Point) int {
	return absInt(p.X-q.X) + absInt(p.Y-q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Move is the record a population emits for every walker step.
type Move struct {
	WalkerID  int
	From      Point
	Direction Direction
	To        Point
}

// Source produces directions. Implementations may fail; failures are
// reported as errors and never as out-of-range directions.
type Source interface {
	NextDirection() (Direction, error)
}

// QualityReporter is implemented by sources that expose a health score in [0, 1].
type QualityReporter interface {
	Quality() float64
}

// Named is implemented by sources that carry a display name.
type Named interface {
	Name() string
}

// SourceName returns the display name of src, falling back to its type.
func SourceName(src Source) string {
	if n, ok := src.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", src)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func() (Direction, error)

func (f SourceFunc) NextDirection() (Direction, error) { return f() }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
