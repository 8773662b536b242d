package grid

import "fmt"

// Location is an integer cell coordinate. It is a plain value and can be used
// as a map key.
type Location struct {
	X, Y int
}

// Loc is shorthand for Location{X: x, Y: y}.
func Loc(x, y int) Location {
	return Location{X: x, Y: y}
}

var (
	Zero  = Location{}
	Right = Location{X: 1}
	Left  = Location{X: -1}
	Down  = Location{Y: 1}
	Up    = Location{Y: -1}
)

// cardinals is the A* successor order: +x, -x, +y, -y.
var cardinals = [4]Location{Right, Left, Down, Up}

func (l Location) Add(o Location) Location { return Location{l.X + o.X, l.Y + o.Y} }
func (l Location) Sub(o Location) Location { return Location{l.X - o.X, l.Y - o.Y} }

// Rotate90 returns (-y, x).
func (l Location) Rotate90() Location { return Location{-l.Y, l.X} }

// LengthSquared returns x² + y².
func (l Location) LengthSquared() int { return l.X*l.X + l.Y*l.Y }

// DistanceSquared returns the squared Euclidean distance between l and o.
func (l Location) DistanceSquared(o Location) int { return l.Sub(o).LengthSquared() }

// IsUnit reports whether l is one of the four axis-aligned unit steps.
func (l Location) IsUnit() bool { return l.LengthSquared() == 1 }

// Axis reduces l to a unit step along its dominant component, e.g.
// (5,-2) → (1,0) and (1,-3) → (0,-1). Ties go to X; Zero stays Zero.
func (l Location) Axis() Location {
	if l == Zero {
		return Zero
	}
	if abs(l.X) >= abs(l.Y) {
		return Location{X: sign(l.X)}
	}
	return Location{Y: sign(l.Y)}
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
