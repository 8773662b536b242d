package grid

// Shape restricts which cells a search may visit.
type Shape interface {
	Contains(loc Location) bool
}

// All accepts every location.
type All struct{}

func (All) Contains(Location) bool { return true }

// Circle accepts locations whose squared distance from Center is at most
// Radius².
type Circle struct {
	CenterX, CenterY float64
	Radius           float64
}

// CircleAt centres a circle on a cell.
func CircleAt(center Location, radius float64) Circle {
	return Circle{CenterX: float64(center.X), CenterY: float64(center.Y), Radius: radius}
}

func (c Circle) Contains(loc Location) bool {
	dx := float64(loc.X) - c.CenterX
	dy := float64(loc.Y) - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Square is the half-open box [Start, End).
type Square struct {
	Start, End Location
}

func (s Square) Contains(loc Location) bool {
	return loc.X >= s.Start.X && loc.X < s.End.X &&
		loc.Y >= s.Start.Y && loc.Y < s.End.Y
}

// Empty reports whether the box contains no cells.
func (s Square) Empty() bool {
	return s.End.X <= s.Start.X || s.End.Y <= s.Start.Y
}

// Intner is the slice of math/rand/v2's *Rand that Random needs.
type Intner interface {
	IntN(n int) int
}

// Random picks a uniformly distributed cell inside the box. An empty box
// yields Start.
func (s Square) Random(rng Intner) Location {
	if s.Empty() {
		return s.Start
	}
	return Location{
		X: s.Start.X + rng.IntN(s.End.X-s.Start.X),
		Y: s.Start.Y + rng.IntN(s.End.Y-s.Start.Y),
	}
}
