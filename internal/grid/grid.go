// Package grid is a fixed-size occupancy grid with breadth-first and A*
// search. Each cell has one slot per Kind; the grid stores occupant handles
// but never interprets them beyond caller-supplied predicates.
package grid

import "fmt"

// Placement is the metadata handed to a Spawn factory: where the new
// occupant lives and under which channel.
type Placement struct {
	Location Location
	Kind     Kind
}

// Grid maps (Location, Kind) to at most one occupant handle.
type Grid[H comparable] struct {
	width   int
	height  int
	cells   []Cell[H] // index = y*width + x
	version uint64
}

// New creates an empty grid. Negative dimensions are treated as positive.
func New[H comparable](width, height int) *Grid[H] {
	width, height = abs(width), abs(height)
	return &Grid[H]{
		width:  width,
		height: height,
		cells:  make([]Cell[H], width*height),
	}
}

// Size returns the grid dimensions.
func (g *Grid[H]) Size() (int, int) { return g.width, g.height }

// Area returns width*height.
func (g *Grid[H]) Area() int { return len(g.cells) }

// Within reports whether loc lies inside [0,width)×[0,height).
func (g *Grid[H]) Within(loc Location) bool {
	return loc.X >= 0 && loc.X < g.width && loc.Y >= 0 && loc.Y < g.height
}

// Version increases whenever a unit occupant is inserted or removed. Moves
// do not change it. Turn order consumers rebuild when it differs from the
// value they last saw.
func (g *Grid[H]) Version() uint64 { return g.version }

// Get returns the occupant of kind at loc. Out of bounds is simply absent.
func (g *Grid[H]) Get(kind Kind, loc Location) (H, bool) {
	c := g.cell(loc)
	if c == nil {
		var zero H
		return zero, false
	}
	return c.Get(kind)
}

// Cell returns a copy of the cell at loc.
func (g *Grid[H]) Cell(loc Location) (Cell[H], bool) {
	c := g.cell(loc)
	if c == nil {
		return Cell[H]{}, false
	}
	return *c, true
}

// Set stores h at loc. Returns false without mutating anything when loc is
// out of bounds or the slot is already taken.
func (g *Grid[H]) Set(kind Kind, loc Location, h H) bool {
	c := g.cell(loc)
	if c == nil || !kind.Valid() || !c.Empty(kind) {
		return false
	}
	c.put(kind, h)
	g.touch(kind)
	return true
}

// Take clears the slot and returns its prior occupant.
func (g *Grid[H]) Take(kind Kind, loc Location) (H, bool) {
	c := g.cell(loc)
	if c == nil || !kind.Valid() {
		var zero H
		return zero, false
	}
	h, ok := c.take(kind)
	if ok {
		g.touch(kind)
	}
	return h, ok
}

// Spawn installs a new occupant created by factory. The factory only runs
// once the slot is known to be free and in bounds, so a refused spawn has no
// side effects.
func (g *Grid[H]) Spawn(kind Kind, loc Location, factory func(Placement) H) (H, bool) {
	c := g.cell(loc)
	if c == nil || !kind.Valid() || !c.Empty(kind) {
		var zero H
		return zero, false
	}
	h := factory(Placement{Location: loc, Kind: kind})
	c.put(kind, h)
	g.touch(kind)
	return h, true
}

// Move relocates the occupant of kind from one cell to another. It fails
// without mutation when to is out of bounds or taken, or from is empty.
func (g *Grid[H]) Move(kind Kind, from, to Location) (H, bool) {
	var zero H
	src, dst := g.cell(from), g.cell(to)
	if src == nil || dst == nil || !kind.Valid() {
		return zero, false
	}
	if !dst.Empty(kind) || src.Empty(kind) {
		return zero, false
	}
	h, _ := src.take(kind)
	dst.put(kind, h)
	return h, true
}

// Remove is the on-destroy notification: the owner of h calls it when the
// backing object goes away. The slot is only cleared if it still holds h.
func (g *Grid[H]) Remove(kind Kind, loc Location, h H) bool {
	cur, ok := g.Get(kind, loc)
	if !ok || cur != h {
		return false
	}
	_, ok = g.Take(kind, loc)
	return ok
}

// Occupants lists the handles of kind in index order.
func (g *Grid[H]) Occupants(kind Kind) []H {
	var out []H
	for i := range g.cells {
		if h, ok := g.cells[i].Get(kind); ok {
			out = append(out, h)
		}
	}
	return out
}

// Locate returns the location of h under kind by scanning the grid.
func (g *Grid[H]) Locate(kind Kind, h H) (Location, bool) {
	for i := range g.cells {
		if cur, ok := g.cells[i].Get(kind); ok && cur == h {
			return g.location(i), true
		}
	}
	return Location{}, false
}

// Count returns how many slots of kind are occupied.
func (g *Grid[H]) Count(kind Kind) int {
	n := 0
	for i := range g.cells {
		if !g.cells[i].Empty(kind) {
			n++
		}
	}
	return n
}

// CheckInvariants verifies that no handle occupies two slots of the same
// kind. It is meant for tests and debug builds.
func (g *Grid[H]) CheckInvariants() error {
	if len(g.cells) != g.width*g.height {
		return fmt.Errorf("grid: %d cells for %dx%d", len(g.cells), g.width, g.height)
	}
	for _, kind := range Kinds() {
		seen := make(map[H]Location)
		for i := range g.cells {
			h, ok := g.cells[i].Get(kind)
			if !ok {
				continue
			}
			loc := g.location(i)
			if prev, dup := seen[h]; dup {
				return fmt.Errorf("grid: %s %v at both %s and %s", kind, h, prev, loc)
			}
			seen[h] = loc
		}
	}
	return nil
}

func (g *Grid[H]) touch(kind Kind) {
	if kind == KindUnit {
		g.version++
	}
}

func (g *Grid[H]) cell(loc Location) *Cell[H] {
	i, ok := g.index(loc)
	if !ok {
		return nil
	}
	return &g.cells[i]
}

func (g *Grid[H]) index(loc Location) (int, bool) {
	if !g.Within(loc) {
		return 0, false
	}
	return loc.Y*g.width + loc.X, true
}

func (g *Grid[H]) location(i int) Location {
	return Location{X: i % g.width, Y: i / g.width}
}
