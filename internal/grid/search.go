package grid

import (
	"iter"

	"github.com/zyedidia/generic/queue"
)

// Traversal is a lazy breadth-first walk over a grid. It is finite and
// cannot be restarted; build a new one to search again.
type Traversal struct {
	within  func(Location) bool
	index   func(Location) (int, bool)
	shape   Shape
	queue   *queue.Queue[Location]
	visited []bool
	order   [4]Location
}

// Breadth starts a traversal at start that fans out along direction first.
// Each expansion enqueues the neighbours in the order +d, +rot90(d), -d,
// -rot90(d). A direction that is not an axis-aligned unit step falls back to
// +X. A location is yielded only if it is in bounds, unvisited and inside
// shape; the shape test happens when the location is dequeued.
func (g *Grid[H]) Breadth(start, direction Location, shape Shape) *Traversal {
	if !direction.IsUnit() {
		direction = Right
	}
	if shape == nil {
		shape = All{}
	}
	rot := direction.Rotate90()
	t := &Traversal{
		within:  g.Within,
		index:   g.index,
		shape:   shape,
		queue:   queue.New[Location](),
		visited: make([]bool, g.Area()),
		order:   [4]Location{direction, rot, Zero.Sub(direction), Zero.Sub(rot)},
	}
	t.queue.Enqueue(start)
	return t
}

// Next returns the next location in visiting order.
func (t *Traversal) Next() (Location, bool) {
	for !t.queue.Empty() {
		cur := t.queue.Dequeue()
		i, ok := t.index(cur)
		if !ok || t.visited[i] || !t.shape.Contains(cur) {
			continue
		}
		t.visited[i] = true
		for _, d := range t.order {
			next := cur.Add(d)
			if j, ok := t.index(next); ok && !t.visited[j] {
				t.queue.Enqueue(next)
			}
		}
		return cur, true
	}
	return Location{}, false
}

// All drains the traversal as a range-over-func sequence.
func (t *Traversal) All() iter.Seq[Location] {
	return func(yield func(Location) bool) {
		for {
			loc, ok := t.Next()
			if !ok || !yield(loc) {
				return
			}
		}
	}
}

// NearestMatching returns the first location after start, in breadth-first
// order, whose occupant of kind satisfies match. The start cell is never
// reported.
func (g *Grid[H]) NearestMatching(kind Kind, start, direction Location, shape Shape, match func(H) bool) (Location, bool) {
	t := g.Breadth(start, direction, shape)
	t.Next() // skip the searcher's own cell
	for loc := range t.All() {
		if h, ok := g.Get(kind, loc); ok && match(h) {
			return loc, true
		}
	}
	return Location{}, false
}

// NearestEmpty returns the first location after start whose kind slot is free.
func (g *Grid[H]) NearestEmpty(kind Kind, start, direction Location, shape Shape) (Location, bool) {
	t := g.Breadth(start, direction, shape)
	t.Next()
	for loc := range t.All() {
		if _, ok := g.Get(kind, loc); !ok {
			return loc, true
		}
	}
	return Location{}, false
}
