package grid

import "github.com/zyedidia/generic/heap"

// --- A* pathfinding ---

type pathNode struct {
	loc Location
	g   int
	f   int
	seq int // insertion order, last tie-breaker
}

// openLess orders by lowest f, then highest g (deeper nodes first), then
// insertion order so equal-cost searches are deterministic.
func openLess(a, b pathNode) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g > b.g
	}
	return a.seq < b.seq
}

// heuristic is the squared Euclidean distance. It is not admissible on a
// 4-connected grid, so paths are not guaranteed to be shortest around
// obstacles; on open ground they are.
func heuristic(a, b Location) int {
	return a.DistanceSquared(b)
}

// PathTo runs A* from start to goal and returns the path including both
// endpoints, truncated to maxSteps+1 nodes. A neighbour is a valid step if it
// is in bounds and is either the goal or walkable. The result is empty when
// the goal cannot be reached.
func (g *Grid[H]) PathTo(start, goal Location, walkable func(Location) bool, maxSteps int) []Location {
	return truncate(g.astar(start, goal, walkable), maxSteps)
}

// PathFor is PathTo with "no occupant of kind" as the walkability test.
func (g *Grid[H]) PathFor(kind Kind, start, goal Location, maxSteps int) []Location {
	return g.PathTo(start, goal, g.vacant(kind), maxSteps)
}

// PathNextTo is PathFor but stops next to the goal: if the truncated path
// ends on the goal, that last node is dropped.
func (g *Grid[H]) PathNextTo(kind Kind, start, goal Location, maxSteps int) []Location {
	path := g.PathFor(kind, start, goal, maxSteps)
	if n := len(path); n > 0 && path[n-1] == goal {
		path = path[:n-1]
	}
	return path
}

// MoveToward walks the occupant of kind at start along PathNextTo and moves
// it to the last node. It reports false, leaving the grid untouched, when no
// path exists, when the path does not leave start, or when the move is
// refused.
func (g *Grid[H]) MoveToward(kind Kind, start, goal Location, maxSteps int) ([]Location, bool) {
	path := g.PathNextTo(kind, start, goal, maxSteps)
	if len(path) < 2 {
		return nil, false
	}
	if _, ok := g.Move(kind, start, path[len(path)-1]); !ok {
		return nil, false
	}
	return path, true
}

func (g *Grid[H]) vacant(kind Kind) func(Location) bool {
	return func(loc Location) bool {
		_, ok := g.Get(kind, loc)
		return !ok
	}
}

func (g *Grid[H]) astar(start, goal Location, walkable func(Location) bool) []Location {
	si, ok := g.index(start)
	if !ok || !g.Within(goal) {
		return nil
	}
	if start == goal {
		return []Location{start}
	}

	best := make([]int, g.Area())
	for i := range best {
		best[i] = -1
	}
	parent := make([]int, g.Area())
	best[si] = 0
	parent[si] = -1

	seq := 0
	open := heap.New[pathNode](openLess)
	open.Push(pathNode{loc: start, g: 0, f: heuristic(start, goal), seq: seq})

	for open.Size() > 0 {
		cur, _ := open.Pop()
		ci, _ := g.index(cur.loc)
		if cur.g > best[ci] {
			continue // stale entry
		}
		if cur.loc == goal {
			return g.buildPath(parent, ci)
		}
		for _, d := range cardinals {
			next := cur.loc.Add(d)
			ni, ok := g.index(next)
			if !ok || (next != goal && !walkable(next)) {
				continue
			}
			ng := cur.g + 1
			if best[ni] >= 0 && ng >= best[ni] {
				continue
			}
			best[ni] = ng
			parent[ni] = ci
			seq++
			open.Push(pathNode{loc: next, g: ng, f: ng + heuristic(next, goal), seq: seq})
		}
	}
	return nil
}

func (g *Grid[H]) buildPath(parent []int, end int) []Location {
	var path []Location
	for i := end; i >= 0; i = parent[i] {
		path = append(path, g.location(i))
	}
	// Reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func truncate(path []Location, maxSteps int) []Location {
	if maxSteps < 0 {
		maxSteps = 0
	}
	if len(path) > maxSteps+1 {
		path = path[:maxSteps+1]
	}
	return path
}
