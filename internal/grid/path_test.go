package grid

import "testing"

func wall(g *Grid[int], kind Kind, x int, ys ...int) {
	for _, y := range ys {
		g.Set(kind, Loc(x, y), 100+y)
	}
}

func checkContiguous(t *testing.T, path []Location) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		if path[i].DistanceSquared(path[i-1]) != 1 {
			t.Fatalf("path jumps from %s to %s", path[i-1], path[i])
		}
	}
}

func TestPathFor_EmptyGrid(t *testing.T) {
	g := New[int](5, 5)
	path := g.PathFor(KindUnit, Loc(0, 0), Loc(4, 4), 100)
	// Manhattan distance 8 → 9 nodes.
	if len(path) != 9 {
		t.Fatalf("expected 9 nodes, got %d: %v", len(path), path)
	}
	if path[0] != Loc(0, 0) || path[8] != Loc(4, 4) {
		t.Fatalf("expected endpoints (0,0)→(4,4), got %s→%s", path[0], path[8])
	}
	checkContiguous(t, path)
}

func TestPathFor_StepLimit(t *testing.T) {
	g := New[int](5, 5)
	path := g.PathFor(KindUnit, Loc(0, 0), Loc(4, 4), 3)
	if len(path) != 4 {
		t.Fatalf("expected start + 3 moves, got %d", len(path))
	}
	if path[0] != Loc(0, 0) {
		t.Fatalf("expected path to start at (0,0), got %s", path[0])
	}
}

func TestPathFor_ZeroSteps(t *testing.T) {
	g := New[int](5, 5)
	path := g.PathFor(KindUnit, Loc(0, 0), Loc(4, 4), 0)
	if len(path) != 1 || path[0] != Loc(0, 0) {
		t.Fatalf("expected only the start, got %v", path)
	}
	if neg := g.PathFor(KindUnit, Loc(0, 0), Loc(4, 4), -2); len(neg) != 1 {
		t.Fatalf("negative steps should behave like zero, got %v", neg)
	}
}

func TestPathFor_SameLocation(t *testing.T) {
	g := New[int](5, 5)
	path := g.PathFor(KindUnit, Loc(2, 2), Loc(2, 2), 100)
	if len(path) != 1 || path[0] != Loc(2, 2) {
		t.Fatalf("expected [(2,2)], got %v", path)
	}
}

func TestPathFor_Adjacent(t *testing.T) {
	g := New[int](5, 5)
	path := g.PathFor(KindUnit, Loc(2, 2), Loc(2, 3), 100)
	if len(path) != 2 || path[0] != Loc(2, 2) || path[1] != Loc(2, 3) {
		t.Fatalf("expected [(2,2) (2,3)], got %v", path)
	}
}

func TestPathFor_BlockedByUnits(t *testing.T) {
	g := New[int](5, 5)
	wall(g, KindUnit, 2, 0, 1, 2, 3, 4)
	if path := g.PathFor(KindUnit, Loc(0, 2), Loc(4, 2), 100); len(path) != 0 {
		t.Fatalf("expected no path through a full wall, got %v", path)
	}
}

func TestPathFor_TilesDontBlockUnits(t *testing.T) {
	g := New[int](5, 5)
	wall(g, KindTile, 2, 0, 1, 2, 3, 4)
	path := g.PathFor(KindUnit, Loc(0, 2), Loc(4, 2), 100)
	if len(path) == 0 {
		t.Fatal("tiles must not block unit paths")
	}
	if path[0] != Loc(0, 2) || path[len(path)-1] != Loc(4, 2) {
		t.Fatalf("unexpected endpoints %s→%s", path[0], path[len(path)-1])
	}
}

func TestPathFor_UnitsDontBlockTiles(t *testing.T) {
	g := New[int](5, 5)
	wall(g, KindUnit, 2, 0, 1, 2, 3, 4)
	path := g.PathFor(KindTile, Loc(0, 2), Loc(4, 2), 100)
	if len(path) == 0 {
		t.Fatal("units must not block tile paths")
	}
	if path[len(path)-1] != Loc(4, 2) {
		t.Fatalf("expected to reach (4,2), got %s", path[len(path)-1])
	}
}

func TestPathFor_AroundObstacle(t *testing.T) {
	g := New[int](5, 5)
	wall(g, KindUnit, 2, 1, 2, 3, 4) // gap at y=0
	path := g.PathFor(KindUnit, Loc(0, 2), Loc(4, 2), 100)
	if len(path) == 0 {
		t.Fatal("expected a path through the gap")
	}
	if path[0] != Loc(0, 2) || path[len(path)-1] != Loc(4, 2) {
		t.Fatalf("unexpected endpoints %s→%s", path[0], path[len(path)-1])
	}
	for _, p := range path {
		if p.X == 2 && p.Y >= 1 {
			t.Fatalf("path crosses the wall at %s", p)
		}
	}
	checkContiguous(t, path)
}

func TestPathFor_OccupiedGoalIsReachable(t *testing.T) {
	g := New[int](5, 1)
	g.Set(KindUnit, Loc(4, 0), 1)
	path := g.PathFor(KindUnit, Loc(0, 0), Loc(4, 0), 100)
	if len(path) != 5 {
		t.Fatalf("goal cell is always enterable, expected 5 nodes, got %v", path)
	}
}

func TestPathFor_GoalOutOfBounds(t *testing.T) {
	g := New[int](3, 3)
	if path := g.PathFor(KindUnit, Loc(0, 0), Loc(5, 5), 100); len(path) != 0 {
		t.Fatalf("expected empty path, got %v", path)
	}
	if path := g.PathFor(KindUnit, Loc(-5, -5), Loc(-5, -5), 100); len(path) != 0 {
		t.Fatalf("expected empty path for an out-of-bounds start equal to the goal, got %v", path)
	}
}

func TestPathTo_CustomWalkable(t *testing.T) {
	g := New[int](3, 3)
	avoidCentre := func(l Location) bool { return l != Loc(1, 1) }
	path := g.PathTo(Loc(1, 0), Loc(1, 2), avoidCentre, 10)
	if len(path) != 5 {
		t.Fatalf("expected detour of 5 nodes, got %v", path)
	}
	for _, p := range path {
		if p == Loc(1, 1) {
			t.Fatal("path entered an unwalkable cell")
		}
	}
}

func TestPathNextTo_StopsAdjacent(t *testing.T) {
	g := New[int](5, 1)
	g.Set(KindUnit, Loc(4, 0), 1)
	path := g.PathNextTo(KindUnit, Loc(0, 0), Loc(4, 0), 100)
	if len(path) != 4 || path[3] != Loc(3, 0) {
		t.Fatalf("expected to stop at (3,0), got %v", path)
	}
	short := g.PathNextTo(KindUnit, Loc(0, 0), Loc(4, 0), 2)
	if len(short) != 3 || short[2] != Loc(2, 0) {
		t.Fatalf("truncated path not ending on the goal is kept whole, got %v", short)
	}
}

func TestMoveToward(t *testing.T) {
	g := New[int](6, 1)
	g.Set(KindUnit, Loc(0, 0), 1)
	g.Set(KindUnit, Loc(5, 0), 2)

	path, ok := g.MoveToward(KindUnit, Loc(0, 0), Loc(5, 0), 2)
	if !ok || len(path) != 3 {
		t.Fatalf("expected a 2-step move, got %v ok=%v", path, ok)
	}
	if h, _ := g.Get(KindUnit, Loc(2, 0)); h != 1 {
		t.Fatalf("expected unit 1 at (2,0), got %d", h)
	}

	path, ok = g.MoveToward(KindUnit, Loc(2, 0), Loc(5, 0), 10)
	if !ok || path[len(path)-1] != Loc(4, 0) {
		t.Fatalf("expected to stop next to the goal at (4,0), got %v ok=%v", path, ok)
	}

	if _, ok := g.MoveToward(KindUnit, Loc(4, 0), Loc(5, 0), 10); ok {
		t.Fatal("already adjacent: nothing to move")
	}
	if h, _ := g.Get(KindUnit, Loc(4, 0)); h != 1 {
		t.Fatal("a refused move must leave the unit in place")
	}
}

func TestMoveToward_NoPath(t *testing.T) {
	g := New[int](5, 5)
	wall(g, KindUnit, 2, 0, 1, 2, 3, 4)
	g.Set(KindUnit, Loc(0, 2), 1)
	if _, ok := g.MoveToward(KindUnit, Loc(0, 2), Loc(4, 2), 10); ok {
		t.Fatal("expected no movement when the goal is walled off")
	}
	if h, _ := g.Get(KindUnit, Loc(0, 2)); h != 1 {
		t.Fatal("grid must be unchanged after a failed move")
	}
}
