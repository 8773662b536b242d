package turn

import (
	"fmt"
	"testing"
)

func speeds(m map[string]int) SpeedFunc[string] {
	return func(h string) (int, bool) {
		v, ok := m[h]
		return v, ok
	}
}

func fmtBuckets(b [][]string) string {
	return fmt.Sprint(b)
}

func TestScheduler_IdleUntilRebuilt(t *testing.T) {
	s := New[string]()
	if s.State() != Idle {
		t.Fatalf("expected idle, got %s", s.State())
	}
	if b, ok := s.Advance(); ok || b != nil {
		t.Fatalf("advance on idle scheduler should yield nothing, got %v", b)
	}
	s.Rebuild(nil, speeds(nil))
	if s.State() != Idle || s.Len() != 0 {
		t.Fatal("empty rebuild must stay idle")
	}
}

func TestScheduler_HarmonicBuckets(t *testing.T) {
	s := New[string]()
	s.Rebuild([]string{"a", "b", "c"}, speeds(map[string]int{"a": 1, "b": 1, "c": 2}))
	// bucket 0: speed-1 tier; bucket 1: speed-2 tier plus the speed-1
	// units replicated at index (0+1)*2-1.
	want := "[[a b] [a b c]]"
	if got := fmtBuckets(s.Upcoming()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if s.State() != Ready {
		t.Fatalf("expected ready, got %s", s.State())
	}
}

func TestScheduler_ReplicationFollowsMultiples(t *testing.T) {
	s := New[string]()
	s.Rebuild([]string{"fast", "slow"}, speeds(map[string]int{"fast": 2, "slow": 4}))
	// Buckets 0 and 2 are empty and dropped; slow lands in bucket 3 where
	// fast is replicated too (4 is a multiple of 2).
	want := "[[fast] [fast slow]]"
	if got := fmtBuckets(s.Upcoming()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	s.Rebuild([]string{"x", "y"}, speeds(map[string]int{"x": 2, "y": 3}))
	want = "[[x] [y]]"
	if got := fmtBuckets(s.Upcoming()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestScheduler_FasterUnitsActMoreOften(t *testing.T) {
	s := New[string]()
	s.Rebuild([]string{"one", "three"}, speeds(map[string]int{"one": 1, "three": 3}))
	counts := map[string]int{}
	for i := 0; i < s.Len(); i++ {
		b, _ := s.Advance()
		for _, h := range b {
			counts[h]++
		}
	}
	if counts["one"] != 3 || counts["three"] != 1 {
		t.Fatalf("expected one=3 three=1 per cycle, got %v", counts)
	}
}

func TestScheduler_AdvanceWraps(t *testing.T) {
	s := New[string]()
	s.Rebuild([]string{"a", "b", "c"}, speeds(map[string]int{"a": 1, "b": 1, "c": 2}))
	first, _ := s.Advance()
	second, _ := s.Advance()
	third, ok := s.Advance()
	if !ok {
		t.Fatal("advance should keep cycling")
	}
	if fmt.Sprint(first) != "[a b]" || fmt.Sprint(second) != "[a b c]" {
		t.Fatalf("unexpected order %v %v", first, second)
	}
	if fmt.Sprint(third) != fmt.Sprint(first) {
		t.Fatalf("expected wrap to first bucket, got %v", third)
	}
}

func TestScheduler_MissingSpeedExcluded(t *testing.T) {
	s := New[string]()
	s.Rebuild([]string{"a", "ghost", "zero"}, speeds(map[string]int{"a": 1, "zero": 0}))
	b, ok := s.Advance()
	if !ok || fmt.Sprint(b) != "[a]" {
		t.Fatalf("expected only a, got %v", b)
	}
}

func TestScheduler_RebuildKeepsCursorModulo(t *testing.T) {
	s := New[string]()
	sp := speeds(map[string]int{"a": 1, "b": 2, "c": 3})
	s.Rebuild([]string{"a", "b", "c"}, sp)
	if s.Len() != 3 {
		t.Fatalf("expected 3 buckets, got %d", s.Len())
	}
	s.Advance()
	s.Advance()
	if s.Cursor() != 2 {
		t.Fatalf("expected cursor 2, got %d", s.Cursor())
	}
	s.Rebuild([]string{"a", "b"}, sp)
	if s.Len() != 2 || s.Cursor() != 0 {
		t.Fatalf("expected 2 buckets and cursor 2%%2=0, got len=%d cursor=%d", s.Len(), s.Cursor())
	}

	s.Advance()
	s.Rebuild([]string{"a", "b", "c"}, sp)
	if s.Cursor() != 1 {
		t.Fatalf("cursor should survive a growing rebuild, got %d", s.Cursor())
	}
}

func TestScheduler_RebuildToEmptyGoesIdle(t *testing.T) {
	s := New[string]()
	s.Rebuild([]string{"a"}, speeds(map[string]int{"a": 1}))
	s.Rebuild(nil, speeds(nil))
	if s.State() != Idle || s.Cursor() != 0 {
		t.Fatalf("expected idle with cursor 0, got %s cursor=%d", s.State(), s.Cursor())
	}
	if _, ok := s.Advance(); ok {
		t.Fatal("advance must be a no-op once idle")
	}
}

func TestScheduler_PeekAndUpcoming(t *testing.T) {
	s := New[string]()
	s.Rebuild([]string{"a", "b"}, speeds(map[string]int{"a": 1, "b": 2}))
	s.Advance()
	p, _ := s.Peek()
	if fmt.Sprint(p) != "[a b]" {
		t.Fatalf("expected peek [a b], got %v", p)
	}
	if got := fmtBuckets(s.Upcoming()); got != "[[a b] [a]]" {
		t.Fatalf("expected rotated order, got %s", got)
	}
	if s.Cursor() != 1 {
		t.Fatal("peek must not move the cursor")
	}
	p[0] = "mutated"
	again, _ := s.Peek()
	if again[0] != "a" {
		t.Fatal("returned buckets must be copies")
	}
	s.Reset()
	if s.State() != Idle {
		t.Fatal("reset should go idle")
	}
}
