package game

import (
	"testing"

	"github.com/Garsondee/Grid-Tactics/internal/grid"
)

func TestHealth_DamageSaturates(t *testing.T) {
	h := NewHealth(5)
	h.Damage(3)
	if h.Current != 2 || h.Dead() {
		t.Fatalf("expected 2 hp and alive, got %+v", h)
	}
	h.Damage(10)
	if h.Current != 0 || !h.Dead() {
		t.Fatalf("expected 0 hp and dead, got %+v", h)
	}
}

func TestHealth_Percent(t *testing.T) {
	h := NewHealth(4)
	h.Damage(1)
	if got := h.Percent(); got != 0.75 {
		t.Fatalf("expected 0.75, got %v", got)
	}
	if got := (Health{}).Percent(); got != 0 {
		t.Fatalf("expected 0 for a zero max, got %v", got)
	}
}

func TestUnit_InRange(t *testing.T) {
	tests := []struct {
		reach  int
		target grid.Location
		want   bool
	}{
		{1, grid.Loc(1, 0), true},
		{1, grid.Loc(1, 1), false},
		{0, grid.Loc(0, 1), true},
		{2, grid.Loc(1, 1), true},
		{2, grid.Loc(2, 1), false},
		{10, grid.Loc(6, 8), true},
		{10, grid.Loc(7, 8), false},
	}
	for _, tt := range tests {
		u := &Unit{Attack: Attack{Range: tt.reach}}
		if got := u.InRange(tt.target); got != tt.want {
			t.Fatalf("range %d to %s: expected %v, got %v", tt.reach, tt.target, tt.want, got)
		}
	}
}

func TestTeam_String(t *testing.T) {
	if s := Team(2).String(); s != "team2" {
		t.Fatalf("expected team2, got %s", s)
	}
}

func TestRandom_Deterministic(t *testing.T) {
	a, b := NewRandom(99), NewRandom(99)
	for range 50 {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("expected equal streams, got %d and %d", x, y)
		}
	}
}

func TestRandom_Helpers(t *testing.T) {
	r := NewRandom(1)
	if v := r.Range(7, 7); v != 7 {
		t.Fatalf("expected an empty range to return lo, got %d", v)
	}
	for range 100 {
		if v := r.Range(-2, 2); v < -2 || v >= 2 {
			t.Fatalf("expected [-2,2), got %d", v)
		}
	}
	if r.Ratio(1, 0) {
		t.Fatal("expected a zero denominator to be false")
	}
	if !r.Ratio(3, 3) {
		t.Fatal("expected n == d to always be true")
	}
	if v := Pick(r, []string{"only"}); v != "only" {
		t.Fatalf("expected only, got %s", v)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected Pick on an empty slice to panic")
		}
	}()
	Pick(r, []int(nil))
}
