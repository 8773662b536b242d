package game

import (
	"strings"
	"testing"
)

func TestBattleLog_Filters(t *testing.T) {
	bl := NewBattleLog(false)
	bl.Add(1, "1.00", "team1", "move", "moved", "(0,0) → (2,0)", 2)
	bl.Add(1, "2.00", "team2", "move", "blocked", "", 0)
	bl.Add(2, "1.00", "team1", "combat", "attack", "hits 2.00 for 3 (0/3)", 3)
	bl.Add(2, "1.00", "team1", "combat", "kill", "2.00", 0)
	bl.AddVerbose(2, "1.00", "team1", "move", "position", "(2,0)", 0)

	if bl.Len() != 4 {
		t.Fatalf("expected verbose entries to be dropped, got %d entries", bl.Len())
	}
	if n := len(bl.Filter("move", "")); n != 2 {
		t.Fatalf("expected 2 move entries, got %d", n)
	}
	if n := len(bl.FilterUnit("1.00")); n != 3 {
		t.Fatalf("expected 3 entries for 1.00, got %d", n)
	}
	if n := len(bl.FilterTurnRange(2, 2)); n != 2 {
		t.Fatalf("expected 2 entries on turn 2, got %d", n)
	}
	if e, ok := bl.LastOf("combat", ""); !ok || e.Key != "kill" {
		t.Fatalf("expected the kill as the last combat entry, got %+v", e)
	}
	if _, ok := bl.LastOf("battle", "over"); ok {
		t.Fatal("expected no battle/over entry")
	}
	if !bl.HasEntry("combat", "attack", "for 3") {
		t.Fatal("expected to find the attack by value")
	}
	if got := strings.Count(bl.FormatRange(1, 1), "\n"); got != 2 {
		t.Fatalf("expected 2 formatted lines for turn 1, got %d", got)
	}
}

func TestBattleLog_VerboseAndSink(t *testing.T) {
	bl := NewBattleLog(true)
	var seen []LogEntry
	bl.OnEntry(func(e LogEntry) { seen = append(seen, e) })

	bl.AddVerbose(3, "1.02", "team1", "move", "position", "(4,4)", 0)
	if bl.Len() != 1 || len(seen) != 1 {
		t.Fatalf("expected the verbose entry recorded and forwarded, got %d/%d", bl.Len(), len(seen))
	}
	if s := seen[0].String(); !strings.HasPrefix(s, "[T=003] 1.02") {
		t.Fatalf("unexpected format %q", s)
	}
}

func TestBattleLog_Summary(t *testing.T) {
	b := NewBattle(
		WithGridSize(4, 4),
		WithUnit(1, 0, 0, stats(2, 1, 10, 3, 1)),
		WithUnit(2, 1, 0, stats(2, 1, 3, 1, 1)),
	)
	b.Step()
	s := b.Log.Summary(b)
	for _, want := range []string{"T=001", "team1: alive=1 hp=10", "team2: alive=0", "kills=1", "winner: team1"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected summary to contain %q:\n%s", want, s)
		}
	}
}

func TestBattle_VerboseLogsPositions(t *testing.T) {
	b := NewBattle(
		WithVerbose(true),
		WithGridSize(8, 8),
		WithUnit(1, 0, 0, stats(0, 1, 10, 1, 1)),
		WithUnit(2, 5, 5, stats(0, 1, 10, 1, 1)),
	)
	b.Step()
	if n := b.Log.CountCategory("move", "position"); n != 2 {
		t.Fatalf("expected 2 position entries, got %d", n)
	}
}
