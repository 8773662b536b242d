package game

import (
	"fmt"
	"strings"
)

// LogEntry is one recorded battle event.
type LogEntry struct {
	Turn     int     `msgpack:"t"`
	Unit     string  `msgpack:"u"`           // label e.g. "1.03", or "--" for global events
	Team     string  `msgpack:"tm"`          // "team1", "team2", or "--"
	Category string  `msgpack:"c"`           // turn, move, search, combat, battle
	Key      string  `msgpack:"k"`           // specific event name within the category
	Value    string  `msgpack:"v"`           // human-readable detail
	NumVal   float64 `msgpack:"n,omitempty"` // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] 1.03  move      moved            (3,4) → (5,4)
func (e LogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-5s %-9s %-16s %s",
		e.Turn, e.Unit, e.Category, e.Key, e.Value)
}

// BattleLog collects structured events for a battle. It is unbounded and
// machine-readable; the viewer keeps its own short ring buffer on top.
type BattleLog struct {
	entries []LogEntry
	verbose bool
	sink    func(LogEntry)
}

// NewBattleLog creates a log. If verbose is true, per-turn positions are
// also recorded.
func NewBattleLog(verbose bool) *BattleLog {
	return &BattleLog{verbose: verbose}
}

// Verbose reports whether per-turn detail is recorded.
func (bl *BattleLog) Verbose() bool { return bl.verbose }

// OnEntry registers a callback invoked for every recorded entry.
func (bl *BattleLog) OnEntry(fn func(LogEntry)) {
	bl.sink = fn
}

// Add records a new entry.
func (bl *BattleLog) Add(turn int, unit, team, category, key, value string, numVal float64) {
	e := LogEntry{
		Turn:     turn,
		Unit:     unit,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	}
	bl.entries = append(bl.entries, e)
	if bl.sink != nil {
		bl.sink(e)
	}
}

// AddVerbose records an entry only when verbose mode is on.
func (bl *BattleLog) AddVerbose(turn int, unit, team, category, key, value string, numVal float64) {
	if !bl.verbose {
		return
	}
	bl.Add(turn, unit, team, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (bl *BattleLog) Entries() []LogEntry {
	return bl.entries
}

// Len returns the number of entries.
func (bl *BattleLog) Len() int { return len(bl.entries) }

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (bl *BattleLog) Filter(category, key string) []LogEntry {
	var out []LogEntry
	for _, e := range bl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterUnit returns entries for a specific unit label.
func (bl *BattleLog) FilterUnit(label string) []LogEntry {
	var out []LogEntry
	for _, e := range bl.entries {
		if e.Unit == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTurnRange returns entries within [fromTurn, toTurn] inclusive.
func (bl *BattleLog) FilterTurnRange(fromTurn, toTurn int) []LogEntry {
	var out []LogEntry
	for _, e := range bl.entries {
		if e.Turn >= fromTurn && e.Turn <= toTurn {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (bl *BattleLog) CountCategory(category, key string) int {
	return len(bl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (bl *BattleLog) LastOf(category, key string) (LogEntry, bool) {
	for i := len(bl.entries) - 1; i >= 0; i-- {
		e := bl.entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return LogEntry{}, false
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (bl *BattleLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range bl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (bl *BattleLog) Format() string {
	return formatEntries(bl.entries)
}

// FormatRange returns a log string filtered to a turn range.
func (bl *BattleLog) FormatRange(fromTurn, toTurn int) string {
	return formatEntries(bl.FilterTurnRange(fromTurn, toTurn))
}

func formatEntries(entries []LogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the battle state.
func (bl *BattleLog) Summary(b *Battle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", b.Turn())

	for _, team := range b.Teams() {
		units := b.UnitsOf(team)
		hp := 0
		for _, u := range units {
			hp += u.Health.Current
		}
		fmt.Fprintf(&sb, "%s: alive=%d hp=%d\n", team, len(units), hp)
	}
	fmt.Fprintf(&sb, "moves=%d attacks=%d kills=%d idle=%d\n",
		bl.CountCategory("move", "moved"),
		bl.CountCategory("combat", "attack"),
		bl.CountCategory("combat", "kill"),
		bl.CountCategory("search", "no_target"))
	fmt.Fprintf(&sb, "turn order: %d buckets, cursor %d\n", b.Turns.Len(), b.Turns.Cursor())
	if w, ok := b.Winner(); ok {
		fmt.Fprintf(&sb, "winner: %s\n", w)
	}
	return sb.String()
}
