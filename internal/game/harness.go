package game

import (
	"github.com/google/uuid"

	"github.com/Garsondee/Grid-Tactics/internal/grid"
)

// defaultTurnCap bounds Run when the battle itself has no turn cap.
const defaultTurnCap = 10000

// battleConfig is filled by the infrastructure pass before the grid exists.
type battleConfig struct {
	name     string
	width    int
	height   int
	seed     uint64
	verbose  bool
	maxTurns int
	record   bool
	sink     func(LogEntry)
}

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optInfra optionKind = iota // grid size, seed, verbose, caps: applied before the grid is built
	optTile                    // terrain: applied once the grid exists
	optUnit                    // units: applied after tiles
)

// Option is a builder step applied during NewBattle.
type Option struct {
	kind  optionKind
	infra func(*battleConfig)
	fn    func(*Battle)
}

func infra(fn func(*battleConfig)) Option { return Option{kind: optInfra, infra: fn} }

// WithName labels the battle (used in replays).
func WithName(name string) Option {
	return infra(func(c *battleConfig) { c.name = name })
}

// WithGridSize sets the grid dimensions.
func WithGridSize(w, h int) Option {
	return infra(func(c *battleConfig) {
		c.width = w
		c.height = h
	})
}

// WithSeed sets the RNG seed. Zero seeds from the clock.
func WithSeed(seed uint64) Option {
	return infra(func(c *battleConfig) { c.seed = seed })
}

// WithVerbose enables per-turn position logging.
func WithVerbose(v bool) Option {
	return infra(func(c *battleConfig) { c.verbose = v })
}

// WithMaxTurns caps the battle length; 0 leaves it uncapped.
func WithMaxTurns(n int) Option {
	return infra(func(c *battleConfig) { c.maxTurns = n })
}

// WithReplay turns on the replay recorder.
func WithReplay() Option {
	return infra(func(c *battleConfig) { c.record = true })
}

// WithLogSink forwards every log entry to fn as it is recorded.
func WithLogSink(fn func(LogEntry)) Option {
	return infra(func(c *battleConfig) { c.sink = fn })
}

// WithTile places a single tile.
func WithTile(name string, x, y int) Option {
	return Option{kind: optTile, fn: func(b *Battle) {
		b.PlaceTile(name, grid.Loc(x, y))
	}}
}

// WithTiles fills the block described by tc.
func WithTiles(tc TileConfig) Option {
	return Option{kind: optTile, fn: func(b *Battle) {
		w, h := max(tc.W, 1), max(tc.H, 1)
		for y := tc.Y; y < tc.Y+h; y++ {
			for x := tc.X; x < tc.X+w; x++ {
				b.PlaceTile(tc.Name, grid.Loc(x, y))
			}
		}
	}}
}

// WithUnit spawns one unit at (x, y).
func WithUnit(team Team, x, y int, st Stats) Option {
	return Option{kind: optUnit, fn: func(b *Battle) {
		b.SpawnUnit(team, grid.Loc(x, y), st)
	}}
}

// WithTeam spawns tc.Units units at random free cells of the team's spawn
// area, each with freshly rolled stats. Units that do not fit are skipped.
func WithTeam(tc TeamConfig) Option {
	return Option{kind: optUnit, fn: func(b *Battle) {
		for range tc.Units {
			b.SpawnInArea(tc.Team, tc.Spawn.Square(), tc.Stats(b.rng))
		}
	}}
}

// ScenarioOptions expands a scenario into builder options.
func ScenarioOptions(sc Scenario) []Option {
	opts := []Option{
		WithName(sc.Name),
		WithGridSize(sc.Width, sc.Height),
		WithSeed(sc.Seed),
		WithVerbose(sc.Verbose),
		WithMaxTurns(sc.MaxTurns),
	}
	for _, tl := range sc.Tiles {
		opts = append(opts, WithTiles(tl))
	}
	for _, tc := range sc.Teams {
		opts = append(opts, WithTeam(tc))
	}
	return opts
}

// NewBattleFromScenario builds a battle from sc; extra options are applied
// after the scenario's own and so override them.
func NewBattleFromScenario(sc Scenario, extra ...Option) *Battle {
	return NewBattle(append(ScenarioOptions(sc), extra...)...)
}

// NewBattle constructs a Battle from the given options in ordered passes:
//  1. Infrastructure (grid size, seed, verbose, caps)
//  2. Build the grid
//  3. Tiles
//  4. Units
func NewBattle(opts ...Option) *Battle {
	cfg := battleConfig{width: 40, height: 40, seed: 1}
	for _, o := range opts {
		if o.kind == optInfra {
			o.infra(&cfg)
		}
	}

	log := NewBattleLog(cfg.verbose)
	if cfg.sink != nil {
		log.OnEntry(cfg.sink)
	}
	b := newBattle(cfg.width, cfg.height, NewRandom(cfg.seed), log)
	b.maxTurns = cfg.maxTurns

	for _, pass := range []optionKind{optTile, optUnit} {
		for _, o := range opts {
			if o.kind == pass {
				o.fn(b)
			}
		}
	}

	if cfg.record {
		b.replay = newReplay(cfg.name, cfg.seed, b)
	}
	return b
}

// RunTurns advances the battle n turns, even past the end.
func (b *Battle) RunTurns(n int) []TurnReport {
	reports := make([]TurnReport, 0, n)
	for range n {
		reports = append(reports, b.Step())
	}
	return reports
}

// RunUntil advances up to maxTurns turns, stopping early once predicate
// holds. Returns the turn at which it held, or -1.
func (b *Battle) RunUntil(predicate func(*Battle) bool, maxTurns int) int {
	for range maxTurns {
		b.Step()
		if predicate(b) {
			return b.turn
		}
	}
	return -1
}

// Run plays until the battle is over and returns the result. A battle with
// no turn cap stops after defaultTurnCap turns.
func (b *Battle) Run() Result {
	for !b.Over() && (b.maxTurns > 0 || b.turn < defaultTurnCap) {
		b.Step()
	}
	return b.Result()
}

// Snapshot is a lightweight copy of the battle state at a turn.
type Snapshot struct {
	Turn  int            `msgpack:"turn"`
	Units []UnitSnapshot `msgpack:"units"`
}

// UnitSnapshot is a lightweight copy of one unit's state.
type UnitSnapshot struct {
	ID     uuid.UUID `msgpack:"id"`
	Label  string    `msgpack:"label"`
	Team   Team      `msgpack:"team"`
	X      int       `msgpack:"x"`
	Y      int       `msgpack:"y"`
	HP     int       `msgpack:"hp"`
	MaxHP  int       `msgpack:"max_hp"`
	FaceX  int       `msgpack:"fx"`
	FaceY  int       `msgpack:"fy"`
	Speed  int       `msgpack:"spd"`
	Moving bool      `msgpack:"moving"`
}

// Snapshot returns the current state of all living units in grid order.
func (b *Battle) Snapshot() Snapshot {
	snap := Snapshot{Turn: b.turn}
	for _, u := range b.Units() {
		snap.Units = append(snap.Units, UnitSnapshot{
			ID:     u.ID,
			Label:  u.Label,
			Team:   u.Team,
			X:      u.Location.X,
			Y:      u.Location.Y,
			HP:     u.Health.Current,
			MaxHP:  u.Health.Max,
			FaceX:  u.Facing.X,
			FaceY:  u.Facing.Y,
			Speed:  u.Speed,
			Moving: u.Facing != grid.Zero,
		})
	}
	return snap
}
