// Package game runs grid battles: units spawn on a grid.Grid, the
// turn.Scheduler picks who acts, and each acting unit hunts the nearest enemy
// with a breadth-first search, attacks it when in range, or walks toward it
// along an A* path.
package game

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"github.com/Garsondee/Grid-Tactics/internal/grid"
	"github.com/Garsondee/Grid-Tactics/internal/turn"
)

// Battle owns the grid, the unit roster and the turn order.
type Battle struct {
	Grid  *grid.Grid[uuid.UUID]
	Turns *turn.Scheduler[uuid.UUID]
	Log   *BattleLog

	rng      *Random
	units    map[uuid.UUID]*Unit
	tiles    map[uuid.UUID]*Tile
	teams    []Team
	labels   map[Team]int
	paths    map[uuid.UUID][]grid.Location // last walked path, for display
	turn     int
	maxTurns int
	ended    bool

	// turn order is rebuilt whenever the grid's unit set has changed
	ordered      bool
	orderVersion uint64

	replay *Replay
}

// TurnReport summarises one call to Step.
type TurnReport struct {
	Turn    int
	Bucket  int // index of the bucket that acted, -1 when idle
	Acted   []uuid.UUID
	Moves   int
	Attacks int
	Kills   int
	Blocked int // enemy found but no step could be taken
	Idle    int // no enemy found
}

func newBattle(width, height int, rng *Random, log *BattleLog) *Battle {
	return &Battle{
		Grid:   grid.New[uuid.UUID](width, height),
		Turns:  turn.New[uuid.UUID](),
		Log:    log,
		rng:    rng,
		units:  make(map[uuid.UUID]*Unit),
		tiles:  make(map[uuid.UUID]*Tile),
		labels: make(map[Team]int),
		paths:  make(map[uuid.UUID][]grid.Location),
	}
}

// Turn returns the number of completed turns.
func (b *Battle) Turn() int { return b.turn }

// MaxTurns returns the turn cap (0 = uncapped).
func (b *Battle) MaxTurns() int { return b.maxTurns }

// Rand exposes the battle's random stream.
func (b *Battle) Rand() *Random { return b.rng }

// Replay returns the recorder, or nil when recording is off.
func (b *Battle) Replay() *Replay { return b.replay }

// Unit looks up a living unit.
func (b *Battle) Unit(id uuid.UUID) (*Unit, bool) {
	u, ok := b.units[id]
	return u, ok
}

// Units returns living units in grid order.
func (b *Battle) Units() []*Unit {
	ids := b.Grid.Occupants(grid.KindUnit)
	out := make([]*Unit, 0, len(ids))
	for _, id := range ids {
		if u, ok := b.units[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// UnitsOf returns the living units of team in grid order.
func (b *Battle) UnitsOf(team Team) []*Unit {
	var out []*Unit
	for _, u := range b.Units() {
		if u.Team == team {
			out = append(out, u)
		}
	}
	return out
}

// Tiles returns every placed tile in grid order.
func (b *Battle) Tiles() []*Tile {
	ids := b.Grid.Occupants(grid.KindTile)
	out := make([]*Tile, 0, len(ids))
	for _, id := range ids {
		if t, ok := b.tiles[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Teams lists every team that has fielded a unit, in order of appearance.
func (b *Battle) Teams() []Team {
	return slices.Clone(b.teams)
}

// LastPath returns the path a unit walked on its most recent move.
func (b *Battle) LastPath(id uuid.UUID) []grid.Location {
	return b.paths[id]
}

// SpawnUnit places a new unit at loc. It fails when loc is out of bounds or
// already holds a unit.
func (b *Battle) SpawnUnit(team Team, loc grid.Location, st Stats) (*Unit, bool) {
	var u *Unit
	_, ok := b.Grid.Spawn(grid.KindUnit, loc, func(p grid.Placement) uuid.UUID {
		u = newUnit(b.newID(), b.nextLabel(team), team, p.Location, st)
		return u.ID
	})
	if !ok {
		return nil, false
	}
	b.units[u.ID] = u
	if !slices.Contains(b.teams, team) {
		b.teams = append(b.teams, team)
	}
	b.Log.Add(b.turn, u.Label, team.String(), "battle", "spawn",
		fmt.Sprintf("at %s hp=%d spd=%d mov=%d", u.Location, u.Health.Max, u.Speed, u.Movement), 0)
	return u, true
}

// SpawnInArea spawns a unit at a random free cell of area: a random cell is
// sampled and, if taken, the nearest free cell inside area is used instead.
func (b *Battle) SpawnInArea(team Team, area grid.Square, st Stats) (*Unit, bool) {
	area = b.clip(area)
	if area.Empty() {
		return nil, false
	}
	pick := area.Random(b.rng)
	if _, taken := b.Grid.Get(grid.KindUnit, pick); !taken {
		return b.SpawnUnit(team, pick, st)
	}
	loc, ok := b.Grid.NearestEmpty(grid.KindUnit, pick, grid.Zero, area)
	if !ok {
		return nil, false
	}
	return b.SpawnUnit(team, loc, st)
}

// PlaceTile puts a named tile at loc.
func (b *Battle) PlaceTile(name string, loc grid.Location) (*Tile, bool) {
	var t *Tile
	_, ok := b.Grid.Spawn(grid.KindTile, loc, func(p grid.Placement) uuid.UUID {
		t = &Tile{ID: b.newID(), Name: name, Location: p.Location}
		return t.ID
	})
	if !ok {
		return nil, false
	}
	b.tiles[t.ID] = t
	return t, true
}

// Despawn destroys a unit and clears its grid slot. The turn order is not
// touched until the next Step rebuilds it.
func (b *Battle) Despawn(id uuid.UUID) bool {
	u, ok := b.units[id]
	if !ok {
		return false
	}
	delete(b.units, id)
	delete(b.paths, id)
	b.Grid.Remove(grid.KindUnit, u.Location, id)
	b.Log.Add(b.turn, u.Label, u.Team.String(), "battle", "despawn", fmt.Sprintf("at %s", u.Location), 0)
	return true
}

// Step plays one turn: the next bucket of the turn order acts, unit by unit.
func (b *Battle) Step() TurnReport {
	b.turn++
	rep := TurnReport{Turn: b.turn, Bucket: -1}
	first := b.Log.Len()

	b.syncTurnOrder()
	cursor := b.Turns.Cursor()
	bucket, ok := b.Turns.Advance()
	if !ok {
		b.Log.Add(b.turn, "--", "--", "turn", "idle", "no units to act", 0)
	} else {
		rep.Bucket = cursor
		b.Log.Add(b.turn, "--", "--", "turn", "start",
			fmt.Sprintf("bucket %d/%d, %d units", cursor+1, b.Turns.Len(), len(bucket)), float64(len(bucket)))
		for _, id := range bucket {
			u, alive := b.units[id]
			if !alive {
				continue // killed earlier in this bucket
			}
			rep.Acted = append(rep.Acted, id)
			b.act(u, &rep)
		}
	}

	if b.Log.Verbose() {
		for _, u := range b.Units() {
			b.Log.AddVerbose(b.turn, u.Label, u.Team.String(), "move", "position", u.Location.String(), 0)
		}
	}
	if !b.ended && b.Over() {
		b.ended = true
		result := "draw"
		if w, ok := b.Winner(); ok {
			result = w.String()
		}
		b.Log.Add(b.turn, "--", "--", "battle", "over", result, 0)
	}
	if b.replay != nil {
		b.replay.capture(b, rep, b.Log.Entries()[first:])
	}
	return rep
}

// Over reports whether at most one team is left standing or the turn cap
// has been reached.
func (b *Battle) Over() bool {
	if b.liveTeams().Size() <= 1 {
		return true
	}
	return b.maxTurns > 0 && b.turn >= b.maxTurns
}

// Winner returns the only team with living units.
func (b *Battle) Winner() (Team, bool) {
	live := b.liveTeams()
	if live.Size() != 1 {
		return 0, false
	}
	var winner Team
	live.Each(func(t Team) { winner = t })
	return winner, true
}

// Result is the outcome of a battle so far.
type Result struct {
	Turns     int          `msgpack:"turns"`
	Winner    Team         `msgpack:"winner"`
	Decided   bool         `msgpack:"decided"`
	Survivors map[Team]int `msgpack:"survivors"`
}

// Result reports the current outcome. Every team that ever fielded a unit
// appears in Survivors, with zero once wiped out.
func (b *Battle) Result() Result {
	res := Result{Turns: b.turn, Survivors: make(map[Team]int, len(b.teams))}
	for _, t := range b.teams {
		res.Survivors[t] = 0
	}
	for _, u := range b.units {
		res.Survivors[u.Team]++
	}
	res.Winner, res.Decided = b.Winner()
	return res
}

func (b *Battle) liveTeams() mapset.Set[Team] {
	live := mapset.New[Team]()
	for _, u := range b.units {
		live.Put(u.Team)
	}
	return live
}

func (b *Battle) syncTurnOrder() {
	v := b.Grid.Version()
	if b.ordered && v == b.orderVersion {
		return
	}
	b.Turns.Rebuild(b.Grid.Occupants(grid.KindUnit), b.speedOf)
	b.ordered = true
	b.orderVersion = v
	b.Log.Add(b.turn, "--", "--", "turn", "rebuild",
		fmt.Sprintf("%d units in %d buckets", len(b.units), b.Turns.Len()), float64(b.Turns.Len()))
}

func (b *Battle) speedOf(id uuid.UUID) (int, bool) {
	u, ok := b.units[id]
	if !ok || u.Speed < 1 {
		return 0, false
	}
	return u.Speed, true
}

// act runs one unit's turn: find the nearest enemy, hit it if in range,
// otherwise walk toward it and stop alongside.
func (b *Battle) act(u *Unit, rep *TurnReport) {
	team := u.Team.String()
	enemy := func(id uuid.UUID) bool {
		other, ok := b.units[id]
		return ok && other.Team != u.Team
	}
	target, found := b.Grid.NearestMatching(grid.KindUnit, u.Location, u.Facing, grid.All{}, enemy)
	if !found {
		u.Facing = grid.Zero
		rep.Idle++
		b.Log.Add(b.turn, u.Label, team, "search", "no_target", "no enemy on the grid", 0)
		return
	}

	if u.InRange(target) {
		b.attack(u, target, rep)
		return
	}

	from := u.Location
	path, moved := b.Grid.MoveToward(grid.KindUnit, from, target, u.Movement)
	if !moved {
		u.Facing = grid.Zero
		rep.Blocked++
		key := "blocked"
		if len(b.Grid.PathNextTo(grid.KindUnit, from, target, u.Movement)) == 0 {
			key = "no_path"
		}
		b.Log.Add(b.turn, u.Label, team, "move", key,
			fmt.Sprintf("no way from %s toward %s", from, target), 0)
		return
	}
	u.Location = path[len(path)-1]
	u.Facing = target.Sub(u.Location).Axis()
	b.paths[u.ID] = path
	rep.Moves++
	b.Log.Add(b.turn, u.Label, team, "move", "moved",
		fmt.Sprintf("%s → %s", from, u.Location), float64(len(path)-1))
}

func (b *Battle) attack(u *Unit, target grid.Location, rep *TurnReport) {
	id, _ := b.Grid.Get(grid.KindUnit, target)
	victim, ok := b.units[id]
	if !ok {
		return
	}
	u.Facing = target.Sub(u.Location).Axis()
	victim.Health.Damage(u.Attack.Damage)
	rep.Attacks++
	b.Log.Add(b.turn, u.Label, u.Team.String(), "combat", "attack",
		fmt.Sprintf("hits %s for %d (%d/%d)", victim.Label, u.Attack.Damage, victim.Health.Current, victim.Health.Max),
		float64(u.Attack.Damage))
	if victim.Health.Dead() {
		rep.Kills++
		b.Log.Add(b.turn, u.Label, u.Team.String(), "combat", "kill", victim.Label, 0)
		b.Despawn(victim.ID)
	}
}

func (b *Battle) newID() uuid.UUID {
	id, err := uuid.NewRandomFromReader(b.rng)
	if err != nil {
		return uuid.New()
	}
	return id
}

func (b *Battle) nextLabel(team Team) string {
	n := b.labels[team]
	b.labels[team] = n + 1
	return fmt.Sprintf("%d.%02d", int(team), n)
}

// clip trims area to the grid bounds.
func (b *Battle) clip(area grid.Square) grid.Square {
	w, h := b.Grid.Size()
	area.Start.X = max(area.Start.X, 0)
	area.Start.Y = max(area.Start.Y, 0)
	area.End.X = min(area.End.X, w)
	area.End.Y = min(area.End.Y, h)
	return area
}
