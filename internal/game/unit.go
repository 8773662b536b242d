package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Garsondee/Grid-Tactics/internal/grid"
)

// Team identifies a side. Units attack anything not on their team.
type Team int

func (t Team) String() string {
	return fmt.Sprintf("team%d", int(t))
}

// Health tracks hit points; it never drops below zero.
type Health struct {
	Current int
	Max     int
}

// NewHealth returns full health.
func NewHealth(hp int) Health {
	return Health{Current: hp, Max: hp}
}

// Damage subtracts amount, saturating at zero.
func (h *Health) Damage(amount int) {
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
}

// Dead reports whether no hit points remain.
func (h Health) Dead() bool { return h.Current <= 0 }

// Percent returns Current/Max in [0,1].
func (h Health) Percent() float64 {
	if h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

// Attack is a unit's melee/ranged profile. Range 1 means adjacent only.
type Attack struct {
	Damage int
	Range  int
}

// Stats is the template a unit is spawned from.
type Stats struct {
	Movement int // cells per turn
	Speed    int // turn tier; 1 acts every bucket
	Health   int
	Attack   Attack
}

// Unit is a combatant placed on the grid under grid.KindUnit.
type Unit struct {
	ID       uuid.UUID
	Label    string
	Team     Team
	Location grid.Location
	Facing   grid.Location // search bias; Zero when idle
	Movement int
	Speed    int
	Health   Health
	Attack   Attack
}

func newUnit(id uuid.UUID, label string, team Team, loc grid.Location, st Stats) *Unit {
	return &Unit{
		ID:       id,
		Label:    label,
		Team:     team,
		Location: loc,
		Movement: st.Movement,
		Speed:    st.Speed,
		Health:   NewHealth(st.Health),
		Attack:   st.Attack,
	}
}

// InRange reports whether target is within attack range.
func (u *Unit) InRange(target grid.Location) bool {
	r := u.Attack.Range
	if r < 1 {
		r = 1
	}
	return u.Location.DistanceSquared(target) <= r*r
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s@%s hp=%d/%d", u.Label, u.Location, u.Health.Current, u.Health.Max)
}

// Tile is terrain or decoration placed under grid.KindTile. Tiles never
// block units.
type Tile struct {
	ID       uuid.UUID
	Name     string
	Location grid.Location
}
