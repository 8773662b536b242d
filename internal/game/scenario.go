package game

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Grid-Tactics/internal/grid"
)

// ErrInvalidScenario is wrapped by every Validate failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario describes a battle setup.
type Scenario struct {
	Name     string       `yaml:"name"`
	Width    int          `yaml:"width"`
	Height   int          `yaml:"height"`
	Seed     uint64       `yaml:"seed"`
	MaxTurns int          `yaml:"max_turns"`
	Verbose  bool         `yaml:"verbose"`
	Teams    []TeamConfig `yaml:"teams"`
	Tiles    []TileConfig `yaml:"tiles"`
}

// TeamConfig describes how one team is fielded.
type TeamConfig struct {
	Team     Team     `yaml:"team"`
	Name     string   `yaml:"name"`
	Units    int      `yaml:"units"`
	Spawn    Area     `yaml:"spawn"`
	Movement IntRange `yaml:"movement"`
	Speed    IntRange `yaml:"speed"`
	Health   int      `yaml:"health"`
	Damage   int      `yaml:"damage"`
	Range    int      `yaml:"range"`
	Color    string   `yaml:"color"` // "#rrggbb"
}

// TileConfig fills a W×H block of tiles at (X, Y). W and H default to 1.
type TileConfig struct {
	Name string `yaml:"name"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	W    int    `yaml:"w"`
	H    int    `yaml:"h"`
}

// Area is a half-open spawn box written as [x0, y0, x1, y1].
type Area [4]int

// Square converts the area to a grid shape.
func (a Area) Square() grid.Square {
	return grid.Square{Start: grid.Loc(a[0], a[1]), End: grid.Loc(a[2], a[3])}
}

// IntRange is an inclusive integer range. In YAML it may be written as a
// single number, a two-element list, or a {min, max} mapping.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Roll draws a value from the range.
func (r IntRange) Roll(rng *Random) int {
	return rng.Range(r.Min, r.Max+1)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *IntRange) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var n int
		if err := value.Decode(&n); err != nil {
			return err
		}
		*r = IntRange{Min: n, Max: n}
	case yaml.SequenceNode:
		var pair []int
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: range needs 2 values, got %d", value.Line, len(pair))
		}
		*r = IntRange{Min: pair[0], Max: pair[1]}
	case yaml.MappingNode:
		type plain IntRange
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*r = IntRange(p)
	default:
		return fmt.Errorf("line %d: unsupported range syntax", value.Line)
	}
	return nil
}

// DefaultScenario is the stock 40x40 skirmish: four tough units on team 1
// against a hundred weak, slower ones on team 2.
func DefaultScenario() Scenario {
	const size = 40
	band := size / 3
	return Scenario{
		Name:     "default",
		Width:    size,
		Height:   size,
		MaxTurns: 500,
		Teams: []TeamConfig{
			{
				Team:     1,
				Name:     "red",
				Units:    4,
				Spawn:    Area{0, 0, size, band},
				Movement: IntRange{2, 3},
				Speed:    IntRange{1, 1},
				Health:   50,
				Damage:   3,
				Range:    10,
				Color:    "#ff0000",
			},
			{
				Team:     2,
				Name:     "blue",
				Units:    100,
				Spawn:    Area{0, size - band, size, size},
				Movement: IntRange{2, 3},
				Speed:    IntRange{2, 2},
				Health:   3,
				Damage:   1,
				Range:    1,
				Color:    "#0000ff",
			},
		},
	}
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("load scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes YAML and validates the result.
func ParseScenario(data []byte) (Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate checks the scenario for values the battle cannot run with.
func (sc Scenario) Validate() error {
	if sc.Width <= 0 || sc.Height <= 0 {
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidScenario, sc.Width, sc.Height)
	}
	if sc.MaxTurns < 0 {
		return fmt.Errorf("%w: max_turns %d", ErrInvalidScenario, sc.MaxTurns)
	}
	if len(sc.Teams) < 2 {
		return fmt.Errorf("%w: need at least 2 teams, got %d", ErrInvalidScenario, len(sc.Teams))
	}
	seen := make(map[Team]bool, len(sc.Teams))
	for i, tc := range sc.Teams {
		if seen[tc.Team] {
			return fmt.Errorf("%w: team %d listed twice", ErrInvalidScenario, tc.Team)
		}
		seen[tc.Team] = true
		if err := tc.validate(); err != nil {
			return fmt.Errorf("%w: teams[%d]: %v", ErrInvalidScenario, i, err)
		}
	}
	for i, tl := range sc.Tiles {
		if tl.Name == "" {
			return fmt.Errorf("%w: tiles[%d]: missing name", ErrInvalidScenario, i)
		}
		if tl.W < 0 || tl.H < 0 {
			return fmt.Errorf("%w: tiles[%d]: negative size", ErrInvalidScenario, i)
		}
	}
	return nil
}

func (tc TeamConfig) validate() error {
	switch {
	case tc.Units < 0:
		return fmt.Errorf("units %d", tc.Units)
	case tc.Health <= 0:
		return fmt.Errorf("health %d", tc.Health)
	case tc.Damage < 0:
		return fmt.Errorf("damage %d", tc.Damage)
	case tc.Movement.Min < 0 || tc.Movement.Max < tc.Movement.Min:
		return fmt.Errorf("movement %d..%d", tc.Movement.Min, tc.Movement.Max)
	case tc.Speed.Min < 1 || tc.Speed.Max < tc.Speed.Min:
		return fmt.Errorf("speed %d..%d", tc.Speed.Min, tc.Speed.Max)
	case tc.Spawn.Square().Empty():
		return fmt.Errorf("empty spawn area %v", tc.Spawn)
	}
	if tc.Color != "" {
		if _, err := ParseColor(tc.Color); err != nil {
			return err
		}
	}
	return nil
}

// Stats rolls a unit template for the team.
func (tc TeamConfig) Stats(rng *Random) Stats {
	return Stats{
		Movement: tc.Movement.Roll(rng),
		Speed:    tc.Speed.Roll(rng),
		Health:   tc.Health,
		Attack:   Attack{Damage: tc.Damage, Range: tc.Range},
	}
}

// ParseColor reads a "#rrggbb" hex colour.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
