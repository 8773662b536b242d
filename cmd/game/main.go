package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Grid-Tactics/internal/game"
	"github.com/Garsondee/Grid-Tactics/internal/view"
)

func main() {
	scenario := flag.String("scenario", "", "YAML scenario file (default: built-in 40x40 skirmish)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = scenario seed, or clock if unset)")
	cell := flag.Int("cell", 16, "cell size in pixels")
	flag.Parse()

	sc, err := loadScenario(*scenario, *seed)
	if err != nil {
		log.Fatal(err)
	}

	v := view.New(sc, *cell)
	ebiten.SetWindowTitle("Grid Tactics")
	ebiten.SetWindowSize(v.WindowSize())
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

// loadScenario reads path (or the built-in scenario when empty). A non-zero
// seed overrides the scenario's own.
func loadScenario(path string, seed uint64) (game.Scenario, error) {
	sc := game.DefaultScenario()
	if path != "" {
		var err error
		if sc, err = game.LoadScenario(path); err != nil {
			return game.Scenario{}, err
		}
	}
	if seed != 0 {
		sc.Seed = seed
	}
	return sc, nil
}
