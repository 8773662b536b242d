// Command skirmish runs battles headless and prints a per-run and aggregate
// report.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/Garsondee/Grid-Tactics/internal/game"
)

type runStats struct {
	runIndex int
	seed     uint64

	turns   int
	winner  game.Team
	decided bool

	fielded   map[game.Team]int
	survivors map[game.Team]int

	firstAttackTurn int
	firstKillTurn   int

	moves    int
	blocked  int
	noPath   int
	attacks  int
	kills    int
	idle     int
	rebuilds int
}

type config struct {
	runs     int
	turns    int
	seedBase uint64
	seedStep uint64
	scenario string
	replay   string
	dumpLog  bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("skirmish", flag.ContinueOnError)
	fs.IntVar(&cfg.runs, "runs", 5, "number of headless battles")
	fs.IntVar(&cfg.turns, "turns", 500, "turn cap per battle")
	fs.Uint64Var(&cfg.seedBase, "seed-base", 42, "RNG seed for run 1")
	fs.Uint64Var(&cfg.seedStep, "seed-step", 1, "seed increment between runs")
	fs.StringVar(&cfg.scenario, "scenario", "", "YAML scenario file (default: built-in 40x40 skirmish)")
	fs.StringVar(&cfg.replay, "replay", "", "write run 1 as a msgpack replay to this path")
	fs.BoolVar(&cfg.dumpLog, "log", false, "print the full battle log of run 1")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if cfg.runs <= 0 {
		return config{}, errors.New("-runs must be > 0")
	}
	if cfg.turns <= 0 {
		return config{}, errors.New("-turns must be > 0")
	}
	if cfg.seedBase == 0 {
		return config{}, errors.New("-seed-base must be non-zero")
	}
	return cfg, nil
}

func run(args []string, w io.Writer) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	sc := game.DefaultScenario()
	if cfg.scenario != "" {
		if sc, err = game.LoadScenario(cfg.scenario); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "=== Headless Skirmish Report ===\n")
	fmt.Fprintf(w, "scenario=%s grid=%dx%d runs=%d turns=%d seed_base=%d seed_step=%d\n\n",
		sc.Name, sc.Width, sc.Height, cfg.runs, cfg.turns, cfg.seedBase, cfg.seedStep)

	all := make([]runStats, 0, cfg.runs)
	for i := range cfg.runs {
		seed := cfg.seedBase + uint64(i)*cfg.seedStep
		first := i == 0
		b := runScenario(sc, seed, cfg.turns, first && cfg.replay != "")
		rs := collect(i+1, seed, b)
		all = append(all, rs)
		printRun(w, rs)

		if first && cfg.dumpLog {
			fmt.Fprint(w, b.Log.Format())
			fmt.Fprintln(w, b.Log.Summary(b))
		}
		if first && cfg.replay != "" {
			if err := b.Replay().WriteFile(cfg.replay); err != nil {
				return err
			}
			fmt.Fprintf(w, "replay written to %s (%d frames)\n\n", cfg.replay, len(b.Replay().Frames))
		}
	}

	printAggregate(w, all)
	return nil
}

func runScenario(sc game.Scenario, seed uint64, turns int, record bool) *game.Battle {
	opts := []game.Option{game.WithSeed(seed), game.WithMaxTurns(turns)}
	if record {
		opts = append(opts, game.WithReplay())
	}
	b := game.NewBattleFromScenario(sc, opts...)
	b.Run()
	return b
}

func collect(runIndex int, seed uint64, b *game.Battle) runStats {
	entries := b.Log.Entries()
	res := b.Result()

	fielded := map[game.Team]int{}
	for _, e := range b.Log.Filter("battle", "spawn") {
		for _, team := range b.Teams() {
			if e.Team == team.String() {
				fielded[team]++
			}
		}
	}

	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		turns:           res.Turns,
		winner:          res.Winner,
		decided:         res.Decided,
		fielded:         fielded,
		survivors:       res.Survivors,
		firstAttackTurn: firstTurn(entries, "combat", "attack"),
		firstKillTurn:   firstTurn(entries, "combat", "kill"),
		moves:           b.Log.CountCategory("move", "moved"),
		blocked:         b.Log.CountCategory("move", "blocked"),
		noPath:          b.Log.CountCategory("move", "no_path"),
		attacks:         b.Log.CountCategory("combat", "attack"),
		kills:           b.Log.CountCategory("combat", "kill"),
		idle:            b.Log.CountCategory("search", "no_target"),
		rebuilds:        b.Log.CountCategory("turn", "rebuild"),
	}
}

func firstTurn(entries []game.LogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Turn
		}
	}
	return -1
}

// detectStalemate flags a run that hit the turn cap with every team still
// mostly intact and more failed moves than successful ones.
func detectStalemate(rs runStats) (bool, string) {
	if rs.decided {
		return false, "decided"
	}
	var reasons []string
	mutual := len(rs.fielded) > 1
	for team, n := range rs.fielded {
		if n == 0 || rs.survivors[team]*2 < n {
			mutual = false
		}
	}
	if mutual {
		reasons = append(reasons, "high_mutual_survival")
	}
	if rs.blocked+rs.noPath > rs.moves {
		reasons = append(reasons, "movement_friction")
	}
	if len(reasons) == 0 {
		return false, "none"
	}
	return len(reasons) == 2, strings.Join(reasons, "+")
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	result := "draw"
	if rs.decided {
		result = "winner=" + rs.winner.String()
	}
	fmt.Fprintf(w, "outcome: turns=%d %s\n", rs.turns, result)
	fmt.Fprintf(w, "teams: %s\n", formatTeams(rs))
	fmt.Fprintf(w, "phase_markers: first_attack=%d first_kill=%d\n", rs.firstAttackTurn, rs.firstKillTurn)
	fmt.Fprintf(w, "event_totals: moved=%d blocked=%d no_path=%d attack=%d kill=%d no_target=%d rebuild=%d\n",
		rs.moves, rs.blocked, rs.noPath, rs.attacks, rs.kills, rs.idle, rs.rebuilds)
	if stale, reason := detectStalemate(rs); stale {
		fmt.Fprintf(w, "stalemate: %s\n", reason)
	}
	fmt.Fprintln(w)
}

func formatTeams(rs runStats) string {
	teams := make([]game.Team, 0, len(rs.fielded))
	for team := range rs.fielded {
		teams = append(teams, team)
	}
	slices.Sort(teams)
	parts := make([]string, 0, len(teams))
	for _, team := range teams {
		parts = append(parts, fmt.Sprintf("%s=%d/%d", team, rs.survivors[team], rs.fielded[team]))
	}
	return strings.Join(parts, " ")
}

func printAggregate(w io.Writer, all []runStats) {
	totalMoves := 0
	totalBlocked := 0
	totalAttacks := 0
	totalKills := 0
	totalTurns := 0
	stalemates := 0
	draws := 0
	wins := map[game.Team]int{}
	attackTurns := make([]int, 0, len(all))
	killTurns := make([]int, 0, len(all))

	for _, rs := range all {
		totalMoves += rs.moves
		totalBlocked += rs.blocked + rs.noPath
		totalAttacks += rs.attacks
		totalKills += rs.kills
		totalTurns += rs.turns
		if rs.decided {
			wins[rs.winner]++
		} else {
			draws++
		}
		if stale, _ := detectStalemate(rs); stale {
			stalemates++
		}
		if rs.firstAttackTurn >= 0 {
			attackTurns = append(attackTurns, rs.firstAttackTurn)
		}
		if rs.firstKillTurn >= 0 {
			killTurns = append(killTurns, rs.firstKillTurn)
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d avg_turns=%.1f draws=%d stalemates=%d\n", len(all), avg(totalTurns, len(all)), draws, stalemates)
	fmt.Fprintf(w, "avg_events_per_run: moved=%.1f blocked=%.1f attack=%.1f kill=%.1f\n",
		avg(totalMoves, len(all)), avg(totalBlocked, len(all)), avg(totalAttacks, len(all)), avg(totalKills, len(all)))
	fmt.Fprintf(w, "phase_marker_avg_turns: first_attack=%s first_kill=%s\n", avgTurnString(attackTurns), avgTurnString(killTurns))

	teams := make([]game.Team, 0, len(wins))
	for team := range wins {
		teams = append(teams, team)
	}
	slices.Sort(teams)
	for _, team := range teams {
		fmt.Fprintf(w, "wins %s=%d (%.0f%%)\n", team, wins[team], float64(wins[team])/float64(len(all))*100)
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTurnString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
