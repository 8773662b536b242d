// Package view is a small ebiten front end for watching a battle turn by
// turn. It only reads battle state; all rules live in internal/game.
package view

import (
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Grid-Tactics/internal/game"
	"github.com/Garsondee/Grid-Tactics/internal/grid"
)

// borderWidth is the pixel gap between the window edge and the grid.
const borderWidth = 16

// hudHeight is the strip under the grid used for status text.
const hudHeight = 36

// autoplayFrames is how many frames pass between turns in autoplay.
const autoplayFrames = 6

var fallbackColors = []color.RGBA{
	{R: 210, G: 70, B: 70, A: 255},
	{R: 70, G: 110, B: 210, A: 255},
	{R: 80, G: 180, B: 90, A: 255},
	{R: 210, G: 180, B: 60, A: 255},
}

var (
	backgroundColor = color.RGBA{R: 14, G: 16, B: 14, A: 255}
	cellColor       = color.RGBA{R: 34, G: 44, B: 34, A: 255}
	gridLineColor   = color.RGBA{R: 24, G: 30, B: 24, A: 255}
	tileColor       = color.RGBA{R: 70, G: 62, B: 48, A: 255}
	pathColor       = color.RGBA{R: 240, G: 240, B: 160, A: 90}
	healthColor     = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	neutralColor    = color.RGBA{R: 160, G: 160, B: 160, A: 255}
)

// Viewer implements ebiten.Game for a single battle.
type Viewer struct {
	scenario game.Scenario
	seed     uint64
	battle   *game.Battle
	panel    *LogPanel
	palette  map[string]color.RGBA // keyed by Team.String()

	cell     int // pixel size of one grid cell
	width    int
	height   int
	autoplay bool
	frame    int
	prevKeys map[ebiten.Key]bool

	status      string
	statusTimer int
}

// New creates a viewer for sc. Each restart bumps the seed by one.
func New(sc game.Scenario, cell int) *Viewer {
	if cell < 4 {
		cell = 4
	}
	v := &Viewer{
		scenario: sc,
		seed:     sc.Seed,
		panel:    NewLogPanel(),
		palette:  make(map[string]color.RGBA),
		cell:     cell,
		prevKeys: make(map[ebiten.Key]bool),
	}
	for i, tc := range sc.Teams {
		c, err := game.ParseColor(tc.Color)
		if err != nil {
			c = fallbackColors[i%len(fallbackColors)]
		}
		v.palette[tc.Team.String()] = c
	}
	v.width = borderWidth + sc.Width*cell + borderWidth + logPanelWidth
	v.height = max(borderWidth+sc.Height*cell+hudHeight, 240)
	v.restart()
	return v
}

// WindowSize returns the natural window size in pixels.
func (v *Viewer) WindowSize() (int, int) { return v.width, v.height }

// Battle exposes the battle being shown.
func (v *Viewer) Battle() *game.Battle { return v.battle }

func (v *Viewer) restart() {
	v.panel.Clear()
	v.battle = game.NewBattleFromScenario(v.scenario,
		game.WithSeed(v.seed),
		game.WithLogSink(v.panel.Add),
	)
	v.frame = 0
	v.flash(fmt.Sprintf("seed %d", v.seed))
}

func (v *Viewer) step() {
	if v.battle.Over() {
		v.autoplay = false
		return
	}
	v.battle.Step()
}

func (v *Viewer) copyLog() {
	if err := clipboard.WriteAll(v.battle.Log.Format()); err != nil {
		v.flash("copy failed: " + err.Error())
		return
	}
	v.flash(fmt.Sprintf("copied %d log lines", v.battle.Log.Len()))
}

func (v *Viewer) flash(msg string) {
	v.status = msg
	v.statusTimer = 180
}

func (v *Viewer) teamColor(team string) color.RGBA {
	if c, ok := v.palette[team]; ok {
		return c
	}
	return neutralColor
}

// Update handles input and, in autoplay, advances the battle.
func (v *Viewer) Update() error {
	v.handleInput()
	if v.statusTimer > 0 {
		v.statusTimer--
	}
	if v.autoplay {
		v.frame++
		if v.frame%autoplayFrames == 0 {
			v.step()
		}
	}
	return nil
}

// handleInput processes keypresses (edge-triggered).
func (v *Viewer) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !v.prevKeys[k]
	}

	// Space: one turn.
	if pressed(ebiten.KeySpace) {
		v.step()
	}
	// A: autoplay on/off.
	if pressed(ebiten.KeyA) {
		v.autoplay = !v.autoplay
	}
	// C: copy the full log.
	if pressed(ebiten.KeyC) {
		v.copyLog()
	}
	// R: restart with the next seed.
	if pressed(ebiten.KeyR) {
		v.seed++
		v.restart()
	}

	v.prevKeys = currentKeys
}

// Draw renders the grid, tiles, units, last paths and the log panel.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	w, h := v.battle.Grid.Size()
	cs := float32(v.cell)
	ox, oy := float32(borderWidth), float32(borderWidth)
	vector.FillRect(screen, ox, oy, float32(w)*cs, float32(h)*cs, cellColor, false)
	for x := 0; x <= w; x++ {
		fx := ox + float32(x)*cs
		vector.StrokeLine(screen, fx, oy, fx, oy+float32(h)*cs, 1, gridLineColor, false)
	}
	for y := 0; y <= h; y++ {
		fy := oy + float32(y)*cs
		vector.StrokeLine(screen, ox, fy, ox+float32(w)*cs, fy, 1, gridLineColor, false)
	}

	for _, t := range v.battle.Tiles() {
		x, y := v.cellOrigin(t.Location)
		if c, ok := v.battle.Grid.Cell(t.Location); ok && !c.Empty(grid.KindUnit) {
			// Occupied tiles are outlined so the unit stays readable.
			vector.StrokeRect(screen, x+1, y+1, cs-2, cs-2, 1, tileColor, false)
			continue
		}
		vector.FillRect(screen, x+1, y+1, cs-2, cs-2, tileColor, false)
	}

	for _, u := range v.battle.Units() {
		v.drawPath(screen, u.ID)
	}
	for _, u := range v.battle.Units() {
		v.drawUnit(screen, u)
	}

	v.drawHUD(screen, int(oy+float32(h)*cs))
	v.panel.Draw(screen, v.width-logPanelWidth, v.height, v.teamColor)
}

func (v *Viewer) drawPath(screen *ebiten.Image, id uuid.UUID) {
	path := v.battle.LastPath(id)
	half := float32(v.cell) / 2
	for i := 1; i < len(path); i++ {
		x0, y0 := v.cellOrigin(path[i-1])
		x1, y1 := v.cellOrigin(path[i])
		vector.StrokeLine(screen, x0+half, y0+half, x1+half, y1+half, 2, pathColor, false)
	}
}

func (v *Viewer) drawUnit(screen *ebiten.Image, u *game.Unit) {
	x, y := v.cellOrigin(u.Location)
	cs := float32(v.cell)
	pad := cs / 6
	vector.FillRect(screen, x+pad, y+pad, cs-2*pad, cs-2*pad, v.teamColor(u.Team.String()), false)

	// Health bar along the bottom edge.
	bar := (cs - 2) * float32(u.Health.Percent())
	vector.FillRect(screen, x+1, y+cs-3, bar, 2, healthColor, false)

	// Facing tick.
	if u.Facing != grid.Zero {
		half := cs / 2
		fx := x + half + float32(u.Facing.X)*(half-pad)
		fy := y + half + float32(u.Facing.Y)*(half-pad)
		vector.StrokeLine(screen, x+half, y+half, fx, fy, 1, color.White, false)
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image, top int) {
	res := v.battle.Result()
	line := fmt.Sprintf("T=%03d  buckets=%d  ", res.Turns, v.battle.Turns.Len())
	for _, team := range v.battle.Teams() {
		line += fmt.Sprintf("%s:%d  ", team, res.Survivors[team])
	}
	if v.battle.Over() {
		if res.Decided {
			line += "winner " + res.Winner.String()
		} else {
			line += "draw"
		}
	}
	text.Draw(screen, line, basicfont.Face7x13, borderWidth, top+14, color.White)

	help := "SPACE step  A auto  C copy log  R restart"
	if v.autoplay {
		help = "[auto] " + help
	}
	if v.statusTimer > 0 {
		help += "  | " + v.status
	}
	text.Draw(screen, help, basicfont.Face7x13, borderWidth, top+30, color.RGBA{R: 150, G: 160, B: 150, A: 255})
}

func (v *Viewer) cellOrigin(loc grid.Location) (float32, float32) {
	cs := float32(v.cell)
	return float32(borderWidth) + float32(loc.X)*cs, float32(borderWidth) + float32(loc.Y)*cs
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width, v.height
}
