package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Grid-Tactics/internal/game"
)

const (
	logPanelWidth = 360
	logMaxEntries = 80
	logLineHeight = 14
)

// LogPanel is a ring buffer of recent battle log entries rendered on-screen.
type LogPanel struct {
	entries []game.LogEntry
	head    int
	count   int
}

// NewLogPanel creates a panel with a fixed capacity.
func NewLogPanel() *LogPanel {
	return &LogPanel{
		entries: make([]game.LogEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full. Verbose position
// entries are not shown.
func (lp *LogPanel) Add(e game.LogEntry) {
	if e.Key == "position" {
		return
	}
	lp.entries[lp.head] = e
	lp.head = (lp.head + 1) % logMaxEntries
	if lp.count < logMaxEntries {
		lp.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (lp *LogPanel) Recent() []game.LogEntry {
	result := make([]game.LogEntry, lp.count)
	for i := 0; i < lp.count; i++ {
		idx := (lp.head - lp.count + i + logMaxEntries) % logMaxEntries
		result[i] = lp.entries[idx]
	}
	return result
}

// Clear drops every entry.
func (lp *LogPanel) Clear() {
	lp.head = 0
	lp.count = 0
}

// Draw renders the panel at panelX, newest entries at the bottom.
func (lp *LogPanel) Draw(screen *ebiten.Image, panelX, panelH int, teamColor func(team string) color.RGBA) {
	vector.FillRect(screen, float32(panelX), 0, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, logPanelWidth, 18, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	text.Draw(screen, "BATTLE LOG", basicfont.Face7x13, panelX+8, 13, color.White)

	entries := lp.Recent()
	maxVisible := (panelH - 26) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	const recent = 3
	y := 22
	for i, e := range entries {
		if i >= len(entries)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, teamColor(e.Team), false)

		line := fmt.Sprintf("%4d %-5s %s %s", e.Turn, e.Unit, e.Key, e.Value)
		text.Draw(screen, line, basicfont.Face7x13, panelX+12, y+11, color.RGBA{R: 200, G: 210, B: 200, A: 255})
		y += logLineHeight
	}
}
