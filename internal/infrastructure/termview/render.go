// Package termview draws session snapshots on a terminal with tcell.
// Each map cell is two columns wide so cells look square.
package termview

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/younwookim/towerdefense/internal/application/session"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/geom"
)

const cellWidth = 2

var (
	styleBuildable = tcell.StyleDefault.Background(tcell.NewRGBColor(30, 50, 30)).Foreground(tcell.ColorDarkGreen)
	styleBlocked   = tcell.StyleDefault.Background(tcell.NewRGBColor(50, 50, 60)).Foreground(tcell.ColorGray)
	stylePath      = tcell.StyleDefault.Background(tcell.NewRGBColor(90, 70, 45)).Foreground(tcell.ColorTan)
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleGold      = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleBanner    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

var towerGlyphs = map[string]rune{"archer": 'A', "cannon": 'C', "magic": 'M'}

var towerColors = map[string]tcell.Color{
	"archer": tcell.ColorGreen,
	"cannon": tcell.ColorSilver,
	"magic":  tcell.ColorPurple,
}

var enemyGlyphs = map[string]rune{"scout": 's', "knight": 'k', "dragon": 'D'}

var statusColors = map[string]tcell.Color{
	"freeze": tcell.ColorLightCyan,
	"stun":   tcell.ColorYellow,
	"slow":   tcell.ColorBlue,
	"burn":   tcell.ColorOrangeRed,
	"haste":  tcell.ColorRed,
}

// Cursor is the grid cell the keyboard commands act on
type Cursor struct {
	Col, Row int
}

// View renders snapshots and keeps the keyboard cursor
type View struct {
	screen tcell.Screen
	stage  *entity.Stage
	cursor Cursor
	last   *session.Snapshot
}

// New creates a view of stage on an initialized screen
func New(screen tcell.Screen, stage *entity.Stage) *View {
	return &View{
		screen: screen,
		stage:  stage,
		cursor: Cursor{Col: stage.Cols / 2, Row: stage.Rows / 2},
	}
}

// Cursor returns the current cursor cell
func (v *View) Cursor() Cursor { return v.cursor }

// Draw renders snap and shows the screen
func (v *View) Draw(snap *session.Snapshot) {
	v.last = snap
	v.screen.Clear()

	v.drawGrid()
	for _, t := range snap.Towers {
		v.drawTower(t)
	}
	for _, e := range snap.Enemies {
		v.drawEnemy(e)
	}
	for _, p := range snap.Projectiles {
		v.drawProjectile(p)
	}
	v.drawCursor()
	v.drawHUD(snap)

	v.screen.Show()
}

func (v *View) drawGrid() {
	for row := range v.stage.Rows {
		for col := range v.stage.Cols {
			style, glyph := styleBuildable, '.'
			switch v.stage.Cell(col, row) {
			case entity.CellPath:
				style, glyph = stylePath, ' '
			case entity.CellBlocked:
				style, glyph = styleBlocked, '#'
			}
			v.setCell(col, row, glyph, ' ', style)
		}
	}
}

func (v *View) setCell(col, row int, a, b rune, style tcell.Style) {
	x := col * cellWidth
	v.screen.SetContent(x, row, a, nil, style)
	v.screen.SetContent(x+1, row, b, nil, style)
}

// cellOf maps a world position to the grid, reporting whether it is on the map
func (v *View) cellOf(x, y float64) (int, int, bool) {
	col, row := v.stage.CellAt(geom.V(x, y))
	return col, row, v.stage.InGrid(col, row)
}

func (v *View) background(col, row int) tcell.Style {
	switch v.stage.Cell(col, row) {
	case entity.CellPath:
		return stylePath
	case entity.CellBlocked:
		return styleBlocked
	default:
		return styleBuildable
	}
}

func (v *View) drawTower(t session.TowerView) {
	glyph, ok := towerGlyphs[t.Kind]
	if !ok {
		glyph = 'T'
	}
	style := v.background(t.Col, t.Row).Foreground(towerColors[t.Kind]).Bold(true)
	if t.Selected {
		style = style.Reverse(true)
	}
	v.setCell(t.Col, t.Row, glyph, rune('0'+t.Level), style)
}

func (v *View) drawEnemy(e session.EnemyView) {
	col, row, ok := v.cellOf(e.X, e.Y)
	if !ok {
		return
	}
	glyph, ok := enemyGlyphs[e.Kind]
	if !ok {
		glyph = 'e'
	}

	fg := tcell.ColorRed
	if len(e.Statuses) > 0 {
		fg = statusColors[e.Statuses[0]]
	}
	if e.Flash {
		fg = tcell.ColorWhite
	}
	style := v.background(col, row).Foreground(fg).Bold(true)
	v.setCell(col, row, glyph, healthGlyph(e.Health), style)
}

// healthGlyph shows remaining health as a bar height
func healthGlyph(f float64) rune {
	bars := []rune("▁▂▃▄▅▆▇█")
	i := int(math.Ceil(f*float64(len(bars)))) - 1
	if i < 0 {
		i = 0
	}
	return bars[min(i, len(bars)-1)]
}

func (v *View) drawProjectile(p session.ProjectileView) {
	col, row, ok := v.cellOf(p.X, p.Y)
	if !ok {
		return
	}
	glyph := '*'
	switch p.Kind {
	case entity.ProjectileArrow.String():
		glyph = '\''
	case entity.ProjectileCannonball.String():
		glyph = 'o'
	}
	x := col*cellWidth + 1
	v.screen.SetContent(x, row, glyph, nil, v.background(col, row).Foreground(tcell.ColorWhite))
}

func (v *View) drawCursor() {
	x := v.cursor.Col * cellWidth
	for i := range cellWidth {
		r, comb, style, _ := v.screen.GetContent(x+i, v.cursor.Row)
		v.screen.SetContent(x+i, v.cursor.Row, r, comb, style.Reverse(true))
	}
}

func (v *View) drawHUD(snap *session.Snapshot) {
	y := v.stage.Rows
	v.print(0, y, styleGold, fmt.Sprintf("Gold %d", snap.Gold))
	v.print(12, y, styleHUD, fmt.Sprintf("Lives %d  Score %d  Best %d  Wave %d/%d  %dx  [%s]",
		snap.Lives, snap.Score, snap.HighScore, snap.Wave, snap.TotalWaves, snap.Speed, snap.SelectedType))
	v.print(0, y+1, styleHUD, "arrows move  enter build/select  1-3 type  u upgrade  s sell  n wave  p pause  f speed  r restart  q quit")

	if msg := stateBanner(snap); msg != "" {
		x := max(0, (v.stage.Cols*cellWidth-len(msg))/2)
		v.print(x, v.stage.Rows/2, styleBanner, msg)
	}
}

func stateBanner(snap *session.Snapshot) string {
	switch snap.State {
	case "menu":
		return " press enter to start "
	case "wave_preparing":
		return ""
	case "paused":
		return " PAUSED "
	case "game_over":
		return fmt.Sprintf(" GAME OVER  score %d  r to restart ", snap.Score)
	case "victory":
		return fmt.Sprintf(" VICTORY  score %d  r to restart ", snap.Score)
	default:
		return ""
	}
}

func (v *View) print(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
