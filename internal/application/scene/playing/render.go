package playing

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/geom"
)

// Draw renders the last snapshot
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	p.drawStage(screen)
	p.drawPlacementPreview(screen)
	p.drawTowers(screen)
	p.drawEnemies(screen)
	p.drawProjectiles(screen)
	p.drawEffects(screen)
	p.drawHUD(screen)
	p.drawBanner(screen)

	switch p.snap.State {
	case "menu":
		p.drawOverlay(screen, colorOverlay, "TOWER DEFENSE\n\nClick or press Enter to start")
	case "paused":
		p.drawOverlay(screen, colorOverlay, "PAUSED\n\nPress P to resume")
	case "game_over":
		p.drawOverlay(screen, colorDefeat, p.resultText("GAME OVER"))
	case "victory":
		p.drawOverlay(screen, colorVictory, p.resultText("VICTORY"))
	}
}

func (p *Playing) drawStage(screen *ebiten.Image) {
	st := p.session.Stage()
	cs := float32(st.CellSize)
	for row := range st.Rows {
		for col := range st.Cols {
			x, y := float32(col)*cs, float32(row)*cs
			vector.DrawFilledRect(screen, x, y, cs, cs, cellColor(st.Cell(col, row)), false)
			vector.StrokeRect(screen, x, y, cs, cs, 1, colorGridLine, false)
		}
	}
	for i := 1; i < len(st.Path); i++ {
		a, b := st.Path[i-1], st.Path[i]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, color.RGBA{110, 88, 60, 255}, true)
	}
}

func (p *Playing) drawPlacementPreview(screen *ebiten.Image) {
	if !p.hud.inMap(p.mouseX, p.mouseY) || p.snap.State == "menu" {
		return
	}
	st := p.session.Stage()
	x, y := float64(p.mouseX), float64(p.mouseY)
	if _, ok := p.session.Towers().TowerAt(x, y); ok {
		return
	}
	col, row := st.CellAt(geom.V(x, y))
	c := colorInvalid
	if p.session.CanPlaceTower(x, y) {
		c = colorValid
	}
	cs := float32(st.CellSize)
	vector.DrawFilledRect(screen, float32(col)*cs, float32(row)*cs, cs, cs, c, false)
}

func (p *Playing) drawTowers(screen *ebiten.Image) {
	for _, t := range p.snap.Towers {
		x, y := float32(t.X), float32(t.Y)
		if t.Selected {
			vector.StrokeCircle(screen, x, y, float32(t.Range), 1, colorRange, true)
		}
		half := float32(p.session.Stage().CellSize) * 0.35
		vector.DrawFilledRect(screen, x-half, y-half, half*2, half*2, p.palette.tower(t.Kind), false)

		// barrel
		bx := x + float32(math.Cos(t.Rotation))*half
		by := y + float32(math.Sin(t.Rotation))*half
		vector.StrokeLine(screen, x, y, bx, by, 3, colorText, true)

		for lv := range t.Level {
			vector.DrawFilledRect(screen, x-half+float32(lv)*6, y+half+2, 4, 4, colorGold, false)
		}
		if t.Selected {
			vector.StrokeRect(screen, x-half-2, y-half-2, half*2+4, half*2+4, 2, colorText, false)
		}
	}
}

func (p *Playing) drawEnemies(screen *ebiten.Image) {
	for _, e := range p.snap.Enemies {
		x, y, r := float32(e.X), float32(e.Y), float32(e.Size)

		c := p.palette.enemy(e.Kind)
		if e.Flash {
			c = colorFlash
		}
		vector.DrawFilledCircle(screen, x, y, r, c, true)
		for i, st := range e.Statuses {
			vector.StrokeCircle(screen, x, y, r+2+float32(i)*2, 1.5, statusColors[st], true)
		}

		// health bar
		w := r * 2
		vector.DrawFilledRect(screen, x-r, y-r-6, w, 3, colorHealthBG, false)
		vector.DrawFilledRect(screen, x-r, y-r-6, w*float32(e.Health), 3, colorHealthFG, false)
	}
}

func (p *Playing) drawProjectiles(screen *ebiten.Image) {
	for _, pr := range p.snap.Projectiles {
		x, y := float32(pr.X), float32(pr.Y)
		switch pr.Kind {
		case entity.ProjectileArrow.String():
			// p.X, p.Y is the arrow tip
			length := 10.0
			tx := x - float32(math.Cos(pr.Rotation)*length)
			ty := y - float32(math.Sin(pr.Rotation)*length)
			vector.StrokeLine(screen, x, y, tx, ty, 2, colorArrow, true)
		case entity.ProjectileCannonball.String():
			vector.DrawFilledCircle(screen, x, y, 4, colorCannonball, true)
		default:
			vector.DrawFilledCircle(screen, x, y, 3, colorMissile, true)
		}
	}
}

func (p *Playing) drawEffects(screen *ebiten.Image) {
	for _, ch := range p.snap.Chains {
		for i := 1; i < len(ch.Points); i++ {
			a, b := ch.Points[i-1], ch.Points[i]
			vector.StrokeLine(screen, float32(a[0]), float32(a[1]), float32(b[0]), float32(b[1]), 2, colorChain, true)
		}
	}
	for _, b := range p.snap.Blasts {
		vector.StrokeCircle(screen, float32(b.X), float32(b.Y), float32(b.Radius), 2, colorBlast, true)
	}
}

func (p *Playing) drawBanner(screen *ebiten.Image) {
	if p.bannerMs <= 0 || p.banner == "" {
		return
	}
	x := p.hud.mapW/2 - len(p.banner)*7/2
	ebitenutil.DrawRect(screen, float64(x-8), 12, float64(len(p.banner)*7+16), 22, colorOverlay)
	drawText(screen, p.banner, x, 28, colorText)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, c color.Color, msg string) {
	ebitenutil.DrawRect(screen, 0, 0, float64(p.hud.mapW), float64(p.hud.mapH), c)
	drawText(screen, msg, p.hud.mapW/2-90, p.hud.mapH/2-20, colorText)
}

func (p *Playing) resultText(title string) string {
	s := fmt.Sprintf("%s\n\nScore %d  Wave %d", title, p.snap.Score, p.snap.Wave)
	if p.newRecord {
		s += "\nNew high score!"
	}
	return s + "\n\nPress R to restart"
}
