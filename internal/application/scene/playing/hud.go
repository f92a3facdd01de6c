package playing

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/younwookim/towerdefense/internal/application/session"
	"github.com/younwookim/towerdefense/internal/domain/entity"
)

const (
	buttonWidth  = 110
	buttonGap    = 8
	buttonMargin = 6
)

// hud is the screen layout: the stage map on top, the command bar below it
type hud struct {
	mapW, mapH int
	height     int
}

func (h hud) inMap(x, y int) bool {
	return x >= 0 && y >= 0 && x < h.mapW && y < h.mapH
}

func (h hud) button(i int) image.Rectangle {
	x := buttonMargin + i*(buttonWidth+buttonGap)
	y := h.mapH + buttonMargin
	return image.Rect(x, y, x+buttonWidth, h.mapH+h.height-buttonMargin)
}

// buttonAt returns the tower type whose button contains x,y
func (h hud) buttonAt(x, y int) (entity.TowerKind, bool) {
	pt := image.Pt(x, y)
	for i, kind := range entity.TowerKinds() {
		if pt.In(h.button(i)) {
			return kind, true
		}
	}
	return 0, false
}

func drawText(dst *ebiten.Image, s string, x, y int, clr color.Color) {
	text.Draw(dst, s, basicfont.Face7x13, x, y, clr)
}

func (p *Playing) drawHUD(screen *ebiten.Image) {
	h := p.hud
	snap := &p.snap
	vector.DrawFilledRect(screen, 0, float32(h.mapH), float32(h.mapW), float32(h.height), colorHUD, false)

	for i, kind := range entity.TowerKinds() {
		r := h.button(i)
		c := p.palette.tower(kind.String())
		if snap.SelectedType != kind.String() {
			c.A = 110
		}
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
		label := fmt.Sprintf("%d %s %dg", i+1, kind, p.costs[kind])
		drawText(screen, label, r.Min.X+6, r.Min.Y+r.Dy()/2+4, colorText)
	}

	x := buttonMargin + len(entity.TowerKinds())*(buttonWidth+buttonGap) + 10
	y := h.mapH + h.height/2 - 2
	drawText(screen, fmt.Sprintf("Gold %d", snap.Gold), x, y, colorGold)
	drawText(screen, fmt.Sprintf("Lives %d  Score %d  Best %d", snap.Lives, snap.Score, snap.HighScore), x+80, y, colorText)
	drawText(screen, waveLine(snap), x, y+14, colorText)
}

func waveLine(snap *session.Snapshot) string {
	switch snap.State {
	case "wave_preparing":
		return fmt.Sprintf("Wave %d/%d in %.1fs  %dx", snap.Wave, snap.TotalWaves, snap.Preparation/1000, snap.Speed)
	default:
		return fmt.Sprintf("Wave %d/%d  %d/%d spawned  %dx", snap.Wave, snap.TotalWaves, snap.WaveSpawned, snap.WaveTotal, snap.Speed)
	}
}
