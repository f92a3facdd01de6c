package playing

import (
	"fmt"
	"image/color"

	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
)

var (
	colorBG         = color.RGBA{26, 26, 46, 255}
	colorBuildable  = color.RGBA{58, 84, 52, 255}
	colorBlocked    = color.RGBA{70, 70, 86, 255}
	colorPathTile   = color.RGBA{150, 122, 84, 255}
	colorGridLine   = color.RGBA{0, 0, 0, 40}
	colorHUD        = color.RGBA{20, 20, 30, 255}
	colorText       = color.RGBA{230, 230, 230, 255}
	colorGold       = color.RGBA{255, 215, 0, 255}
	colorHealthBG   = color.RGBA{60, 60, 60, 255}
	colorHealthFG   = color.RGBA{100, 200, 100, 255}
	colorFlash      = color.RGBA{255, 255, 255, 255}
	colorRange      = color.RGBA{255, 255, 255, 60}
	colorValid      = color.RGBA{80, 220, 80, 90}
	colorInvalid    = color.RGBA{220, 60, 60, 90}
	colorArrow      = color.RGBA{235, 220, 180, 255}
	colorCannonball = color.RGBA{40, 40, 40, 255}
	colorMissile    = color.RGBA{140, 220, 255, 255}
	colorChain      = color.RGBA{190, 170, 255, 230}
	colorBlast      = color.RGBA{255, 150, 40, 200}
	colorOverlay    = color.RGBA{0, 0, 0, 140}
	colorDefeat     = color.RGBA{100, 0, 0, 180}
	colorVictory    = color.RGBA{0, 70, 20, 180}
)

var statusColors = map[string]color.RGBA{
	"slow":   {90, 160, 255, 255},
	"freeze": {180, 240, 255, 255},
	"stun":   {255, 240, 90, 255},
	"burn":   {255, 110, 30, 255},
	"haste":  {255, 60, 60, 255},
}

// palette holds the per-kind colors from the entity catalog
type palette struct {
	towers  map[string]color.RGBA
	enemies map[string]color.RGBA
}

func newPalette(cfg *config.EntitiesConfig) palette {
	p := palette{
		towers:  make(map[string]color.RGBA),
		enemies: make(map[string]color.RGBA),
	}
	if cfg == nil {
		return p
	}
	for name, t := range cfg.Towers {
		if c, err := parseHexColor(t.Color); err == nil {
			p.towers[name] = c
		}
	}
	for name, e := range cfg.Enemies {
		if c, err := parseHexColor(e.Color); err == nil {
			p.enemies[name] = c
		}
	}
	return p
}

func (p palette) tower(kind string) color.RGBA {
	if c, ok := p.towers[kind]; ok {
		return c
	}
	return color.RGBA{100, 100, 200, 255}
}

func (p palette) enemy(kind string) color.RGBA {
	if c, ok := p.enemies[kind]; ok {
		return c
	}
	return color.RGBA{200, 100, 100, 255}
}

// parseHexColor parses #rrggbb
func parseHexColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 255}
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

func cellColor(t entity.CellType) color.RGBA {
	switch t {
	case entity.CellPath:
		return colorPathTile
	case entity.CellBlocked:
		return colorBlocked
	default:
		return colorBuildable
	}
}
