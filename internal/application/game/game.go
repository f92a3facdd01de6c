// Package game adapts a Scene stack to ebiten.Game.
package game

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/towerdefense/internal/application/scene"
)

// Game implements ebiten.Game and manages Scene transitions.
type Game struct {
	current scene.Scene
	screenW int
	screenH int
	dt      float64
	ticks   uint64
	closed  bool
}

// New creates a Game stepping the initial scene tps times per second.
// The initial scene's OnEnter is called immediately.
func New(initialScene scene.Scene, screenW, screenH, tps int) *Game {
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	g := &Game{
		current: initialScene,
		screenW: screenW,
		screenH: screenH,
		dt:      1.0 / float64(tps),
	}
	g.current.OnEnter()
	return g
}

// Update runs one fixed step of the current scene and handles transitions.
// A scene error ends the game after the current scene's OnExit.
func (g *Game) Update() error {
	next, err := g.current.Update(g.dt)
	if err != nil {
		g.Close()
		return err
	}
	g.ticks++

	if next != nil {
		g.current.OnExit()
		g.current = next
		g.current.OnEnter()
	}
	return nil
}

// Draw renders the current scene.
func (g *Game) Draw(screen *ebiten.Image) {
	g.current.Draw(screen)
}

// Layout returns the fixed logical screen size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.screenW, g.screenH
}

// Close runs the current scene's OnExit once. Call it after ebiten.RunGame
// returns so recordings are flushed when the window is closed.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.current.OnExit()
}

// DT returns the fixed step passed to scenes
func (g *Game) DT() float64 { return g.dt }

// Ticks returns the number of completed updates
func (g *Game) Ticks() uint64 { return g.ticks }

// IsTermination reports whether err is the clean-exit signal
func IsTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}
