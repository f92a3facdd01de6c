// Package scene defines the screens the ebiten host switches between.
//
// The windowed client runs a single playing scene over a session; the
// interface keeps the host independent of it so the title and results
// screens can be separate scenes.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene is one screen of the windowed client.
//
// The game loop calls Update once per ebiten tick with the fixed step and
// Draw once per frame. Returning a non-nil Scene from Update switches to it;
// returning an error stops the game (ebiten.Termination for a clean exit).
type Scene interface {
	Update(dt float64) (next Scene, err error)
	Draw(screen *ebiten.Image)

	// OnEnter runs each time the scene becomes current
	OnEnter()
	// OnExit runs when the scene is replaced or the game stops
	OnExit()
}
