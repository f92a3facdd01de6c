package playing

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/towerdefense/internal/application/session"
	"github.com/younwookim/towerdefense/internal/domain/entity"
)

// Action is a set of keyboard commands pressed this frame
type Action uint16

const (
	ActSelectArcher Action = 1 << iota
	ActSelectCannon
	ActSelectMagic
	ActUpgrade
	ActSell
	ActNextWave
	ActPause
	ActSpeed
	ActRestart
	ActSave
	ActStart
)

// Has reports whether every action in o is set
func (a Action) Has(o Action) bool { return a&o == o }

var keyBindings = []struct {
	key    ebiten.Key
	action Action
}{
	{ebiten.KeyDigit1, ActSelectArcher},
	{ebiten.KeyDigit2, ActSelectCannon},
	{ebiten.KeyDigit3, ActSelectMagic},
	{ebiten.KeyU, ActUpgrade},
	{ebiten.KeyS, ActSell},
	{ebiten.KeyN, ActNextWave},
	{ebiten.KeySpace, ActNextWave},
	{ebiten.KeyP, ActPause},
	{ebiten.KeyEscape, ActPause},
	{ebiten.KeyF, ActSpeed},
	{ebiten.KeyR, ActRestart},
	{ebiten.KeyF5, ActSave},
	{ebiten.KeyEnter, ActStart},
}

// InputState is the raw input of one frame
type InputState struct {
	Actions    Action
	MouseX     int
	MouseY     int
	LeftClick  bool
	RightClick bool
}

// pollInput reads this frame's input from ebiten
func pollInput() InputState {
	var in InputState
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			in.Actions |= b.action
		}
	}
	in.MouseX, in.MouseY = ebiten.CursorPosition()
	in.LeftClick = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	in.RightClick = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	return in
}

// Board answers which cells hold a tower
type Board interface {
	TowerAt(x, y float64) (*entity.Tower, bool)
}

// translate turns one frame of input into session intents, in the order the
// session should apply them. Clicks on the map select an existing tower or
// build the selected type; clicks on the HUD pick a tower type.
func translate(in InputState, h hud, board Board, selected entity.TowerKind) []session.Intent {
	var out []session.Intent

	for i, act := range []Action{ActSelectArcher, ActSelectCannon, ActSelectMagic} {
		if in.Actions.Has(act) {
			selected = entity.TowerKinds()[i]
			out = append(out, session.Intent{Kind: session.IntentSelectType, Tower: selected.String()})
		}
	}

	if in.LeftClick {
		x, y := float64(in.MouseX), float64(in.MouseY)
		switch {
		case h.inMap(in.MouseX, in.MouseY):
			if _, ok := board.TowerAt(x, y); ok {
				out = append(out, session.Intent{Kind: session.IntentSelect, X: x, Y: y})
			} else {
				out = append(out, session.Intent{Kind: session.IntentPlace, Tower: selected.String(), X: x, Y: y})
			}
		default:
			if kind, ok := h.buttonAt(in.MouseX, in.MouseY); ok {
				out = append(out, session.Intent{Kind: session.IntentSelectType, Tower: kind.String()})
			}
		}
	}
	if in.RightClick {
		out = append(out, session.Intent{Kind: session.IntentSelect, X: -1, Y: -1})
	}

	simple := []struct {
		act  Action
		kind session.IntentKind
	}{
		{ActUpgrade, session.IntentUpgrade},
		{ActSell, session.IntentSell},
		{ActNextWave, session.IntentStartWave},
		{ActSpeed, session.IntentSpeed},
		{ActPause, session.IntentPause},
		{ActRestart, session.IntentRestart},
	}
	for _, s := range simple {
		if in.Actions.Has(s.act) {
			out = append(out, session.Intent{Kind: s.kind})
		}
	}
	return out
}
