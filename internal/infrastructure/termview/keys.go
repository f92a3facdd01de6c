package termview

import (
	"github.com/gdamore/tcell/v2"

	"github.com/younwookim/towerdefense/internal/application/session"
)

// Command is what a key press asks the terminal client to do
type Command int

const (
	CmdNone Command = iota
	CmdIntent
	CmdStart
	CmdQuit
)

var runeIntents = map[rune]session.Intent{
	'1': {Kind: session.IntentSelectType, Tower: "archer"},
	'2': {Kind: session.IntentSelectType, Tower: "cannon"},
	'3': {Kind: session.IntentSelectType, Tower: "magic"},
	'u': {Kind: session.IntentUpgrade},
	's': {Kind: session.IntentSell},
	'n': {Kind: session.IntentStartWave},
	'p': {Kind: session.IntentPause},
	'f': {Kind: session.IntentSpeed},
	'r': {Kind: session.IntentRestart},
}

// HandleKey moves the cursor or maps ev to a session intent. Enter builds
// the selected type on the cursor cell, or selects the tower already there.
func (v *View) HandleKey(ev *tcell.EventKey, selected string) (session.Intent, Command) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return session.Intent{}, CmdQuit
	case tcell.KeyUp:
		v.moveCursor(0, -1)
		return session.Intent{}, CmdNone
	case tcell.KeyDown:
		v.moveCursor(0, 1)
		return session.Intent{}, CmdNone
	case tcell.KeyLeft:
		v.moveCursor(-1, 0)
		return session.Intent{}, CmdNone
	case tcell.KeyRight:
		v.moveCursor(1, 0)
		return session.Intent{}, CmdNone
	case tcell.KeyEnter:
		if v.last != nil && v.last.State == "menu" {
			return session.Intent{}, CmdStart
		}
		return v.cursorIntent(selected), CmdIntent
	case tcell.KeyRune:
	default:
		return session.Intent{}, CmdNone
	}

	r := ev.Rune()
	if r == 'q' {
		return session.Intent{}, CmdQuit
	}
	if r == ' ' {
		return session.Intent{Kind: session.IntentStartWave}, CmdIntent
	}
	if in, ok := runeIntents[r]; ok {
		return in, CmdIntent
	}
	return session.Intent{}, CmdNone
}

func (v *View) moveCursor(dc, dr int) {
	v.cursor.Col = min(max(v.cursor.Col+dc, 0), v.stage.Cols-1)
	v.cursor.Row = min(max(v.cursor.Row+dr, 0), v.stage.Rows-1)
}

func (v *View) cursorIntent(selected string) session.Intent {
	center := v.stage.CellCenter(v.cursor.Col, v.cursor.Row)
	if v.last != nil {
		for _, t := range v.last.Towers {
			if t.Col == v.cursor.Col && t.Row == v.cursor.Row {
				return session.Intent{Kind: session.IntentSelect, X: center.X, Y: center.Y}
			}
		}
	}
	return session.Intent{Kind: session.IntentPlace, Tower: selected, X: center.X, Y: center.Y}
}
