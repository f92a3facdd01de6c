package state

// GameState represents the current state of the game
type GameState int

const (
	StateMenu GameState = iota
	StateWavePreparing
	StatePlaying
	StatePaused
	StateGameOver
	StateVictory
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateWavePreparing:
		return "wave_preparing"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	case StateVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// Running reports whether the simulation clock advances in this state
func (s GameState) Running() bool {
	return s == StatePlaying || s == StateWavePreparing
}

// Finished reports whether the session has ended
func (s GameState) Finished() bool {
	return s == StateGameOver || s == StateVictory
}
