package event

const (
	TowerFire         Type = "tower_fire"
	EnemyHit          Type = "enemy_hit"
	EnemyDeath        Type = "enemy_death"
	EnemyEscaped      Type = "enemy_escaped"
	TowerPlaced       Type = "tower_placed"
	TowerUpgraded     Type = "tower_upgraded"
	TowerSold         Type = "tower_sold"
	ChainLightning    Type = "chain_lightning"
	Explosion         Type = "explosion"
	WaveStart         Type = "wave_start"
	WaveComplete      Type = "wave_complete"
	GameOver          Type = "game_over"
	Victory           Type = "victory"
	PlacementRejected Type = "placement_rejected"
)

// All lists every event type the simulation emits
func All() []Type {
	return []Type{
		TowerFire, EnemyHit, EnemyDeath, EnemyEscaped,
		TowerPlaced, TowerUpgraded, TowerSold,
		ChainLightning, Explosion,
		WaveStart, WaveComplete, GameOver, Victory,
		PlacementRejected,
	}
}

// TowerData accompanies tower_* events
type TowerData struct {
	TowerID uint64
	Kind    string
	Level   int
	X, Y    float64
	Gold    int // cost paid or refund received
}

// EnemyData accompanies enemy_* events
type EnemyData struct {
	EnemyID uint64
	Kind    string
	X, Y    float64
	Amount  int // damage dealt, or lives lost on escape
	Gold    int
	Score   int
}

// WaveData accompanies wave_* events
type WaveData struct {
	Number     int
	Total      int
	Enemies    int
	BonusGold  int
	BonusScore int
}

// ChainData accompanies chain_lightning
type ChainData struct {
	TowerID uint64
	Points  [][2]float64 // tower first, then each hit in order
}

// ExplosionData accompanies explosion
type ExplosionData struct {
	X, Y   float64
	Radius float64
	Hits   int
}

// OutcomeData accompanies game_over and victory
type OutcomeData struct {
	Score     int
	Wave      int
	HighScore int
	NewRecord bool
}

// RejectionData accompanies placement_rejected
type RejectionData struct {
	Kind   string
	X, Y   float64
	Reason string
}
