package config

// SettingsConfig is the root config for game.json
type SettingsConfig struct {
	Display DisplayConfig `json:"display"`
	Rules   RulesConfig   `json:"rules"`
	Tuning  TuningConfig  `json:"tuning"`
	Growth  GrowthConfig  `json:"waveGrowth"`
	Audio   AudioConfig   `json:"audio"`
	Network NetworkConfig `json:"network"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	Scale        int `json:"scale"`
	Framerate    int `json:"framerate"`
	HUDHeight    int `json:"hudHeight"`
}

// RulesConfig holds the economy and pacing of a game
type RulesConfig struct {
	Stage                 string  `json:"stage"`
	Seed                  int64   `json:"seed"`
	StartingGold          int     `json:"startingGold"`
	StartingLives         int     `json:"startingLives"`
	TotalWaves            int     `json:"totalWaves"`
	WaveBonusGold         int     `json:"waveBonusGold"`
	WaveBonusGoldPerWave  int     `json:"waveBonusGoldPerWave"`
	WaveBonusScore        int     `json:"waveBonusScore"`
	WaveBonusScorePerWave int     `json:"waveBonusScorePerWave"`
	MaxDeltaTime          float64 `json:"maxDeltaTime"` // seconds
	Speeds                []int   `json:"speeds"`
}

// TuningConfig holds simulation thresholds
type TuningConfig struct {
	AcquireRangeMultiplier float64 `json:"acquireRangeMultiplier"`
	FireRangeMultiplier    float64 `json:"fireRangeMultiplier"`
	RetainRangeMultiplier  float64 `json:"retainRangeMultiplier"`
	ArrivalThreshold       float64 `json:"arrivalThreshold"`
	InvulnerabilityMs      float64 `json:"invulnerabilityMs"`
	DamageFlashMs          float64 `json:"damageFlashMs"`
	ProjectileHitRadius    float64 `json:"projectileHitRadius"`
	OutOfBoundsMargin      float64 `json:"outOfBoundsMargin"`
	ProjectileCap          int     `json:"projectileCap"`
	PathClearance          float64 `json:"pathClearance"`
	ChainDisplayMs         float64 `json:"chainDisplayMs"`
	ExplosionDisplayMs     float64 `json:"explosionDisplayMs"`
}

// GrowthConfig shapes waves generated past the configured list
type GrowthConfig struct {
	CountGrowth   float64 `json:"countGrowth"`
	IntervalDecay float64 `json:"intervalDecay"`
	MinIntervalMs float64 `json:"minIntervalMs"`
	Window        int     `json:"window"`
}

type AudioConfig struct {
	Enabled    bool                 `json:"enabled"`
	SampleRate int                  `json:"sampleRate"`
	Volume     float64              `json:"volume"` // log2 gain, 0 = unchanged
	MaxVoices  int                  `json:"maxVoices"`
	Cues       map[string]CueConfig `json:"cues"` // keyed by event name
}

type CueConfig struct {
	Frequency  float64 `json:"frequency"`
	DurationMs int     `json:"durationMs"`
	Volume     float64 `json:"volume"`
}

type NetworkConfig struct {
	BroadcastEvery int `json:"broadcastEvery"` // ticks between spectator snapshots
	SendBuffer     int `json:"sendBuffer"`
}
