package config

// WavesConfig is the root config for waves.json
type WavesConfig struct {
	Waves []WaveConfig `json:"waves"`
}

type WaveConfig struct {
	PreparationMs float64       `json:"preparationMs"`
	Groups        []GroupConfig `json:"groups"`
}

type GroupConfig struct {
	Enemy      string  `json:"enemy"`
	Count      int     `json:"count"`
	IntervalMs float64 `json:"intervalMs"`
}
