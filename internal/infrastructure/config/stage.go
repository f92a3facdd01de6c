package config

// StageConfig is the root config for stage JSON files.
// Tiles are rows of '.' (buildable), '#' (blocked) and '=' (path).
type StageConfig struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Cols        int                `json:"cols"`
	Rows        int                `json:"rows"`
	CellSize    float64            `json:"cellSize"`
	Tiles       []string           `json:"tiles"`
	Path        []CellConfig       `json:"path"` // waypoints in cell coordinates
	Decorations []DecorationConfig `json:"decorations"`
}

// CellConfig is a [col, row] pair
type CellConfig [2]int

type DecorationConfig struct {
	Sprite string `json:"sprite"`
	Col    int    `json:"col"`
	Row    int    `json:"row"`
}
