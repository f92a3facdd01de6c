package config

// EntitiesConfig is the root config for entities.json
type EntitiesConfig struct {
	Towers  map[string]TowerConfig `json:"towers"`
	Enemies map[string]EnemyConfig `json:"enemies"`
}

type TowerConfig struct {
	Cost            int     `json:"cost"`
	UpgradeCost     int     `json:"upgradeCost"`
	SellValue       int     `json:"sellValue"`
	Damage          float64 `json:"damage"`
	Range           float64 `json:"range"`
	AttackSpeed     float64 `json:"attackSpeed"` // attacks per second
	ProjectileSpeed float64 `json:"projectileSpeed"`
	Size            float64 `json:"size"`
	Color           string  `json:"color"`

	Archer *ArcherConfig `json:"archer,omitempty"`
	Cannon *CannonConfig `json:"cannon,omitempty"`
	Magic  *MagicConfig  `json:"magic,omitempty"`
}

// ArcherConfig tables are indexed by level-1
type ArcherConfig struct {
	Pierce    []int `json:"pierce"`
	MultiShot []int `json:"multiShot"`
}

type CannonConfig struct {
	ExplosionRadius float64 `json:"explosionRadius"`
	RadiusGrowth    float64 `json:"radiusGrowth"`
	StunChance      float64 `json:"stunChance"`
	StunDurationMs  float64 `json:"stunDurationMs"`
	BurnDPS         float64 `json:"burnDps"`
	BurnDurationMs  float64 `json:"burnDurationMs"`
}

type MagicConfig struct {
	ChainCount         int     `json:"chainCount"`
	ChainRadius        float64 `json:"chainRadius"`
	SlowStrength       float64 `json:"slowStrength"`
	SlowDurationMs     float64 `json:"slowDurationMs"`
	MaxSlow            float64 `json:"maxSlow"`
	RangeGrowth        float64 `json:"rangeGrowth"`
	ChainCountGrowth   int     `json:"chainCountGrowth"`
	ChainRadiusGrowth  float64 `json:"chainRadiusGrowth"`
	SlowStrengthGrowth float64 `json:"slowStrengthGrowth"`
	AttackSpeedBonus   float64 `json:"attackSpeedBonus"`
	FrostDurationMs    float64 `json:"frostDurationMs"`
	FrostDamage        float64 `json:"frostDamage"`
}

type EnemyConfig struct {
	Health      int                `json:"health"`
	Speed       float64            `json:"speed"`
	Gold        int                `json:"gold"`
	Score       int                `json:"score"`
	Armor       int                `json:"armor"`
	MagicResist float64            `json:"magicResist"`
	Damage      int                `json:"damage"`
	Size        float64            `json:"size"`
	Flying      bool               `json:"flying"`
	Color       string             `json:"color"`
	Resist      map[string]float64 `json:"resist"`
	Enrage      *EnrageConfig      `json:"enrage,omitempty"`
}

type EnrageConfig struct {
	Below      float64 `json:"below"` // health fraction
	Strength   float64 `json:"strength"`
	DurationMs float64 `json:"durationMs"`
}
