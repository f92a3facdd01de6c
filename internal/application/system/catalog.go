package system

import (
	"fmt"

	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/wave"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
)

// BuildEnemyCatalog converts the enemy section of entities.json
func BuildEnemyCatalog(cfg *config.EntitiesConfig) (map[entity.EnemyKind]entity.EnemyStats, error) {
	out := make(map[entity.EnemyKind]entity.EnemyStats, len(cfg.Enemies))
	for name, ec := range cfg.Enemies {
		kind, err := entity.ParseEnemyKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownKind, err)
		}

		stats := entity.EnemyStats{
			MaxHealth:     ec.Health,
			Speed:         ec.Speed,
			Gold:          ec.Gold,
			Score:         ec.Score,
			Armor:         ec.Armor,
			MagicResist:   ec.MagicResist,
			ContactDamage: ec.Damage,
			Size:          ec.Size,
			Flying:        ec.Flying,
		}
		if stats.Size <= 0 {
			stats.Size = 10
		}
		for statusName, r := range ec.Resist {
			sk, err := entity.ParseStatusKind(statusName)
			if err != nil {
				return nil, fmt.Errorf("enemy %s: %w", name, err)
			}
			stats.Resist[sk] = r
		}
		if ec.Enrage != nil {
			stats.EnrageBelow = ec.Enrage.Below
			stats.EnrageStrength = ec.Enrage.Strength
			stats.EnrageDuration = ec.Enrage.DurationMs
		}
		out[kind] = stats
	}
	return out, nil
}

// BuildTowerCatalog converts the tower section of entities.json
func BuildTowerCatalog(cfg *config.EntitiesConfig) (map[entity.TowerKind]entity.TowerSpec, error) {
	out := make(map[entity.TowerKind]entity.TowerSpec, len(cfg.Towers))
	for name, tc := range cfg.Towers {
		kind, err := entity.ParseTowerKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownKind, err)
		}

		spec := entity.TowerSpec{
			Kind: kind,
			Size: tc.Size,
			Stats: entity.TowerStats{
				Damage:          tc.Damage,
				Range:           tc.Range,
				AttackSpeed:     tc.AttackSpeed,
				ProjectileSpeed: tc.ProjectileSpeed,
				Cost:            tc.Cost,
				UpgradeCost:     tc.UpgradeCost,
				SellValue:       tc.SellValue,
			},
		}
		if spec.Size <= 0 {
			spec.Size = 14
		}
		if spec.Stats.ProjectileSpeed <= 0 {
			spec.Stats.ProjectileSpeed = 300
		}

		if a := tc.Archer; a != nil {
			spec.Archer.PierceByLevel = levelTable(a.Pierce, 0)
			spec.Archer.MultiShotByLevel = levelTable(a.MultiShot, 1)
		} else {
			spec.Archer.MultiShotByLevel = levelTable(nil, 1)
		}
		if c := tc.Cannon; c != nil {
			spec.Cannon = entity.CannonParams{
				ExplosionRadius: c.ExplosionRadius,
				RadiusGrowth:    c.RadiusGrowth,
				StunChance:      c.StunChance,
				StunDuration:    c.StunDurationMs,
				BurnDPS:         c.BurnDPS,
				BurnDuration:    c.BurnDurationMs,
			}
		}
		if m := tc.Magic; m != nil {
			spec.Magic = entity.MagicParams{
				ChainCount:         m.ChainCount,
				ChainRadius:        m.ChainRadius,
				SlowStrength:       m.SlowStrength,
				SlowDuration:       m.SlowDurationMs,
				MaxSlow:            m.MaxSlow,
				RangeGrowth:        m.RangeGrowth,
				ChainCountGrowth:   m.ChainCountGrowth,
				ChainRadiusGrowth:  m.ChainRadiusGrowth,
				SlowStrengthGrowth: m.SlowStrengthGrowth,
				AttackSpeedBonus:   m.AttackSpeedBonus,
				FrostDuration:      m.FrostDurationMs,
				FrostDamage:        m.FrostDamage,
			}
		}
		out[kind] = spec
	}
	return out, nil
}

// levelTable fills a per-level table, repeating the last configured value
func levelTable(values []int, fallback int) [entity.MaxLevel]int {
	var out [entity.MaxLevel]int
	last := fallback
	for i := range out {
		if i < len(values) {
			last = values[i]
		}
		out[i] = last
	}
	return out
}

// BuildWaveTemplates converts waves.json
func BuildWaveTemplates(cfg *config.WavesConfig) ([]wave.Template, error) {
	out := make([]wave.Template, 0, len(cfg.Waves))
	for i, wc := range cfg.Waves {
		groups := make([]wave.Group, 0, len(wc.Groups))
		for _, gc := range wc.Groups {
			kind, err := entity.ParseEnemyKind(gc.Enemy)
			if err != nil {
				return nil, fmt.Errorf("wave %d: %w: %w", i+1, ErrUnknownKind, err)
			}
			groups = append(groups, wave.Group{Enemy: kind, Count: gc.Count, Interval: gc.IntervalMs})
		}
		out = append(out, wave.Template{Groups: groups, Preparation: wc.PreparationMs})
	}
	return out, nil
}

// GrowthFromConfig converts the procedural wave growth section
func GrowthFromConfig(cfg config.GrowthConfig) wave.Growth {
	g := wave.DefaultGrowth()
	if cfg.CountGrowth > 0 {
		g.CountGrowth = cfg.CountGrowth
	}
	if cfg.IntervalDecay > 0 {
		g.IntervalDecay = cfg.IntervalDecay
	}
	if cfg.MinIntervalMs > 0 {
		g.MinInterval = cfg.MinIntervalMs
	}
	if cfg.Window > 0 {
		g.Window = cfg.Window
	}
	return g
}
