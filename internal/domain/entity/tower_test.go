package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/towerdefense/internal/domain/geom"
	"github.com/younwookim/towerdefense/internal/domain/pool"
)

func archerSpec() TowerSpec {
	return TowerSpec{
		Kind: TowerArcher,
		Size: 16,
		Stats: TowerStats{
			Damage:          10,
			Range:           100,
			AttackSpeed:     2,
			ProjectileSpeed: 300,
			Cost:            10,
			UpgradeCost:     20,
			SellValue:       5,
		},
		Archer: ArcherParams{
			PierceByLevel:    [MaxLevel]int{0, 1, 2},
			MultiShotByLevel: [MaxLevel]int{1, 1, 2},
		},
	}
}

func TestNewTower(t *testing.T) {
	tw := NewTower(7, archerSpec(), geom.V(20, 20), 0, 0)

	assert.Equal(t, 1, tw.Level)
	assert.Equal(t, TowerIdle, tw.State)
	assert.Equal(t, 500.0, tw.Cooldown)
	assert.True(t, tw.Ready(0), "a new tower may fire immediately")
	assert.True(t, tw.Tags.Has(TagTower))
	assert.Equal(t, 0, tw.Archer.Pierce)
	assert.Equal(t, 1, tw.Archer.MultiShot)
}

func TestTower_Upgrade(t *testing.T) {
	tw := NewTower(1, archerSpec(), geom.V(0, 0), 0, 0)

	require.True(t, tw.Upgrade())
	assert.Equal(t, 2, tw.Level)
	assert.InDelta(t, 13, tw.Stats.Damage, 1e-9)
	assert.InDelta(t, 115, tw.Stats.Range, 1e-9)
	assert.InDelta(t, 2.48, tw.Stats.AttackSpeed, 1e-9)
	assert.InDelta(t, 1000/2.48, tw.Cooldown, 1e-9)
	assert.Equal(t, 32, tw.Stats.UpgradeCost)
	assert.Equal(t, 7, tw.Stats.SellValue)
	assert.Equal(t, 1, tw.Archer.Pierce)
	assert.Equal(t, 1, tw.Archer.MultiShot)

	require.True(t, tw.Upgrade())
	assert.Equal(t, 3, tw.Level)
	assert.InDelta(t, 19.5, tw.Stats.Damage, 1e-9)
	assert.InDelta(t, 143.75, tw.Stats.Range, 1e-9)
	assert.InDelta(t, 3.472, tw.Stats.AttackSpeed, 1e-9)
	assert.Equal(t, 51, tw.Stats.UpgradeCost)
	assert.Equal(t, 10, tw.Stats.SellValue)
	assert.Equal(t, 2, tw.Archer.Pierce)
	assert.Equal(t, 2, tw.Archer.MultiShot)

	assert.False(t, tw.Upgrade(), "max level")
	assert.Equal(t, 3, tw.Level)
	assert.InDelta(t, 19.5, tw.Stats.Damage, 1e-9)
}

func TestTower_CannonUnlocks(t *testing.T) {
	spec := TowerSpec{
		Kind:  TowerCannon,
		Stats: TowerStats{Damage: 20, Range: 90, AttackSpeed: 0.8},
		Cannon: CannonParams{
			ExplosionRadius: 60,
			RadiusGrowth:    0.2,
			StunChance:      0.25,
			StunDuration:    500,
			BurnDPS:         5,
			BurnDuration:    2000,
		},
	}
	tw := NewTower(1, spec, geom.V(0, 0), 0, 0)
	assert.False(t, tw.Cannon.Stun)
	assert.False(t, tw.Cannon.Burn)

	tw.Upgrade()
	assert.InDelta(t, 72, tw.Cannon.ExplosionRadius, 1e-9)
	assert.True(t, tw.Cannon.Stun)
	assert.False(t, tw.Cannon.Burn)

	tw.Upgrade()
	assert.InDelta(t, 86.4, tw.Cannon.ExplosionRadius, 1e-9)
	assert.True(t, tw.Cannon.Burn)
}

func TestTower_MagicLevelUps(t *testing.T) {
	spec := TowerSpec{
		Kind:  TowerMagic,
		Stats: TowerStats{Damage: 8, Range: 100, AttackSpeed: 1},
		Magic: MagicParams{
			ChainCount:         3,
			ChainRadius:        60,
			SlowStrength:       0.3,
			SlowDuration:       2000,
			MaxSlow:            0.45,
			RangeGrowth:        0.1,
			ChainCountGrowth:   1,
			ChainRadiusGrowth:  10,
			SlowStrengthGrowth: 0.1,
			AttackSpeedBonus:   0.25,
			FrostDuration:      800,
			FrostDamage:        0.5,
		},
	}
	tw := NewTower(1, spec, geom.V(0, 0), 0, 0)

	tw.Upgrade()
	assert.InDelta(t, 126.5, tw.Stats.Range, 1e-9)
	assert.Equal(t, 4, tw.Magic.ChainCount)
	assert.InDelta(t, 70, tw.Magic.ChainRadius, 1e-9)
	assert.InDelta(t, 0.4, tw.Magic.SlowStrength, 1e-9)
	assert.InDelta(t, 1.24, tw.Stats.AttackSpeed, 1e-9)
	assert.False(t, tw.Magic.FrostBolt)

	tw.Upgrade()
	assert.InDelta(t, 173.9375, tw.Stats.Range, 1e-9)
	assert.Equal(t, 5, tw.Magic.ChainCount)
	assert.InDelta(t, 80, tw.Magic.ChainRadius, 1e-9)
	assert.InDelta(t, 0.45, tw.Magic.SlowStrength, 1e-9, "capped")
	assert.InDelta(t, 2.17, tw.Stats.AttackSpeed, 1e-9)
	assert.InDelta(t, 1000/2.17, tw.Cooldown, 1e-9)
	assert.True(t, tw.Magic.FrostBolt)
}

func TestTower_CooldownGate(t *testing.T) {
	tw := NewTower(1, archerSpec(), geom.V(0, 0), 0, 0)

	assert.True(t, tw.TryAttack(0))
	assert.False(t, tw.TryAttack(499))
	assert.Equal(t, 0.0, tw.LastAttack, "a refused attack leaves the timestamp alone")
	assert.True(t, tw.TryAttack(500))
	assert.Equal(t, 500.0, tw.LastAttack)
	assert.Equal(t, 2, tw.Attacks)
}

func TestTower_AttacksNeverExceedRate(t *testing.T) {
	tw := NewTower(1, archerSpec(), geom.V(0, 0), 0, 0)

	var fired []float64
	for i := 0; i < 600; i++ {
		now := float64(i) * (1000.0 / 60)
		if tw.TryAttack(now) {
			fired = append(fired, now)
		}
		if i == 200 {
			tw.Upgrade()
		}
	}

	require.Greater(t, len(fired), 2)
	for i := 1; i < len(fired); i++ {
		assert.GreaterOrEqual(t, fired[i]-fired[i-1], 1000/3.472-1e-9)
	}
}

func TestTower_TrackProjectileEvictsOldest(t *testing.T) {
	p := pool.New[int](nil, nil)
	h1, _ := p.Acquire()
	h2, _ := p.Acquire()
	h3, _ := p.Acquire()

	tw := NewTower(1, archerSpec(), geom.V(0, 0), 0, 0)

	_, evicted := tw.TrackProjectile(h1, 2)
	assert.False(t, evicted)
	_, evicted = tw.TrackProjectile(h2, 2)
	assert.False(t, evicted)

	old, evicted := tw.TrackProjectile(h3, 2)
	require.True(t, evicted)
	assert.Equal(t, h1, old)
	assert.Equal(t, []pool.Handle{h2, h3}, tw.Projectiles)
}

func TestTower_InRange(t *testing.T) {
	tw := NewTower(1, archerSpec(), geom.V(0, 0), 0, 0)

	assert.True(t, tw.InRange(geom.V(100, 0), 1))
	assert.False(t, tw.InRange(geom.V(120, 0), 1))
	assert.True(t, tw.InRange(geom.V(120, 0), 1.5))
}

func TestTowerState_String(t *testing.T) {
	assert.Equal(t, "idle", TowerIdle.String())
	assert.Equal(t, "attacking", TowerAttacking.String())
	assert.Equal(t, 1.0, UpgradeMultiplier(1))
}
