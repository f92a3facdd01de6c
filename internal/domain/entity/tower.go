package entity

import (
	"math"

	"github.com/younwookim/towerdefense/internal/domain/geom"
	"github.com/younwookim/towerdefense/internal/domain/pool"
)

// MaxLevel is the highest tower level
const MaxLevel = 3

// Upgrade scaling
const (
	upgradeCostGrowth = 1.6
	sellValueGrowth   = 1.4
)

// UpgradeMultiplier returns the damage multiplier applied when reaching level
func UpgradeMultiplier(level int) float64 {
	switch level {
	case 2:
		return 1.3
	case 3:
		return 1.5
	default:
		return 1
	}
}

// TowerState is the targeting/attack state machine
type TowerState uint8

const (
	TowerIdle TowerState = iota
	TowerAcquiring
	TowerEngaged
	TowerAttacking
)

func (s TowerState) String() string {
	switch s {
	case TowerIdle:
		return "idle"
	case TowerAcquiring:
		return "acquiring"
	case TowerEngaged:
		return "engaged"
	case TowerAttacking:
		return "attacking"
	default:
		return "unknown"
	}
}

// TowerStats are the mutable combat and economy values of a tower
type TowerStats struct {
	Damage          float64
	Range           float64
	AttackSpeed     float64 // attacks per second
	ProjectileSpeed float64
	Cost            int
	UpgradeCost     int
	SellValue       int
}

// ArcherParams configure piercing arrows. The ByLevel tables are indexed by level-1.
type ArcherParams struct {
	Pierce           int // extra victims per arrow
	MultiShot        int // arrows per attack
	PierceByLevel    [MaxLevel]int
	MultiShotByLevel [MaxLevel]int
}

// CannonParams configure splash impacts
type CannonParams struct {
	ExplosionRadius float64
	RadiusGrowth    float64 // fraction added per upgrade

	// Unlocked at level 2
	Stun         bool
	StunChance   float64
	StunDuration float64 // ms

	// Unlocked at level 3
	Burn         bool
	BurnDPS      float64
	BurnDuration float64 // ms
}

// MagicParams configure the slow aura, chain lightning and frost bolt
type MagicParams struct {
	ChainCount   int
	ChainRadius  float64
	SlowStrength float64
	SlowDuration float64 // ms
	MaxSlow      float64

	// Per-upgrade growth
	RangeGrowth        float64
	ChainCountGrowth   int
	ChainRadiusGrowth  float64
	SlowStrengthGrowth float64
	AttackSpeedBonus   float64 // level 3 only

	// Unlocked at level 3
	FrostBolt     bool
	FrostDuration float64 // ms
	FrostDamage   float64 // fraction of tower damage
}

// TowerSpec is the catalog entry a tower is built from
type TowerSpec struct {
	Kind   TowerKind
	Size   float64
	Stats  TowerStats
	Archer ArcherParams
	Cannon CannonParams
	Magic  MagicParams
}

// Tower is a stationary attacker placed on a grid cell
type Tower struct {
	Body

	Kind     TowerKind
	Stats    TowerStats
	Level    int
	Col, Row int
	Selected bool

	// Attack state machine
	State      TowerState
	Target     EnemyRef
	Cooldown   float64 // ms between attacks
	LastAttack float64 // simulation ms

	Archer ArcherParams
	Cannon CannonParams
	Magic  MagicParams

	// Live projectiles owned by this tower, oldest first
	Projectiles []pool.Handle

	// Magic: enemies slowed by the aura last tick, and the last chain for display
	Slowed     []EnemyRef
	Chain      []geom.Segment
	ChainTimer float64 // ms

	// Stats
	Attacks     int
	DamageDealt int
}

// NewTower creates a level 1 tower from a catalog spec
func NewTower(id EntityID, spec TowerSpec, pos geom.Vec, col, row int) *Tower {
	t := &Tower{
		Body: Body{
			ID:      id,
			Pos:     pos,
			Size:    geom.V(spec.Size, spec.Size),
			Alive:   true,
			Visible: true,
			Tags:    TagTower,
		},
		Kind:       spec.Kind,
		Stats:      spec.Stats,
		Level:      1,
		Col:        col,
		Row:        row,
		LastAttack: math.Inf(-1),
		Archer:     spec.Archer,
		Cannon:     spec.Cannon,
		Magic:      spec.Magic,
	}
	t.unlock()
	t.RecomputeCooldown()
	return t
}

// RecomputeCooldown derives the cooldown from attack speed
func (t *Tower) RecomputeCooldown() {
	if t.Stats.AttackSpeed <= 0 {
		t.Cooldown = math.Inf(1)
		return
	}
	t.Cooldown = 1000 / t.Stats.AttackSpeed
}

// Ready reports whether the cooldown has elapsed at now
func (t *Tower) Ready(now float64) bool {
	return now-t.LastAttack >= t.Cooldown
}

// TryAttack records an attack at now if the cooldown allows it
func (t *Tower) TryAttack(now float64) bool {
	if !t.Ready(now) {
		return false
	}
	t.LastAttack = now
	t.Attacks++
	return true
}

// CanUpgrade reports whether the tower is below max level
func (t *Tower) CanUpgrade() bool {
	return t.Level < MaxLevel
}

// Upgrade raises the level and scales stats. It is a no-op at max level.
func (t *Tower) Upgrade() bool {
	if !t.CanUpgrade() {
		return false
	}
	t.Level++
	pct := UpgradeMultiplier(t.Level) - 1

	t.Stats.Damage *= 1 + pct
	t.Stats.Range *= 1 + pct/2
	t.Stats.AttackSpeed *= 1 + pct*0.8
	t.Stats.UpgradeCost = int(math.Round(float64(t.Stats.UpgradeCost) * upgradeCostGrowth))
	t.Stats.SellValue = int(math.Round(float64(t.Stats.SellValue) * sellValueGrowth))

	t.applyLevelUp()
	t.unlock()
	t.RecomputeCooldown()
	return true
}

// applyLevelUp runs the kind-specific growth for the level just reached
func (t *Tower) applyLevelUp() {
	switch t.Kind {
	case TowerCannon:
		t.Cannon.ExplosionRadius *= 1 + t.Cannon.RadiusGrowth
	case TowerMagic:
		m := &t.Magic
		t.Stats.Range *= 1 + m.RangeGrowth
		m.ChainCount += m.ChainCountGrowth
		m.ChainRadius += m.ChainRadiusGrowth
		m.SlowStrength += m.SlowStrengthGrowth
		if m.MaxSlow > 0 {
			m.SlowStrength = min(m.SlowStrength, m.MaxSlow)
		}
		if t.Level == MaxLevel {
			t.Stats.AttackSpeed *= 1 + m.AttackSpeedBonus
		}
	}
}

// unlock sets the abilities available at the current level
func (t *Tower) unlock() {
	i := geom.ClampInt(t.Level, 1, MaxLevel) - 1
	switch t.Kind {
	case TowerArcher:
		t.Archer.Pierce = t.Archer.PierceByLevel[i]
		t.Archer.MultiShot = max(1, t.Archer.MultiShotByLevel[i])
	case TowerCannon:
		t.Cannon.Stun = t.Level >= 2 && t.Cannon.StunChance > 0
		t.Cannon.Burn = t.Level >= 3 && t.Cannon.BurnDPS > 0
	case TowerMagic:
		t.Magic.FrostBolt = t.Level >= MaxLevel && t.Magic.FrostDuration > 0
	}
}

// TrackProjectile records a newly launched projectile. When the list exceeds
// limit the oldest handle is dropped and returned for release.
func (t *Tower) TrackProjectile(h pool.Handle, limit int) (pool.Handle, bool) {
	t.Projectiles = append(t.Projectiles, h)
	if limit <= 0 || len(t.Projectiles) <= limit {
		return pool.Handle{}, false
	}
	oldest := t.Projectiles[0]
	copy(t.Projectiles, t.Projectiles[1:])
	t.Projectiles = t.Projectiles[:len(t.Projectiles)-1]
	return oldest, true
}

// ClearTarget drops the current target
func (t *Tower) ClearTarget() {
	t.Target = EnemyRef{}
}

// InRange reports whether p is within range times the multiplier
func (t *Tower) InRange(p geom.Vec, multiplier float64) bool {
	r := t.Stats.Range * multiplier
	return t.Pos.DistSq(p) <= r*r
}
