package entity

import (
	"math"

	"github.com/younwookim/towerdefense/internal/domain/geom"
	"github.com/younwookim/towerdefense/internal/domain/pool"
)

// EnemyStats are the immutable per-kind base values
type EnemyStats struct {
	MaxHealth     int
	Speed         float64 // units per second
	Gold          int
	Score         int
	Armor         int
	MagicResist   float64 // fraction in [0, 1)
	ContactDamage int
	Size          float64 // half extent
	Flying        bool
	Resist        Resistances

	// Enrage: below this health fraction the enemy hastes itself once
	EnrageBelow    float64
	EnrageStrength float64
	EnrageDuration float64 // ms
}

// EnemyRef is a weak reference to a pooled enemy. It never owns the enemy;
// resolve it through the enemy manager every time it is used.
type EnemyRef struct {
	ID   EntityID
	Kind EnemyKind
	Slot pool.Handle
}

// IsZero reports whether the reference is unset
func (r EnemyRef) IsZero() bool {
	return r.ID == 0
}

// Enemy is a path-following living entity
type Enemy struct {
	Living

	Kind  EnemyKind
	Stats EnemyStats
	Speed float64 // current speed after status effects

	// Path following
	Path     []geom.Vec
	Waypoint int
	Traveled float64
	Escaped  bool

	enraged bool
}

// NewEnemy creates an empty enemy for a pool
func NewEnemy() *Enemy {
	return &Enemy{}
}

// Spawn readies a (reset) enemy at the start of its path
func (e *Enemy) Spawn(id EntityID, kind EnemyKind, stats EnemyStats, path []geom.Vec) {
	e.ID = id
	e.Kind = kind
	e.Stats = stats
	e.MaxHealth = stats.MaxHealth
	e.Health = stats.MaxHealth
	e.Speed = stats.Speed
	e.Size = geom.V(stats.Size, stats.Size)
	e.Alive = true
	e.Visible = true
	e.Tags = TagEnemy
	if stats.Flying {
		e.Tags |= TagFlying
	}
	if stats.EnrageBelow > 0 {
		e.Tags |= TagBoss
	}
	e.Path = path
	e.Waypoint = 0
	if len(path) > 0 {
		e.Pos = path[0]
	}
}

// Reset returns the enemy to its zero spawn defaults
func (e *Enemy) Reset() {
	e.resetLiving()
	e.Kind = 0
	e.Stats = EnemyStats{}
	e.Speed = 0
	e.Path = nil
	e.Waypoint = 0
	e.Traveled = 0
	e.Escaped = false
	e.enraged = false
}

// ApplyStatus applies an effect scaled down by this enemy's resistance
func (e *Enemy) ApplyStatus(kind StatusKind, duration, strength, now float64) {
	if kind >= StatusKindCount {
		return
	}
	f := 1 - geom.Clamp(e.Stats.Resist[kind], 0, 1)
	e.Statuses.Apply(kind, duration*f, strength*f, now)
	e.RecomputeSpeed()
}

// RemoveStatus removes an effect and refreshes the derived speed
func (e *Enemy) RemoveStatus(kind StatusKind) bool {
	ok := e.Statuses.Remove(kind)
	if ok {
		e.RecomputeSpeed()
	}
	return ok
}

// RecomputeSpeed derives the current speed from base speed and status effects
func (e *Enemy) RecomputeSpeed() {
	e.Speed = e.Stats.Speed * e.Statuses.SpeedMultiplier()
}

// OnDamage runs damage intake: type-specific reduction, the per-source
// invulnerability window and the hit flash. It returns the final damage
// recorded, or 0 when the hit was ignored. Death is resolved by the owner.
func (e *Enemy) OnDamage(d Damage, invulnMs, flashMs float64) int {
	if !e.IsAlive() || d.Amount <= 0 || e.Invulnerable(d.Source) {
		return 0
	}

	var final int
	switch d.Type {
	case DamagePhysical:
		final = max(1, int(math.Round(d.Amount))-e.Stats.Armor)
	case DamageMagic:
		resist := geom.Clamp(e.Stats.MagicResist, 0, 1)
		final = max(1, int(math.Round(d.Amount*(1-resist))))
	default:
		final = int(math.Round(d.Amount))
	}
	if final <= 0 {
		return 0
	}

	e.Hurt(final)
	e.startInvulnerability(d.Source, invulnMs)
	e.FlashTimer = flashMs
	e.LastDamage = final
	return final
}

// Tick advances timers, status effects and movement by dt seconds.
// It reports whether the enemy reached the end of its path this tick.
func (e *Enemy) Tick(dt, now, arrival float64, onExpire func(StatusKind)) bool {
	dtMs := dt * 1000
	e.UpdateTimers(dtMs)
	e.ApplyBurn(dt)
	if e.Health <= 0 {
		return false
	}
	e.Statuses.Tick(dtMs, onExpire)
	e.checkEnrage(now)
	e.RecomputeSpeed()
	return e.FollowPath(dt, arrival)
}

func (e *Enemy) checkEnrage(now float64) {
	if e.enraged || e.Stats.EnrageBelow <= 0 {
		return
	}
	if e.HealthFraction() < e.Stats.EnrageBelow {
		e.enraged = true
		e.Statuses.Apply(StatusHaste, e.Stats.EnrageDuration, e.Stats.EnrageStrength, now)
	}
}

// Enraged reports whether the enrage haste was triggered
func (e *Enemy) Enraged() bool {
	return e.enraged
}

// FollowPath moves toward the current waypoint. Arriving within the threshold
// only advances the index; movement resumes on the next tick. Passing the last
// waypoint reports true.
func (e *Enemy) FollowPath(dt, arrival float64) bool {
	if len(e.Path) == 0 {
		return false
	}
	if e.Waypoint >= len(e.Path) {
		return true
	}

	to := e.Path[e.Waypoint].Sub(e.Pos)
	dist := to.Len()
	if dist < arrival {
		e.Waypoint++
		return e.Waypoint >= len(e.Path)
	}

	dir := to.Scale(1 / dist)
	step := min(e.Speed*dt, dist)
	e.Pos = e.Pos.Add(dir.Scale(step))
	e.Vel = dir.Scale(e.Speed)
	e.Rotation = dir.Angle()
	e.Traveled += step
	return false
}
