package system

import (
	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/geom"
)

type cannonBehavior struct{}

func (cannonBehavior) tick(*TowerManager, *entity.Tower, float64) {}

func (cannonBehavior) fire(m *TowerManager, t *entity.Tower, target *entity.Enemy, _ float64) {
	p := m.launch(t, entity.ProjectileCannonball, target.Pos, t.Target)
	p.DamageType = entity.DamageExplosive
	p.Splash = entity.Splash{Radius: t.Cannon.ExplosionRadius}
	if t.Cannon.Stun {
		p.Splash.StunChance = t.Cannon.StunChance
		p.Splash.StunDuration = t.Cannon.StunDuration
	}
	if t.Cannon.Burn {
		p.Splash.BurnDPS = t.Cannon.BurnDPS
		p.Splash.BurnDuration = t.Cannon.BurnDuration
	}
}

// resolveCannonball explodes on reaching its target enemy or its destination
func (m *TowerManager) resolveCannonball(t *entity.Tower, p *entity.Projectile) {
	if target, ok := m.enemies.Lookup(p.Target); ok && p.Touches(&target.Body) {
		m.explode(t, p, p.Pos)
		return
	}
	if p.ReachedDest() {
		m.explode(t, p, p.Dest)
	}
}

// explode applies splash to every live enemy within the radius of center
func (m *TowerManager) explode(t *entity.Tower, p *entity.Projectile, center geom.Vec) int {
	hits := 0
	dmg := entity.Damage{Amount: p.Damage, Type: entity.DamageExplosive, Source: p.ID}
	s := p.Splash
	m.enemies.Within(center, s.Radius, func(_ entity.EnemyRef, e *entity.Enemy) {
		if m.strike(t, e, dmg) > 0 {
			hits++
		}
		if s.StunChance > 0 && m.deps.Rand.Float64() < s.StunChance {
			e.ApplyStatus(entity.StatusStun, s.StunDuration, 1, m.now)
		}
		if s.BurnDPS > 0 {
			e.ApplyStatus(entity.StatusBurn, s.BurnDuration, s.BurnDPS, m.now)
		}
	})
	p.Alive = false

	m.blasts = append(m.blasts, Blast{Pos: center, Radius: s.Radius, Remaining: m.deps.Tuning.ExplosionDisplayMs})
	m.deps.Events.Emit(event.Explosion, event.ExplosionData{X: center.X, Y: center.Y, Radius: s.Radius, Hits: hits})
	return hits
}
