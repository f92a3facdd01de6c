package system

import "github.com/younwookim/towerdefense/internal/domain/entity"

// updateProjectiles flies t's projectiles and returns spent ones to the pool
func (m *TowerManager) updateProjectiles(t *entity.Tower, dt float64) {
	n := 0
	for _, h := range t.Projectiles {
		p, ok := m.projectiles.Get(h)
		if !ok {
			continue
		}
		m.stepProjectile(t, p, dt)
		if !p.Alive {
			m.projectiles.Release(h)
			continue
		}
		t.Projectiles[n] = h
		n++
	}
	t.Projectiles = t.Projectiles[:n]
}

// stepProjectile moves p one tick and resolves its kind-specific hit
func (m *TowerManager) stepProjectile(t *entity.Tower, p *entity.Projectile, dt float64) {
	p.Advance(dt)

	switch p.Kind {
	case entity.ProjectileArrow:
		m.resolveArrow(t, p)
	case entity.ProjectileCannonball:
		m.resolveCannonball(t, p)
	case entity.ProjectileMagicMissile:
		m.resolveMissile(t, p)
	}

	if p.Alive && p.OutOfBounds(m.bounds) {
		p.Alive = false
	}
}
