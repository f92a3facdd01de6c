package system

import (
	"slices"

	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/geom"
)

type archerBehavior struct{}

func (archerBehavior) tick(*TowerManager, *entity.Tower, float64) {}

// fire shoots one arrow at the target, plus one per extra multi-shot at the
// next nearest enemies in range
func (archerBehavior) fire(m *TowerManager, t *entity.Tower, target *entity.Enemy, _ float64) {
	m.launchArrow(t, target.Pos, t.Target)

	extra := t.Archer.MultiShot - 1
	if extra <= 0 {
		return
	}
	m.hits = append(m.hits[:0], target.ID)
	skip := func(e *entity.Enemy) bool { return slices.Contains(m.hits, e.ID) }
	for ; extra > 0; extra-- {
		e, ref, ok := m.enemies.Nearest(t.Pos, t.Stats.Range, skip)
		if !ok {
			return
		}
		m.launchArrow(t, e.Pos, ref)
		m.hits = append(m.hits, e.ID)
	}
}

func (m *TowerManager) launchArrow(t *entity.Tower, to geom.Vec, target entity.EnemyRef) {
	p := m.launch(t, entity.ProjectileArrow, to, target)
	p.DamageType = entity.DamagePhysical
	p.Pierce = t.Archer.Pierce
}

// resolveArrow hits every enemy the arrow touches that it has not hit yet,
// until its pierce runs out
func (m *TowerManager) resolveArrow(t *entity.Tower, p *entity.Projectile) {
	m.enemies.ForEach(func(_ entity.EnemyRef, e *entity.Enemy) {
		if !p.Alive || p.HasHit(e.ID) || !p.Touches(&e.Body) {
			return
		}
		m.strike(t, e, entity.Damage{Amount: p.Damage, Type: p.DamageType, Source: p.ID})
		p.RegisterHit(e.ID)
	})
}
