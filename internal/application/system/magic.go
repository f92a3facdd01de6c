package system

import (
	"slices"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/geom"
)

type magicBehavior struct{}

// tick refreshes the slow aura on every enemy in range and lifts it from
// enemies that were slowed last tick but have left
func (magicBehavior) tick(m *TowerManager, t *entity.Tower, now float64) {
	mp := t.Magic
	m.refs = m.refs[:0]
	if mp.SlowStrength > 0 && mp.SlowDuration > 0 {
		m.enemies.Within(t.Pos, t.Stats.Range, func(ref entity.EnemyRef, e *entity.Enemy) {
			e.ApplyStatus(entity.StatusSlow, mp.SlowDuration, mp.SlowStrength, now)
			m.refs = append(m.refs, ref)
		})
	}

	for _, old := range t.Slowed {
		if slices.Contains(m.refs, old) {
			continue
		}
		if e, ok := m.enemies.Lookup(old); ok {
			e.RemoveStatus(entity.StatusSlow)
		}
	}
	t.Slowed = append(t.Slowed[:0], m.refs...)
}

// fire strikes with chain lightning, opening on the enemy nearest the tower.
// At max level a frost bolt follows the first hit.
func (magicBehavior) fire(m *TowerManager, t *entity.Tower, target *entity.Enemy, _ float64) {
	first, ref, ok := m.enemies.Nearest(t.Pos, t.Stats.Range, nil)
	if !ok {
		first, ref = target, t.Target
	}
	m.chainLightning(t, first)

	if t.Magic.FrostBolt && first.IsAlive() {
		p := m.launch(t, entity.ProjectileMagicMissile, first.Pos, ref)
		p.Damage = t.Stats.Damage * t.Magic.FrostDamage
		p.DamageType = entity.DamageMagic
		p.SetEffect(entity.StatusFreeze, t.Magic.FrostDuration, 1)
	}
}

// chainLightning damages first, then hops to the nearest enemy not yet hit
// within the chain radius of the previous hit, up to ChainCount hits.
// It returns the number of enemies hit.
func (m *TowerManager) chainLightning(t *entity.Tower, first *entity.Enemy) int {
	m.hits = m.hits[:0]
	t.Chain = t.Chain[:0]
	skip := func(e *entity.Enemy) bool { return slices.Contains(m.hits, e.ID) }

	dmg := entity.Damage{Amount: t.Stats.Damage, Type: entity.DamageMagic, Source: t.ID}
	from := t.Pos
	cur := first
	for cur != nil && len(m.hits) < t.Magic.ChainCount {
		m.strike(t, cur, dmg)
		m.hits = append(m.hits, cur.ID)
		t.Chain = append(t.Chain, geom.Segment{From: from, To: cur.Pos})
		from = cur.Pos

		next, _, ok := m.enemies.Nearest(cur.Pos, t.Magic.ChainRadius, skip)
		if !ok {
			break
		}
		cur = next
	}
	t.ChainTimer = m.deps.Tuning.ChainDisplayMs

	points := make([][2]float64, 0, len(t.Chain)+1)
	points = append(points, [2]float64{t.Pos.X, t.Pos.Y})
	for _, s := range t.Chain {
		points = append(points, [2]float64{s.To.X, s.To.Y})
	}
	m.deps.Events.Emit(event.ChainLightning, event.ChainData{TowerID: uint64(t.ID), Points: points})
	return len(m.hits)
}

// resolveMissile hits its target on contact; it fizzles at its destination
func (m *TowerManager) resolveMissile(t *entity.Tower, p *entity.Projectile) {
	if target, ok := m.enemies.Lookup(p.Target); ok && p.Touches(&target.Body) {
		m.strike(t, target, entity.Damage{Amount: p.Damage, Type: p.DamageType, Source: p.ID})
		if p.HasEffect {
			target.ApplyStatus(p.Effect.Kind, p.Effect.Duration, p.Effect.Strength, m.now)
		}
		p.Alive = false
		return
	}
	if p.ReachedDest() {
		p.Alive = false
	}
}
