package system

import (
	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/domain/entity"
)

// behavior is the per-kind part of a tower's update
type behavior interface {
	// tick runs every update before targeting
	tick(m *TowerManager, t *entity.Tower, now float64)
	// fire executes one attack on target; the cooldown has already been consumed
	fire(m *TowerManager, t *entity.Tower, target *entity.Enemy, now float64)
}

var behaviors = [...]behavior{
	entity.TowerArcher: archerBehavior{},
	entity.TowerCannon: cannonBehavior{},
	entity.TowerMagic:  magicBehavior{},
}

func behaviorFor(kind entity.TowerKind) behavior {
	if int(kind) < len(behaviors) {
		return behaviors[kind]
	}
	return archerBehavior{}
}

// engage runs the targeting state machine for one tower
func (m *TowerManager) engage(t *entity.Tower, now float64) {
	target, ok := m.validateTarget(t)
	if !ok {
		t.State = entity.TowerAcquiring
		if target, ok = m.acquireTarget(t); !ok {
			t.State = entity.TowerIdle
			return
		}
	}

	t.State = entity.TowerEngaged
	t.Rotation = t.Pos.AngleTo(target.Pos)
	if !t.InRange(target.Pos, m.deps.Tuning.FireRange) || !t.TryAttack(now) {
		return
	}

	t.State = entity.TowerAttacking
	m.deps.Events.Emit(event.TowerFire, towerData(t, 0))
	behaviorFor(t.Kind).fire(m, t, target, now)
}

// validateTarget keeps the current target while it is alive and within the
// retain radius, and clears it otherwise
func (m *TowerManager) validateTarget(t *entity.Tower) (*entity.Enemy, bool) {
	if t.Target.IsZero() {
		return nil, false
	}
	e, ok := m.enemies.Lookup(t.Target)
	if !ok || !t.InRange(e.Pos, m.deps.Tuning.RetainRange) {
		t.ClearTarget()
		return nil, false
	}
	return e, true
}

// acquireTarget picks the nearest live enemy within the acquire radius
func (m *TowerManager) acquireTarget(t *entity.Tower) (*entity.Enemy, bool) {
	e, ref, ok := m.enemies.Nearest(t.Pos, t.Stats.Range*m.deps.Tuning.AcquireRange, nil)
	if !ok {
		return nil, false
	}
	t.Target = ref
	return e, true
}
