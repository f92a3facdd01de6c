package system

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/geom"
	"github.com/younwookim/towerdefense/internal/domain/pool"
	"github.com/younwookim/towerdefense/internal/infrastructure/logger"
)

// EnemyManager owns the live enemy set and the per-kind enemy pools.
// Only the manager adds or removes enemies; towers read through Lookup and the
// query methods.
type EnemyManager struct {
	catalog map[entity.EnemyKind]entity.EnemyStats
	pools   map[entity.EnemyKind]*pool.Pool[entity.Enemy]
	active  []entity.EnemyRef
	path    []geom.Vec
	ledger  Ledger
	deps    Deps
	log     *logrus.Entry

	spawned int
	killed  int
	escaped int
}

// NewEnemyManager creates a manager that spawns enemies on path
func NewEnemyManager(catalog map[entity.EnemyKind]entity.EnemyStats, path []geom.Vec, ledger Ledger, deps Deps) *EnemyManager {
	deps = deps.withDefaults()
	if ledger == nil {
		ledger = nopLedger{}
	}
	return &EnemyManager{
		catalog: catalog,
		pools:   make(map[entity.EnemyKind]*pool.Pool[entity.Enemy], len(catalog)),
		active:  make([]entity.EnemyRef, 0, 64),
		path:    path,
		ledger:  ledger,
		deps:    deps,
		log:     logger.Component(deps.Log, "enemies"),
	}
}

func (m *EnemyManager) poolFor(kind entity.EnemyKind) *pool.Pool[entity.Enemy] {
	p, ok := m.pools[kind]
	if !ok {
		p = pool.New(entity.NewEnemy, (*entity.Enemy).Reset)
		m.pools[kind] = p
	}
	return p
}

// Spawn acquires an enemy of kind from its pool and places it at the path start
func (m *EnemyManager) Spawn(kind entity.EnemyKind) (entity.EnemyRef, error) {
	stats, ok := m.catalog[kind]
	if !ok {
		return entity.EnemyRef{}, fmt.Errorf("%w: enemy %s", ErrUnknownKind, kind)
	}

	h, e := m.poolFor(kind).Acquire()
	e.Spawn(m.deps.IDs.Next(), kind, stats, m.path)

	ref := entity.EnemyRef{ID: e.ID, Kind: kind, Slot: h}
	m.active = append(m.active, ref)
	m.spawned++
	return ref, nil
}

// resolve returns the pooled enemy behind ref whether or not it is alive
func (m *EnemyManager) resolve(ref entity.EnemyRef) (*entity.Enemy, bool) {
	p, ok := m.pools[ref.Kind]
	if !ok {
		return nil, false
	}
	e, ok := p.Get(ref.Slot)
	if !ok || e.ID != ref.ID {
		return nil, false
	}
	return e, true
}

// Lookup resolves a weak reference to a live enemy
func (m *EnemyManager) Lookup(ref entity.EnemyRef) (*entity.Enemy, bool) {
	if ref.IsZero() {
		return nil, false
	}
	e, ok := m.resolve(ref)
	if !ok || !e.IsAlive() {
		return nil, false
	}
	return e, true
}

// ForEach calls fn for every live enemy in spawn order
func (m *EnemyManager) ForEach(fn func(entity.EnemyRef, *entity.Enemy)) {
	for _, ref := range m.active {
		if e, ok := m.resolve(ref); ok && e.IsAlive() {
			fn(ref, e)
		}
	}
}

// Nearest returns the live enemy closest to from within radius. Ties keep the
// first enemy in spawn order. skip (optional) excludes candidates.
func (m *EnemyManager) Nearest(from geom.Vec, radius float64, skip func(*entity.Enemy) bool) (*entity.Enemy, entity.EnemyRef, bool) {
	var (
		best    *entity.Enemy
		bestRef entity.EnemyRef
	)
	bestDist := radius * radius
	for _, ref := range m.active {
		e, ok := m.resolve(ref)
		if !ok || !e.IsAlive() || (skip != nil && skip(e)) {
			continue
		}
		d := from.DistSq(e.Pos)
		if d > bestDist {
			continue
		}
		if best == nil || d < bestDist {
			best, bestRef, bestDist = e, ref, d
		}
	}
	return best, bestRef, best != nil
}

// Within calls fn for every live enemy whose center is within radius of center
func (m *EnemyManager) Within(center geom.Vec, radius float64, fn func(entity.EnemyRef, *entity.Enemy)) {
	r2 := radius * radius
	for _, ref := range m.active {
		if e, ok := m.resolve(ref); ok && e.IsAlive() && center.DistSq(e.Pos) <= r2 {
			fn(ref, e)
		}
	}
}

// Update moves every live enemy, then resolves arrivals and deaths
func (m *EnemyManager) Update(dt, now float64) {
	arrival := m.deps.Tuning.ArrivalThreshold
	for _, ref := range m.active {
		e, ok := m.resolve(ref)
		if !ok || !e.IsAlive() {
			continue
		}
		if e.Tick(dt, now, arrival, nil) {
			e.Escaped = true
		}
	}
	m.Cleanup()
}

// Cleanup removes escaped and dead enemies from the live set and returns them
// to their pools. Removal happens only here, after every pass has finished.
func (m *EnemyManager) Cleanup() {
	n := 0
	for _, ref := range m.active {
		e, ok := m.resolve(ref)
		if !ok {
			continue
		}
		switch {
		case e.Escaped:
			m.onEscape(e)
		case e.Health <= 0:
			m.OnDeath(e)
		default:
			m.active[n] = ref
			n++
			continue
		}
		m.pools[ref.Kind].Release(ref.Slot)
	}
	clear(m.active[n:])
	m.active = m.active[:n]
}

// OnDeath is the enemy's death hook. It credits the ledger only the first time
// it runs for an enemy.
func (m *EnemyManager) OnDeath(e *entity.Enemy) bool {
	if !e.MarkDead() {
		return false
	}
	m.killed++
	m.ledger.EnemyKilled(e)
	m.deps.Events.Emit(event.EnemyDeath, event.EnemyData{
		EnemyID: uint64(e.ID),
		Kind:    e.Kind.String(),
		X:       e.Pos.X,
		Y:       e.Pos.Y,
		Gold:    e.Stats.Gold,
		Score:   e.Stats.Score,
	})
	return true
}

func (m *EnemyManager) onEscape(e *entity.Enemy) {
	if !e.MarkDead() {
		return
	}
	m.escaped++
	m.ledger.EnemyEscaped(e)
	m.deps.Events.Emit(event.EnemyEscaped, event.EnemyData{
		EnemyID: uint64(e.ID),
		Kind:    e.Kind.String(),
		X:       e.Pos.X,
		Y:       e.Pos.Y,
		Amount:  e.Stats.ContactDamage,
	})
}

// Clear releases every enemy without crediting the ledger
func (m *EnemyManager) Clear() {
	for _, ref := range m.active {
		m.pools[ref.Kind].Release(ref.Slot)
	}
	clear(m.active)
	m.active = m.active[:0]
	m.log.WithField("released", m.spawned-m.killed-m.escaped).Debug("enemies cleared")
	m.spawned, m.killed, m.escaped = 0, 0, 0
}

// Count returns the size of the live set, including enemies awaiting cleanup
func (m *EnemyManager) Count() int { return len(m.active) }

// Killed returns how many enemies died since the last Clear
func (m *EnemyManager) Killed() int { return m.killed }

// Escaped returns how many enemies reached the path end since the last Clear
func (m *EnemyManager) Escaped() int { return m.escaped }

// PoolStats reports the active and free counts of one kind's pool
func (m *EnemyManager) PoolStats(kind entity.EnemyKind) (active, free int) {
	p, ok := m.pools[kind]
	if !ok {
		return 0, 0
	}
	return p.Active(), p.Free()
}
