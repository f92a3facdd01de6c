package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/geom"
)

func TestEnemyManager_SpawnUnknownKind(t *testing.T) {
	f := newFixture(DefaultTuning())

	_, err := f.enemies.Spawn(entity.EnemyDragon)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, 0, f.enemies.Count())
}

func TestEnemyManager_ScoutCrossesTwoPointPath(t *testing.T) {
	ledger := &recordLedger{}
	escaped := 0
	bus := event.NewBus()
	bus.SubscribeFunc(event.EnemyEscaped, func(event.Event) { escaped++ })

	path := []geom.Vec{geom.V(0, 0), geom.V(100, 0)}
	m := NewEnemyManager(testEnemyCatalog(), path, ledger, Deps{Events: bus})

	ref, err := m.Spawn(entity.EnemyScout)
	require.NoError(t, err)
	scout, ok := m.Lookup(ref)
	require.True(t, ok)

	const dt = 1.0 / 60
	limit := 100.0 / 90 * 1000
	now := 0.0
	for now < limit && m.Count() > 0 {
		m.Update(dt, now)
		now += dt * 1000
	}

	assert.Equal(t, 0, m.Count(), "scout should have left play")
	assert.Equal(t, 1, ledger.escape)
	assert.Equal(t, 1, ledger.lost, "lives lost equal the scout's damage")
	assert.Equal(t, 0, ledger.kills)
	assert.Equal(t, 1, escaped)
	assert.Equal(t, 1, m.Escaped())

	_, ok = m.Lookup(ref)
	assert.False(t, ok)
	assert.Equal(t, 0, scout.Waypoint, "released enemies are reset")
}

func TestEnemyManager_DeathCreditsOnce(t *testing.T) {
	f := newFixture(DefaultTuning())
	deaths := f.count(event.EnemyDeath)

	ref, err := f.enemies.Spawn(entity.EnemyScout)
	require.NoError(t, err)
	e, _ := f.enemies.Lookup(ref)

	e.OnDamage(entity.Damage{Amount: 50, Type: entity.DamageExplosive, Source: 7}, 100, 120)
	assert.True(t, f.enemies.OnDeath(e))
	assert.False(t, f.enemies.OnDeath(e))
	f.enemies.Cleanup()

	assert.Equal(t, 1, f.ledger.kills)
	assert.Equal(t, 3, f.ledger.gold)
	assert.Equal(t, 10, f.ledger.score)
	assert.Equal(t, 1, *deaths)
	assert.Equal(t, 1, f.enemies.Killed())
	assert.Equal(t, 0, f.enemies.Count())
}

func TestEnemyManager_PoolReuse(t *testing.T) {
	f := newFixture(DefaultTuning())

	first, err := f.enemies.Spawn(entity.EnemyScout)
	require.NoError(t, err)
	e, _ := f.enemies.Lookup(first)
	e.Hurt(e.Health)
	f.enemies.Cleanup()

	active, free := f.enemies.PoolStats(entity.EnemyScout)
	assert.Equal(t, 0, active)
	assert.Equal(t, 1, free)

	second, err := f.enemies.Spawn(entity.EnemyScout)
	require.NoError(t, err)
	assert.Equal(t, first.Slot.Index(), second.Slot.Index(), "slot is recycled")

	_, ok := f.enemies.Lookup(first)
	assert.False(t, ok, "stale reference must not resolve to the new occupant")
	fresh, ok := f.enemies.Lookup(second)
	require.True(t, ok)
	assert.Equal(t, 20, fresh.Health)
	assert.Equal(t, f.stage.Path[0], fresh.Pos)
}

func TestEnemyManager_Nearest(t *testing.T) {
	f := newFixture(DefaultTuning())
	origin := geom.V(200, 200)

	_, farRef := f.dummyAt(geom.V(270, 200))
	_, tieA := f.dummyAt(geom.V(200, 250))
	_, tieB := f.dummyAt(geom.V(250, 200))

	_, ref, ok := f.enemies.Nearest(origin, 80, nil)
	require.True(t, ok)
	assert.Equal(t, tieA, ref, "ties keep spawn order")

	_, ref, ok = f.enemies.Nearest(origin, 80, func(e *entity.Enemy) bool { return e.ID == tieA.ID })
	require.True(t, ok)
	assert.Equal(t, tieB, ref)

	_, _, ok = f.enemies.Nearest(origin, 40, nil)
	assert.False(t, ok)

	hits := 0
	f.enemies.Within(origin, 60, func(ref entity.EnemyRef, _ *entity.Enemy) {
		hits++
		assert.NotEqual(t, farRef, ref)
	})
	assert.Equal(t, 2, hits)
}

func TestEnemyManager_Clear(t *testing.T) {
	f := newFixture(DefaultTuning())
	for range 3 {
		_, err := f.enemies.Spawn(entity.EnemyScout)
		require.NoError(t, err)
	}

	f.enemies.Clear()

	assert.Equal(t, 0, f.enemies.Count())
	assert.Equal(t, 0, f.ledger.kills+f.ledger.escape)
	active, free := f.enemies.PoolStats(entity.EnemyScout)
	assert.Equal(t, 0, active)
	assert.Equal(t, 3, free)
}
