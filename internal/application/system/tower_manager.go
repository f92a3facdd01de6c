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

type cell struct{ col, row int }

// Blast is a recent explosion kept for display
type Blast struct {
	Pos       geom.Vec
	Radius    float64
	Remaining float64 // ms
}

// TowerManager owns the placed towers, their projectiles and the selection
type TowerManager struct {
	stage   *entity.Stage
	catalog map[entity.TowerKind]entity.TowerSpec
	enemies *EnemyManager
	deps    Deps
	log     *logrus.Entry

	towers      []*entity.Tower
	occupied    map[cell]*entity.Tower
	selected    *entity.Tower
	projectiles *pool.Pool[entity.Projectile]
	blasts      []Blast
	bounds      geom.Rect
	now         float64

	// scratch buffers reused across ticks
	refs []entity.EnemyRef
	hits []entity.EntityID
}

// NewTowerManager creates a manager for stage. Towers target enemies owned by enemies.
func NewTowerManager(stage *entity.Stage, catalog map[entity.TowerKind]entity.TowerSpec, enemies *EnemyManager, deps Deps) *TowerManager {
	deps = deps.withDefaults()
	return &TowerManager{
		stage:       stage,
		catalog:     catalog,
		enemies:     enemies,
		deps:        deps,
		log:         logger.Component(deps.Log, "towers"),
		towers:      make([]*entity.Tower, 0, 16),
		occupied:    make(map[cell]*entity.Tower),
		projectiles: pool.New(entity.NewProjectile, (*entity.Projectile).Reset),
		bounds:      stage.Bounds().Expand(deps.Tuning.OutOfBoundsMargin),
	}
}

// Spec returns the catalog entry for kind
func (m *TowerManager) Spec(kind entity.TowerKind) (entity.TowerSpec, bool) {
	spec, ok := m.catalog[kind]
	return spec, ok
}

// ValidatePlacement checks whether a tower may be built at world position x,y
func (m *TowerManager) ValidatePlacement(x, y float64) error {
	col, row := m.stage.CellAt(geom.V(x, y))
	if !m.stage.InGrid(col, row) {
		return fmt.Errorf("%w: %w", ErrInvalidPlacement, ErrOutOfBounds)
	}
	switch m.stage.Cell(col, row) {
	case entity.CellPath:
		return fmt.Errorf("%w: %w", ErrInvalidPlacement, ErrOnPath)
	case entity.CellBlocked:
		return fmt.Errorf("%w: %w", ErrInvalidPlacement, ErrNotBuildable)
	}
	if _, taken := m.occupied[cell{col, row}]; taken {
		return fmt.Errorf("%w: %w", ErrInvalidPlacement, ErrOccupied)
	}

	center := m.stage.CellCenter(col, row)
	half := m.stage.CellSize / 2
	for _, t := range m.towers {
		if geom.Overlaps(center, geom.V(half, half), t.Pos, t.Size) {
			return fmt.Errorf("%w: %w", ErrInvalidPlacement, ErrOccupied)
		}
	}
	if m.stage.DistanceToPath(center) < m.deps.Tuning.PathClearance {
		return fmt.Errorf("%w: %w", ErrInvalidPlacement, ErrNearPath)
	}
	return nil
}

// CanPlaceTower reports whether ValidatePlacement succeeds
func (m *TowerManager) CanPlaceTower(x, y float64) bool {
	return m.ValidatePlacement(x, y) == nil
}

// Place builds a tower of kind on the cell containing x,y. It does not charge gold.
func (m *TowerManager) Place(kind entity.TowerKind, x, y float64) (*entity.Tower, error) {
	spec, ok := m.catalog[kind]
	if !ok {
		return nil, fmt.Errorf("%w: tower %s", ErrUnknownKind, kind)
	}
	if err := m.ValidatePlacement(x, y); err != nil {
		return nil, err
	}

	col, row := m.stage.CellAt(geom.V(x, y))
	t := entity.NewTower(m.deps.IDs.Next(), spec, m.stage.CellCenter(col, row), col, row)
	m.towers = append(m.towers, t)
	m.occupied[cell{col, row}] = t

	m.log.WithFields(logrus.Fields{"kind": kind.String(), "col": col, "row": row}).Debug("tower placed")
	m.deps.Events.Emit(event.TowerPlaced, towerData(t, spec.Stats.Cost))
	return t, nil
}

// TowerAt returns the tower on the cell containing x,y
func (m *TowerManager) TowerAt(x, y float64) (*entity.Tower, bool) {
	col, row := m.stage.CellAt(geom.V(x, y))
	t, ok := m.occupied[cell{col, row}]
	return t, ok
}

// Select marks the tower at x,y as selected. Clicking empty ground clears
// the selection and returns nil.
func (m *TowerManager) Select(x, y float64) *entity.Tower {
	m.Deselect()
	t, ok := m.TowerAt(x, y)
	if !ok {
		return nil
	}
	t.Selected = true
	m.selected = t
	return t
}

// Deselect clears the selection
func (m *TowerManager) Deselect() {
	if m.selected != nil {
		m.selected.Selected = false
		m.selected = nil
	}
}

// Selected returns the selected tower, or nil
func (m *TowerManager) Selected() *entity.Tower {
	return m.selected
}

// Upgrade levels up t. It does not charge gold.
func (m *TowerManager) Upgrade(t *entity.Tower) error {
	cost := t.Stats.UpgradeCost
	if !t.Upgrade() {
		return ErrMaxLevel
	}
	m.log.WithFields(logrus.Fields{"kind": t.Kind.String(), "level": t.Level}).Debug("tower upgraded")
	m.deps.Events.Emit(event.TowerUpgraded, towerData(t, cost))
	return nil
}

// Remove sells t: it leaves the map together with its projectiles and aura.
// It returns the sell value.
func (m *TowerManager) Remove(t *entity.Tower) int {
	idx := -1
	for i, cur := range m.towers {
		if cur == t {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0
	}
	m.towers = append(m.towers[:idx], m.towers[idx+1:]...)
	delete(m.occupied, cell{t.Col, t.Row})
	if m.selected == t {
		m.Deselect()
	}

	for _, h := range t.Projectiles {
		m.projectiles.Release(h)
	}
	t.Projectiles = t.Projectiles[:0]
	for _, ref := range t.Slowed {
		if e, ok := m.enemies.Lookup(ref); ok {
			e.RemoveStatus(entity.StatusSlow)
		}
	}
	t.Slowed = t.Slowed[:0]
	t.Alive = false

	value := t.Stats.SellValue
	m.log.WithFields(logrus.Fields{"kind": t.Kind.String(), "refund": value}).Debug("tower sold")
	m.deps.Events.Emit(event.TowerSold, towerData(t, value))
	return value
}

// Towers returns the placed towers in placement order
func (m *TowerManager) Towers() []*entity.Tower {
	return m.towers
}

// Blasts returns the explosions still on display
func (m *TowerManager) Blasts() []Blast {
	return m.blasts
}

// ForEachProjectile calls fn for every live projectile, grouped by tower
func (m *TowerManager) ForEachProjectile(fn func(*entity.Projectile)) {
	for _, t := range m.towers {
		for _, h := range t.Projectiles {
			if p, ok := m.projectiles.Get(h); ok && p.Alive {
				fn(p)
			}
		}
	}
}

// ProjectileCount returns the number of pooled projectiles in flight
func (m *TowerManager) ProjectileCount() int {
	return m.projectiles.Active()
}

// Clear removes every tower and projectile
func (m *TowerManager) Clear() {
	m.projectiles.Clear()
	clear(m.towers)
	m.towers = m.towers[:0]
	clear(m.occupied)
	m.selected = nil
	m.blasts = m.blasts[:0]
}

// Update runs every tower: auras, target validation and acquisition, the
// attack gate, then the tower's projectiles.
func (m *TowerManager) Update(dt, now float64) {
	m.now = now
	dtMs := dt * 1000
	m.ageBlasts(dtMs)

	for _, t := range m.towers {
		if t.ChainTimer > 0 {
			if t.ChainTimer -= dtMs; t.ChainTimer <= 0 {
				t.ChainTimer = 0
				t.Chain = t.Chain[:0]
			}
		}
		behaviorFor(t.Kind).tick(m, t, now)
		m.engage(t, now)
		m.updateProjectiles(t, dt)
	}
}

func (m *TowerManager) ageBlasts(dtMs float64) {
	n := 0
	for _, b := range m.blasts {
		if b.Remaining -= dtMs; b.Remaining > 0 {
			m.blasts[n] = b
			n++
		}
	}
	m.blasts = m.blasts[:n]
}

// launch acquires a projectile flying from t toward to. When the tower's
// projectile list is over the cap the oldest projectile is released.
func (m *TowerManager) launch(t *entity.Tower, kind entity.ProjectileKind, to geom.Vec, target entity.EnemyRef) *entity.Projectile {
	h, p := m.projectiles.Acquire()
	p.Launch(m.deps.IDs.Next(), kind, t.ID, t.Pos, to, t.Stats.ProjectileSpeed)
	p.Damage = t.Stats.Damage
	p.Target = target
	p.HitRadius = m.deps.Tuning.ProjectileHitRadius

	if old, evicted := t.TrackProjectile(h, m.deps.Tuning.ProjectileCap); evicted {
		m.projectiles.Release(old)
	}
	return p
}

// strike delivers damage from t to e and reports the damage applied
func (m *TowerManager) strike(t *entity.Tower, e *entity.Enemy, d entity.Damage) int {
	n := e.OnDamage(d, m.deps.Tuning.InvulnerabilityMs, m.deps.Tuning.DamageFlashMs)
	if n <= 0 {
		return 0
	}
	t.DamageDealt += n
	m.deps.Events.Emit(event.EnemyHit, event.EnemyData{
		EnemyID: uint64(e.ID),
		Kind:    e.Kind.String(),
		X:       e.Pos.X,
		Y:       e.Pos.Y,
		Amount:  n,
	})
	return n
}

func towerData(t *entity.Tower, gold int) event.TowerData {
	return event.TowerData{
		TowerID: uint64(t.ID),
		Kind:    t.Kind.String(),
		Level:   t.Level,
		X:       t.Pos.X,
		Y:       t.Pos.Y,
		Gold:    gold,
	}
}
