package system

import (
	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/geom"
)

// testStage is a 10x6 grid with the path along row 2 and one blocked corner
func testStage() *entity.Stage {
	s := &entity.Stage{Name: "test", Cols: 10, Rows: 6, CellSize: 40}
	s.Cells = make([][]entity.CellType, s.Rows)
	for r := range s.Cells {
		s.Cells[r] = make([]entity.CellType, s.Cols)
	}
	for c := 0; c < s.Cols; c++ {
		s.Cells[2][c] = entity.CellPath
	}
	s.Cells[5][9] = entity.CellBlocked
	s.Path = []geom.Vec{s.CellCenter(0, 2), s.CellCenter(9, 2)}
	return s
}

func testEnemyCatalog() map[entity.EnemyKind]entity.EnemyStats {
	return map[entity.EnemyKind]entity.EnemyStats{
		entity.EnemyScout: {MaxHealth: 20, Speed: 90, Gold: 3, Score: 10, ContactDamage: 1, Size: 9},
		// a stationary damage sponge
		entity.EnemyKnight: {MaxHealth: 500, Gold: 8, Score: 25, ContactDamage: 2, Size: 9},
	}
}

func testTowerCatalog() map[entity.TowerKind]entity.TowerSpec {
	ones := [entity.MaxLevel]int{1, 1, 1}
	return map[entity.TowerKind]entity.TowerSpec{
		entity.TowerArcher: {
			Kind: entity.TowerArcher,
			Size: 14,
			Stats: entity.TowerStats{
				Damage: 6, Range: 80, AttackSpeed: 1, ProjectileSpeed: 400,
				Cost: 10, UpgradeCost: 15, SellValue: 5,
			},
			Archer: entity.ArcherParams{MultiShotByLevel: ones},
		},
		entity.TowerCannon: {
			Kind: entity.TowerCannon,
			Size: 14,
			Stats: entity.TowerStats{
				Damage: 14, Range: 100, AttackSpeed: 1, ProjectileSpeed: 300,
				Cost: 25, UpgradeCost: 30, SellValue: 12,
			},
			Cannon: entity.CannonParams{ExplosionRadius: 80},
		},
		entity.TowerMagic: {
			Kind: entity.TowerMagic,
			Size: 14,
			Stats: entity.TowerStats{
				Damage: 8, Range: 120, AttackSpeed: 1, ProjectileSpeed: 250,
				Cost: 35, UpgradeCost: 40, SellValue: 17,
			},
			Magic: entity.MagicParams{ChainCount: 3, ChainRadius: 60, SlowStrength: 0.25, SlowDuration: 1500},
		},
	}
}

type recordLedger struct {
	gold   int
	score  int
	kills  int
	lost   int
	escape int
}

func (l *recordLedger) EnemyKilled(e *entity.Enemy) {
	l.kills++
	l.gold += e.Stats.Gold
	l.score += e.Stats.Score
}

func (l *recordLedger) EnemyEscaped(e *entity.Enemy) {
	l.escape++
	l.lost += e.Stats.ContactDamage
}

type fixture struct {
	stage   *entity.Stage
	bus     *event.Bus
	ledger  *recordLedger
	enemies *EnemyManager
	towers  *TowerManager
}

func newFixture(tuning Tuning) *fixture {
	f := &fixture{stage: testStage(), bus: event.NewBus(), ledger: &recordLedger{}}
	deps := Deps{IDs: &entity.IDSource{}, Events: f.bus, Tuning: tuning}
	f.enemies = NewEnemyManager(testEnemyCatalog(), f.stage.Path, f.ledger, deps)
	f.towers = NewTowerManager(f.stage, testTowerCatalog(), f.enemies, deps)
	return f
}

// dummyAt spawns a stationary knight at p
func (f *fixture) dummyAt(p geom.Vec) (*entity.Enemy, entity.EnemyRef) {
	ref, err := f.enemies.Spawn(entity.EnemyKnight)
	if err != nil {
		panic(err)
	}
	e, _ := f.enemies.Lookup(ref)
	e.Pos = p
	return e, ref
}

// count subscribes to t and returns a pointer to its dispatch count
func (f *fixture) count(t event.Type) *int {
	n := new(int)
	f.bus.SubscribeFunc(t, func(event.Event) { *n++ })
	return n
}
