package session

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/application/state"
	"github.com/younwookim/towerdefense/internal/application/system"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
)

const step = 0.05

// testConfig is a two-wave game of scouts on a straight strip
func testConfig(gold int) *config.GameConfig {
	return &config.GameConfig{
		Settings: &config.SettingsConfig{
			Rules: config.RulesConfig{
				Stage:                 "strip",
				Seed:                  7,
				StartingGold:          gold,
				StartingLives:         3,
				TotalWaves:            2,
				WaveBonusGold:         5,
				WaveBonusGoldPerWave:  1,
				WaveBonusScore:        50,
				WaveBonusScorePerWave: 10,
				MaxDeltaTime:          0.05,
				Speeds:                []int{1, 2, 4},
			},
		},
		Entities: &config.EntitiesConfig{
			Towers: map[string]config.TowerConfig{
				"archer": {Cost: 10, UpgradeCost: 15, SellValue: 5, Damage: 30, Range: 80, AttackSpeed: 1.5, ProjectileSpeed: 400},
				"cannon": {Cost: 25, UpgradeCost: 30, SellValue: 12, Damage: 14, Range: 100, AttackSpeed: 0.6,
					Cannon: &config.CannonConfig{ExplosionRadius: 50}},
			},
			Enemies: map[string]config.EnemyConfig{
				"scout": {Health: 20, Speed: 90, Gold: 3, Score: 10, Damage: 1, Size: 9},
			},
		},
		Waves: &config.WavesConfig{
			Waves: []config.WaveConfig{
				{PreparationMs: 1000, Groups: []config.GroupConfig{{Enemy: "scout", Count: 2, IntervalMs: 500}}},
				{PreparationMs: 500, Groups: []config.GroupConfig{{Enemy: "scout", Count: 1, IntervalMs: 100}}},
			},
		},
	}
}

func testStageConfig() *config.StageConfig {
	return &config.StageConfig{
		ID:       "strip",
		Name:     "Strip",
		Cols:     10,
		Rows:     4,
		CellSize: 40,
		Tiles:    []string{"..........", "==========", "..........", ".........."},
		Path:     []config.CellConfig{{0, 1}, {9, 1}},
	}
}

type memScores map[string]int

func (m memScores) Best(name string) (int, error) { return m[name], nil }

func (m memScores) Submit(name string, score int) (bool, error) {
	if score <= m[name] {
		return false, nil
	}
	m[name] = score
	return true, nil
}

func newSession(t *testing.T, cfg *config.GameConfig, deps Deps) *Session {
	t.Helper()
	s, err := New(cfg, testStageConfig(), deps)
	require.NoError(t, err)
	return s
}

// runUntil steps s until done reports true or the step budget runs out
func runUntil(s *Session, budget int, done func() bool) {
	for i := 0; i < budget && !done(); i++ {
		s.Update(step)
	}
}

func TestNew_IncompleteConfig(t *testing.T) {
	_, err := New(&config.GameConfig{}, testStageConfig(), Deps{})
	assert.Error(t, err)

	cfg := testConfig(10)
	cfg.Entities.Enemies["goblin"] = config.EnemyConfig{Health: 1}
	_, err = New(cfg, testStageConfig(), Deps{})
	assert.ErrorIs(t, err, system.ErrUnknownKind)
}

func TestSession_StartsInMenu(t *testing.T) {
	s := newSession(t, testConfig(10), Deps{})

	assert.Equal(t, state.StateMenu, s.State())
	assert.Equal(t, 10, s.Gold())
	assert.Equal(t, 3, s.Lives())
	assert.Equal(t, 0, s.WaveNumber())

	_, err := s.PlaceTower(entity.TowerArcher, 60, 100)
	assert.ErrorIs(t, err, ErrNotActive)

	s.Update(step)
	assert.Equal(t, uint64(0), s.Tick(), "menu does not tick")

	s.Start()
	assert.Equal(t, state.StateWavePreparing, s.State())
	assert.Equal(t, 1, s.WaveNumber())
}

func TestSession_PlacementSpendsGoldAtomically(t *testing.T) {
	s := newSession(t, testConfig(10), Deps{})
	s.Start()

	tw, err := s.PlaceTower(entity.TowerArcher, 60, 100)
	require.NoError(t, err)
	assert.Equal(t, entity.TowerArcher, tw.Kind)
	assert.Equal(t, 0, s.Gold())

	_, err = s.PlaceTower(entity.TowerArcher, 140, 100)
	assert.ErrorIs(t, err, ErrInsufficientGold)
	_, err = s.PlaceTower(entity.TowerCannon, 140, 100)
	assert.ErrorIs(t, err, ErrInsufficientGold)
	assert.Equal(t, 0, s.Gold())
	assert.Len(t, s.Towers().Towers(), 1)
}

func TestSession_InvalidPlacementIsRejected(t *testing.T) {
	bus := event.NewBus()
	var rejected []event.RejectionData
	bus.SubscribeFunc(event.PlacementRejected, func(e event.Event) {
		rejected = append(rejected, e.Data.(event.RejectionData))
	})
	s := newSession(t, testConfig(10), Deps{Events: bus})
	s.Start()

	assert.False(t, s.CanPlaceTower(60, 60))
	_, err := s.PlaceTower(entity.TowerArcher, 60, 60)
	assert.ErrorIs(t, err, system.ErrInvalidPlacement)
	assert.ErrorIs(t, err, system.ErrOnPath)
	assert.Equal(t, 10, s.Gold())

	require.Len(t, rejected, 1)
	assert.Equal(t, "archer", rejected[0].Kind)
	assert.Contains(t, rejected[0].Reason, "path")
}

func TestSession_UndefendedGameIsLost(t *testing.T) {
	bus := event.NewBus()
	var waves []event.WaveData
	bus.SubscribeFunc(event.WaveComplete, func(e event.Event) { waves = append(waves, e.Data.(event.WaveData)) })
	var outcome event.OutcomeData
	bus.SubscribeFunc(event.GameOver, func(e event.Event) { outcome = e.Data.(event.OutcomeData) })

	s := newSession(t, testConfig(0), Deps{Events: bus})
	s.Start()
	runUntil(s, 2000, func() bool { return s.State().Finished() })

	assert.Equal(t, state.StateGameOver, s.State())
	assert.Equal(t, 0, s.Lives())
	assert.Equal(t, 2, s.WaveNumber())
	assert.Equal(t, 6, s.Gold(), "wave 1 bonus")
	assert.Equal(t, 60, s.Score())

	require.Len(t, waves, 1)
	assert.Equal(t, 6, waves[0].BonusGold)
	assert.Equal(t, 60, waves[0].BonusScore)
	assert.Equal(t, 60, outcome.Score)
	assert.True(t, outcome.NewRecord)

	tick := s.Tick()
	s.Update(step)
	assert.Equal(t, tick, s.Tick(), "finished games do not tick")
}

func TestSession_KillsAreCredited(t *testing.T) {
	s := newSession(t, testConfig(10), Deps{})
	s.Start()
	_, err := s.PlaceTower(entity.TowerArcher, 60, 100)
	require.NoError(t, err)

	runUntil(s, 2000, func() bool { return s.WaveNumber() > 1 || s.State().Finished() })

	assert.Equal(t, 3, s.Lives())
	assert.Equal(t, 2, s.Enemies().Killed())
	assert.Equal(t, 2*3+6, s.Gold())
	assert.Equal(t, 2*10+60, s.Score())
}

func TestSession_EmptyWavesEndInVictory(t *testing.T) {
	cfg := testConfig(0)
	for i := range cfg.Waves.Waves {
		cfg.Waves.Waves[i].Groups = nil
	}
	scores := memScores{"Strip": 100}
	bus := event.NewBus()
	victories := 0
	bus.SubscribeFunc(event.Victory, func(event.Event) { victories++ })

	s := newSession(t, cfg, Deps{Events: bus, Scores: scores})
	assert.Equal(t, 100, s.HighScore())
	s.Start()
	runUntil(s, 200, func() bool { return s.State().Finished() })

	assert.Equal(t, state.StateVictory, s.State())
	assert.Equal(t, 1, victories)
	assert.Equal(t, 60+70, s.Score())
	assert.Equal(t, 130, scores["Strip"])
	assert.Equal(t, 130, s.HighScore())
}

func TestSession_LowScoreKeepsRecord(t *testing.T) {
	cfg := testConfig(0)
	for i := range cfg.Waves.Waves {
		cfg.Waves.Waves[i].Groups = nil
	}
	scores := memScores{"Strip": 1000}

	s := newSession(t, cfg, Deps{Scores: scores})
	s.Start()
	runUntil(s, 200, func() bool { return s.State().Finished() })

	assert.Equal(t, 1000, scores["Strip"])
	assert.Equal(t, 1000, s.HighScore())
}

func TestSession_StartNextWave(t *testing.T) {
	s := newSession(t, testConfig(0), Deps{})
	assert.ErrorIs(t, s.StartNextWave(), ErrNotActive)

	s.Start()
	require.NoError(t, s.StartNextWave())
	assert.Equal(t, state.StatePlaying, s.State())
	assert.ErrorIs(t, s.StartNextWave(), ErrWaveInProgress)
}

func TestSession_PauseHaltsTheClock(t *testing.T) {
	s := newSession(t, testConfig(0), Deps{})
	assert.ErrorIs(t, s.TogglePause(), ErrNotActive)

	s.Start()
	s.Update(step)
	require.NoError(t, s.TogglePause())
	assert.Equal(t, state.StatePaused, s.State())

	before := s.Snapshot()
	for range 10 {
		s.Update(step)
	}
	assert.Equal(t, before, s.Snapshot())

	require.NoError(t, s.TogglePause())
	assert.Equal(t, state.StateWavePreparing, s.State())
	s.Update(step)
	assert.Equal(t, before.Tick+1, s.Tick())
}

func TestSession_SpeedAndDeltaClamp(t *testing.T) {
	s := newSession(t, testConfig(0), Deps{})
	s.Start()

	s.Update(1.0)
	assert.Equal(t, uint64(1), s.Tick())
	assert.InDelta(t, 950, s.Snapshot().Preparation, 1e-9, "dt is clamped to the max delta")

	assert.ErrorIs(t, s.SetSpeed(3), ErrInvalidSpeed)
	require.NoError(t, s.SetSpeed(4))
	s.Update(step)
	assert.Equal(t, uint64(5), s.Tick())

	assert.Equal(t, 1, s.CycleSpeed())
	assert.Equal(t, 2, s.CycleSpeed())
}

func TestSession_UpgradeAndSell(t *testing.T) {
	s := newSession(t, testConfig(100), Deps{})
	s.Start()

	assert.ErrorIs(t, s.UpgradeSelectedTower(), ErrNoSelection)
	_, err := s.SellSelectedTower()
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = s.PlaceTower(entity.TowerArcher, 60, 100)
	require.NoError(t, err)
	tw := s.SelectTower(60, 100)
	require.NotNil(t, tw)

	require.NoError(t, s.UpgradeSelectedTower())
	require.NoError(t, s.UpgradeSelectedTower())
	assert.ErrorIs(t, s.UpgradeSelectedTower(), system.ErrMaxLevel)
	assert.Equal(t, 100-10-15-24, s.Gold())
	assert.Equal(t, 3, tw.Level)

	refund, err := s.SellSelectedTower()
	require.NoError(t, err)
	assert.Equal(t, 10, refund)
	assert.Equal(t, 100-10-15-24+10, s.Gold())
	assert.Empty(t, s.Towers().Towers())
}

func TestSession_UpgradeNeedsGold(t *testing.T) {
	s := newSession(t, testConfig(10), Deps{})
	s.Start()
	_, err := s.PlaceTower(entity.TowerArcher, 60, 100)
	require.NoError(t, err)
	tw := s.SelectTower(60, 100)

	assert.ErrorIs(t, s.UpgradeSelectedTower(), ErrInsufficientGold)
	assert.Equal(t, 1, tw.Level)
	assert.Equal(t, 0, s.Gold())
}

func TestSession_SelectTowerType(t *testing.T) {
	s := newSession(t, testConfig(100), Deps{})
	s.Start()

	assert.ErrorIs(t, s.SelectTowerType(entity.TowerMagic), system.ErrUnknownKind)
	require.NoError(t, s.SelectTowerType(entity.TowerCannon))

	tw, err := s.PlaceSelectedType(60, 100)
	require.NoError(t, err)
	assert.Equal(t, entity.TowerCannon, tw.Kind)
	assert.Equal(t, 75, s.Gold())
}

func TestSession_Restart(t *testing.T) {
	s := newSession(t, testConfig(10), Deps{})
	s.Start()
	// far enough down the path that no scout is in range yet
	_, err := s.PlaceTower(entity.TowerArcher, 340, 140)
	require.NoError(t, err)
	require.NoError(t, s.SetSpeed(2))
	runUntil(s, 40, func() bool { return false })
	require.Positive(t, s.Enemies().Count())

	s.Restart()

	assert.Equal(t, state.StateWavePreparing, s.State())
	assert.Equal(t, 1, s.WaveNumber())
	assert.Equal(t, 10, s.Gold())
	assert.Equal(t, 3, s.Lives())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 1, s.Speed())
	assert.Empty(t, s.Towers().Towers())
	assert.Equal(t, 0, s.Enemies().Count())
}

type captured struct {
	tick uint64
	in   Intent
}

type captureRecorder struct{ got []captured }

func (r *captureRecorder) Record(tick uint64, in Intent) {
	r.got = append(r.got, captured{tick, in})
}

func TestSession_RecordsIntents(t *testing.T) {
	s := newSession(t, testConfig(10), Deps{})
	rec := &captureRecorder{}
	s.SetRecorder(rec)
	s.Start()

	s.Update(step)
	_, _ = s.PlaceTower(entity.TowerArcher, 60, 100)
	s.Update(step)
	_ = s.TogglePause()

	require.Len(t, rec.got, 2)
	assert.Equal(t, captured{1, Intent{Kind: IntentPlace, Tower: "archer", X: 60, Y: 100}}, rec.got[0])
	assert.Equal(t, captured{2, Intent{Kind: IntentPause}}, rec.got[1])
}

func TestSession_Apply(t *testing.T) {
	s := newSession(t, testConfig(100), Deps{})
	s.Start()

	require.NoError(t, s.Apply(Intent{Kind: IntentSelectType, Tower: "cannon"}))
	require.NoError(t, s.Apply(Intent{Kind: IntentPlace, Tower: "archer", X: 60, Y: 100}))
	require.NoError(t, s.Apply(Intent{Kind: IntentSelect, X: 60, Y: 100}))
	require.NoError(t, s.Apply(Intent{Kind: IntentUpgrade}))
	require.NoError(t, s.Apply(Intent{Kind: IntentSpeed, Speed: 2}))
	require.NoError(t, s.Apply(Intent{Kind: IntentStartWave}))
	require.NoError(t, s.Apply(Intent{Kind: IntentSell}))

	assert.Equal(t, entity.TowerCannon, s.SelectedType())
	assert.Equal(t, 2, s.Speed())
	assert.Equal(t, state.StatePlaying, s.State())
	assert.Equal(t, 100-10-15+7, s.Gold())

	require.NoError(t, s.Apply(Intent{Kind: IntentSpeed}))
	assert.Equal(t, 4, s.Speed())

	assert.Error(t, s.Apply(Intent{Kind: "teleport"}))
	assert.Error(t, s.Apply(Intent{Kind: IntentPlace, Tower: "ballista"}))
}

func TestSession_Snapshot(t *testing.T) {
	s := newSession(t, testConfig(10), Deps{})
	s.Start()
	_, err := s.PlaceTower(entity.TowerArcher, 300, 100)
	require.NoError(t, err)
	require.NoError(t, s.StartNextWave())
	runUntil(s, 100, func() bool { return s.Enemies().Count() > 0 })

	snap := s.Snapshot()
	assert.Equal(t, "playing", snap.State)
	assert.Equal(t, 1, snap.Wave)
	assert.Equal(t, 2, snap.TotalWaves)
	assert.Equal(t, 1, snap.WaveSpawned)
	assert.Equal(t, 2, snap.WaveTotal)
	assert.Equal(t, "archer", snap.SelectedType)

	require.Len(t, snap.Enemies, 1)
	assert.Equal(t, "scout", snap.Enemies[0].Kind)
	assert.Equal(t, 1.0, snap.Enemies[0].Health)

	require.Len(t, snap.Towers, 1)
	assert.Equal(t, "archer", snap.Towers[0].Kind)
	assert.Equal(t, 7, snap.Towers[0].Col)
	assert.Equal(t, 2, snap.Towers[0].Row)
	assert.Equal(t, "idle", snap.Towers[0].State)

	var reused Snapshot
	s.SnapshotInto(&reused)
	assert.Equal(t, snap, reused)
}

func TestSession_LogsWaves(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	s := newSession(t, testConfig(0), Deps{Log: log})
	s.Start()

	require.NoError(t, s.StartNextWave())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "wave started", entry.Message)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, 1, entry.Data["wave"])
	assert.Equal(t, "session", entry.Data["component"])
}
