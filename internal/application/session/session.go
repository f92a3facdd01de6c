// Package session runs one game: resources, wave progression, tick sequencing
// across the enemy and tower managers, player intents and the win/loss rules.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/application/state"
	"github.com/younwookim/towerdefense/internal/application/system"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/wave"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
	"github.com/younwookim/towerdefense/internal/infrastructure/logger"
)

var (
	ErrInsufficientGold = errors.New("insufficient gold")
	ErrNoSelection      = errors.New("no tower selected")
	ErrNotActive        = errors.New("game is not active")
	ErrWaveInProgress   = errors.New("wave already in progress")
	ErrInvalidSpeed     = errors.New("unsupported game speed")
)

const defaultMaxDelta = 0.05

// ScoreBoard persists the best score per stage
type ScoreBoard interface {
	Best(name string) (int, error)
	Submit(name string, score int) (bool, error)
}

// Recorder receives every intent applied to a session with the tick it was applied on
type Recorder interface {
	Record(tick uint64, in Intent)
}

// Deps are the collaborators a session is wired to. All are optional.
type Deps struct {
	Events *event.Bus
	Log    logrus.FieldLogger
	Scores ScoreBoard
}

// Session is one game on one stage
type Session struct {
	rules  config.RulesConfig
	stage  *entity.Stage
	waves  *wave.Generator
	bus    *event.Bus
	log    *logrus.Entry
	scores ScoreBoard
	rec    Recorder

	ids     *entity.IDSource
	rng     *rand.Rand
	seed    int64
	enemies *system.EnemyManager
	towers  *system.TowerManager
	catalog map[entity.TowerKind]entity.TowerSpec

	state       state.GameState
	resumeState state.GameState
	tick        uint64
	now         float64 // ms

	gold  int
	lives int
	score int

	wave      *wave.Wave
	prepTimer float64 // ms
	speed     int
	speeds    []int
	maxDelta  float64

	selectedType entity.TowerKind
	highScore    int
	newRecord    bool
}

// New builds a session from loaded config and a stage. The session starts in
// the menu state; call Start to begin wave 1 preparation.
func New(cfg *config.GameConfig, stageCfg *config.StageConfig, deps Deps) (*Session, error) {
	if cfg == nil || cfg.Settings == nil || cfg.Entities == nil || cfg.Waves == nil {
		return nil, errors.New("incomplete game config")
	}

	stage, err := system.LoadStage(stageCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage: %w", err)
	}
	enemyCatalog, err := system.BuildEnemyCatalog(cfg.Entities)
	if err != nil {
		return nil, fmt.Errorf("failed to build enemy catalog: %w", err)
	}
	towerCatalog, err := system.BuildTowerCatalog(cfg.Entities)
	if err != nil {
		return nil, fmt.Errorf("failed to build tower catalog: %w", err)
	}
	templates, err := system.BuildWaveTemplates(cfg.Waves)
	if err != nil {
		return nil, fmt.Errorf("failed to build waves: %w", err)
	}

	rules := cfg.Settings.Rules
	s := &Session{
		rules:        rules,
		stage:        stage,
		waves:        wave.NewGenerator(templates, rules.TotalWaves, system.GrowthFromConfig(cfg.Settings.Growth)),
		bus:          deps.Events,
		log:          logger.Component(deps.Log, "session"),
		scores:       deps.Scores,
		ids:          &entity.IDSource{},
		seed:         rules.Seed,
		catalog:      towerCatalog,
		state:        state.StateMenu,
		speed:        1,
		speeds:       rules.Speeds,
		maxDelta:     rules.MaxDeltaTime,
		selectedType: entity.TowerArcher,
	}
	if len(s.speeds) == 0 {
		s.speeds = []int{1, 2, 4}
	}
	if s.maxDelta <= 0 {
		s.maxDelta = defaultMaxDelta
	}
	if s.bus == nil {
		s.bus = event.NewBus()
	}

	s.rng = rand.New(rand.NewSource(s.seed))
	sysDeps := system.Deps{
		IDs:    s.ids,
		Events: s.bus,
		Log:    deps.Log,
		Rand:   s.rng,
		Tuning: system.TuningFromConfig(cfg.Settings.Tuning),
	}
	s.enemies = system.NewEnemyManager(enemyCatalog, stage.Path, s, sysDeps)
	s.towers = system.NewTowerManager(stage, towerCatalog, s.enemies, sysDeps)
	s.resetResources()

	if s.scores != nil {
		if best, err := s.scores.Best(stage.Name); err != nil {
			s.log.WithError(err).Warn("failed to read high score")
		} else {
			s.highScore = best
		}
	}
	return s, nil
}

// SetRecorder attaches an intent recorder. nil detaches it.
func (s *Session) SetRecorder(r Recorder) {
	s.rec = r
}

func (s *Session) record(in Intent) {
	if s.rec != nil {
		s.rec.Record(s.tick, in)
	}
}

func (s *Session) resetResources() {
	s.gold = s.rules.StartingGold
	s.lives = s.rules.StartingLives
	s.score = 0
	s.newRecord = false
}

// Start leaves the menu and begins preparing wave 1
func (s *Session) Start() {
	if s.state != state.StateMenu {
		return
	}
	s.prepareWave(1)
}

func (s *Session) prepareWave(n int) {
	s.wave = s.waves.Wave(n)
	s.prepTimer = s.wave.Preparation
	s.state = state.StateWavePreparing
}

func (s *Session) beginWave() {
	s.prepTimer = 0
	s.state = state.StatePlaying
	s.log.WithFields(logrus.Fields{"wave": s.wave.Number, "enemies": s.wave.Total()}).Info("wave started")
	s.bus.Emit(event.WaveStart, event.WaveData{
		Number:  s.wave.Number,
		Total:   s.waves.Total(),
		Enemies: s.wave.Total(),
	})
}

// Update advances the simulation by dt seconds. dt is clamped to the
// configured maximum and split into one step per speed multiple.
func (s *Session) Update(dt float64) {
	if !s.state.Running() || dt <= 0 {
		return
	}
	dt = min(dt, s.maxDelta)
	for range s.speed {
		s.step(dt)
		if !s.state.Running() {
			return
		}
	}
}

// step runs one fixed tick: spawning, enemies, towers, cleanup, outcome
func (s *Session) step(dt float64) {
	s.tick++
	dtMs := dt * 1000
	s.now += dtMs

	switch s.state {
	case state.StateWavePreparing:
		if s.prepTimer -= dtMs; s.prepTimer <= 0 {
			s.beginWave()
		}
	case state.StatePlaying:
		s.wave.Update(dtMs, s.spawn)
	}

	s.enemies.Update(dt, s.now)
	s.towers.Update(dt, s.now)
	s.enemies.Cleanup()
	s.checkOutcome()
}

func (s *Session) spawn(kind entity.EnemyKind) {
	if _, err := s.enemies.Spawn(kind); err != nil {
		s.log.WithError(err).Warn("spawn skipped")
	}
}

func (s *Session) checkOutcome() {
	if s.lives <= 0 {
		s.finish(state.StateGameOver)
		return
	}
	if s.state != state.StatePlaying || !s.wave.FullySpawned() || s.enemies.Count() > 0 {
		return
	}

	n := s.wave.Number
	bonusGold := s.rules.WaveBonusGold + s.rules.WaveBonusGoldPerWave*n
	bonusScore := s.rules.WaveBonusScore + s.rules.WaveBonusScorePerWave*n
	s.gold += bonusGold
	s.score += bonusScore

	s.log.WithFields(logrus.Fields{"wave": n, "gold": bonusGold, "score": bonusScore}).Info("wave complete")
	s.bus.Emit(event.WaveComplete, event.WaveData{
		Number:     n,
		Total:      s.waves.Total(),
		Enemies:    s.wave.Total(),
		BonusGold:  bonusGold,
		BonusScore: bonusScore,
	})

	if n >= s.waves.Total() {
		s.finish(state.StateVictory)
		return
	}
	s.prepareWave(n + 1)
}

func (s *Session) finish(outcome state.GameState) {
	s.state = outcome
	s.submitScore()

	data := event.OutcomeData{
		Score:     s.score,
		Wave:      s.WaveNumber(),
		HighScore: s.highScore,
		NewRecord: s.newRecord,
	}
	s.log.WithFields(logrus.Fields{
		"outcome": outcome.String(),
		"score":   s.score,
		"wave":    data.Wave,
	}).Info("game finished")

	if outcome == state.StateVictory {
		s.bus.Emit(event.Victory, data)
	} else {
		s.bus.Emit(event.GameOver, data)
	}
}

func (s *Session) submitScore() {
	if s.score <= s.highScore {
		return
	}
	s.highScore = s.score
	s.newRecord = true
	if s.scores == nil {
		return
	}
	if _, err := s.scores.Submit(s.stage.Name, s.score); err != nil {
		s.log.WithError(err).Warn("failed to save high score")
	}
}

// EnemyKilled credits the kill reward. It implements system.Ledger.
func (s *Session) EnemyKilled(e *entity.Enemy) {
	s.gold += e.Stats.Gold
	s.score += e.Stats.Score
}

// EnemyEscaped charges the enemy's contact damage against lives. It implements system.Ledger.
func (s *Session) EnemyEscaped(e *entity.Enemy) {
	s.lives = max(0, s.lives-e.Stats.ContactDamage)
}

// PlaceTower builds a tower of kind at world position x,y. Gold is charged
// only when placement succeeds.
func (s *Session) PlaceTower(kind entity.TowerKind, x, y float64) (*entity.Tower, error) {
	s.record(Intent{Kind: IntentPlace, Tower: kind.String(), X: x, Y: y})
	if !s.acceptsCommands() {
		return nil, ErrNotActive
	}

	spec, ok := s.towers.Spec(kind)
	if !ok {
		return nil, fmt.Errorf("%w: tower %s", system.ErrUnknownKind, kind)
	}
	if s.gold < spec.Stats.Cost {
		s.reject(kind, x, y, ErrInsufficientGold)
		return nil, ErrInsufficientGold
	}
	t, err := s.towers.Place(kind, x, y)
	if err != nil {
		s.reject(kind, x, y, err)
		return nil, err
	}
	s.gold -= spec.Stats.Cost
	return t, nil
}

// PlaceSelectedType builds a tower of the selected type at x,y
func (s *Session) PlaceSelectedType(x, y float64) (*entity.Tower, error) {
	return s.PlaceTower(s.selectedType, x, y)
}

func (s *Session) reject(kind entity.TowerKind, x, y float64, reason error) {
	s.log.WithFields(logrus.Fields{"kind": kind.String(), "x": x, "y": y}).WithError(reason).Debug("placement rejected")
	s.bus.Emit(event.PlacementRejected, event.RejectionData{Kind: kind.String(), X: x, Y: y, Reason: reason.Error()})
}

// CanPlaceTower reports whether a tower could be built at x,y, ignoring gold
func (s *Session) CanPlaceTower(x, y float64) bool {
	return s.towers.CanPlaceTower(x, y)
}

// SelectTowerType chooses the tower kind the next placement builds
func (s *Session) SelectTowerType(kind entity.TowerKind) error {
	s.record(Intent{Kind: IntentSelectType, Tower: kind.String()})
	if _, ok := s.catalog[kind]; !ok {
		return fmt.Errorf("%w: tower %s", system.ErrUnknownKind, kind)
	}
	s.selectedType = kind
	return nil
}

// SelectTower selects the tower at x,y, or clears the selection
func (s *Session) SelectTower(x, y float64) *entity.Tower {
	s.record(Intent{Kind: IntentSelect, X: x, Y: y})
	return s.towers.Select(x, y)
}

// UpgradeSelectedTower levels up the selected tower, charging its upgrade cost
func (s *Session) UpgradeSelectedTower() error {
	s.record(Intent{Kind: IntentUpgrade})
	if !s.acceptsCommands() {
		return ErrNotActive
	}
	t := s.towers.Selected()
	if t == nil {
		return ErrNoSelection
	}
	if !t.CanUpgrade() {
		return system.ErrMaxLevel
	}
	cost := t.Stats.UpgradeCost
	if s.gold < cost {
		return ErrInsufficientGold
	}
	if err := s.towers.Upgrade(t); err != nil {
		return err
	}
	s.gold -= cost
	return nil
}

// SellSelectedTower removes the selected tower and refunds its sell value
func (s *Session) SellSelectedTower() (int, error) {
	s.record(Intent{Kind: IntentSell})
	if !s.acceptsCommands() {
		return 0, ErrNotActive
	}
	t := s.towers.Selected()
	if t == nil {
		return 0, ErrNoSelection
	}
	refund := s.towers.Remove(t)
	s.gold += refund
	return refund, nil
}

// StartNextWave skips the remaining preparation countdown
func (s *Session) StartNextWave() error {
	s.record(Intent{Kind: IntentStartWave})
	switch s.state {
	case state.StateWavePreparing:
		s.beginWave()
		return nil
	case state.StatePlaying:
		return ErrWaveInProgress
	default:
		return ErrNotActive
	}
}

// TogglePause pauses a running game or resumes a paused one
func (s *Session) TogglePause() error {
	s.record(Intent{Kind: IntentPause})
	switch {
	case s.state == state.StatePaused:
		s.state = s.resumeState
	case s.state.Running():
		s.resumeState = s.state
		s.state = state.StatePaused
	default:
		return ErrNotActive
	}
	return nil
}

// SetSpeed sets the game speed multiplier to one of the configured speeds
func (s *Session) SetSpeed(speed int) error {
	s.record(Intent{Kind: IntentSpeed, Speed: speed})
	if !slices.Contains(s.speeds, speed) {
		return fmt.Errorf("%w: %dx", ErrInvalidSpeed, speed)
	}
	s.speed = speed
	return nil
}

// CycleSpeed moves to the next configured speed, wrapping around
func (s *Session) CycleSpeed() int {
	i := slices.Index(s.speeds, s.speed)
	next := s.speeds[(i+1)%len(s.speeds)]
	_ = s.SetSpeed(next)
	return next
}

// Restart clears the map, restores starting resources and returns to wave 1
// preparation with the original seed.
func (s *Session) Restart() {
	s.record(Intent{Kind: IntentRestart})
	s.enemies.Clear()
	s.towers.Clear()
	s.resetResources()
	s.rng.Seed(s.seed)
	s.now = 0
	s.speed = 1
	s.state = state.StateMenu
	s.Start()
	s.log.Info("game restarted")
}

func (s *Session) acceptsCommands() bool {
	return s.state.Running() || s.state == state.StatePaused
}

// State returns the current game state
func (s *Session) State() state.GameState { return s.state }

// Gold returns the current gold
func (s *Session) Gold() int { return s.gold }

// Lives returns the remaining lives
func (s *Session) Lives() int { return s.lives }

// Score returns the current score
func (s *Session) Score() int { return s.score }

// HighScore returns the best score for this stage, including the current game
func (s *Session) HighScore() int { return s.highScore }

// Speed returns the game speed multiplier
func (s *Session) Speed() int { return s.speed }

// Tick returns the number of simulation steps run
func (s *Session) Tick() uint64 { return s.tick }

// Seed returns the random seed of the session
func (s *Session) Seed() int64 { return s.seed }

// Stage returns the map being played
func (s *Session) Stage() *entity.Stage { return s.stage }

// Events returns the bus the session emits on
func (s *Session) Events() *event.Bus { return s.bus }

// SelectedType returns the tower kind the next placement builds
func (s *Session) SelectedType() entity.TowerKind { return s.selectedType }

// WaveNumber returns the current wave number, 0 before the first wave
func (s *Session) WaveNumber() int {
	if s.wave == nil {
		return 0
	}
	return s.wave.Number
}

// TotalWaves returns the number of waves in the game
func (s *Session) TotalWaves() int { return s.waves.Total() }

// Enemies returns the enemy manager for read-only queries
func (s *Session) Enemies() *system.EnemyManager { return s.enemies }

// Towers returns the tower manager for read-only queries
func (s *Session) Towers() *system.TowerManager { return s.towers }
