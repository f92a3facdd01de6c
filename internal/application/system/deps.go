package system

import (
	"errors"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
	"github.com/younwookim/towerdefense/internal/infrastructure/logger"
)

var (
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrOutOfBounds      = errors.New("outside the map")
	ErrNotBuildable     = errors.New("cell is not buildable")
	ErrOnPath           = errors.New("cell is on the enemy path")
	ErrOccupied         = errors.New("cell is occupied by a tower")
	ErrNearPath         = errors.New("too close to the enemy path")
	ErrMaxLevel         = errors.New("tower is at max level")
	ErrUnknownKind      = errors.New("unknown kind")
)

// Tuning holds the simulation thresholds shared by the managers
type Tuning struct {
	// Multipliers of a tower's nominal range
	AcquireRange float64
	FireRange    float64
	RetainRange  float64

	ArrivalThreshold    float64
	InvulnerabilityMs   float64
	DamageFlashMs       float64
	ProjectileHitRadius float64
	OutOfBoundsMargin   float64
	ProjectileCap       int
	PathClearance       float64
	ChainDisplayMs      float64
	ExplosionDisplayMs  float64
}

// DefaultTuning returns the stock thresholds
func DefaultTuning() Tuning {
	return Tuning{
		AcquireRange:        1.0,
		FireRange:           1.5,
		RetainRange:         2.0,
		ArrivalThreshold:    5,
		InvulnerabilityMs:   100,
		DamageFlashMs:       120,
		ProjectileHitRadius: 12,
		OutOfBoundsMargin:   50,
		ProjectileCap:       12,
		PathClearance:       20,
		ChainDisplayMs:      150,
		ExplosionDisplayMs:  250,
	}
}

// TuningFromConfig converts the tuning section, keeping defaults for unset values
func TuningFromConfig(cfg config.TuningConfig) Tuning {
	t := DefaultTuning()
	setF := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	setF(&t.AcquireRange, cfg.AcquireRangeMultiplier)
	setF(&t.FireRange, cfg.FireRangeMultiplier)
	setF(&t.RetainRange, cfg.RetainRangeMultiplier)
	setF(&t.ArrivalThreshold, cfg.ArrivalThreshold)
	setF(&t.InvulnerabilityMs, cfg.InvulnerabilityMs)
	setF(&t.DamageFlashMs, cfg.DamageFlashMs)
	setF(&t.ProjectileHitRadius, cfg.ProjectileHitRadius)
	setF(&t.OutOfBoundsMargin, cfg.OutOfBoundsMargin)
	setF(&t.PathClearance, cfg.PathClearance)
	setF(&t.ChainDisplayMs, cfg.ChainDisplayMs)
	setF(&t.ExplosionDisplayMs, cfg.ExplosionDisplayMs)
	if cfg.ProjectileCap > 0 {
		t.ProjectileCap = cfg.ProjectileCap
	}
	return t
}

// Deps bundles the collaborators the managers share
type Deps struct {
	IDs    *entity.IDSource
	Events *event.Bus
	Log    logrus.FieldLogger
	Rand   *rand.Rand
	Tuning Tuning
}

func (d Deps) withDefaults() Deps {
	if d.IDs == nil {
		d.IDs = &entity.IDSource{}
	}
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(1))
	}
	if d.Tuning == (Tuning{}) {
		d.Tuning = DefaultTuning()
	}
	return d
}

// Ledger receives the economic outcome of enemies leaving play
type Ledger interface {
	EnemyKilled(e *entity.Enemy)
	EnemyEscaped(e *entity.Enemy)
}

type nopLedger struct{}

func (nopLedger) EnemyKilled(*entity.Enemy)  {}
func (nopLedger) EnemyEscaped(*entity.Enemy) {}
