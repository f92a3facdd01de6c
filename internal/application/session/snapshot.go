package session

import (
	"github.com/younwookim/towerdefense/internal/domain/entity"
)

// Snapshot is the render-facing state of a session after a tick
type Snapshot struct {
	Tick         uint64  `json:"tick" msgpack:"tick"`
	State        string  `json:"state" msgpack:"state"`
	Wave         int     `json:"wave" msgpack:"wave"`
	TotalWaves   int     `json:"totalWaves" msgpack:"totalWaves"`
	WaveSpawned  int     `json:"waveSpawned" msgpack:"waveSpawned"`
	WaveTotal    int     `json:"waveTotal" msgpack:"waveTotal"`
	Preparation  float64 `json:"preparation" msgpack:"preparation"` // ms left before the wave starts
	Gold         int     `json:"gold" msgpack:"gold"`
	Lives        int     `json:"lives" msgpack:"lives"`
	Score        int     `json:"score" msgpack:"score"`
	HighScore    int     `json:"highScore" msgpack:"highScore"`
	Speed        int     `json:"speed" msgpack:"speed"`
	SelectedType string  `json:"selectedType" msgpack:"selectedType"`

	Enemies     []EnemyView      `json:"enemies" msgpack:"enemies"`
	Towers      []TowerView      `json:"towers" msgpack:"towers"`
	Projectiles []ProjectileView `json:"projectiles" msgpack:"projectiles"`
	Chains      []ChainView      `json:"chains" msgpack:"chains"`
	Blasts      []BlastView      `json:"blasts" msgpack:"blasts"`
}

type EnemyView struct {
	ID       uint64   `json:"id" msgpack:"id"`
	Kind     string   `json:"kind" msgpack:"kind"`
	X        float64  `json:"x" msgpack:"x"`
	Y        float64  `json:"y" msgpack:"y"`
	Rotation float64  `json:"rot" msgpack:"rot"`
	Size     float64  `json:"size" msgpack:"size"`
	Health   float64  `json:"health" msgpack:"health"` // fraction of max
	Flash    bool     `json:"flash,omitempty" msgpack:"flash,omitempty"`
	Flying   bool     `json:"flying,omitempty" msgpack:"flying,omitempty"`
	Statuses []string `json:"statuses,omitempty" msgpack:"statuses,omitempty"`
}

type TowerView struct {
	ID       uint64  `json:"id" msgpack:"id"`
	Kind     string  `json:"kind" msgpack:"kind"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Col      int     `json:"col" msgpack:"col"`
	Row      int     `json:"row" msgpack:"row"`
	Rotation float64 `json:"rot" msgpack:"rot"`
	Level    int     `json:"level" msgpack:"level"`
	Range    float64 `json:"range" msgpack:"range"`
	State    string  `json:"state" msgpack:"state"`
	Selected bool    `json:"selected,omitempty" msgpack:"selected,omitempty"`
}

type ProjectileView struct {
	Kind     string  `json:"kind" msgpack:"kind"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Rotation float64 `json:"rot" msgpack:"rot"`
}

type ChainView struct {
	Points [][2]float64 `json:"points" msgpack:"points"`
}

type BlastView struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"radius" msgpack:"radius"`
}

// Snapshot copies the current state into a new Snapshot
func (s *Session) Snapshot() Snapshot {
	var snap Snapshot
	s.SnapshotInto(&snap)
	return snap
}

// SnapshotInto fills dst, reusing its slices
func (s *Session) SnapshotInto(dst *Snapshot) {
	dst.Tick = s.tick
	dst.State = s.state.String()
	dst.Wave = s.WaveNumber()
	dst.TotalWaves = s.waves.Total()
	dst.WaveSpawned, dst.WaveTotal = 0, 0
	if s.wave != nil {
		dst.WaveSpawned = s.wave.Spawned()
		dst.WaveTotal = s.wave.Total()
	}
	dst.Preparation = max(0, s.prepTimer)
	dst.Gold = s.gold
	dst.Lives = s.lives
	dst.Score = s.score
	dst.HighScore = s.highScore
	dst.Speed = s.speed
	dst.SelectedType = s.selectedType.String()

	var kinds []entity.StatusKind
	dst.Enemies = dst.Enemies[:0]
	s.enemies.ForEach(func(_ entity.EnemyRef, e *entity.Enemy) {
		v := EnemyView{
			ID:       uint64(e.ID),
			Kind:     e.Kind.String(),
			X:        e.Pos.X,
			Y:        e.Pos.Y,
			Rotation: e.Rotation,
			Size:     e.Size.X,
			Health:   e.HealthFraction(),
			Flash:    e.FlashTimer > 0,
			Flying:   e.Tags.Has(entity.TagFlying),
		}
		kinds = e.Statuses.ActiveKinds(kinds[:0])
		for _, k := range kinds {
			v.Statuses = append(v.Statuses, k.String())
		}
		dst.Enemies = append(dst.Enemies, v)
	})

	dst.Towers = dst.Towers[:0]
	dst.Chains = dst.Chains[:0]
	for _, t := range s.towers.Towers() {
		dst.Towers = append(dst.Towers, TowerView{
			ID:       uint64(t.ID),
			Kind:     t.Kind.String(),
			X:        t.Pos.X,
			Y:        t.Pos.Y,
			Col:      t.Col,
			Row:      t.Row,
			Rotation: t.Rotation,
			Level:    t.Level,
			Range:    t.Stats.Range,
			State:    t.State.String(),
			Selected: t.Selected,
		})
		if len(t.Chain) == 0 {
			continue
		}
		points := make([][2]float64, 0, len(t.Chain)+1)
		points = append(points, [2]float64{t.Chain[0].From.X, t.Chain[0].From.Y})
		for _, seg := range t.Chain {
			points = append(points, [2]float64{seg.To.X, seg.To.Y})
		}
		dst.Chains = append(dst.Chains, ChainView{Points: points})
	}

	dst.Projectiles = dst.Projectiles[:0]
	s.towers.ForEachProjectile(func(p *entity.Projectile) {
		dst.Projectiles = append(dst.Projectiles, ProjectileView{
			Kind:     p.Kind.String(),
			X:        p.Pos.X,
			Y:        p.Pos.Y,
			Rotation: p.Rotation,
		})
	})

	dst.Blasts = dst.Blasts[:0]
	for _, b := range s.towers.Blasts() {
		dst.Blasts = append(dst.Blasts, BlastView{X: b.Pos.X, Y: b.Pos.Y, Radius: b.Radius})
	}
}
