package entity

import "github.com/younwookim/towerdefense/internal/domain/geom"

// Splash is the area effect a cannonball applies on impact
type Splash struct {
	Radius       float64
	StunChance   float64
	StunDuration float64 // ms
	BurnDPS      float64
	BurnDuration float64 // ms
}

// StatusPayload is an effect applied to the enemy a projectile hits
type StatusPayload struct {
	Kind     StatusKind
	Duration float64 // ms
	Strength float64
}

// Projectile flies in a straight line from Start toward a snapshot of Dest
type Projectile struct {
	Body

	Kind       ProjectileKind
	Owner      EntityID
	Start      geom.Vec
	Dest       geom.Vec
	Speed      float64
	Damage     float64
	DamageType DamageType
	Target     EnemyRef
	HitRadius  float64
	Traveled   float64

	// Kind-specific payloads
	Pierce    int // arrows: extra victims left
	hits      []EntityID
	Splash    Splash
	Effect    StatusPayload
	HasEffect bool
}

// NewProjectile creates an empty projectile for a pool
func NewProjectile() *Projectile {
	return &Projectile{hits: make([]EntityID, 0, 4)}
}

// Launch readies a (reset) projectile flying from -> to at speed
func (p *Projectile) Launch(id EntityID, kind ProjectileKind, owner EntityID, from, to geom.Vec, speed float64) {
	p.ID = id
	p.Kind = kind
	p.Owner = owner
	p.Start = from
	p.Dest = to
	p.Pos = from
	p.Speed = speed
	p.Alive = true
	p.Visible = true
	p.Tags = TagProjectile
	p.Size = geom.V(3, 3)

	dir := to.Sub(from).Normalize()
	if dir == (geom.Vec{}) {
		dir = geom.V(1, 0)
	}
	p.Vel = dir.Scale(speed)
	p.Rotation = dir.Angle()
}

// SetEffect attaches a status effect applied on hit
func (p *Projectile) SetEffect(kind StatusKind, duration, strength float64) {
	p.Effect = StatusPayload{Kind: kind, Duration: duration, Strength: strength}
	p.HasEffect = true
}

// Advance moves the projectile along its fixed velocity for dt seconds
func (p *Projectile) Advance(dt float64) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Traveled += p.Speed * dt
}

// ReachedDest reports whether the projectile has covered the launch distance
func (p *Projectile) ReachedDest() bool {
	return p.Traveled >= p.Start.Dist(p.Dest)
}

// OutOfBounds reports whether the projectile left r
func (p *Projectile) OutOfBounds(r geom.Rect) bool {
	return !r.Contains(p.Pos)
}

// Touches reports whether the projectile is within its hit radius of a body
func (p *Projectile) Touches(b *Body) bool {
	r := p.HitRadius + b.Radius()
	return p.Pos.DistSq(b.Pos) <= r*r
}

// Reset returns the projectile to its zero state, keeping buffers
func (p *Projectile) Reset() {
	hits := p.hits[:0]
	*p = Projectile{hits: hits}
}
