package entity

import "math"

// Living adds health, hit timers and status effects to a Body
type Living struct {
	Body

	Health    int
	MaxHealth int
	Statuses  StatusSet

	// Visual feedback
	FlashTimer float64 // ms
	LastDamage int

	// Per-source invulnerability windows, ms remaining
	invuln    map[EntityID]float64
	burnCarry float64
	dead      bool
}

// IsAlive reports whether the entity is active and has health left
func (l *Living) IsAlive() bool {
	return l.Alive && l.Health > 0
}

// HealthFraction returns Health/MaxHealth in [0, 1]
func (l *Living) HealthFraction() float64 {
	if l.MaxHealth <= 0 {
		return 0
	}
	return float64(l.Health) / float64(l.MaxHealth)
}

// Hurt removes up to amount health and returns how much was actually removed
func (l *Living) Hurt(amount int) int {
	if amount <= 0 || l.Health <= 0 {
		return 0
	}
	if amount > l.Health {
		amount = l.Health
	}
	l.Health -= amount
	return amount
}

// Heal restores up to amount health, never above MaxHealth
func (l *Living) Heal(amount int) int {
	if amount <= 0 || l.Health <= 0 {
		return 0
	}
	room := l.MaxHealth - l.Health
	if amount > room {
		amount = room
	}
	l.Health += amount
	return amount
}

// Invulnerable reports whether hits from source are currently ignored.
// Sourceless damage is never blocked.
func (l *Living) Invulnerable(source EntityID) bool {
	if source == 0 {
		return false
	}
	return l.invuln[source] > 0
}

func (l *Living) startInvulnerability(source EntityID, ms float64) {
	if source == 0 || ms <= 0 {
		return
	}
	if l.invuln == nil {
		l.invuln = make(map[EntityID]float64, 4)
	}
	l.invuln[source] = ms
}

// UpdateTimers ages the flash and invulnerability timers
func (l *Living) UpdateTimers(dtMs float64) {
	if l.FlashTimer > 0 {
		l.FlashTimer = max(0, l.FlashTimer-dtMs)
	}
	for src, ms := range l.invuln {
		if ms -= dtMs; ms <= 0 {
			delete(l.invuln, src)
		} else {
			l.invuln[src] = ms
		}
	}
}

// ApplyBurn deals the active burn effect's damage-per-second for dt seconds.
// Fractional damage is carried to the next tick. Returns the health removed.
func (l *Living) ApplyBurn(dt float64) int {
	e, ok := l.Statuses.Get(StatusBurn)
	if !ok || e.Strength <= 0 {
		l.burnCarry = 0
		return 0
	}
	l.burnCarry += e.Strength * dt
	whole := math.Floor(l.burnCarry)
	l.burnCarry -= whole
	n := l.Hurt(int(whole))
	if n > 0 {
		l.LastDamage = n
	}
	return n
}

// MarkDead transitions to dead. Only the first call reports true.
func (l *Living) MarkDead() bool {
	if l.dead {
		return false
	}
	l.dead = true
	l.Alive = false
	return true
}

// Dead reports whether MarkDead already ran
func (l *Living) Dead() bool {
	return l.dead
}

func (l *Living) resetLiving() {
	invuln := l.invuln
	clear(invuln)
	*l = Living{invuln: invuln}
}
