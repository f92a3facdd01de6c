package entity

import "fmt"

// StatusKind is the closed set of timed modifiers
type StatusKind uint8

const (
	StatusSlow StatusKind = iota
	StatusFreeze
	StatusHaste
	StatusBurn
	StatusStun
	StatusKindCount
)

var statusKindNames = [...]string{"slow", "freeze", "haste", "burn", "stun"}

func (k StatusKind) String() string {
	if k < StatusKindCount {
		return statusKindNames[k]
	}
	return "unknown"
}

// ParseStatusKind converts a config name to a StatusKind
func ParseStatusKind(s string) (StatusKind, error) {
	for i, name := range statusKindNames {
		if name == s {
			return StatusKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status kind %q", s)
}

// StatusEffect is one active modifier. Durations are in milliseconds.
type StatusEffect struct {
	Active    bool
	Duration  float64
	Strength  float64
	StartTime float64
}

// Resistances scales incoming effects per kind, each in [0, 1)
type Resistances [StatusKindCount]float64

// StatusSet holds at most one effect per kind
type StatusSet [StatusKindCount]StatusEffect

// Apply upserts the effect; reapplication refreshes instead of stacking
func (s *StatusSet) Apply(kind StatusKind, duration, strength, now float64) {
	if kind >= StatusKindCount || duration <= 0 {
		return
	}
	s[kind] = StatusEffect{Active: true, Duration: duration, Strength: strength, StartTime: now}
}

// Remove clears the effect and reports whether it was active
func (s *StatusSet) Remove(kind StatusKind) bool {
	if kind >= StatusKindCount || !s[kind].Active {
		return false
	}
	s[kind] = StatusEffect{}
	return true
}

// Get returns the effect of the given kind if it is active
func (s *StatusSet) Get(kind StatusKind) (StatusEffect, bool) {
	if kind >= StatusKindCount || !s[kind].Active {
		return StatusEffect{}, false
	}
	return s[kind], true
}

// Has reports whether an effect of the given kind is active
func (s *StatusSet) Has(kind StatusKind) bool {
	return kind < StatusKindCount && s[kind].Active
}

// Tick ages every active effect by dtMs and removes the ones that ran out,
// calling onExpire (if non-nil) for each removal.
func (s *StatusSet) Tick(dtMs float64, onExpire func(StatusKind)) {
	for k := range s {
		e := &s[k]
		if !e.Active {
			continue
		}
		e.Duration -= dtMs
		if e.Duration <= 0 {
			*e = StatusEffect{}
			if onExpire != nil {
				onExpire(StatusKind(k))
			}
		}
	}
}

// Clear removes every effect without firing hooks
func (s *StatusSet) Clear() {
	*s = StatusSet{}
}

// ActiveKinds appends the active kinds to dst in enum order
func (s *StatusSet) ActiveKinds(dst []StatusKind) []StatusKind {
	for k := range s {
		if s[k].Active {
			dst = append(dst, StatusKind(k))
		}
	}
	return dst
}

// SpeedMultiplier composes the movement modifiers.
// Freeze and stun pin the result to 0; slow and haste multiply.
func (s *StatusSet) SpeedMultiplier() float64 {
	if s[StatusFreeze].Active || s[StatusStun].Active {
		return 0
	}
	m := 1.0
	if e := s[StatusSlow]; e.Active {
		m *= max(0, 1-e.Strength)
	}
	if e := s[StatusHaste]; e.Active {
		m *= 1 + e.Strength
	}
	return m
}
