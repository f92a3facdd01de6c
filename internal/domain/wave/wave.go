// Package wave schedules enemy spawns for one wave and derives the wave list.
package wave

import "github.com/younwookim/towerdefense/internal/domain/entity"

// Group spawns Count enemies of one kind, Interval ms apart
type Group struct {
	Enemy    entity.EnemyKind
	Count    int
	Interval float64 // ms
}

// Wave is the runtime spawn state of one wave
type Wave struct {
	Number      int
	Groups      []Group
	Preparation float64 // ms countdown before spawning starts

	group     int
	remaining int
	timer     float64
	spawned   int
	total     int
}

// New creates a wave. Groups with no enemies are skipped.
func New(number int, groups []Group, preparation float64) *Wave {
	w := &Wave{
		Number:      number,
		Groups:      groups,
		Preparation: preparation,
	}
	for _, g := range groups {
		if g.Count > 0 {
			w.total += g.Count
		}
	}
	w.group = -1
	w.nextGroup()
	return w
}

func (w *Wave) nextGroup() {
	w.group++
	for w.group < len(w.Groups) && w.Groups[w.group].Count <= 0 {
		w.group++
	}
	if w.group < len(w.Groups) {
		w.remaining = w.Groups[w.group].Count
	} else {
		w.remaining = 0
	}
}

// Total returns the number of enemies the wave spawns
func (w *Wave) Total() int { return w.total }

// Spawned returns how many enemies were spawned so far
func (w *Wave) Spawned() int { return w.spawned }

// FullySpawned reports whether every group has been spawned.
// A wave with no enemies is fully spawned from the start.
func (w *Wave) FullySpawned() bool { return w.spawned >= w.total }

// Update accumulates dtMs and spawns at most one enemy once the current
// group's interval has elapsed. spawn is called with the kind to create.
// It returns true when an enemy was spawned this call.
func (w *Wave) Update(dtMs float64, spawn func(entity.EnemyKind)) bool {
	if w.FullySpawned() || w.group >= len(w.Groups) {
		return false
	}
	g := w.Groups[w.group]
	w.timer += dtMs
	if w.timer < g.Interval {
		return false
	}

	w.timer = 0
	spawn(g.Enemy)
	w.spawned++
	w.remaining--
	if w.remaining <= 0 {
		w.nextGroup()
	}
	return true
}

// CurrentGroup returns the index of the group being spawned
func (w *Wave) CurrentGroup() int { return w.group }
