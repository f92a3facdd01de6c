// Package pool provides an arena allocator that recycles instances instead of
// allocating them every spawn.
//
// Instances live in slots addressed by a Handle. A handle carries the slot's
// generation at acquisition time, so a handle kept after its instance was
// released no longer resolves, even when the slot has since been reused.
package pool

// Handle addresses one slot of a Pool. The zero Handle never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// Index returns the slot index (stable for the slot's lifetime, reused after release)
func (h Handle) Index() int {
	return int(h.index)
}

type slot[T any] struct {
	item   *T
	gen    uint32
	active bool
}

// Pool is a grow-on-demand arena with a free list.
// It is not safe for concurrent use; the simulation drives it from one goroutine.
type Pool[T any] struct {
	slots   []slot[T]
	free    []uint32
	factory func() *T
	reset   func(*T)
	active  int
}

// New creates a pool. factory builds a fresh instance when the free list is
// empty; reset (optional) returns a released instance to its spawn defaults.
func New[T any](factory func() *T, reset func(*T)) *Pool[T] {
	if factory == nil {
		factory = func() *T { return new(T) }
	}
	return &Pool[T]{
		slots:   make([]slot[T], 0, 16),
		free:    make([]uint32, 0, 16),
		factory: factory,
		reset:   reset,
	}
}

// Acquire returns a ready-to-use instance, reusing a free slot when one exists
func (p *Pool[T]) Acquire() (Handle, *T) {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = uint32(len(p.slots))
		p.slots = append(p.slots, slot[T]{item: p.factory()})
	}

	s := &p.slots[idx]
	s.gen++
	s.active = true
	p.active++
	return Handle{index: idx, gen: s.gen}, s.item
}

// Release resets the instance behind h and returns its slot to the free list.
// Releasing a stale or unknown handle is a no-op and reports false.
func (p *Pool[T]) Release(h Handle) bool {
	s, ok := p.slotFor(h)
	if !ok {
		return false
	}
	if p.reset != nil {
		p.reset(s.item)
	}
	s.active = false
	p.active--
	p.free = append(p.free, h.index)
	return true
}

// Get resolves h to its instance if h is still the active tenant of its slot
func (p *Pool[T]) Get(h Handle) (*T, bool) {
	s, ok := p.slotFor(h)
	if !ok {
		return nil, false
	}
	return s.item, true
}

// Valid reports whether h still resolves
func (p *Pool[T]) Valid(h Handle) bool {
	_, ok := p.slotFor(h)
	return ok
}

func (p *Pool[T]) slotFor(h Handle) (*slot[T], bool) {
	if h.gen == 0 || int(h.index) >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[h.index]
	if !s.active || s.gen != h.gen {
		return nil, false
	}
	return s, true
}

// Each calls fn for every active instance in slot order
func (p *Pool[T]) Each(fn func(Handle, *T)) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.active {
			fn(Handle{index: uint32(i), gen: s.gen}, s.item)
		}
	}
}

// Clear releases every active instance
func (p *Pool[T]) Clear() {
	for i := range p.slots {
		s := &p.slots[i]
		if s.active {
			p.Release(Handle{index: uint32(i), gen: s.gen})
		}
	}
}

// Active returns the number of acquired instances
func (p *Pool[T]) Active() int { return p.active }

// Free returns the number of instances waiting for reuse
func (p *Pool[T]) Free() int { return len(p.free) }

// Allocated returns the number of instances ever constructed by the factory
func (p *Pool[T]) Allocated() int { return len(p.slots) }
