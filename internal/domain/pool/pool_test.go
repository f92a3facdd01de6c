package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Value int
	Tags  []string
}

func newTestPool() (*Pool[item], *int, *int) {
	created := 0
	resets := 0
	p := New(func() *item {
		created++
		return &item{}
	}, func(it *item) {
		resets++
		it.Value = 0
		it.Tags = it.Tags[:0]
	})
	return p, &created, &resets
}

func TestPool_GrowsOnDemand(t *testing.T) {
	p, created, _ := newTestPool()

	h1, a := p.Acquire()
	h2, b := p.Acquire()

	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a, b)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, *created)
	assert.Equal(t, 2, p.Active())
	assert.Equal(t, 0, p.Free())
}

func TestPool_ReleaseResetsAndReuses(t *testing.T) {
	p, created, resets := newTestPool()

	h, it := p.Acquire()
	it.Value = 42
	it.Tags = append(it.Tags, "enemy")

	require.True(t, p.Release(h))
	assert.Equal(t, 1, *resets)
	assert.Equal(t, 0, p.Active())
	assert.Equal(t, 1, p.Free())

	h2, reused := p.Acquire()
	assert.Same(t, it, reused, "free instance is reused")
	assert.Equal(t, 1, *created, "no construction while the free list is non-empty")
	assert.Equal(t, 0, reused.Value)
	assert.Empty(t, reused.Tags)
	assert.Equal(t, h.Index(), h2.Index())
	assert.NotEqual(t, h, h2, "generation changes on reuse")
}

func TestPool_StaleHandle(t *testing.T) {
	p, _, resets := newTestPool()

	h, _ := p.Acquire()
	require.True(t, p.Release(h))

	_, ok := p.Get(h)
	assert.False(t, ok, "released handle must not resolve")

	h2, _ := p.Acquire()
	_, ok = p.Get(h)
	assert.False(t, ok, "stale handle must not resolve to the slot's new tenant")
	assert.True(t, p.Valid(h2))

	// double release is a no-op and leaves bookkeeping intact
	assert.False(t, p.Release(h))
	assert.Equal(t, 1, *resets)
	assert.Equal(t, 1, p.Active())
	assert.Equal(t, 0, p.Free())
}

func TestPool_ZeroAndUnknownHandles(t *testing.T) {
	p, _, _ := newTestPool()

	assert.True(t, Handle{}.IsZero())
	assert.False(t, p.Release(Handle{}))
	assert.False(t, p.Release(Handle{index: 99, gen: 1}))
	_, ok := p.Get(Handle{index: 99, gen: 1})
	assert.False(t, ok)
	assert.Equal(t, 0, p.Active())
	assert.Equal(t, 0, p.Free())
}

func TestPool_EachAndClear(t *testing.T) {
	p, _, resets := newTestPool()

	for i := 0; i < 4; i++ {
		_, it := p.Acquire()
		it.Value = i + 1
	}
	h, _ := p.Acquire()
	p.Release(h)

	sum := 0
	p.Each(func(_ Handle, it *item) { sum += it.Value })
	assert.Equal(t, 10, sum)

	p.Clear()
	assert.Equal(t, 0, p.Active())
	assert.Equal(t, 5, p.Free())
	assert.Equal(t, 5, *resets)
	assert.Equal(t, 5, p.Allocated())
}

func TestPool_NilFactory(t *testing.T) {
	p := New[item](nil, nil)
	h, it := p.Acquire()
	require.NotNil(t, it)
	assert.True(t, p.Release(h))
}
