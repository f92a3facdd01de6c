package pool

import "testing"

const benchN = 1_000

type particle struct {
	X, Y, VX, VY float64
	Health       int
}

func resetParticle(p *particle) { *p = particle{} }

// Spawn/despawn churn: every live instance is released and reacquired
func BenchmarkChurn_Pool(b *testing.B) {
	p := New(func() *particle { return &particle{} }, resetParticle)
	handles := make([]Handle, benchN)
	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		for i := range handles {
			h, it := p.Acquire()
			it.Health = 100
			handles[i] = h
		}
		for _, h := range handles {
			p.Release(h)
		}
	}
}

func BenchmarkChurn_Alloc(b *testing.B) {
	live := make([]*particle, benchN)
	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		for i := range live {
			live[i] = &particle{Health: 100}
		}
		clear(live)
	}
}

// Per-tick integration over every live instance
func BenchmarkIterate_Each(b *testing.B) {
	p := New(func() *particle { return &particle{} }, resetParticle)
	for range benchN {
		_, it := p.Acquire()
		it.VX, it.VY = 1, 1
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		p.Each(func(_ Handle, it *particle) {
			it.X += it.VX
			it.Y += it.VY
		})
	}
}

func BenchmarkIterate_Slice(b *testing.B) {
	live := make([]particle, benchN)
	for i := range live {
		live[i].VX, live[i].VY = 1, 1
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range live {
			live[i].X += live[i].VX
			live[i].Y += live[i].VY
		}
	}
}
