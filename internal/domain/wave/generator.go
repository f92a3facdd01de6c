package wave

import "math"

// Template is a configured wave
type Template struct {
	Groups      []Group
	Preparation float64 // ms
}

// Growth shapes waves generated past the configured list
type Growth struct {
	CountGrowth   float64 // extra count fraction per cycle
	IntervalDecay float64 // interval multiplier per cycle
	MinInterval   float64 // ms
	Window        int     // how many trailing templates repeat
}

// DefaultGrowth returns the growth used when none is configured
func DefaultGrowth() Growth {
	return Growth{CountGrowth: 0.5, IntervalDecay: 0.9, MinInterval: 200, Window: 5}
}

// Generator produces waves by number (1-based)
type Generator struct {
	templates []Template
	total     int
	growth    Growth
}

// NewGenerator creates a generator for total waves. When total exceeds the
// configured templates, the trailing window repeats with more and faster enemies.
func NewGenerator(templates []Template, total int, growth Growth) *Generator {
	if total <= 0 {
		total = len(templates)
	}
	if growth.Window <= 0 {
		growth.Window = DefaultGrowth().Window
	}
	if growth.IntervalDecay <= 0 {
		growth.IntervalDecay = 1
	}
	return &Generator{templates: templates, total: total, growth: growth}
}

// Total returns the number of waves in a game
func (g *Generator) Total() int { return g.total }

// Wave builds wave n. Numbers outside 1..Total and an empty template list
// yield an empty wave.
func (g *Generator) Wave(n int) *Wave {
	if n < 1 || n > g.total || len(g.templates) == 0 {
		return New(n, nil, 0)
	}
	if n <= len(g.templates) {
		t := g.templates[n-1]
		return New(n, append([]Group(nil), t.Groups...), t.Preparation)
	}

	window := min(g.growth.Window, len(g.templates))
	extra := n - len(g.templates) - 1
	base := g.templates[len(g.templates)-window+extra%window]
	cycle := extra/window + 1

	countScale := 1 + g.growth.CountGrowth*float64(cycle)
	intervalScale := math.Pow(g.growth.IntervalDecay, float64(cycle))

	groups := make([]Group, len(base.Groups))
	for i, grp := range base.Groups {
		groups[i] = Group{
			Enemy:    grp.Enemy,
			Count:    int(math.Ceil(float64(grp.Count) * countScale)),
			Interval: math.Max(g.growth.MinInterval, grp.Interval*intervalScale),
		}
	}
	return New(n, groups, base.Preparation)
}
