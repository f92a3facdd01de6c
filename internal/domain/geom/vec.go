// Package geom provides the 2D point math shared by every simulation entity.
package geom

import "math"

// Vec is a 2D point or direction in world units (pixels)
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{X: x, Y: y}
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Len returns the length of v
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// LenSq returns the squared length of v
func (v Vec) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector of v, or the zero vector when v has no length
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Dist returns the distance between v and o
func (v Vec) Dist(o Vec) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// DistSq returns the squared distance between v and o
func (v Vec) DistSq(o Vec) float64 {
	dx := o.X - v.X
	dy := o.Y - v.Y
	return dx*dx + dy*dy
}

// Angle returns the direction of v in radians (0 = east, +Y is down on screen)
func (v Vec) Angle() float64 { return math.Atan2(v.Y, v.X) }

// AngleTo returns the direction from v toward o in radians
func (v Vec) AngleTo(o Vec) float64 { return o.Sub(v).Angle() }

// Lerp interpolates between a and b by t (unclamped)
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec interpolates between a and b by t (unclamped)
func LerpVec(a, b Vec, t float64) Vec {
	return Vec{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t)}
}

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampInt limits x to [lo, hi]
func ClampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SegmentDist returns the distance from p to the segment a-b
func SegmentDist(p, a, b Vec) float64 {
	ab := b.Sub(a)
	l2 := ab.LenSq()
	if l2 == 0 {
		return p.Dist(a)
	}
	t := Clamp(((p.X-a.X)*ab.X+(p.Y-a.Y)*ab.Y)/l2, 0, 1)
	return p.Dist(a.Add(ab.Scale(t)))
}

// Segment is a line between two points (chain lightning arcs, debug lines)
type Segment struct {
	From, To Vec
}

// Rect is an axis-aligned rectangle
type Rect struct {
	Min, Max Vec
}

// Contains reports whether p lies inside r (edges inclusive)
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand grows r by margin on every side
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Min: Vec{r.Min.X - margin, r.Min.Y - margin},
		Max: Vec{r.Max.X + margin, r.Max.Y + margin},
	}
}

// Overlaps reports whether two boxes centered at a and b with half extents ha and hb intersect
func Overlaps(a, ha, b, hb Vec) bool {
	return math.Abs(a.X-b.X) < ha.X+hb.X && math.Abs(a.Y-b.Y) < ha.Y+hb.Y
}
