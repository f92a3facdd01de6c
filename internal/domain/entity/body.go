package entity

import "github.com/younwookim/towerdefense/internal/domain/geom"

// Body is the shared spatial layout of every entity
type Body struct {
	ID       EntityID
	Pos      geom.Vec
	Vel      geom.Vec
	Size     geom.Vec // half extents
	Rotation float64
	Alive    bool
	Visible  bool
	Tags     Tags
}

// Bounds returns the world-space bounding box
func (b *Body) Bounds() geom.Rect {
	return geom.Rect{Min: b.Pos.Sub(b.Size), Max: b.Pos.Add(b.Size)}
}

// Overlaps reports whether two bodies' boxes intersect
func (b *Body) Overlaps(o *Body) bool {
	return geom.Overlaps(b.Pos, b.Size, o.Pos, o.Size)
}

// Radius approximates the body as a circle for proximity checks
func (b *Body) Radius() float64 {
	if b.Size.X > b.Size.Y {
		return b.Size.X
	}
	return b.Size.Y
}

// Destroy clears the alive flag. It reports whether the body was alive.
func (b *Body) Destroy() bool {
	was := b.Alive
	b.Alive = false
	return was
}

func (b *Body) resetBody() {
	*b = Body{}
}
