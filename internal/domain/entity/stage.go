package entity

import (
	"math"

	"github.com/younwookim/towerdefense/internal/domain/geom"
)

// CellType defines what a grid cell allows
type CellType uint8

const (
	CellBuildable CellType = iota
	CellBlocked
	CellPath
)

// Stage is the grid map enemies cross and towers are built on
type Stage struct {
	Name     string
	Cols     int
	Rows     int
	CellSize float64
	Cells    [][]CellType // [row][col]
	Path     []geom.Vec   // world-space waypoints
}

// Width returns the world width
func (s *Stage) Width() float64 { return float64(s.Cols) * s.CellSize }

// Height returns the world height
func (s *Stage) Height() float64 { return float64(s.Rows) * s.CellSize }

// Bounds returns the world rectangle covered by the grid
func (s *Stage) Bounds() geom.Rect {
	return geom.Rect{Max: geom.V(s.Width(), s.Height())}
}

// Cell returns the cell type at col,row. Out of bounds is blocked.
func (s *Stage) Cell(col, row int) CellType {
	if !s.InGrid(col, row) {
		return CellBlocked
	}
	return s.Cells[row][col]
}

// InGrid reports whether col,row is a cell of the map
func (s *Stage) InGrid(col, row int) bool {
	return row >= 0 && row < s.Rows && col >= 0 && col < s.Cols && col < len(s.Cells[row])
}

// CellAt converts a world position to grid coordinates
func (s *Stage) CellAt(p geom.Vec) (col, row int) {
	return int(math.Floor(p.X / s.CellSize)), int(math.Floor(p.Y / s.CellSize))
}

// CellCenter returns the world position of a cell's center
func (s *Stage) CellCenter(col, row int) geom.Vec {
	return geom.V((float64(col)+0.5)*s.CellSize, (float64(row)+0.5)*s.CellSize)
}

// DistanceToPath returns the distance from p to the nearest path segment
func (s *Stage) DistanceToPath(p geom.Vec) float64 {
	switch len(s.Path) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist(s.Path[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(s.Path); i++ {
		best = min(best, geom.SegmentDist(p, s.Path[i-1], s.Path[i]))
	}
	return best
}

// PathLength returns the total length of the path polyline
func (s *Stage) PathLength() float64 {
	total := 0.0
	for i := 1; i < len(s.Path); i++ {
		total += s.Path[i-1].Dist(s.Path[i])
	}
	return total
}
