package raycast

import (
	"math"

	"github.com/taigrr/facecast/pkg/math3d"
)

// trisPerCell is the average number of triangles per grid cell the grid is
// sized for.
const trisPerCell = 4

// Grid is a uniform grid over the bounding box of a set of triangles. Each
// cell lists the triangles whose bounding box overlaps it.
type Grid struct {
	min, max   math3d.Vec2
	invCell    math3d.Vec2
	cols, rows int
	cells      [][]int
}

// NewGrid builds a grid over boxes. Cell lists keep the order of boxes, so
// boxes sorted by Tri give ascending query results.
func NewGrid(boxes []Box) *Grid {
	g := &Grid{}
	if len(boxes) == 0 {
		return g
	}

	g.min, g.max = boxes[0].Min, boxes[0].Max
	for _, b := range boxes[1:] {
		g.min = g.min.Min(b.Min)
		g.max = g.max.Max(b.Max)
	}

	size := g.max.Sub(g.min)
	ncells := float64(len(boxes)) / trisPerCell
	switch {
	case size.X <= 0 && size.Y <= 0:
		g.cols, g.rows = 1, 1
	case size.Y <= 0:
		g.cols, g.rows = max(1, int(math.Ceil(ncells))), 1
	case size.X <= 0:
		g.cols, g.rows = 1, max(1, int(math.Ceil(ncells)))
	default:
		// Square-ish cells: cols/rows follows the box aspect ratio.
		g.cols = max(1, int(math.Round(math.Sqrt(ncells*size.X/size.Y))))
		g.rows = max(1, int(math.Ceil(ncells/float64(g.cols))))
	}
	if size.X > 0 {
		g.invCell.X = float64(g.cols) / size.X
	}
	if size.Y > 0 {
		g.invCell.Y = float64(g.rows) / size.Y
	}

	g.cells = make([][]int, g.cols*g.rows)
	for _, b := range boxes {
		c0, r0 := g.cell(b.Min)
		c1, r1 := g.cell(b.Max)
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				i := r*g.cols + c
				g.cells[i] = append(g.cells[i], b.Tri)
			}
		}
	}
	return g
}

// cell returns the clamped cell coordinates containing p.
func (g *Grid) cell(p math3d.Vec2) (col, row int) {
	col = int((p.X - g.min.X) * g.invCell.X)
	row = int((p.Y - g.min.Y) * g.invCell.Y)
	col = min(max(col, 0), g.cols-1)
	row = min(max(row, 0), g.rows-1)
	return col, row
}

// Query implements TriIndex.
func (g *Grid) Query(p math3d.Vec2, dst []int) []int {
	if len(g.cells) == 0 ||
		p.X < g.min.X || p.X > g.max.X || p.Y < g.min.Y || p.Y > g.max.Y {
		return dst
	}
	col, row := g.cell(p)
	return append(dst, g.cells[row*g.cols+col]...)
}

// Size returns the number of columns and rows.
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}
