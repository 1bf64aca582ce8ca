package raycast

import (
	"fmt"

	"github.com/taigrr/facecast/pkg/math3d"
)

// TriIndex answers point queries over a fixed set of 2D triangle bounding
// boxes. Implementations are immutable after construction and safe for
// concurrent queries.
type TriIndex interface {
	// Query appends to dst the indices of every triangle whose bounding box
	// may contain p, in ascending order, and returns the extended slice.
	Query(p math3d.Vec2, dst []int) []int
}

// Box is the image unit square bounding box of one triangle.
type Box struct {
	Tri      int
	Min, Max math3d.Vec2
}

// TriBox returns the bounding box of triangle tri with corners a, b and c.
func TriBox(tri int, a, b, c math3d.Vec2) Box {
	return Box{
		Tri: tri,
		Min: a.Min(b).Min(c),
		Max: a.Max(b).Max(c),
	}
}

// IndexKind selects the spatial index built for each surface.
type IndexKind int

const (
	IndexGrid  IndexKind = iota // Uniform grid
	IndexRTree                  // R-tree
)

func (k IndexKind) String() string {
	switch k {
	case IndexGrid:
		return "grid"
	case IndexRTree:
		return "rtree"
	default:
		return fmt.Sprintf("IndexKind(%d)", int(k))
	}
}

// ParseIndexKind parses the names printed by IndexKind.String.
func ParseIndexKind(s string) (IndexKind, error) {
	switch s {
	case "grid":
		return IndexGrid, nil
	case "rtree":
		return IndexRTree, nil
	default:
		return 0, fmt.Errorf("unknown index kind %q (want grid or rtree)", s)
	}
}

// buildIndex builds an index of the given kind. boxes must be sorted by Tri.
func buildIndex(kind IndexKind, boxes []Box) (TriIndex, error) {
	switch kind {
	case IndexGrid:
		return NewGrid(boxes), nil
	case IndexRTree:
		return NewRTree(boxes)
	default:
		return nil, fmt.Errorf("unknown index kind %v", kind)
	}
}
