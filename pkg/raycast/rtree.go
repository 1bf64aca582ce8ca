package raycast

import (
	"fmt"
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/taigrr/facecast/pkg/math3d"
)

const (
	rtreeMinChildren = 2
	rtreeMaxChildren = 8

	// boundEpsilon keeps rectangles of axis-aligned triangles from having
	// zero length, which rtreego rejects.
	boundEpsilon = 1e-12
	// queryTol is the half-size of the rectangle used for point queries.
	queryTol = 1e-12
)

// RTree is a TriIndex backed by an R-tree of triangle bounding boxes.
type RTree struct {
	tree *rtreego.Rtree
}

type rtreeEntry struct {
	tri  int
	rect rtreego.Rect
}

func (e *rtreeEntry) Bounds() rtreego.Rect { return e.rect }

// NewRTree bulk loads an R-tree over boxes.
func NewRTree(boxes []Box) (*RTree, error) {
	objs := make([]rtreego.Spatial, 0, len(boxes))
	for _, b := range boxes {
		rect, err := rtreego.NewRect(
			rtreego.Point{b.Min.X, b.Min.Y},
			[]float64{
				math.Max(b.Max.X-b.Min.X, boundEpsilon),
				math.Max(b.Max.Y-b.Min.Y, boundEpsilon),
			},
		)
		if err != nil {
			return nil, fmt.Errorf("triangle %d bounds: %w", b.Tri, err)
		}
		objs = append(objs, &rtreeEntry{tri: b.Tri, rect: rect})
	}
	return &RTree{tree: rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, objs...)}, nil
}

// Query implements TriIndex. Results are sorted so callers see the same
// candidate order as with a Grid.
func (t *RTree) Query(p math3d.Vec2, dst []int) []int {
	start := len(dst)
	for _, s := range t.tree.SearchIntersect(rtreego.Point{p.X, p.Y}.ToRect(queryTol)) {
		dst = append(dst, s.(*rtreeEntry).tri)
	}
	slices.Sort(dst[start:])
	return dst
}

// Size returns the number of indexed triangles.
func (t *RTree) Size() int {
	return t.tree.Size()
}
