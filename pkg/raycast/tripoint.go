package raycast

import "github.com/taigrr/facecast/pkg/math3d"

// TriPoint is a ray/triangle intersection.
//
// Weights are the screen space barycentric weights of the hit point with
// respect to V[0], V[1] and V[2]; they sum to 1. InvDepth is the same
// weighted sum of the vertices' inverse depths, which is exact because
// inverse depth is affine in screen space.
type TriPoint struct {
	SurfIdx  int
	TriIdx   int
	V        [3]int
	UV       [3]int
	Weights  math3d.Vec3
	InvDepth float64
}

// triangleWeights returns the barycentric weights of p in the 2D triangle
// (a, b, c). ok is false when p is outside the triangle or the triangle has
// no area. A point exactly on an edge shared by two triangles is inside
// exactly one of them.
func triangleWeights(a, b, c, p math3d.Vec2) (w math3d.Vec3, ok bool) {
	area := b.Sub(a).Cross(c.Sub(a))
	if area == 0 {
		return w, false
	}
	e0 := b.Sub(p).Cross(c.Sub(p))
	e1 := c.Sub(p).Cross(a.Sub(p))
	e2 := a.Sub(p).Cross(b.Sub(p))
	if area < 0 {
		e0, e1, e2 = -e0, -e1, -e2
	}
	if !ownsEdge(e0, c.Sub(b), area) || !ownsEdge(e1, a.Sub(c), area) || !ownsEdge(e2, b.Sub(a), area) {
		return w, false
	}
	inv := 1 / (e0 + e1 + e2)
	return math3d.V3(e0*inv, e1*inv, e2*inv), true
}

// ownsEdge reports whether a point with edge function e lies on the inner
// side of the edge along dir. On the edge itself, ownership goes to the
// triangle that walks the edge with increasing v (or increasing u for
// horizontal edges), which is exactly one of any two neighbours.
func ownsEdge(e float64, dir math3d.Vec2, area float64) bool {
	if e != 0 {
		return e > 0
	}
	if area < 0 {
		dir = dir.Scale(-1)
	}
	return dir.Y > 0 || (dir.Y == 0 && dir.X > 0)
}
