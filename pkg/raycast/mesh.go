// Package raycast renders triangle meshes by casting one ray per image
// position. Each Mesh indexes its triangles in image space once, so a cast
// is an index lookup plus a handful of 2D point-in-triangle tests. A Caster
// merges the hits of several meshes and composites them front to back.
package raycast

import (
	"errors"
	"fmt"

	"github.com/taigrr/facecast/pkg/math3d"
	"github.com/taigrr/facecast/pkg/models"
	"github.com/taigrr/facecast/pkg/render"
)

var (
	// ErrNilMesh is returned when a nil *models.Mesh is supplied.
	ErrNilMesh = errors.New("nil mesh")
	// ErrNormalCount is returned when the normal buffer is not one-to-one
	// with the position buffer.
	ErrNormalCount = errors.New("normal count does not match vertex count")
)

// Mesh casts rays against one mesh.
//
// It keeps references to the mesh and to the position and normal buffers it
// was built from; they must not be modified while the Mesh is in use. The
// image space index reflects the positions at construction time, so moving
// vertices requires a new Mesh.
type Mesh struct {
	mesh  *models.Mesh
	verts []math3d.Vec3
	norms []math3d.Vec3

	surfaces []models.Surface // Triangulated
	indices  []TriIndex       // One per surface
	indexed  int

	invDepth []float64
	iucs     []math3d.Vec2

	itcsToIucs math3d.AffineEw2
	min, max   math3d.Vec2 // Bounds of the indexed triangles

	texture *render.Texture
	shader  render.ShadeFunc
}

// NewMesh builds the ray-cast unit for mesh given its current eye space
// positions and normals, one-to-one with mesh.Verts. itcsToIucs maps image
// tangent coordinates (x/depth, y/depth) to the image unit square.
//
// Triangles with a vertex on or behind the camera plane, and triangles with
// no projected area, are not indexed and can never be hit.
func NewMesh(mesh *models.Mesh, verts, norms []math3d.Vec3, itcsToIucs math3d.AffineEw2, opts ...Option) (*Mesh, error) {
	return newMesh(mesh, verts, norms, itcsToIucs, buildOptions(opts))
}

func newMesh(mesh *models.Mesh, verts, norms []math3d.Vec3, itcsToIucs math3d.AffineEw2, o options) (*Mesh, error) {
	if mesh == nil {
		return nil, ErrNilMesh
	}
	if len(norms) != len(verts) {
		return nil, fmt.Errorf("%w: %d normals, %d vertices", ErrNormalCount, len(norms), len(verts))
	}
	if err := mesh.Validate(len(verts)); err != nil {
		return nil, err
	}

	m := &Mesh{
		mesh:       mesh,
		verts:      verts,
		norms:      norms,
		surfaces:   make([]models.Surface, len(mesh.Surfaces)),
		indices:    make([]TriIndex, len(mesh.Surfaces)),
		invDepth:   make([]float64, len(verts)),
		iucs:       make([]math3d.Vec2, len(verts)),
		itcsToIucs: itcsToIucs,
		shader:     o.shader,
	}

	for i, v := range verts {
		if p, inv, ok := render.Project(itcsToIucs, v); ok {
			m.iucs[i] = p
			m.invDepth[i] = inv
		}
	}

	first := true
	var boxes []Box
	for si, s := range mesh.Surfaces {
		m.surfaces[si] = s.Triangulated()
		boxes = boxes[:0]
		for ti, t := range m.surfaces[si].Tris {
			if !m.indexable(t) {
				continue
			}
			b := TriBox(ti, m.iucs[t.V[0]], m.iucs[t.V[1]], m.iucs[t.V[2]])
			if first {
				m.min, m.max = b.Min, b.Max
				first = false
			} else {
				m.min = m.min.Min(b.Min)
				m.max = m.max.Max(b.Max)
			}
			boxes = append(boxes, b)
		}
		idx, err := buildIndex(o.index, boxes)
		if err != nil {
			return nil, fmt.Errorf("surface %d: %w", si, err)
		}
		m.indices[si] = idx
		m.indexed += len(boxes)
	}

	if mat := mesh.Material; mat.BaseMap != nil {
		if o.textures != nil {
			m.texture = o.textures.Texture(mat.BaseMap, o.filter)
		} else {
			m.texture = newTexture(mat.BaseMap, o.filter)
		}
	}
	return m, nil
}

func (m *Mesh) indexable(t models.Tri) bool {
	for _, v := range t.V {
		if m.invDepth[v] <= 0 {
			return false
		}
	}
	a, b, c := m.iucs[t.V[0]], m.iucs[t.V[1]], m.iucs[t.V[2]]
	return b.Sub(a).Cross(c.Sub(a)) != 0
}

// Cast returns the MaxHits nearest triangles under posIucs. Hits at equal
// depth are ordered by surface index, then triangle index. A point exactly on
// a triangle edge hits only if the triangle owns that edge (top-left rule),
// so points on an unowned outer edge or on a vertex of a lone triangle are
// not hits.
func (m *Mesh) Cast(posIucs math3d.Vec2) BestN {
	var best BestN
	if m.indexed == 0 ||
		posIucs.X < m.min.X || posIucs.X > m.max.X ||
		posIucs.Y < m.min.Y || posIucs.Y > m.max.Y {
		return best
	}

	var buf [64]int
	for si, idx := range m.indices {
		tris := m.surfaces[si].Tris
		for _, ti := range idx.Query(posIucs, buf[:0]) {
			if tp, ok := m.intersect(si, ti, tris[ti], posIucs); ok {
				best.Insert(tp.InvDepth, tp)
			}
		}
	}
	return best
}

func (m *Mesh) intersect(si, ti int, t models.Tri, p math3d.Vec2) (TriPoint, bool) {
	w, ok := triangleWeights(m.iucs[t.V[0]], m.iucs[t.V[1]], m.iucs[t.V[2]], p)
	if !ok {
		return TriPoint{}, false
	}
	return TriPoint{
		SurfIdx: si,
		TriIdx:  ti,
		V:       t.V,
		UV:      t.UV,
		Weights: w,
		InvDepth: w.X*m.invDepth[t.V[0]] +
			w.Y*m.invDepth[t.V[1]] +
			w.Z*m.invDepth[t.V[2]],
	}, true
}

// perspective converts screen space weights to weights that interpolate
// eye space attributes correctly.
func (m *Mesh) perspective(tp TriPoint) math3d.Vec3 {
	w := math3d.V3(
		tp.Weights.X*m.invDepth[tp.V[0]],
		tp.Weights.Y*m.invDepth[tp.V[1]],
		tp.Weights.Z*m.invDepth[tp.V[2]],
	)
	sum := w.X + w.Y + w.Z
	if sum == 0 {
		return tp.Weights
	}
	return w.Scale(1 / sum)
}

// Normal returns the interpolated, unnormalized vertex normal at tp.
func (m *Mesh) Normal(tp TriPoint) math3d.Vec3 {
	return math3d.Barycentric(m.norms[tp.V[0]], m.norms[tp.V[1]], m.norms[tp.V[2]], m.perspective(tp))
}

// UV returns the interpolated texture coordinate at tp, or zero for meshes
// without UVs.
func (m *Mesh) UV(tp TriPoint) math3d.Vec2 {
	uvs := m.mesh.UVs
	if len(uvs) == 0 {
		return math3d.Vec2{}
	}
	w := m.perspective(tp)
	a, b, c := uvs[tp.UV[0]], uvs[tp.UV[1]], uvs[tp.UV[2]]
	return a.Scale(w.X).Add(b.Scale(w.Y)).Add(c.Scale(w.Z))
}

// EyePos returns the eye space position of tp.
func (m *Mesh) EyePos(tp TriPoint) math3d.Vec3 {
	return math3d.Barycentric(m.verts[tp.V[0]], m.verts[tp.V[1]], m.verts[tp.V[2]], m.perspective(tp))
}

// Shade returns the straight-alpha color at tp under lighting.
func (m *Mesh) Shade(tp TriPoint, lighting *render.Lighting) render.RGBAF {
	return m.shader(render.ShadeInput{
		Pos:      m.EyePos(tp),
		Normal:   m.Normal(tp),
		UV:       m.UV(tp),
		Material: m.mesh.Material,
		Texture:  m.texture,
	}, lighting)
}

// Bounds returns the image unit square bounding box of the indexed
// triangles. ok is false when nothing is indexed.
func (m *Mesh) Bounds() (lo, hi math3d.Vec2, ok bool) {
	return m.min, m.max, m.indexed > 0
}

// Indexed returns the number of triangles that can be hit.
func (m *Mesh) Indexed() int { return m.indexed }

// Model returns the mesh the unit was built from.
func (m *Mesh) Model() *models.Mesh { return m.mesh }
