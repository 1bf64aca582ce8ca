// Package models provides the mesh, surface and material types consumed by
// the facecast ray caster, plus GLTF/GLB loading.
package models

import (
	"errors"
	"fmt"
	"image"

	"github.com/taigrr/facecast/pkg/math3d"
)

var (
	// ErrVertexIndex is returned when a face references a vertex outside
	// the supplied position buffer.
	ErrVertexIndex = errors.New("vertex index out of range")
	// ErrUVIndex is returned when a face references a UV outside Mesh.UVs.
	ErrUVIndex = errors.New("uv index out of range")
)

// Mesh holds a mesh's topology, texture coordinates and material.
//
// Verts are the base (rest pose) positions. The ray caster never reads them:
// it is given the current positions and normals separately, one-to-one with
// Verts.
type Mesh struct {
	Name     string
	Verts    []math3d.Vec3
	Norms    []math3d.Vec3 // Base normals, one-to-one with Verts
	UVs      []math3d.Vec2 // Empty for untextured meshes
	Surfaces []Surface
	Material Material
}

// Material describes how a mesh's surface is shaded.
type Material struct {
	Name       string
	BaseColor  [4]float64  // RGBA in 0-1 range
	Metallic   float64     // 0 = dielectric, 1 = metal
	Roughness  float64     // 0 = smooth, 1 = rough
	BaseMap    image.Image // Optional base color texture
	HasTexture bool
}

// DefaultMaterial returns an opaque light grey material.
func DefaultMaterial() Material {
	return Material{
		Name:      "default",
		BaseColor: [4]float64{0.8, 0.8, 0.8, 1},
		Roughness: 1,
	}
}

// NewMesh creates an empty mesh with the default material.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Material: DefaultMaterial(),
	}
}

// HasUVs reports whether the mesh carries texture coordinates.
func (m *Mesh) HasUVs() bool {
	return len(m.UVs) > 0
}

// TriangleCount returns the number of triangles after quad conversion.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, s := range m.Surfaces {
		n += s.TriangleCount()
	}
	return n
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Verts)
}

// Validate checks every face of every surface against a position buffer of
// numVerts entries and against m.UVs.
func (m *Mesh) Validate(numVerts int) error {
	for si, s := range m.Surfaces {
		for ti, t := range s.Tris {
			if err := m.checkFace(t.V[:], t.UV[:], numVerts); err != nil {
				return fmt.Errorf("surface %d tri %d: %w", si, ti, err)
			}
		}
		for qi, q := range s.Quads {
			if err := m.checkFace(q.V[:], q.UV[:], numVerts); err != nil {
				return fmt.Errorf("surface %d quad %d: %w", si, qi, err)
			}
		}
	}
	return nil
}

func (m *Mesh) checkFace(verts, uvs []int, numVerts int) error {
	for _, v := range verts {
		if v < 0 || v >= numVerts {
			return fmt.Errorf("%w: %d (have %d)", ErrVertexIndex, v, numVerts)
		}
	}
	if !m.HasUVs() {
		return nil
	}
	for _, uv := range uvs {
		if uv < 0 || uv >= len(m.UVs) {
			return fmt.Errorf("%w: %d (have %d)", ErrUVIndex, uv, len(m.UVs))
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of verts.
func Bounds(verts []math3d.Vec3) (lo, hi math3d.Vec3) {
	if len(verts) == 0 {
		return
	}
	lo, hi = verts[0], verts[0]
	for _, v := range verts[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}

// TransformVerts returns a new slice with every position transformed by mat.
func TransformVerts(verts []math3d.Vec3, mat math3d.Mat4) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(verts))
	for i, v := range verts {
		out[i] = mat.MulVec3(v)
	}
	return out
}

// TransformNormals returns a new slice with every normal rotated by mat and
// renormalized. Only the upper 3x3 of mat is used, so non-uniform scales
// are not corrected for.
func TransformNormals(norms []math3d.Vec3, mat math3d.Mat4) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(norms))
	for i, n := range norms {
		out[i] = mat.MulVec3Dir(n).Normalize()
	}
	return out
}
