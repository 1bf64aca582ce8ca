package models

import "github.com/taigrr/facecast/pkg/math3d"

// SmoothNormals computes per-vertex normals for the given positions by
// accumulating unnormalized face normals (so larger faces weigh more) and
// normalizing the sums. Vertices not referenced by any face get a zero normal.
//
// verts must be one-to-one with m.Verts.
func SmoothNormals(m *Mesh, verts []math3d.Vec3) []math3d.Vec3 {
	norms := make([]math3d.Vec3, len(verts))
	for _, s := range m.Surfaces {
		for _, t := range s.Triangulated().Tris {
			v0, v1, v2 := verts[t.V[0]], verts[t.V[1]], verts[t.V[2]]
			n := v1.Sub(v0).Cross(v2.Sub(v0))
			for _, vi := range t.V {
				norms[vi] = norms[vi].Add(n)
			}
		}
	}
	for i := range norms {
		norms[i] = norms[i].Normalize()
	}
	return norms
}

// FlatNormals returns one normal per vertex taken from the last face that
// references it. Only useful for meshes whose faces do not share vertices.
func FlatNormals(m *Mesh, verts []math3d.Vec3) []math3d.Vec3 {
	norms := make([]math3d.Vec3, len(verts))
	for _, s := range m.Surfaces {
		for _, t := range s.Triangulated().Tris {
			v0, v1, v2 := verts[t.V[0]], verts[t.V[1]], verts[t.V[2]]
			n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
			for _, vi := range t.V {
				norms[vi] = n
			}
		}
	}
	return norms
}
