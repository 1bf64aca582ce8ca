package models

// Tri is a triangle: vertex indices plus per-corner UV indices.
type Tri struct {
	V  [3]int // Indices into the vertex position and normal buffers
	UV [3]int // Indices into Mesh.UVs, ignored when the mesh has no UVs
}

// Quad is a four-sided face, split into two triangles before casting.
type Quad struct {
	V  [4]int
	UV [4]int
}

// Surface is one independently indexed group of faces of a mesh.
type Surface struct {
	Name  string
	Tris  []Tri
	Quads []Quad
}

// TriangleCount returns the number of triangles after quad conversion.
func (s Surface) TriangleCount() int {
	return len(s.Tris) + 2*len(s.Quads)
}

// Triangulated returns a copy of s with every quad (0,1,2,3) replaced by
// the triangles (0,1,2) and (0,2,3), appended after the existing tris.
func (s Surface) Triangulated() Surface {
	tris := make([]Tri, 0, s.TriangleCount())
	tris = append(tris, s.Tris...)
	for _, q := range s.Quads {
		tris = append(tris,
			Tri{
				V:  [3]int{q.V[0], q.V[1], q.V[2]},
				UV: [3]int{q.UV[0], q.UV[1], q.UV[2]},
			},
			Tri{
				V:  [3]int{q.V[0], q.V[2], q.V[3]},
				UV: [3]int{q.UV[0], q.UV[2], q.UV[3]},
			},
		)
	}
	return Surface{Name: s.Name, Tris: tris}
}

// TriSurface builds a surface whose UV indices equal its vertex indices,
// the layout produced by GLTF primitives.
func TriSurface(name string, faces [][3]int) Surface {
	s := Surface{Name: name, Tris: make([]Tri, len(faces))}
	for i, f := range faces {
		s.Tris[i] = Tri{V: f, UV: f}
	}
	return s
}
