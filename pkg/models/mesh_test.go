package models

import (
	"errors"
	"testing"

	"github.com/taigrr/facecast/pkg/math3d"
)

func quadMesh() *Mesh {
	m := NewMesh("quad")
	m.Verts = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(1, 1, 0),
		math3d.V3(0, 1, 0),
	}
	m.Surfaces = []Surface{{
		Name:  "face",
		Quads: []Quad{{V: [4]int{0, 1, 2, 3}, UV: [4]int{0, 1, 2, 3}}},
	}}
	return m
}

func TestTriangulated(t *testing.T) {
	s := Surface{
		Tris:  []Tri{{V: [3]int{4, 5, 6}}},
		Quads: []Quad{{V: [4]int{0, 1, 2, 3}, UV: [4]int{10, 11, 12, 13}}},
	}

	got := s.Triangulated()
	if len(got.Quads) != 0 {
		t.Errorf("Triangulated kept %d quads", len(got.Quads))
	}
	want := []Tri{
		{V: [3]int{4, 5, 6}},
		{V: [3]int{0, 1, 2}, UV: [3]int{10, 11, 12}},
		{V: [3]int{0, 2, 3}, UV: [3]int{10, 12, 13}},
	}
	if len(got.Tris) != len(want) {
		t.Fatalf("got %d tris, want %d", len(got.Tris), len(want))
	}
	for i := range want {
		if got.Tris[i] != want[i] {
			t.Errorf("tri %d = %+v, want %+v", i, got.Tris[i], want[i])
		}
	}
	if s.TriangleCount() != 3 {
		t.Errorf("TriangleCount = %d, want 3", s.TriangleCount())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(m *Mesh)
		numVerts int
		want     error
	}{
		{"valid", func(*Mesh) {}, 4, nil},
		{"short vertex buffer", func(*Mesh) {}, 3, ErrVertexIndex},
		{"negative index", func(m *Mesh) {
			m.Surfaces[0].Tris = []Tri{{V: [3]int{-1, 0, 1}}}
		}, 4, ErrVertexIndex},
		{"uv out of range", func(m *Mesh) {
			m.UVs = []math3d.Vec2{{}, {}, {}}
		}, 4, ErrUVIndex},
		{"uvs ignored when absent", func(m *Mesh) {
			m.Surfaces[0].Quads[0].UV = [4]int{99, 99, 99, 99}
		}, 4, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := quadMesh()
			tc.mutate(m)
			err := m.Validate(tc.numVerts)
			if tc.want == nil {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Validate = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSmoothNormals(t *testing.T) {
	m := quadMesh()
	norms := SmoothNormals(m, m.Verts)
	for i, n := range norms {
		if n != math3d.V3(0, 0, 1) {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
}

func TestSmoothNormalsAveragesAcrossFold(t *testing.T) {
	// Two triangles sharing edge 0-1, folded 90 degrees.
	m := NewMesh("fold")
	m.Verts = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(0, 1, 0),
		math3d.V3(0, 0, -1),
	}
	m.Surfaces = []Surface{TriSurface("fold", [][3]int{{0, 1, 2}, {0, 1, 3}})}

	norms := SmoothNormals(m, m.Verts)
	want := math3d.V3(0, 1, 1).Normalize()
	if norms[0].Sub(want).Len() > 1e-9 {
		t.Errorf("shared vertex normal = %v, want %v", norms[0], want)
	}
}

func TestBoundsAndTransform(t *testing.T) {
	m := quadMesh()
	moved := TransformVerts(m.Verts, math3d.Translate(math3d.V3(1, 2, 3)))
	lo, hi := Bounds(moved)
	if lo != math3d.V3(1, 2, 3) || hi != math3d.V3(2, 3, 3) {
		t.Errorf("Bounds = %v %v", lo, hi)
	}
	if m.Verts[0] != math3d.V3(0, 0, 0) {
		t.Error("TransformVerts modified its input")
	}

	norms := TransformNormals([]math3d.Vec3{math3d.V3(0, 0, 2)}, math3d.Identity())
	if norms[0] != math3d.V3(0, 0, 1) {
		t.Errorf("TransformNormals = %v, want unit +Z", norms[0])
	}
}
