package models

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
}

// writeTestGLB saves a quad made of two triangles with a red material and a
// lone uncoloured triangle as a second mesh.
func writeTestGLB(t *testing.T) string {
	t.Helper()

	doc := gltf.NewDocument()
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	quadPos := modeler.WritePosition(doc, [][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}})
	quadIdx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	triPos := modeler.WritePosition(doc, [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}})

	doc.Meshes = []*gltf.Mesh{
		{
			Name: "quad",
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(quadIdx),
				Attributes: map[string]int{gltf.POSITION: quadPos},
				Material:   gltf.Index(0),
			}},
		},
		{
			Name: "tri",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: triPos},
			}},
		},
	}
	doc.Nodes = []*gltf.Node{{Name: "quad", Mesh: gltf.Index(0)}, {Name: "tri", Mesh: gltf.Index(1)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0, 1)

	path := filepath.Join(t.TempDir(), "test.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLB(t *testing.T) {
	meshes, err := LoadGLB(writeTestGLB(t))
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(meshes))
	}

	quad := meshes[0]
	if quad.VertexCount() != 4 || quad.TriangleCount() != 2 {
		t.Errorf("quad: %d verts %d tris, want 4 and 2", quad.VertexCount(), quad.TriangleCount())
	}
	if quad.Material.BaseColor != [4]float64{1, 0, 0, 1} {
		t.Errorf("quad base color = %v, want red", quad.Material.BaseColor)
	}
	if len(quad.Norms) != 4 {
		t.Fatalf("quad normals = %d, want 4 computed normals", len(quad.Norms))
	}
	for i, n := range quad.Norms {
		if n.Z < 0.999 {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
	if err := quad.Validate(len(quad.Verts)); err != nil {
		t.Errorf("Validate: %v", err)
	}

	tri := meshes[1]
	if tri.TriangleCount() != 1 {
		t.Errorf("tri: %d tris, want 1", tri.TriangleCount())
	}
	if tri.Material.Name != "default" {
		t.Errorf("tri material = %q, want default", tri.Material.Name)
	}
}

func TestLoadGLBNoGeometry(t *testing.T) {
	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	_, err := LoadGLB(path)
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("LoadGLB(empty) error = %v, want ErrNoGeometry", err)
	}
}
