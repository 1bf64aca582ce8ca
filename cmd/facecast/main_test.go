package main

import (
	"context"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/facecast/pkg/math3d"
	"github.com/taigrr/facecast/pkg/render"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"30,30,40", render.RGB(30, 30, 40), false},
		{"255, 0, 0, 128", render.RGBA(255, 0, 0, 128), false},
		{"1,2", render.Color{}, true},
		{"1,2,300", render.Color{}, true},
		{"a,b,c", render.Color{}, true},
		{"#1e1e28", render.Color{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseColor(%q) error = %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("parseColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeTransform(t *testing.T) {
	m := normalizeTransform(math3d.V3(2, 2, 2), math3d.V3(6, 4, 3))
	lo := m.MulVec3(math3d.V3(2, 2, 2))
	hi := m.MulVec3(math3d.V3(6, 4, 3))
	if lo.Sub(math3d.V3(-1, -0.5, -0.25)).Len() > 1e-12 || hi.Sub(math3d.V3(1, 0.5, 0.25)).Len() > 1e-12 {
		t.Errorf("normalized box = %v %v", lo, hi)
	}
}

func TestCasterOptions(t *testing.T) {
	if _, err := casterOptions(&config{index: "grid", filter: "nearest"}); err != nil {
		t.Errorf("valid flags: %v", err)
	}
	if _, err := casterOptions(&config{index: "kd", filter: "nearest"}); err == nil {
		t.Error("expected error for unknown index")
	}
	if _, err := casterOptions(&config{index: "rtree", filter: "cubic"}); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestRotationDecays(t *testing.T) {
	r := NewRotationState(30)
	r.ApplyImpulse(0.5, -0.5, 0)
	if !r.Moving() {
		t.Fatal("impulse should start rotation")
	}
	for range 300 {
		r.Update()
	}
	if r.Moving() {
		t.Errorf("rotation still moving: pitch %v yaw %v", r.Pitch.Velocity, r.Yaw.Velocity)
	}
	if r.Pitch.Position <= 0 || r.Yaw.Position >= 0 {
		t.Errorf("positions = %v, %v", r.Pitch.Position, r.Yaw.Position)
	}

	r.Reset(0.1, 0.2)
	if r.Pitch.Position != 0.1 || r.Yaw.Position != 0.2 || r.Roll.Position != 0 {
		t.Error("Reset should restore the initial orientation")
	}
}

func writeQuadGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	pos := modeler.WritePosition(doc, [][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "quad", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestSnapshot(t *testing.T) {
	logger := log.New(io.Discard)
	sc, err := loadScene(logger, []string{writeQuadGLB(t)}, "")
	if err != nil {
		t.Fatalf("loadScene: %v", err)
	}
	if sc.polys != 2 {
		t.Errorf("polys = %d, want 2", sc.polys)
	}

	out := filepath.Join(t.TempDir(), "out.png")
	cfg := &config{
		out:      out,
		width:    64,
		height:   48,
		bg:       "0,0,0",
		index:    "rtree",
		filter:   "bilinear",
		distance: defaultDistance,
	}
	if err := snapshot(context.Background(), logger, sc, cfg); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	r, g, b, _ := img.At(32, 24).RGBA()
	if r == 0 || g != 0 || b != 0 {
		t.Errorf("centre pixel = %v, want lit red", img.At(32, 24))
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r|g|b != 0 {
		t.Errorf("corner pixel = %v, want background", img.At(0, 0))
	}
}

func TestScreenToLightDir(t *testing.T) {
	v := NewViewState(&config{distance: defaultDistance})
	d := v.ScreenToLightDir(50, 50, 100, 100)
	if d.Sub(math3d.V3(0, 0, 1)).Len() > 1e-9 {
		t.Errorf("centre light = %v, want toward the viewer", d)
	}
	edge := v.ScreenToLightDir(200, 50, 100, 100)
	if math.Abs(edge.Len()-1) > 1e-9 || edge.X <= 0.99 {
		t.Errorf("edge light = %v", edge)
	}
}
