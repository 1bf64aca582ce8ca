package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/facecast/pkg/math3d"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrNoGeometry is returned when a GLTF document holds no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader loads GLTF/GLB files into Meshes.
type GLTFLoader struct {
	// CalculateNormals fills Mesh.Norms when the file carries none.
	CalculateNormals bool
	// SmoothNormals selects averaged normals over per-face normals.
	SmoothNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a GLTF or GLB file with the default loader.
func LoadGLB(path string) ([]*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// meshKey groups the primitives of one GLTF mesh that share a material.
type meshKey struct {
	mesh     int
	material int
}

// Load reads path and returns one Mesh per (GLTF mesh, material) pair, each
// primitive becoming one Surface. Meshes are returned in document order.
func (l *GLTFLoader) Load(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	images := make(map[int]image.Image)
	var order []meshKey
	meshes := make(map[meshKey]*Mesh)

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				// Skip lines and points
				continue
			}
			key := meshKey{mesh: mi, material: -1}
			if prim.Material != nil {
				key.material = *prim.Material
			}
			m, ok := meshes[key]
			if !ok {
				m = NewMesh(meshName(gm.Name, mi, key.material))
				if key.material >= 0 {
					m.Material = l.material(doc, key.material, filepath.Dir(path), images)
				}
				meshes[key] = m
				order = append(order, key)
			}
			if err := l.appendPrimitive(doc, prim, m, fmt.Sprintf("%s.%d", m.Name, pi)); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", gm.Name, pi, err)
			}
		}
	}

	if len(order) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}

	out := make([]*Mesh, 0, len(order))
	for _, key := range order {
		m := meshes[key]
		if len(m.Norms) != len(m.Verts) {
			m.Norms = nil
		}
		if m.Norms == nil && l.CalculateNormals {
			if l.SmoothNormals {
				m.Norms = SmoothNormals(m, m.Verts)
			} else {
				m.Norms = FlatNormals(m, m.Verts)
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func meshName(name string, mesh, material int) string {
	if name == "" {
		name = fmt.Sprintf("mesh%d", mesh)
	}
	if material < 0 {
		return name
	}
	return fmt.Sprintf("%s/mat%d", name, material)
}

// appendPrimitive adds one primitive's vertices to m and one surface
// referencing them.
func (l *GLTFLoader) appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, m *Mesh, name string) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
	}

	base := len(m.Verts)
	for i, p := range positions {
		m.Verts = append(m.Verts, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		if len(normals) == len(positions) {
			n := normals[i]
			m.Norms = append(m.Norms, math3d.V3(float64(n[0]), float64(n[1]), float64(n[2])))
		}
		// A mesh mixing textured and untextured primitives keeps its UV
		// buffer aligned with Verts by padding with zeros.
		var uv math3d.Vec2
		if i < len(uvs) {
			// GLTF puts V=0 at the top of the image; texture sampling expects bottom-left
			uv = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		if len(uvs) > 0 || m.HasUVs() {
			for len(m.UVs) < base+i {
				m.UVs = append(m.UVs, math3d.Vec2{})
			}
			m.UVs = append(m.UVs, uv)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	faces := make([][3]int, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		faces = append(faces, [3]int{
			base + int(indices[i]),
			base + int(indices[i+1]),
			base + int(indices[i+2]),
		})
	}
	m.Surfaces = append(m.Surfaces, TriSurface(name, faces))
	return nil
}

// material converts GLTF material idx, decoding its base color texture once
// per image.
func (l *GLTFLoader) material(doc *gltf.Document, idx int, dir string, images map[int]image.Image) Material {
	mat := DefaultMaterial()
	if idx >= len(doc.Materials) {
		return mat
	}
	gm := doc.Materials[idx]
	mat.Name = gm.Name
	mat.BaseColor = [4]float64{1, 1, 1, 1}

	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	if pbr.BaseColorFactor != nil {
		mat.BaseColor = *pbr.BaseColorFactor
	}
	if gm.AlphaMode == gltf.AlphaOpaque {
		mat.BaseColor[3] = 1
	}
	if pbr.MetallicFactor != nil {
		mat.Metallic = *pbr.MetallicFactor
	}
	if pbr.RoughnessFactor != nil {
		mat.Roughness = *pbr.RoughnessFactor
	}
	if pbr.BaseColorTexture == nil {
		return mat
	}

	texIdx := pbr.BaseColorTexture.Index
	if texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return mat
	}
	src := *doc.Textures[texIdx].Source
	img, ok := images[src]
	if !ok {
		img = decodeImage(doc, src, dir)
		images[src] = img
	}
	if img != nil {
		mat.BaseMap = img
		mat.HasTexture = true
	}
	return mat
}

// decodeImage decodes an embedded or external GLTF image. Undecodable
// images yield nil and the material falls back to its base color.
func decodeImage(doc *gltf.Document, src int, dir string) image.Image {
	if src >= len(doc.Images) {
		return nil
	}
	gi := doc.Images[src]

	var data []byte
	switch {
	case gi.BufferView != nil:
		bv := doc.BufferViews[*gi.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil || bv.ByteOffset+bv.ByteLength > len(buf.Data) {
			return nil
		}
		data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case gi.URI != "":
		var err error
		data, err = os.ReadFile(filepath.Join(dir, gi.URI))
		if err != nil {
			return nil
		}
	default:
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}
