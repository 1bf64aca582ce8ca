package main

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/taigrr/facecast/pkg/math3d"
	"github.com/taigrr/facecast/pkg/models"
	"github.com/taigrr/facecast/pkg/raycast"
	"github.com/taigrr/facecast/pkg/render"
)

const defaultDistance = 4.0

// scene is the loaded model set, normalized to fit a 2-unit cube at the
// origin.
type scene struct {
	name     string
	meshes   []*models.Mesh
	base     math3d.Mat4
	textures *raycast.TextureCache
	polys    int
}

func loadScene(logger *log.Logger, paths []string, texturePath string) (*scene, error) {
	sc := &scene{
		name:     filepath.Base(paths[0]),
		textures: raycast.NewTextureCache(),
	}
	if len(paths) > 1 {
		sc.name = fmt.Sprintf("%s +%d", sc.name, len(paths)-1)
	}

	for _, p := range paths {
		start := time.Now()
		meshes, err := models.LoadGLB(p)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		for _, m := range meshes {
			logger.Debug("mesh loaded",
				"file", filepath.Base(p),
				"mesh", m.Name,
				"vertices", m.VertexCount(),
				"triangles", m.TriangleCount(),
				"surfaces", len(m.Surfaces),
				"texture", m.Material.BaseMap != nil,
			)
		}
		logger.Info("loaded", "file", filepath.Base(p), "meshes", len(meshes), "elapsed", time.Since(start).Round(time.Millisecond))
		sc.meshes = append(sc.meshes, meshes...)
	}

	if texturePath != "" {
		img, err := render.LoadImage(texturePath)
		if err != nil {
			logger.Warn("could not load texture", "path", texturePath, "err", err)
		} else {
			for _, m := range sc.meshes {
				if m.HasUVs() && m.Material.BaseMap == nil {
					m.Material.BaseMap = img
					m.Material.HasTexture = true
				}
			}
		}
	}

	var lo, hi math3d.Vec3
	for i, m := range sc.meshes {
		if len(m.Norms) != len(m.Verts) {
			m.Norms = models.SmoothNormals(m, m.Verts)
		}
		sc.polys += m.TriangleCount()

		mlo, mhi := models.Bounds(m.Verts)
		if i == 0 {
			lo, hi = mlo, mhi
		} else {
			lo, hi = lo.Min(mlo), hi.Max(mhi)
		}
	}
	sc.base = normalizeTransform(lo, hi)
	return sc, nil
}

// normalizeTransform centres the box lo-hi on the origin and scales its
// largest side to 2.
func normalizeTransform(lo, hi math3d.Vec3) math3d.Mat4 {
	center := lo.Add(hi).Scale(0.5)
	size := hi.Sub(lo)
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return math3d.Translate(center.Negate())
	}
	scale := 2.0 / maxDim
	return math3d.Scale(math3d.V3(scale, scale, scale)).Mul(math3d.Translate(center.Negate()))
}

// caster places the scene with the given model rotation in front of cam and
// builds a caster for it.
func (sc *scene) caster(cam *render.Camera, model math3d.Mat4, lighting *render.Lighting, bg render.RGBAF, opts ...raycast.Option) (*raycast.Caster, error) {
	eye := cam.EyeTransform(model.Mul(sc.base))
	vertss := make([][]math3d.Vec3, len(sc.meshes))
	normss := make([][]math3d.Vec3, len(sc.meshes))
	for i, m := range sc.meshes {
		vertss[i] = models.TransformVerts(m.Verts, eye)
		normss[i] = models.TransformNormals(m.Norms, eye)
	}
	opts = append(opts, raycast.WithTextureCache(sc.textures))
	return raycast.NewCaster(sc.meshes, vertss, normss, lighting, cam.ItcsToIucs(), bg, opts...)
}

// casterOptions translates flags into caster options.
func casterOptions(cfg *config) ([]raycast.Option, error) {
	kind, err := raycast.ParseIndexKind(cfg.index)
	if err != nil {
		return nil, err
	}
	var filter render.FilterMode
	switch cfg.filter {
	case "nearest":
		filter = render.FilterNearest
	case "bilinear":
		filter = render.FilterBilinear
	default:
		return nil, fmt.Errorf("unknown texture filter %q (want nearest or bilinear)", cfg.filter)
	}
	return []raycast.Option{
		raycast.WithIndex(kind),
		raycast.WithTextureFilter(filter),
		raycast.WithWorkers(cfg.workers),
	}, nil
}

func lighting(cfg *config) *render.Lighting {
	if cfg.unlit {
		return render.Unlit()
	}
	return render.DefaultLighting()
}

// parseColor parses "R,G,B" or "R,G,B,A" with 0-255 components.
func parseColor(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return render.Color{}, fmt.Errorf("invalid color %q: want R,G,B or R,G,B,A", s)
	}
	var c [4]uint8
	c[3] = 255
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c[i] = uint8(v)
	}
	return render.RGBA(c[0], c[1], c[2], c[3]), nil
}

// straightColor converts an 8-bit straight-alpha color, as given on the
// command line, to RGBAF.
func straightColor(c render.Color) render.RGBAF {
	return render.RGBAF{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

func modelRotation(pitch, yaw, roll float64) math3d.Mat4 {
	return math3d.RotateX(pitch).Mul(math3d.RotateY(yaw)).Mul(math3d.RotateZ(roll))
}

func newCamera(distance, aspect float64) *render.Camera {
	cam := render.NewCamera()
	cam.SetAspectRatio(aspect)
	cam.SetFOV(math.Pi / 3)
	cam.SetPosition(math3d.V3(0, 0, distance))
	cam.LookAt(math3d.Zero3())
	return cam
}

func snapshot(ctx context.Context, logger *log.Logger, sc *scene, cfg *config) error {
	if cfg.width <= 0 || cfg.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", cfg.width, cfg.height)
	}
	bg, err := parseColor(cfg.bg)
	if err != nil {
		return err
	}
	opts, err := casterOptions(cfg)
	if err != nil {
		return err
	}

	cam := newCamera(cfg.distance, float64(cfg.width)/float64(cfg.height))
	model := modelRotation(cfg.pitch*math.Pi/180, cfg.yaw*math.Pi/180, 0)

	start := time.Now()
	c, err := sc.caster(cam, model, lighting(cfg), straightColor(bg), opts...)
	if err != nil {
		return err
	}
	built := time.Since(start)

	fb := render.NewFramebuffer(cfg.width, cfg.height)
	if err := c.Render(ctx, fb); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if cfg.wireframe {
		c.DrawWireframe(fb, render.RGB(0, 255, 128))
	}
	if err := fb.SavePNG(cfg.out); err != nil {
		return err
	}

	logger.Info("rendered",
		"out", cfg.out,
		"size", fmt.Sprintf("%dx%d", cfg.width, cfg.height),
		"triangles", sc.polys,
		"index", cfg.index,
		"build", built.Round(time.Microsecond),
		"total", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
