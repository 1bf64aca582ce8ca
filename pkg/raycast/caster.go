package raycast

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/facecast/pkg/math3d"
	"github.com/taigrr/facecast/pkg/models"
	"github.com/taigrr/facecast/pkg/render"
)

// ErrLengthMismatch is returned by NewCaster when the mesh, position and
// normal lists differ in length.
var ErrLengthMismatch = errors.New("meshes, vertex buffers and normal buffers differ in length")

// SceneHit is a hit on one mesh of a scene.
type SceneHit struct {
	MeshIdx  int
	InvDepth float64
	Point    TriPoint
}

// Best identifies the nearest surface under a screen position.
type Best struct {
	MeshIdx   int
	SurfIdx   int
	Intersect TriPoint
}

// Caster renders a scene of meshes under shared lighting over a background.
// All query methods are safe for concurrent use.
type Caster struct {
	meshes     []*Mesh
	lighting   *render.Lighting
	background render.RGBAF
	workers    int
}

// NewCaster builds one Mesh per entry of meshes, pairing meshes[i] with
// vertss[i] and normss[i]. lighting is kept by reference and passed to every
// shade call.
func NewCaster(
	meshes []*models.Mesh,
	vertss, normss [][]math3d.Vec3,
	lighting *render.Lighting,
	itcsToIucs math3d.AffineEw2,
	background render.RGBAF,
	opts ...Option,
) (*Caster, error) {
	if len(vertss) != len(meshes) || len(normss) != len(meshes) {
		return nil, fmt.Errorf("%w: %d meshes, %d vertex buffers, %d normal buffers",
			ErrLengthMismatch, len(meshes), len(vertss), len(normss))
	}
	o := buildOptions(opts)

	c := &Caster{
		meshes:     make([]*Mesh, len(meshes)),
		lighting:   lighting,
		background: background,
		workers:    o.workers,
	}

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, mesh := range meshes {
		g.Go(func() error {
			m, err := newMesh(mesh, vertss[i], normss[i], itcsToIucs, o)
			if err != nil {
				return fmt.Errorf("mesh %d (%s): %w", i, meshName(mesh), err)
			}
			c.meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

func meshName(m *models.Mesh) string {
	if m == nil {
		return "nil"
	}
	return m.Name
}

// Meshes returns the per-mesh units in scene order.
func (c *Caster) Meshes() []*Mesh { return c.meshes }

// Background returns the background color.
func (c *Caster) Background() render.RGBAF { return c.background }

// Hits returns every mesh's nearest hits under posIucs merged nearest first.
// Hits at equal depth keep scene order.
func (c *Caster) Hits(posIucs math3d.Vec2) []SceneHit {
	return c.appendHits(nil, posIucs)
}

func (c *Caster) appendHits(dst []SceneHit, posIucs math3d.Vec2) []SceneHit {
	for mi, m := range c.meshes {
		best := m.Cast(posIucs)
		for i := range best.Len() {
			h := best.At(i)
			dst = append(dst, SceneHit{MeshIdx: mi, InvDepth: h.InvDepth, Point: h.Point})
		}
	}
	slices.SortStableFunc(dst, func(a, b SceneHit) int {
		return cmp.Compare(b.InvDepth, a.InvDepth)
	})
	return dst
}

// Cast returns the color seen through posIucs: the hits composited front to
// back over the background. With no hits the background is returned as is.
func (c *Caster) Cast(posIucs math3d.Vec2) render.RGBAF {
	var buf [2 * MaxHits]SceneHit
	hits := c.appendHits(buf[:0], posIucs)
	if len(hits) == 0 {
		return c.background
	}

	acc := render.Transparent
	for _, h := range hits {
		acc = acc.Under(c.meshes[h.MeshIdx].Shade(h.Point, c.lighting))
		if acc.Opaque() {
			return acc.Unpremultiply()
		}
	}
	return acc.Under(c.background).Unpremultiply()
}

// Best returns the nearest surface under posIucs, for picking.
func (c *Caster) Best(posIucs math3d.Vec2) (Best, bool) {
	var best Best
	found := false
	var bestInv float64
	for mi, m := range c.meshes {
		h, ok := m.Cast(posIucs).Best()
		if !ok || (found && h.InvDepth <= bestInv) {
			continue
		}
		best = Best{MeshIdx: mi, SurfIdx: h.Point.SurfIdx, Intersect: h.Point}
		bestInv = h.InvDepth
		found = true
	}
	return best, found
}
