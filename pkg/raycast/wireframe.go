package raycast

import "github.com/taigrr/facecast/pkg/render"

// DrawWireframe draws the projected edges of every triangle that can be hit.
func (c *Caster) DrawWireframe(fb *render.Framebuffer, col render.Color) {
	for _, m := range c.meshes {
		m.DrawWireframe(fb, col)
	}
}

// DrawWireframe draws the projected edges of the mesh's indexed triangles.
func (m *Mesh) DrawWireframe(fb *render.Framebuffer, col render.Color) {
	w, h := float64(fb.Width), float64(fb.Height)
	for _, s := range m.surfaces {
		for _, t := range s.Tris {
			if !m.indexable(t) {
				continue
			}
			var px, py [3]int
			visible := true
			for i, v := range t.V {
				p := m.iucs[v]
				if p.X < -1 || p.X > 2 || p.Y < -1 || p.Y > 2 {
					visible = false
					break
				}
				px[i] = int(p.X * w)
				py[i] = int(p.Y * h)
			}
			if !visible {
				continue
			}
			fb.DrawLine(px[0], py[0], px[1], py[1], col)
			fb.DrawLine(px[1], py[1], px[2], py[2], col)
			fb.DrawLine(px[2], py[2], px[0], py[0], col)
		}
	}
}
