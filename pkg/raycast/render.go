package raycast

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/facecast/pkg/math3d"
	"github.com/taigrr/facecast/pkg/render"
)

// Render casts one ray through the centre of every framebuffer pixel.
// Rows are rendered in parallel. It returns ctx.Err() if ctx is cancelled
// before every row is done, leaving the framebuffer partially drawn.
func (c *Caster) Render(ctx context.Context, fb *render.Framebuffer) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	w, h := float64(fb.Width), float64(fb.Height)
	for y := range fb.Height {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := fb.Row(y)
			v := (float64(y) + 0.5) / h
			for x := range row {
				row[x] = c.Cast(math3d.V2((float64(x)+0.5)/w, v)).ToRGBA()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Image renders the scene into a new width x height image.
func (c *Caster) Image(ctx context.Context, width, height int) (*image.RGBA, error) {
	fb := render.NewFramebuffer(width, height)
	if err := c.Render(ctx, fb); err != nil {
		return nil, err
	}
	return fb.ToImage(), nil
}
