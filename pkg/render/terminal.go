package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// upperHalf paints its top half with the foreground and its bottom half with
// the background, giving two pixels per cell.
const upperHalf = "▀"

// Draw renders the framebuffer into area as half-block cells, so a
// Framebuffer satisfies uv.Drawable and can be handed to uv.Terminal.Draw.
// Cell (col, row) shows pixels (col, 2*row) and (col, 2*row+1); cells past
// the framebuffer are left untouched.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	maxRow := min(area.Max.Y, (fb.Height+1)/2)
	maxCol := min(area.Max.X, fb.Width)
	for row := max(area.Min.Y, 0); row < maxRow; row++ {
		top := fb.Row(2 * row)
		var bottom []color.RGBA
		if 2*row+1 < fb.Height {
			bottom = fb.Row(2*row + 1)
		}
		for col := max(area.Min.X, 0); col < maxCol; col++ {
			style := uv.Style{Fg: cellColor(top[col])}
			if bottom != nil {
				style.Bg = cellColor(bottom[col])
			}
			scr.SetCell(col, row, &uv.Cell{Content: upperHalf, Width: 1, Style: style})
		}
	}
}

// cellColor maps fully transparent pixels to the terminal default.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
