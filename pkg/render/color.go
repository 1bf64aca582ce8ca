package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}
	ColorSky   = color.RGBA{135, 206, 235, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// RGBAF is a linear floating point color. Components are nominally in
// [0, 1]. Unless stated otherwise the alpha is straight, not premultiplied.
type RGBAF struct {
	R, G, B, A float64
}

// Transparent is the zero color, and the starting value of a
// front-to-back accumulator.
var Transparent = RGBAF{}

// RGBAFOf converts any color.Color to a straight-alpha RGBAF.
func RGBAFOf(c color.Color) RGBAF {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return RGBAF{}
	}
	fa := float64(a)
	return RGBAF{
		R: float64(r) / fa,
		G: float64(g) / fa,
		B: float64(b) / fa,
		A: fa / 0xffff,
	}
}

// Mul multiplies two colors component-wise.
func (c RGBAF) Mul(o RGBAF) RGBAF {
	return RGBAF{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Opaque reports whether the alpha has reached full coverage.
func (c RGBAF) Opaque() bool {
	return c.A >= 1
}

// Under accumulates src behind the premultiplied accumulator c and returns
// the new accumulator. Walking hits nearest first and calling Under for
// each is the same as stacking them back to front with "over".
func (c RGBAF) Under(src RGBAF) RGBAF {
	a := clamp01(src.A)
	w := (1 - c.A) * a
	return RGBAF{
		R: c.R + w*src.R,
		G: c.G + w*src.G,
		B: c.B + w*src.B,
		A: c.A + w,
	}
}

// Unpremultiply converts a premultiplied color back to straight alpha.
func (c RGBAF) Unpremultiply() RGBAF {
	if c.A <= 0 {
		return RGBAF{}
	}
	if c.A == 1 {
		return c
	}
	return RGBAF{c.R / c.A, c.G / c.A, c.B / c.A, c.A}
}

// ToRGBA converts to an 8-bit premultiplied color.RGBA, clamping each
// component to [0, 1].
func (c RGBAF) ToRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: to8(clamp01(c.R) * a),
		G: to8(clamp01(c.G) * a),
		B: to8(clamp01(c.B) * a),
		A: to8(a),
	}
}

func to8(v float64) uint8 {
	return uint8(v*255 + 0.5)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
