package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds straight-alpha texels for texture mapping.
type Texture struct {
	Width      int
	Height     int
	Texels     []RGBAF // Row-major, top row first
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
}

// NewTexture creates a transparent texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		Texels:     make([]RGBAF, width*height),
		WrapU:      WrapRepeat,
		WrapV:      WrapRepeat,
		FilterMode: FilterNearest,
	}
}

// LoadImage decodes a texture image from disk.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// TextureFromImage converts img to a texture. Premultiplied image colors are
// stored unpremultiplied so filtering and shading see the material color.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())
	for y := range tex.Height {
		row := tex.Texels[y*tex.Width : (y+1)*tex.Width]
		for x := range row {
			row[x] = RGBAFOf(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	a, b := RGBAFOf(c1), RGBAFOf(c2)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.Texels[y*width+x] = a
			} else {
				tex.Texels[y*width+x] = b
			}
		}
	}
	return tex
}

// SetPixel sets the texel at (x, y). Out of range writes are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Texels[y*t.Width+x] = RGBAFOf(c)
}

// GetPixel returns the texel at (x, y), or Transparent when out of range.
func (t *Texture) GetPixel(x, y int) RGBAF {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Transparent
	}
	return t.Texels[y*t.Width+x]
}

// Sample returns the texture color at (u, v), with v = 0 at the bottom of
// the image. An empty texture samples as opaque white.
func (t *Texture) Sample(u, v float64) RGBAF {
	if t.Width == 0 || t.Height == 0 {
		return RGBAF{1, 1, 1, 1}
	}
	u = wrapCoord(u, t.WrapU)
	v = 1 - wrapCoord(v, t.WrapV)

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

func wrapCoord(coord float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Max(0, math.Min(1, coord))
	}
	return coord - math.Floor(coord)
}

func (t *Texture) sampleNearest(u, v float64) RGBAF {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.GetPixel(x, y)
}

// sampleBilinear filters in premultiplied space so transparent texels do not
// bleed their color into opaque neighbours.
func (t *Texture) sampleBilinear(u, v float64) RGBAF {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapTexel(x0+1, t.Width, t.WrapU)
	y1 := wrapTexel(y0+1, t.Height, t.WrapV)
	x0 = wrapTexel(x0, t.Width, t.WrapU)
	y0 = wrapTexel(y0, t.Height, t.WrapV)

	top := lerpPremul(t.GetPixel(x0, y0), t.GetPixel(x1, y0), tx)
	bot := lerpPremul(t.GetPixel(x0, y1), t.GetPixel(x1, y1), tx)
	return RGBAF{
		R: top.R + (bot.R-top.R)*ty,
		G: top.G + (bot.G-top.G)*ty,
		B: top.B + (bot.B-top.B)*ty,
		A: top.A + (bot.A-top.A)*ty,
	}.Unpremultiply()
}

func wrapTexel(x, size int, mode WrapMode) int {
	if mode == WrapClamp {
		return max(0, min(x, size-1))
	}
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

// lerpPremul interpolates two straight-alpha texels and returns the
// premultiplied result.
func lerpPremul(a, b RGBAF, t float64) RGBAF {
	pa := RGBAF{a.R * a.A, a.G * a.A, a.B * a.A, a.A}
	pb := RGBAF{b.R * b.A, b.G * b.A, b.B * b.A, b.A}
	return RGBAF{
		R: pa.R + (pb.R-pa.R)*t,
		G: pa.G + (pb.G-pa.G)*t,
		B: pa.B + (pb.B-pa.B)*t,
		A: pa.A + (pb.A-pa.A)*t,
	}
}
