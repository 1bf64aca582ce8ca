package render

import (
	"image/color"
	"math"
	"testing"
)

func nearColor(a, b RGBAF) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

func TestUnderOpaqueIsExact(t *testing.T) {
	src := RGBAF{0.123456789, 0.3, 0.9, 1}
	acc := Transparent.Under(src)
	if !acc.Opaque() {
		t.Fatalf("accumulator alpha = %v, want 1", acc.A)
	}
	if got := acc.Unpremultiply(); got != src {
		t.Errorf("Unpremultiply = %+v, want %+v bit for bit", got, src)
	}
}

func TestUnderFrontToBack(t *testing.T) {
	white := RGBAF{1, 1, 1, 0.5}
	blue := RGBAF{0, 0, 1, 1}

	got := Transparent.Under(white).Under(blue).Unpremultiply()
	want := RGBAF{0.5, 0.5, 1, 1}
	if !nearColor(got, want) {
		t.Errorf("white(0.5) over blue = %+v, want %+v", got, want)
	}

	reversed := Transparent.Under(blue).Under(white).Unpremultiply()
	if !nearColor(reversed, blue) {
		t.Errorf("blue over white = %+v, want %+v", reversed, blue)
	}
}

func TestUnderPartialCoverage(t *testing.T) {
	acc := Transparent.Under(RGBAF{1, 0, 0, 0.5}).Under(RGBAF{0, 1, 0, 0.5})
	if !nearColor(acc, RGBAF{0.5, 0.25, 0, 0.75}) {
		t.Errorf("premultiplied accumulator = %+v", acc)
	}
	got := acc.Unpremultiply()
	if !nearColor(got, RGBAF{2.0 / 3, 1.0 / 3, 0, 0.75}) {
		t.Errorf("Unpremultiply = %+v", got)
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   RGBAF
		want color.RGBA
	}{
		{"opaque red", RGBAF{1, 0, 0, 1}, color.RGBA{255, 0, 0, 255}},
		{"clamped", RGBAF{2, -1, 0.5, 1}, color.RGBA{255, 0, 128, 255}},
		{"half white", RGBAF{1, 1, 1, 0.5}, color.RGBA{128, 128, 128, 128}},
		{"transparent", RGBAF{1, 1, 1, 0}, color.RGBA{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.ToRGBA(); got != tc.want {
				t.Errorf("ToRGBA(%+v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRGBAFOf(t *testing.T) {
	got := RGBAFOf(color.RGBA{0, 0, 255, 255})
	if got != (RGBAF{0, 0, 1, 1}) {
		t.Errorf("RGBAFOf(blue) = %+v", got)
	}

	// color.RGBA is premultiplied: half-transparent white is {128,128,128,128}.
	half := RGBAFOf(color.RGBA{128, 128, 128, 128})
	if half.R != 1 || math.Abs(half.A-128.0/255) > 1e-9 {
		t.Errorf("RGBAFOf(half white) = %+v", half)
	}

	if RGBAFOf(color.RGBA{}) != Transparent {
		t.Error("RGBAFOf(transparent) should be the zero color")
	}
}
