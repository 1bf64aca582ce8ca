package render

import (
	"math"

	"github.com/taigrr/facecast/pkg/math3d"
	"github.com/taigrr/facecast/pkg/models"
)

// Light is a directional light in eye space.
type Light struct {
	Direction math3d.Vec3 // Points toward the light
	Color     math3d.Vec3
	Specular  float64 // Specular strength, 0 disables highlights
}

// Lighting is the shared lighting description passed to every shade call.
// It is never modified by the ray caster.
type Lighting struct {
	Ambient   math3d.Vec3
	Lights    []Light
	Shininess float64 // Blinn-Phong exponent
}

// DefaultLighting returns the classic 30% ambient plus 70% key light setup
// with the key light above and to the right of the viewer.
func DefaultLighting() *Lighting {
	return &Lighting{
		Ambient: math3d.V3(0.3, 0.3, 0.3),
		Lights: []Light{{
			Direction: math3d.V3(0.5, 1, 0.3).Normalize(),
			Color:     math3d.V3(0.7, 0.7, 0.7),
			Specular:  0.5,
		}},
		Shininess: 32,
	}
}

// Unlit returns lighting under which DefaultShader yields the material's
// base color unchanged.
func Unlit() *Lighting {
	return &Lighting{Ambient: math3d.V3(1, 1, 1)}
}

// ShadeInput is everything known about a surface point when it is shaded.
type ShadeInput struct {
	Pos      math3d.Vec3 // Eye space position
	Normal   math3d.Vec3 // Interpolated, not necessarily unit length
	UV       math3d.Vec2
	Material models.Material
	Texture  *Texture // Nil when the material has no base map
}

// ShadeFunc computes the straight-alpha color of a surface point.
// Implementations must be pure: the ray caster calls them concurrently.
type ShadeFunc func(in ShadeInput, l *Lighting) RGBAF

// BaseColor returns the material base color modulated by the texture, if any.
func BaseColor(in ShadeInput) RGBAF {
	bc := in.Material.BaseColor
	base := RGBAF{bc[0], bc[1], bc[2], bc[3]}
	if in.Texture != nil {
		base = base.Mul(in.Texture.Sample(in.UV.X, in.UV.Y))
	}
	return base
}

// DefaultShader is a two-sided Lambert diffuse plus Blinn-Phong specular
// shader. Specular strength falls off with material roughness and is tinted
// by the base color for metals. Alpha is the base alpha.
func DefaultShader(in ShadeInput, l *Lighting) RGBAF {
	base := BaseColor(in)
	if l == nil {
		return base
	}

	n := in.Normal.Normalize()
	view := in.Pos.Negate().Normalize()
	if n.Dot(view) < 0 {
		n = n.Negate()
	}

	m := in.Material
	gloss := 1 - m.Roughness
	specTint := math3d.V3(1, 1, 1).Lerp(math3d.V3(base.R, base.G, base.B), m.Metallic)

	diffuse := l.Ambient
	var specular math3d.Vec3
	for _, light := range l.Lights {
		ld := light.Direction.Normalize()
		ndl := n.Dot(ld)
		if ndl <= 0 {
			continue
		}
		diffuse = diffuse.Add(light.Color.Scale(ndl))

		if light.Specular <= 0 || gloss <= 0 || l.Shininess <= 0 {
			continue
		}
		h := ld.Add(view).Normalize()
		s := math.Pow(math.Max(0, n.Dot(h)), l.Shininess) * light.Specular * gloss
		specular = specular.Add(light.Color.Mul(specTint).Scale(s))
	}

	return RGBAF{
		R: base.R*diffuse.X + specular.X,
		G: base.G*diffuse.Y + specular.Y,
		B: base.B*diffuse.Z + specular.Z,
		A: base.A,
	}
}
