package math3d

// AffineEw2 is an element-wise 2D affine transform: each axis is scaled and
// translated independently, with no rotation or shear.
//
// The ray caster uses it to map image tangent coordinates (x/depth, y/depth)
// onto the image unit square.
type AffineEw2 struct {
	Scale Vec2
	Trans Vec2
}

// IdentityEw2 returns the identity transform.
func IdentityEw2() AffineEw2 {
	return AffineEw2{Scale: V2(1, 1)}
}

// Apply maps p through the transform.
func (a AffineEw2) Apply(p Vec2) Vec2 {
	return Vec2{p.X*a.Scale.X + a.Trans.X, p.Y*a.Scale.Y + a.Trans.Y}
}

// Inverse returns the transform undoing a.
// A zero scale component yields a zero scale in the inverse.
func (a AffineEw2) Inverse() AffineEw2 {
	var inv AffineEw2
	if a.Scale.X != 0 {
		inv.Scale.X = 1 / a.Scale.X
		inv.Trans.X = -a.Trans.X / a.Scale.X
	}
	if a.Scale.Y != 0 {
		inv.Scale.Y = 1 / a.Scale.Y
		inv.Trans.Y = -a.Trans.Y / a.Scale.Y
	}
	return inv
}

// Then returns the transform applying a first and b second.
func (a AffineEw2) Then(b AffineEw2) AffineEw2 {
	return AffineEw2{
		Scale: a.Scale.Mul(b.Scale),
		Trans: b.Apply(a.Trans),
	}
}
