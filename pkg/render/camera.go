package render

import (
	"math"

	"github.com/taigrr/facecast/pkg/math3d"
)

// Camera is a pinhole camera with position and orientation. It looks down
// -Z in eye space.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)
	Roll  float64 // Rotation around Z axis (tilt)

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height of the image in pixels

	viewMatrix math3d.Mat4
	viewDirty  bool
}

// NewCamera creates a camera five units up the +Z axis looking at the
// origin.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 5),
		FOV:         math.Pi / 3, // 60 degrees
		AspectRatio: 1,
		viewDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
}

// Forward returns the forward direction vector.
func (c *Camera) Forward() math3d.Vec3 {
	// Forward is -Z in camera space, rotated by yaw and pitch
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()

	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0

	c.viewDirty = true
}

// ViewMatrix returns the world to eye space transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		// View = Rotation * Translation(-position)
		rot := math3d.RotateZ(-c.Roll).Mul(
			math3d.RotateX(-c.Pitch)).Mul(
			math3d.RotateY(-c.Yaw))
		trans := math3d.Translate(c.Position.Negate())
		c.viewMatrix = rot.Mul(trans)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// EyeTransform returns the model to eye space transform for an object
// placed with the given model matrix.
func (c *Camera) EyeTransform(model math3d.Mat4) math3d.Mat4 {
	return c.ViewMatrix().Mul(model)
}

// ItcsToIucs returns the affine map from image tangent coordinates
// (x/depth, y/depth) to the image unit square, where (0, 0) is the top left
// corner of the image and (1, 1) the bottom right.
func (c *Camera) ItcsToIucs() math3d.AffineEw2 {
	f := 1 / math.Tan(c.FOV/2)
	aspect := c.AspectRatio
	if aspect <= 0 {
		aspect = 1
	}
	return math3d.AffineEw2{
		Scale: math3d.V2(f/(2*aspect), -f/2),
		Trans: math3d.V2(0.5, 0.5),
	}
}

// Project maps an eye space point to the image unit square. ok is false for
// points on or behind the camera plane.
func Project(itcsToIucs math3d.AffineEw2, p math3d.Vec3) (iucs math3d.Vec2, invDepth float64, ok bool) {
	d := -p.Z
	if d <= 0 {
		return math3d.Vec2{}, 0, false
	}
	invDepth = 1 / d
	return itcsToIucs.Apply(math3d.V2(p.X*invDepth, p.Y*invDepth)), invDepth, true
}

// Unproject reconstructs the eye space point at the given image unit square
// position and inverse depth. It is the inverse of Project.
func Unproject(itcsToIucs math3d.AffineEw2, iucs math3d.Vec2, invDepth float64) math3d.Vec3 {
	if invDepth <= 0 {
		return math3d.Vec3{}
	}
	d := 1 / invDepth
	itcs := itcsToIucs.Inverse().Apply(iucs)
	return math3d.V3(itcs.X*d, itcs.Y*d, -d)
}
