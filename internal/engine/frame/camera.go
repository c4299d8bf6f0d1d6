package frame

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// OrbitCamera orbits around a center point and produces the view transform
// and eye position for the frame constants.
type OrbitCamera struct {
	Center math.Vec3

	Distance  float32 // distance from center
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32
}

// NewOrbitCamera creates an orbit camera with default constraints.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    5.0,
		RotationX:   0.5,
		MinDistance: 0.5,
		MaxDistance: 500.0,
		MinPitch:    -1.5,
		MaxPitch:    1.5,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * math32.Cos(c.RotationX) * math32.Sin(c.RotationY)
	y := c.Distance * math32.Sin(c.RotationX)
	z := c.Distance * math32.Cos(c.RotationX) * math32.Cos(c.RotationY)
	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// Zoom moves the camera toward or away from the center, clamped to the
// distance constraints.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance = math.Clamp(c.Distance+delta, c.MinDistance, c.MaxDistance)
}

// Rotate adjusts yaw and pitch, clamping pitch to the constraints.
func (c *OrbitCamera) Rotate(dYaw, dPitch float32) {
	c.RotationY += dYaw
	c.RotationX = math.Clamp(c.RotationX+dPitch, c.MinPitch, c.MaxPitch)
}

// Apply fills the camera-derived fields of the frame constants and
// finalizes them.
func (c *OrbitCamera) Apply(fc *Constants, fovY float32) {
	fc.EyePosition = c.Position()
	fc.View = c.ViewMatrix()
	fc.Projection = math.Perspective(fovY, fc.AspectRatioOr(1), fc.ZNear, fc.ZFar)
	fc.Finalize()
}

// AspectRatioOr returns the viewport aspect ratio, or fallback when the
// resolution is unset.
func (c *Constants) AspectRatioOr(fallback float32) float32 {
	if c.ResolutionY == 0 {
		return fallback
	}
	return c.ResolutionX / c.ResolutionY
}
