package frame

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

func testConstants() *Constants {
	c := &Constants{
		View:        math.LookAt(math.Vec3{Z: 5}, math.Vec3{}, math.Vec3{Y: 1}),
		Projection:  math.Perspective(math32.Pi/3, 1, 0.1, 100),
		ZNear:       0.1,
		ZFar:        100,
		ResolutionX: 64,
		ResolutionY: 64,
	}
	c.Finalize()
	return c
}

func TestFinalizeDerivedFields(t *testing.T) {
	c := testConstants()
	if c.Projection00 != c.Projection[0] || c.Projection11 != c.Projection[5] {
		t.Error("projection diagonal terms not captured")
	}
	if c.AspectRatio != 1 {
		t.Errorf("aspect ratio = %v, want 1", c.AspectRatio)
	}
	// VP * VP^-1 must be identity.
	id := c.ViewProjection.Mul(c.InverseViewProjection)
	want := math.Identity()
	for i := range id {
		if math32.Abs(id[i]-want[i]) > 1e-4 {
			t.Fatalf("inverse view-projection wrong at [%d]: %v", i, id[i])
		}
	}
}

func TestFrustumContainsVisiblePoint(t *testing.T) {
	c := testConstants()
	// Origin is 5 units in front of the eye, well inside.
	if !SphereInFrustum(&c.FrustumPlanes, math.Vec3{}, 0.1) {
		t.Error("origin should be inside the frustum")
	}
	// A point behind the camera is outside.
	if SphereInFrustum(&c.FrustumPlanes, math.Vec3{Z: 20}, 0.1) {
		t.Error("point behind the eye should be culled")
	}
	// Far off to the side is outside.
	if SphereInFrustum(&c.FrustumPlanes, math.Vec3{X: 100}, 0.1) {
		t.Error("point far off-axis should be culled")
	}
	// A big radius rescues an off-screen center.
	if !SphereInFrustum(&c.FrustumPlanes, math.Vec3{X: 10}, 20) {
		t.Error("large sphere overlapping the frustum should survive")
	}
}

func TestOrbitCameraLooksAtCenter(t *testing.T) {
	cam := NewOrbitCamera()
	cam.Distance = 3
	view := cam.ViewMatrix()
	// The center must land on the negative Z axis in view space.
	p := view.TransformPoint(cam.Center)
	if math32.Abs(p.X) > 1e-5 || math32.Abs(p.Y) > 1e-5 {
		t.Errorf("center not on view axis: %v", p)
	}
	if math32.Abs(-p.Z-cam.Distance) > 1e-4 {
		t.Errorf("center depth = %v, want %v", -p.Z, cam.Distance)
	}
}

func TestOrbitCameraConstraints(t *testing.T) {
	cam := NewOrbitCamera()
	cam.Zoom(-1000)
	if cam.Distance != cam.MinDistance {
		t.Errorf("zoom below min: %v", cam.Distance)
	}
	cam.Rotate(0, 100)
	if cam.RotationX != cam.MaxPitch {
		t.Errorf("pitch above max: %v", cam.RotationX)
	}
}
