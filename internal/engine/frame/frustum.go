package frame

import "github.com/Faultbox/lumen/pkg/math"

// Plane is ax + by + cz + d = 0 with (a, b, c) the normal. Planes are
// oriented so the positive half-space is inside the frustum.
type Plane struct {
	Normal   math.Vec3
	Distance float32
}

// SignedDistance returns the signed distance from p to the plane.
func (pl Plane) SignedDistance(p math.Vec3) float32 {
	return pl.Normal.Dot(p) + pl.Distance
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustum extracts the six frustum planes from a column-major
// view-projection matrix using the Gribb/Hartmann method. Planes are
// normalized so SignedDistance yields world units.
func ExtractFrustum(vp math.Mat4) [6]Plane {
	// For column-major m, row r of the matrix is (m[r], m[4+r], m[8+r], m[12+r]).
	row := func(r int) math.Vec4 {
		return math.Vec4{X: vp[r], Y: vp[4+r], Z: vp[8+r], W: vp[12+r]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes := [6]math.Vec4{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r3.Add(r2), // near
		r3.Sub(r2), // far
	}

	var out [6]Plane
	for i, p := range planes {
		n := p.XYZ()
		l := n.Length()
		if l > 0 {
			out[i] = Plane{Normal: n.Scale(1 / l), Distance: p.W / l}
		}
	}
	return out
}

// SphereInFrustum reports whether a bounding sphere intersects or is inside
// the frustum.
func SphereInFrustum(planes *[6]Plane, center math.Vec3, radius float32) bool {
	for i := range planes {
		if planes[i].SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}
