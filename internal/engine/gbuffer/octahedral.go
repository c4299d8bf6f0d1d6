package gbuffer

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// OctEncode projects a unit normal to the 2-component octahedral encoding.
// Invertible: OctDecode(OctEncode(n)) reproduces n within quantization error.
func OctEncode(n math.Vec3) math.Vec2 {
	inv := 1.0 / (math32.Abs(n.X) + math32.Abs(n.Y) + math32.Abs(n.Z))
	x := n.X * inv
	y := n.Y * inv
	if n.Z < 0 {
		// Fold the lower hemisphere over the diagonals.
		return math.Vec2{
			X: (1 - math32.Abs(y)) * math.Sign(x),
			Y: (1 - math32.Abs(x)) * math.Sign(y),
		}
	}
	return math.Vec2{X: x, Y: y}
}

// OctDecode recovers the unit normal from its octahedral encoding.
func OctDecode(e math.Vec2) math.Vec3 {
	x := e.X
	y := e.Y
	z := 1 - math32.Abs(x) - math32.Abs(y)
	if z < 0 {
		fx := (1 - math32.Abs(y)) * math.Sign(x)
		fy := (1 - math32.Abs(x)) * math.Sign(y)
		x, y = fx, fy
	}
	return math.Vec3{X: x, Y: y, Z: z}.Normalize()
}
