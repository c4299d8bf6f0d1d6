package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// Mesh is indexed geometry in model space. Normals, Tangents and UVs are
// optional; when present they must run parallel to Positions. Tangent W
// carries the bitangent handedness.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Tangents  []math.Vec4
	UVs       []math.Vec2
	Indices   []uint32
}

// Plane returns a unit quad in the XY plane facing +Z, spanning [-1, 1].
func Plane() *Mesh {
	return &Mesh{
		Positions: []math.Vec3{
			{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1},
		},
		Normals: []math.Vec3{
			{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1},
		},
		Tangents: []math.Vec4{
			{X: 1, W: 1}, {X: 1, W: 1}, {X: 1, W: 1}, {X: 1, W: 1},
		},
		UVs: []math.Vec2{
			{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Cube returns a unit cube spanning [-1, 1] with per-face attributes, 24
// vertices and 12 triangles, wound counter-clockwise seen from outside.
func Cube() *Mesh {
	type face struct {
		normal  math.Vec3
		tangent math.Vec3
	}
	faces := []face{
		{normal: math.Vec3{Z: 1}, tangent: math.Vec3{X: 1}},
		{normal: math.Vec3{Z: -1}, tangent: math.Vec3{X: -1}},
		{normal: math.Vec3{X: 1}, tangent: math.Vec3{Z: -1}},
		{normal: math.Vec3{X: -1}, tangent: math.Vec3{Z: 1}},
		{normal: math.Vec3{Y: 1}, tangent: math.Vec3{X: 1}},
		{normal: math.Vec3{Y: -1}, tangent: math.Vec3{X: 1}},
	}

	m := &Mesh{}
	for _, f := range faces {
		bitangent := f.normal.Cross(f.tangent)
		base := uint32(len(m.Positions))
		for _, corner := range [4]math.Vec2{
			{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1},
		} {
			p := f.normal.Add(f.tangent.Scale(corner.X)).Add(bitangent.Scale(corner.Y))
			m.Positions = append(m.Positions, p)
			m.Normals = append(m.Normals, f.normal)
			m.Tangents = append(m.Tangents, math.Vec3W(f.tangent, 1))
			m.UVs = append(m.UVs, math.Vec2{X: corner.X*0.5 + 0.5, Y: 0.5 - corner.Y*0.5})
		}
		m.Indices = append(m.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	return m
}

// UVSphere returns a unit sphere with the given ring and segment counts.
// Large counts force the bake to split it across many meshlets.
func UVSphere(rings, segments int) *Mesh {
	m := &Mesh{}
	for r := 0; r <= rings; r++ {
		phi := (float32(r)/float32(rings) - 0.5) * math32.Pi
		for s := 0; s <= segments; s++ {
			theta := float32(s) / float32(segments) * 2 * math32.Pi
			n := math.Vec3{
				X: math32.Cos(phi) * math32.Cos(theta),
				Y: math32.Sin(phi),
				Z: math32.Cos(phi) * math32.Sin(theta),
			}
			m.Positions = append(m.Positions, n)
			m.Normals = append(m.Normals, n)
			tangent := math.Vec3{X: -math32.Sin(theta), Z: math32.Cos(theta)}
			m.Tangents = append(m.Tangents, math.Vec3W(tangent, 1))
			m.UVs = append(m.UVs, math.Vec2{
				X: float32(s) / float32(segments),
				Y: 1 - float32(r)/float32(rings),
			})
		}
	}
	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			m.Indices = append(m.Indices,
				a, b, a+1,
				a+1, b, b+1,
			)
		}
	}
	return m
}
