package meshlet

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/frame"
	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/pkg/math"
)

// triangle fixture: one meshlet, three vertices, authored normals/tangents
// pointing +Z / +X.
func triangleTables(flags resources.DrawFlags, model math.Mat4) *resources.Tables {
	mat := resources.NewMaterial()
	mat.Flags = flags

	up := resources.QuantizeSnorm(1)
	mid := resources.QuantizeSnorm(0)

	attr := resources.VertexData{
		Normal:  [4]uint8{mid, mid, up, mid},
		Tangent: [4]uint8{up, mid, mid, up},
		UV:      [2]uint16{resources.FloatToHalf(0.5), resources.FloatToHalf(0.25)},
	}

	return &resources.Tables{
		Materials: []resources.Material{mat},
		Instances: []resources.MeshInstance{resources.NewMeshInstance(model, 0)},
		Meshlets: []resources.Meshlet{{
			DataOffset:    0,
			MeshIndex:     0,
			VertexCount:   3,
			TriangleCount: 1,
		}},
		Data: []uint32{
			0, 1, 2, // vertex indices
			0x00020100, // triangle 0,1,2 byte-packed
		},
		Positions: []resources.VertexPosition{
			{Position: math.Vec3{X: 0, Y: 0, Z: 0}},
			{Position: math.Vec3{X: 1, Y: 0, Z: 0}},
			{Position: math.Vec3{X: 0, Y: 1, Z: 0}},
		},
		VertexData: []resources.VertexData{attr, attr, attr},
	}
}

func testFrame() *frame.Constants {
	fc := &frame.Constants{
		View:       math.LookAt(math.Vec3{Z: 3}, math.Vec3{}, math.Vec3{Y: 1}),
		Projection: math.Perspective(math32.Pi/3, 1, 0.1, 100),
	}
	fc.Finalize()
	return fc
}

func TestExpandAuthoredAttributes(t *testing.T) {
	flags := resources.DrawFlagHasNormals | resources.DrawFlagHasUVs | resources.DrawFlagHasTangents
	tables := triangleTables(flags, math.Translate(5, 0, 0))
	fc := testFrame()

	out := Expand(tables, fc, 0)

	if out.VertexCount != 3 || out.TriangleCount != 1 {
		t.Fatalf("counts = %d/%d, want 3/1", out.VertexCount, out.TriangleCount)
	}

	v := out.Vertices[1]
	if v.WorldPosition != (math.Vec3{X: 6, Y: 0, Z: 0}) {
		t.Errorf("world position = %v, want translated", v.WorldPosition)
	}
	// Translation leaves normals and tangents untouched.
	if math32.Abs(v.Normal.Z-1) > 1e-5 {
		t.Errorf("normal = %v, want +Z", v.Normal)
	}
	if math32.Abs(v.Tangent.X-1) > 1e-5 {
		t.Errorf("tangent = %v, want +X", v.Tangent)
	}
	// Bitangent = cross(N, T) * handedness(+1) = +Y.
	if math32.Abs(v.Bitangent.Y-1) > 1e-5 {
		t.Errorf("bitangent = %v, want +Y", v.Bitangent)
	}
	if math32.Abs(v.UV.X-0.5) > 1e-3 || math32.Abs(v.UV.Y-0.25) > 1e-3 {
		t.Errorf("uv = %v", v.UV)
	}

	want := []uint32{0, 1, 2}
	for i, w := range want {
		if out.Indices[i] != w {
			t.Errorf("index %d = %d, want %d", i, out.Indices[i], w)
		}
	}
}

func TestExpandNonUniformScaleNormal(t *testing.T) {
	flags := resources.DrawFlagHasNormals
	tables := triangleTables(flags, math.Scale(4, 1, 1))
	out := Expand(tables, testFrame(), 0)

	// The +Z normal of an XY-plane triangle survives non-uniform XY scale
	// only through the inverse-transpose; it must stay unit +Z.
	n := out.Vertices[0].Normal
	if math32.Abs(n.Z-1) > 1e-5 || math32.Abs(n.X) > 1e-5 {
		t.Errorf("normal under non-uniform scale = %v, want +Z", n)
	}
}

func TestExpandUVsWithoutNormals(t *testing.T) {
	// Textured geometry relying on the derivative-normal fallback: texture
	// coordinates must still come through when no normals are authored.
	tables := triangleTables(resources.DrawFlagHasUVs, math.Identity())
	out := Expand(tables, testFrame(), 0)

	v := out.Vertices[0]
	if math32.Abs(v.UV.X-0.5) > 1e-3 || math32.Abs(v.UV.Y-0.25) > 1e-3 {
		t.Errorf("uv = %v, want (0.5, 0.25)", v.UV)
	}
	if v.Normal != (math.Vec3{}) {
		t.Errorf("normal = %v, want zero without authored normals", v.Normal)
	}
}

func TestExpandPositionOnlySkipsAttributes(t *testing.T) {
	tables := triangleTables(0, math.Identity())
	// Position-only bake: attribute blob deliberately empty. Expansion must
	// not touch it when the draw flags claim no authored normals/tangents.
	tables.VertexData = nil

	out := Expand(tables, testFrame(), 0)

	if out.Vertices[0].Normal != (math.Vec3{}) {
		t.Errorf("normal = %v, want zero for position-only data", out.Vertices[0].Normal)
	}
	if out.Flags.Has(resources.DrawFlagHasNormals) {
		t.Error("flags should not claim authored normals")
	}
}

func TestExpandClipSpaceCenterVertex(t *testing.T) {
	flags := resources.DrawFlagHasNormals
	tables := triangleTables(flags, math.Identity())
	fc := testFrame()
	out := Expand(tables, fc, 0)

	// Vertex 0 sits at the world origin, straight ahead of the eye at z=3:
	// clip x and y must be 0 and w positive.
	c := out.Vertices[0].ClipPosition
	if math32.Abs(c.X) > 1e-5 || math32.Abs(c.Y) > 1e-5 {
		t.Errorf("clip xy = (%v, %v), want origin", c.X, c.Y)
	}
	if c.W <= 0 {
		t.Errorf("clip w = %v, want positive", c.W)
	}
}
