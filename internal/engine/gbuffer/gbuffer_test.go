package gbuffer

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/raster"
	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/pkg/math"
)

func TestOctahedralRoundTrip(t *testing.T) {
	// Dense sphere sampling plus the axis-aligned and folded cases.
	var vectors []math.Vec3
	for _, v := range []math.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
		{X: 1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: -1}, {X: 0.1, Y: -0.2, Z: -0.97},
	} {
		vectors = append(vectors, v.Normalize())
	}
	for i := 0; i < 32; i++ {
		for j := 0; j < 16; j++ {
			theta := float32(i) / 32.0 * 2 * math32.Pi
			phi := (float32(j)/16.0 - 0.5) * math32.Pi
			vectors = append(vectors, math.Vec3{
				X: math32.Cos(phi) * math32.Cos(theta),
				Y: math32.Cos(phi) * math32.Sin(theta),
				Z: math32.Sin(phi),
			}.Normalize())
		}
	}

	for _, n := range vectors {
		e := OctEncode(n)
		if e.X < -1 || e.X > 1 || e.Y < -1 || e.Y > 1 {
			t.Fatalf("encoding of %v out of range: %v", n, e)
		}
		d := OctDecode(e)
		if d.Sub(n).Length() > 1e-5 {
			t.Fatalf("decode(encode(%v)) = %v", n, d)
		}
	}
}

func newStage(mat resources.Material) *Stage {
	return &Stage{
		Tables:   &resources.Tables{Materials: []resources.Material{mat}},
		Textures: &texture.Table{},
		Dither:   texture.NewBayerDither(),
		Target:   New(4, 4),
	}
}

func flatFragment() *raster.Fragment {
	return &raster.Fragment{
		X: 1, Y: 1,
		FrontFacing: true,
		World:       math.Vec3{X: 0.5, Y: 0.5},
		WorldDX:     math.Vec3{X: 0.1},
		WorldDY:     math.Vec3{Y: -0.1},
		UVDX:        math.Vec2{X: 0.01},
		UVDY:        math.Vec2{Y: 0.01},
	}
}

func TestEncodeWritesAttachments(t *testing.T) {
	mat := resources.NewMaterial()
	mat.BaseColorFactor = math.Vec4{X: 1, Y: 0.5, Z: 0.25, W: 1}
	mat.RoughnessFactor = 0.7
	mat.MetallicFactor = 0.2
	mat.EmissiveFactor = math.Vec3{X: 0.1}
	s := newStage(mat)

	if !s.Encode(flatFragment()) {
		t.Fatal("opaque fragment discarded")
	}
	i := s.Target.Index(1, 1)
	if s.Target.Albedo[i] != mat.BaseColorFactor {
		t.Errorf("albedo = %v", s.Target.Albedo[i])
	}
	if s.Target.ORM[i] != (math.Vec3{X: 1, Y: 0.7, Z: 0.2}) {
		t.Errorf("orm = %v", s.Target.ORM[i])
	}
	if s.Target.Emissive[i] != (math.Vec3{X: 0.1}) {
		t.Errorf("emissive = %v", s.Target.Emissive[i])
	}
	if !s.Target.Coverage[i] {
		t.Error("coverage not set")
	}
}

func TestEncodeDerivedNormalFallback(t *testing.T) {
	// No HasNormals flag: geometric normal comes from the world-position
	// derivatives. dX=+X, dY=-Y (y-down screen) on an XY plane gives +Z.
	s := newStage(resources.NewMaterial())
	if !s.Encode(flatFragment()) {
		t.Fatal("fragment discarded")
	}
	n := OctDecode(s.Target.Normal[s.Target.Index(1, 1)])
	if n.Sub(math.Vec3{Z: 1}).Length() > 1e-4 {
		t.Errorf("derived normal = %v, want +Z", n)
	}
}

func TestEncodeAuthoredNormal(t *testing.T) {
	mat := resources.NewMaterial()
	mat.Flags = resources.DrawFlagHasNormals
	s := newStage(mat)
	frag := flatFragment()
	frag.Normal = math.Vec3{X: 1}

	s.Encode(frag)
	n := OctDecode(s.Target.Normal[s.Target.Index(1, 1)])
	if n.Sub(math.Vec3{X: 1}).Length() > 1e-4 {
		t.Errorf("authored normal = %v, want +X", n)
	}
}

func TestEncodeBackfaceFlipsNormal(t *testing.T) {
	mat := resources.NewMaterial()
	mat.Flags = resources.DrawFlagHasNormals | resources.DrawFlagDoubleSided
	s := newStage(mat)
	frag := flatFragment()
	frag.Normal = math.Vec3{Z: 1}
	frag.FrontFacing = false

	s.Encode(frag)
	n := OctDecode(s.Target.Normal[s.Target.Index(1, 1)])
	if n.Sub(math.Vec3{Z: -1}).Length() > 1e-4 {
		t.Errorf("backface normal = %v, want -Z", n)
	}
}

func TestEncodeAlphaMaskDiscard(t *testing.T) {
	mat := resources.NewMaterial()
	mat.Flags = resources.DrawFlagAlphaMask
	mat.BaseColorFactor = math.Vec4{X: 1, Y: 1, Z: 1, W: 0.3}
	mat.AlphaCutoff = 0.5
	s := newStage(mat)

	clear := math.Vec4{X: 0.25, Y: 0.25, Z: 0.25, W: 1}
	s.Target.Clear(clear)

	if s.Encode(flatFragment()) {
		t.Fatal("alpha 0.3 under cutoff 0.5 must discard")
	}
	// The discard leaves the albedo attachment at its cleared value.
	if got := s.Target.Albedo[s.Target.Index(1, 1)]; got != clear {
		t.Errorf("albedo after discard = %v, want cleared %v", got, clear)
	}
	if s.Target.Coverage[s.Target.Index(1, 1)] {
		t.Error("discarded pixel marked covered")
	}
}

func TestEncodeAlphaDither(t *testing.T) {
	mat := resources.NewMaterial()
	mat.Flags = resources.DrawFlagAlphaDither
	mat.BaseColorFactor = math.Vec4{X: 1, Y: 1, Z: 1, W: 0.5}
	s := newStage(mat)

	// Half-transparent coverage: some cells of the 4x4 pattern survive,
	// some do not.
	kept, dropped := 0, 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			frag := flatFragment()
			frag.X, frag.Y = x, y
			if s.Encode(frag) {
				kept++
			} else {
				dropped++
			}
		}
	}
	if kept == 0 || dropped == 0 {
		t.Errorf("dither at alpha 0.5 kept %d dropped %d, want a mix", kept, dropped)
	}
	if kept != 8 {
		t.Errorf("kept %d of 16 at alpha 0.5, want 8", kept)
	}
}

func TestEncodeSentinelSkipsSamples(t *testing.T) {
	// All texture indices are sentinels; encoding must not consult the
	// (empty) texture table at all.
	s := newStage(resources.NewMaterial())
	if s.Textures.Len() != 0 {
		t.Fatal("fixture expects an empty table")
	}
	if !s.Encode(flatFragment()) {
		t.Fatal("fragment discarded")
	}
}

func TestEncodeORMChannelConvention(t *testing.T) {
	mat := resources.NewMaterial()
	s := newStage(mat)

	// A 1x1 texture with distinct channels: R=occlusion, G=roughness, B=metalness.
	tex := &texture.Texture{Width: 1, Height: 1, Pix: []uint8{255, 128, 64, 255}}
	mrIdx := s.Textures.Add(tex)
	occIdx := s.Textures.Add(tex)
	s.Tables.Materials[0].MetallicRoughnessTexture = mrIdx
	s.Tables.Materials[0].OcclusionTexture = occIdx

	s.Encode(flatFragment())
	orm := s.Target.ORM[s.Target.Index(1, 1)]
	if math32.Abs(orm.X-1.0) > 0.01 {
		t.Errorf("occlusion = %v, want red channel 1.0", orm.X)
	}
	if math32.Abs(orm.Y-128.0/255.0) > 0.01 {
		t.Errorf("roughness = %v, want green channel", orm.Y)
	}
	if math32.Abs(orm.Z-64.0/255.0) > 0.01 {
		t.Errorf("metalness = %v, want blue channel", orm.Z)
	}
}
