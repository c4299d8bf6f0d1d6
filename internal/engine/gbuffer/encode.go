package gbuffer

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/raster"
	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/pkg/math"
)

// ditherEpsilon is the near-zero alpha floor after dither subtraction.
const ditherEpsilon = 0.001

// Stage is the per-pixel G-buffer encoding pass for one frame. All inputs
// are read-only for the frame's lifetime.
type Stage struct {
	Tables   *resources.Tables
	Textures *texture.Table
	Dither   *texture.Texture
	Target   *GBuffer
}

// Encode shades one fragment into the attachments. It returns false when
// the pixel is discarded (alpha test or dither); a discarded pixel leaves
// every attachment untouched, since no writes happen before the discard
// decision points.
func (s *Stage) Encode(frag *raster.Fragment) bool {
	mat := &s.Tables.Materials[frag.MaterialIndex]

	// Shading basis: authored attributes when the draw carries them,
	// screen-space derivative reconstruction otherwise.
	var n, t, bt math.Vec3
	if mat.Flags.Has(resources.DrawFlagHasNormals) {
		n = frag.Normal.Normalize()
	} else {
		n = frag.WorldDY.Cross(frag.WorldDX).Normalize()
	}
	if mat.Flags.Has(resources.DrawFlagHasTangents) {
		t = frag.Tangent
		bt = frag.Bitangent
	} else {
		t, bt = cotangentFrame(n, frag)
	}

	// Albedo: base-color factor times the sRGB-decoded diffuse sample.
	albedo := mat.BaseColorFactor
	if tex := s.Textures.Lookup(mat.DiffuseTexture); tex != nil {
		albedo = albedo.Mul(tex.SampleSRGB(frag.UV.X, frag.UV.Y))
	}

	if mat.Flags.Has(resources.DrawFlagAlphaMask) && albedo.W < mat.AlphaCutoff {
		return false
	}
	if mat.Flags.Has(resources.DrawFlagAlphaDither) {
		threshold := s.Dither.Texel(frag.X%4, frag.Y%4).X
		if albedo.W-threshold < ditherEpsilon {
			return false
		}
	}

	// Back faces shade with the mirrored basis.
	if !frag.FrontFacing {
		n = n.Neg()
		t = t.Neg()
		bt = bt.Neg()
	}

	if tex := s.Textures.Lookup(mat.NormalTexture); tex != nil {
		sample := tex.Sample(frag.UV.X, frag.UV.Y)
		// Remap [0,1] -> [-1,1] and rotate through the TBN basis.
		tn := math.Vec3{X: sample.X*2 - 1, Y: sample.Y*2 - 1, Z: sample.Z*2 - 1}
		n = t.Scale(tn.X).Add(bt.Scale(tn.Y)).Add(n.Scale(tn.Z)).Normalize()
	}

	orm := math.Vec3{X: mat.OcclusionFactor, Y: mat.RoughnessFactor, Z: mat.MetallicFactor}
	if tex := s.Textures.Lookup(mat.MetallicRoughnessTexture); tex != nil {
		sample := tex.Sample(frag.UV.X, frag.UV.Y)
		orm.Y *= sample.Y // green carries roughness
		orm.Z *= sample.Z // blue carries metalness
	}
	if tex := s.Textures.Lookup(mat.OcclusionTexture); tex != nil {
		orm.X *= tex.Sample(frag.UV.X, frag.UV.Y).X // red carries occlusion
	}

	emissive := mat.EmissiveFactor
	if tex := s.Textures.Lookup(mat.EmissiveTexture); tex != nil {
		sample := tex.SampleSRGB(frag.UV.X, frag.UV.Y)
		emissive = emissive.Mul(sample.XYZ())
	}

	i := s.Target.Index(frag.X, frag.Y)
	s.Target.Albedo[i] = albedo
	s.Target.Normal[i] = OctEncode(n)
	s.Target.ORM[i] = orm
	s.Target.Emissive[i] = emissive
	s.Target.WorldPos[i] = frag.World
	s.Target.Coverage[i] = true
	return true
}

// cotangentFrame reconstructs a tangent basis from the world-position and
// UV screen derivatives. Degenerate UVs yield zero vectors, which is fine:
// the only consumer is normal mapping and a material without authored
// tangents that still binds a normal map gets a stable, if approximate,
// basis.
func cotangentFrame(n math.Vec3, frag *raster.Fragment) (math.Vec3, math.Vec3) {
	dp1 := frag.WorldDX
	dp2 := frag.WorldDY
	duv1 := frag.UVDX
	duv2 := frag.UVDY

	dp2perp := dp2.Cross(n)
	dp1perp := n.Cross(dp1)
	t := dp2perp.Scale(duv1.X).Add(dp1perp.Scale(duv2.X))
	b := dp2perp.Scale(duv1.Y).Add(dp1perp.Scale(duv2.Y))

	maxLen := math.Max(t.Dot(t), b.Dot(b))
	if maxLen <= 0 {
		return math.Vec3{}, math.Vec3{}
	}
	inv := 1.0 / math32.Sqrt(maxLen)
	return t.Scale(inv), b.Scale(inv)
}
