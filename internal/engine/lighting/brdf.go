// Package lighting evaluates the deferred shading resolve: one punctual
// light against the G-buffer attributes through a Trowbridge-Reitz
// microfacet BRDF with Schlick Fresnel and windowed inverse-square falloff.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// dielectricF0 is the base reflectance of the dielectric response.
const dielectricF0 = 0.04

// attenuationFloor bounds the inverse-square denominator so the intensity
// at distance 0+ stays maximal but finite.
const attenuationFloor = 1e-4

// PointLight is the single punctual light of the resolve pass.
type PointLight struct {
	Position  math.Vec3
	Range     float32
	Intensity float32
}

// Attenuate returns the light's falloff at the given distance: inverse
// square windowed to zero at Range.
func (l *PointLight) Attenuate(distance float32) float32 {
	window := math.Saturate(1 - math32.Pow(distance/l.Range, 4))
	return l.Intensity * window / math.Max(distance*distance, attenuationFloor)
}

// DistributionGGX is the Trowbridge-Reitz normal distribution term.
// alpha2 is (roughness^2)^2.
func DistributionGGX(nDotH, alpha2 float32) float32 {
	d := nDotH*nDotH*(alpha2-1) + 1
	return alpha2 * math.Step(nDotH) / (math32.Pi * d * d)
}

// SmithVisibilityPartial is one direction's factor of the height-correlated
// Smith visibility term; the full term is the product over L and V.
func SmithVisibilityPartial(hDotX, nDotX, alpha2 float32) float32 {
	return math.Step(hDotX) / (math32.Abs(nDotX) + math32.Sqrt(alpha2+(1-alpha2)*nDotX*nDotX))
}

// SchlickFresnel is Schlick's approximation with exponent 5.
func SchlickFresnel(f0, hDotV float32) float32 {
	return f0 + (1-f0)*math32.Pow(1-hDotV, 5)
}

// Surface is the shading input decoded from the G-buffer for one pixel.
type Surface struct {
	Position  math.Vec3
	Normal    math.Vec3
	Albedo    math.Vec3
	Roughness float32
	Metalness float32
	Emissive  math.Vec3
}

// Shade evaluates the BRDF for the surface as seen from eye, lit by light.
// The returned color is linear and clamped to [0,1] per channel before the
// emissive add; display encoding is the caller's concern.
func Shade(s *Surface, eye math.Vec3, light *PointLight) math.Vec3 {
	v := eye.Sub(s.Position).Normalize()
	toLight := light.Position.Sub(s.Position)
	distance := toLight.Length()
	l := toLight.Normalize()
	h := l.Add(v).Normalize()
	n := s.Normal

	nDotL := math.Saturate(n.Dot(l))
	nDotV := math.Saturate(n.Dot(v))
	nDotH := math.Saturate(n.Dot(h))
	hDotL := math.Saturate(h.Dot(l))
	hDotV := math.Saturate(h.Dot(v))

	alpha := s.Roughness * s.Roughness
	alpha2 := alpha * alpha

	specular := DistributionGGX(nDotH, alpha2) *
		SmithVisibilityPartial(hDotL, nDotL, alpha2) *
		SmithVisibilityPartial(hDotV, nDotV, alpha2)

	diffuse := s.Albedo.Scale(1 / math32.Pi)

	// Dielectric: Fresnel blend between diffuse and specular lobes.
	f := SchlickFresnel(dielectricF0, hDotV)
	specVec := math.Vec3{X: specular, Y: specular, Z: specular}
	dielectric := diffuse.Lerp(specVec, f)

	// Conductor: specular tinted by albedo, Schlick with F0 = albedo.
	fresnelAlbedo := math.Vec3{
		X: SchlickFresnel(s.Albedo.X, hDotV),
		Y: SchlickFresnel(s.Albedo.Y, hDotV),
		Z: SchlickFresnel(s.Albedo.Z, hDotV),
	}
	conductor := fresnelAlbedo.Scale(specular)

	brdf := dielectric.Lerp(conductor, s.Metalness)

	atten := light.Attenuate(distance)
	lit := brdf.Scale(atten * nDotL).Saturate()
	return lit.Add(s.Emissive)
}
