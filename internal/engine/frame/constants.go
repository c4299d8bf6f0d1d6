// Package frame holds the per-frame constant block every stage reads: camera
// transforms, the punctual light, culling toggles and viewport metrics.
package frame

import "github.com/Faultbox/lumen/pkg/math"

// Constants is the frame-constant block. Built once by the host before the
// pipeline runs; read-only afterwards.
type Constants struct {
	View                   math.Mat4
	Projection             math.Mat4
	ViewProjection         math.Mat4
	InverseViewProjection  math.Mat4
	PreviousViewProjection math.Mat4

	EyePosition math.Vec3

	LightPosition  math.Vec3
	LightRange     float32
	LightIntensity float32

	DitherTexture uint32

	ZNear float32
	ZFar  float32

	Projection00 float32
	Projection11 float32

	FrustumCullMeshes     bool
	FrustumCullMeshlets   bool
	OcclusionCullMeshes   bool
	OcclusionCullMeshlets bool

	ResolutionX float32
	ResolutionY float32
	AspectRatio float32

	FrustumPlanes [6]Plane
}

// Finalize derives the combined and inverse transforms, the projection
// diagonal terms and the frustum planes from View/Projection and the
// viewport. Call after the raw fields are filled in.
func (c *Constants) Finalize() {
	c.ViewProjection = c.Projection.Mul(c.View)
	c.InverseViewProjection = c.ViewProjection.Inverse()
	c.Projection00 = c.Projection[0]
	c.Projection11 = c.Projection[5]
	if c.ResolutionY != 0 {
		c.AspectRatio = c.ResolutionX / c.ResolutionY
	}
	c.FrustumPlanes = ExtractFrustum(c.ViewProjection)
}
