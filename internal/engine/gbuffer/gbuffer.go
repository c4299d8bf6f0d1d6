// Package gbuffer holds the fixed-layout geometry-buffer attachments and the
// per-pixel encoding stage that fills them: material/texture resolve, shading
// basis construction, alpha test and dither, normal mapping and octahedral
// normal encoding.
package gbuffer

import "github.com/Faultbox/lumen/pkg/math"

// GBuffer is the attachment set one frame shades into. All channels are
// linear; display encoding happens only on the final lit output.
type GBuffer struct {
	Width  int
	Height int

	Albedo   []math.Vec4 // linear base color + alpha
	Normal   []math.Vec2 // octahedral-encoded shading normal
	ORM      []math.Vec3 // x=occlusion, y=roughness, z=metalness
	Emissive []math.Vec3
	WorldPos []math.Vec3 // world position for the resolve pass
	Coverage []bool      // pixel received geometry this frame
}

// New allocates a cleared G-buffer.
func New(width, height int) *GBuffer {
	g := &GBuffer{
		Width:    width,
		Height:   height,
		Albedo:   make([]math.Vec4, width*height),
		Normal:   make([]math.Vec2, width*height),
		ORM:      make([]math.Vec3, width*height),
		Emissive: make([]math.Vec3, width*height),
		WorldPos: make([]math.Vec3, width*height),
		Coverage: make([]bool, width*height),
	}
	return g
}

// Clear resets every attachment to its pre-pass value.
func (g *GBuffer) Clear(clearColor math.Vec4) {
	for i := range g.Albedo {
		g.Albedo[i] = clearColor
		g.Normal[i] = math.Vec2{}
		g.ORM[i] = math.Vec3{}
		g.Emissive[i] = math.Vec3{}
		g.WorldPos[i] = math.Vec3{}
		g.Coverage[i] = false
	}
}

// Index maps a pixel coordinate to the flat attachment index.
func (g *GBuffer) Index(x, y int) int {
	return y*g.Width + x
}
