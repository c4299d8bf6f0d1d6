// Package raster bridges meshlet expansion and per-pixel shading: screen
// mapping, coverage, depth-aware fragment emission, perspective-correct
// attribute interpolation and quad-style screen-space derivatives.
package raster

import (
	"github.com/Faultbox/lumen/internal/engine/meshlet"
	"github.com/Faultbox/lumen/pkg/math"
)

// Fragment is one covered pixel with its interpolated attributes and the
// screen-space derivatives the G-buffer fallback paths need.
type Fragment struct {
	X, Y  int
	Depth float32

	FrontFacing bool

	World     math.Vec3
	Normal    math.Vec3
	Tangent   math.Vec3
	Bitangent math.Vec3
	UV        math.Vec2

	// Derivatives of world position and UV along screen x and y.
	WorldDX, WorldDY math.Vec3
	UVDX, UVDY       math.Vec2

	MaterialIndex uint32
}

// DepthBuffer is the shared depth attachment. Cleared to the far value.
type DepthBuffer struct {
	Width  int
	Height int
	Data   []float32
}

// NewDepthBuffer allocates a cleared depth buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{Width: width, Height: height, Data: make([]float32, width*height)}
	d.Clear()
	return d
}

// Clear resets every sample to the far plane.
func (d *DepthBuffer) Clear() {
	for i := range d.Data {
		d.Data[i] = 1.0
	}
}

// At returns the stored depth at (x, y).
func (d *DepthBuffer) At(x, y int) float32 {
	return d.Data[y*d.Width+x]
}

// Set stores depth at (x, y).
func (d *DepthBuffer) Set(x, y int, z float32) {
	d.Data[y*d.Width+x] = z
}

type screenVertex struct {
	x, y float32
	z    float32 // NDC depth
	invW float32
}

// Rasterize walks the expanded meshlet's triangles and emits one Fragment
// per covered, depth-passing pixel. The emit callback owns the depth write:
// raster only reads the buffer here so a later shading discard can leave
// depth untouched.
func Rasterize(exp *meshlet.Expanded, depth *DepthBuffer, emit func(*Fragment)) {
	w := float32(depth.Width)
	h := float32(depth.Height)

	for tri := uint32(0); tri < exp.TriangleCount; tri++ {
		i0 := exp.Indices[tri*3+0]
		i1 := exp.Indices[tri*3+1]
		i2 := exp.Indices[tri*3+2]
		v0, v1, v2 := &exp.Vertices[i0], &exp.Vertices[i1], &exp.Vertices[i2]

		// No near-plane clipping: triangles touching w<=0 are dropped whole.
		if v0.ClipPosition.W <= 0 || v1.ClipPosition.W <= 0 || v2.ClipPosition.W <= 0 {
			continue
		}

		s0 := toScreen(v0.ClipPosition, w, h)
		s1 := toScreen(v1.ClipPosition, w, h)
		s2 := toScreen(v2.ClipPosition, w, h)

		area := edge(s0, s1, s2)
		if area == 0 {
			continue
		}
		// Counter-clockwise in NDC lands clockwise on a y-down screen.
		frontFacing := area < 0

		minX, minY, maxX, maxY := bounds(s0, s1, s2, depth.Width, depth.Height)

		for py := minY; py <= maxY; py++ {
			for px := minX; px <= maxX; px++ {
				fx := float32(px) + 0.5
				fy := float32(py) + 0.5

				b0, b1, b2, inside := barycentric(s0, s1, s2, area, fx, fy)
				if !inside {
					continue
				}

				// NDC depth interpolates linearly in screen space.
				z := b0*s0.z + b1*s1.z + b2*s2.z
				if z < -1 || z > 1 {
					continue
				}
				zBuf := z*0.5 + 0.5
				if zBuf >= depth.At(px, py) {
					continue
				}

				frag := Fragment{
					X: px, Y: py,
					Depth:         zBuf,
					FrontFacing:   frontFacing,
					MaterialIndex: exp.MaterialIndex,
				}
				interpolate(&frag, v0, v1, v2, s0, s1, s2, b0, b1, b2)

				// Quad derivatives: the same interpolation evaluated one
				// pixel right and one pixel down, extrapolated past the
				// triangle edge exactly like helper invocations.
				var right, down Fragment
				rb0, rb1, rb2 := barycentricUnclipped(s0, s1, s2, area, fx+1, fy)
				interpolate(&right, v0, v1, v2, s0, s1, s2, rb0, rb1, rb2)
				db0, db1, db2 := barycentricUnclipped(s0, s1, s2, area, fx, fy+1)
				interpolate(&down, v0, v1, v2, s0, s1, s2, db0, db1, db2)

				frag.WorldDX = right.World.Sub(frag.World)
				frag.WorldDY = down.World.Sub(frag.World)
				frag.UVDX = right.UV.Sub(frag.UV)
				frag.UVDY = down.UV.Sub(frag.UV)

				emit(&frag)
			}
		}
	}
}

func toScreen(clip math.Vec4, w, h float32) screenVertex {
	invW := 1.0 / clip.W
	ndcX := clip.X * invW
	ndcY := clip.Y * invW
	ndcZ := clip.Z * invW
	return screenVertex{
		x:    (ndcX*0.5 + 0.5) * w,
		y:    (1 - (ndcY*0.5 + 0.5)) * h,
		z:    ndcZ,
		invW: invW,
	}
}

func edge(a, b screenVertex, c screenVertex) float32 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

func edgeAt(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func barycentric(s0, s1, s2 screenVertex, area, px, py float32) (b0, b1, b2 float32, inside bool) {
	b0, b1, b2 = barycentricUnclipped(s0, s1, s2, area, px, py)
	inside = b0 >= 0 && b1 >= 0 && b2 >= 0
	return
}

func barycentricUnclipped(s0, s1, s2 screenVertex, area, px, py float32) (float32, float32, float32) {
	inv := 1.0 / area
	b0 := edgeAt(s1, s2, px, py) * inv
	b1 := edgeAt(s2, s0, px, py) * inv
	b2 := edgeAt(s0, s1, px, py) * inv
	return b0, b1, b2
}

// interpolate fills the fragment's attributes with perspective-correct
// interpolation of the three expanded vertices.
func interpolate(frag *Fragment, v0, v1, v2 *meshlet.Vertex, s0, s1, s2 screenVertex, b0, b1, b2 float32) {
	w0 := b0 * s0.invW
	w1 := b1 * s1.invW
	w2 := b2 * s2.invW
	invTotal := 1.0 / (w0 + w1 + w2)
	w0 *= invTotal
	w1 *= invTotal
	w2 *= invTotal

	lerp3 := func(a, b, c math.Vec3) math.Vec3 {
		return a.Scale(w0).Add(b.Scale(w1)).Add(c.Scale(w2))
	}
	frag.World = lerp3(v0.WorldPosition, v1.WorldPosition, v2.WorldPosition)
	frag.Normal = lerp3(v0.Normal, v1.Normal, v2.Normal)
	frag.Tangent = lerp3(v0.Tangent, v1.Tangent, v2.Tangent)
	frag.Bitangent = lerp3(v0.Bitangent, v1.Bitangent, v2.Bitangent)
	frag.UV = v0.UV.Scale(w0).Add(v1.UV.Scale(w1)).Add(v2.UV.Scale(w2))
}

func bounds(s0, s1, s2 screenVertex, width, height int) (minX, minY, maxX, maxY int) {
	minXf := math.Min(s0.x, math.Min(s1.x, s2.x))
	maxXf := math.Max(s0.x, math.Max(s1.x, s2.x))
	minYf := math.Min(s0.y, math.Min(s1.y, s2.y))
	maxYf := math.Max(s0.y, math.Max(s1.y, s2.y))

	minX = clampInt(int(minXf), 0, width-1)
	maxX = clampInt(int(maxXf)+1, 0, width-1)
	minY = clampInt(int(minYf), 0, height-1)
	maxY = clampInt(int(maxYf)+1, 0, height-1)
	return
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
