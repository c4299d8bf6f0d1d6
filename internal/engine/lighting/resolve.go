package lighting

import (
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/frame"
	"github.com/Faultbox/lumen/internal/engine/gbuffer"
	"github.com/Faultbox/lumen/internal/engine/raster"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/pkg/math"
)

// Output is the final lit color attachment, display-encoded RGBA.
type Output struct {
	Width  int
	Height int
	Pix    []math.Vec4
}

// NewOutput allocates the lit color attachment.
func NewOutput(width, height int) *Output {
	return &Output{Width: width, Height: height, Pix: make([]math.Vec4, width*height)}
}

// ToRGBA converts the attachment to an 8-bit image for presentation.
func (o *Output) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	for y := 0; y < o.Height; y++ {
		for x := 0; x < o.Width; x++ {
			c := o.Pix[y*o.Width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(math32.Round(math.Saturate(c.X) * 255)),
				G: uint8(math32.Round(math.Saturate(c.Y) * 255)),
				B: uint8(math32.Round(math.Saturate(c.Z) * 255)),
				A: uint8(math32.Round(math.Saturate(c.W) * 255)),
			})
		}
	}
	return img
}

// Resolve is the full-screen deferred lighting pass.
type Resolve struct {
	Frame      *frame.Constants
	Light      PointLight
	Background math.Vec4 // display-encoded color for uncovered pixels
}

// Run shades every covered G-buffer pixel into out, fanning rows out across
// the available CPUs. Pixels without geometry get the background color.
func (r *Resolve) Run(g *gbuffer.GBuffer, out *Output) {
	workers := runtime.NumCPU()
	if workers > g.Height {
		workers = g.Height
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	rows := make(chan int)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for y := range rows {
				r.shadeRow(g, out, y)
			}
		}()
	}
	for y := 0; y < g.Height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
}

func (r *Resolve) shadeRow(g *gbuffer.GBuffer, out *Output, y int) {
	for x := 0; x < g.Width; x++ {
		i := g.Index(x, y)
		if !g.Coverage[i] {
			out.Pix[i] = r.Background
			continue
		}

		surf := Surface{
			Position:  g.WorldPos[i],
			Normal:    gbuffer.OctDecode(g.Normal[i]),
			Albedo:    g.Albedo[i].XYZ(),
			Roughness: g.ORM[i].Y,
			Metalness: g.ORM[i].Z,
			Emissive:  g.Emissive[i],
		}

		lit := Shade(&surf, r.Frame.EyePosition, &r.Light)
		encoded := texture.EncodeSRGBVec(math.Vec3W(lit, g.Albedo[i].W))
		out.Pix[i] = encoded
	}
}

// ReconstructWorldPos recovers the world position of a pixel from its depth
// sample and the inverse view-projection, the alternate path when no
// position attachment is bound.
func ReconstructWorldPos(x, y int, depth *raster.DepthBuffer, invVP math.Mat4) math.Vec3 {
	ndcX := (float32(x)+0.5)/float32(depth.Width)*2 - 1
	ndcY := 1 - (float32(y)+0.5)/float32(depth.Height)*2
	ndcZ := depth.At(x, y)*2 - 1

	clip := invVP.MulVec4(math.Vec4{X: ndcX, Y: ndcY, Z: ndcZ, W: 1})
	return clip.XYZ().Scale(1 / clip.W)
}
