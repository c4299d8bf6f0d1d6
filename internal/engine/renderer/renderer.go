// Package renderer orchestrates the meshlet pipeline for one frame:
// cluster selection, meshlet expansion, rasterization, G-buffer encoding
// and the deferred lighting resolve, in strict forward order.
package renderer

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/cluster"
	"github.com/Faultbox/lumen/internal/engine/frame"
	"github.com/Faultbox/lumen/internal/engine/gbuffer"
	"github.com/Faultbox/lumen/internal/engine/lighting"
	"github.com/Faultbox/lumen/internal/engine/meshlet"
	"github.com/Faultbox/lumen/internal/engine/raster"
	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor math.Vec4 // display-encoded background
}

// Renderer runs the deferred pipeline over the frame's resource tables.
type Renderer struct {
	config Config

	tables   *resources.Tables
	textures *texture.Table

	gbuf   *gbuffer.GBuffer
	depth  *raster.DepthBuffer
	output *lighting.Output
}

// New creates a renderer over host-owned resource tables. The dither
// texture is registered in the bindless table; the returned index belongs
// in the frame constants, where RenderFrame resolves it again.
func New(cfg Config, tables *resources.Tables, textures *texture.Table) (*Renderer, uint32) {
	ditherIndex := textures.Add(texture.NewBayerDither())

	r := &Renderer{
		config:   cfg,
		tables:   tables,
		textures: textures,
		gbuf:     gbuffer.New(cfg.Width, cfg.Height),
		depth:    raster.NewDepthBuffer(cfg.Width, cfg.Height),
		output:   lighting.NewOutput(cfg.Width, cfg.Height),
	}

	logger.Info("renderer created",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("meshlets", len(tables.Meshlets)),
		zap.Int("materials", len(tables.Materials)),
	)
	return r, ditherIndex
}

// GBuffer exposes the attachment set, primarily for tests and debug dumps.
func (r *Renderer) GBuffer() *gbuffer.GBuffer {
	return r.gbuf
}

// Depth exposes the depth attachment.
func (r *Renderer) Depth() *raster.DepthBuffer {
	return r.depth
}

// RenderFrame runs the full pipeline for one frame and returns the lit,
// display-encoded output. The resource tables must not be written while
// this runs.
func (r *Renderer) RenderFrame(fc *frame.Constants) *lighting.Output {
	start := time.Now()

	r.gbuf.Clear(r.config.ClearColor)
	r.depth.Clear()

	stage := &gbuffer.Stage{
		Tables:   r.tables,
		Textures: r.textures,
		Dither:   r.textures.Lookup(fc.DitherTexture),
		Target:   r.gbuf,
	}

	pred := cluster.FrustumConePredicate(fc, r.tables)
	meshletTotal := uint32(len(r.tables.Meshlets))

	selected := 0
	shaded := 0
	for d := range r.tables.Draws {
		draw := &r.tables.Draws[d]
		for _, batch := range cluster.Select(draw, pred) {
			for i := uint32(0); i < batch.Count; i++ {
				idx := batch.Indices[i]
				// The final task workgroup of a draw may overhang the
				// meshlet range; the host guards it here.
				if idx >= meshletTotal {
					continue
				}
				selected++

				exp := meshlet.Expand(r.tables, fc, idx)
				raster.Rasterize(exp, r.depth, func(f *raster.Fragment) {
					if stage.Encode(f) {
						// Depth writes only for surviving fragments so a
						// discard leaves every attachment untouched.
						r.depth.Set(f.X, f.Y, f.Depth)
						shaded++
					}
				})
			}
		}
	}

	resolve := lighting.Resolve{
		Frame: fc,
		Light: lighting.PointLight{
			Position:  fc.LightPosition,
			Range:     fc.LightRange,
			Intensity: fc.LightIntensity,
		},
		Background: r.config.ClearColor,
	}
	resolve.Run(r.gbuf, r.output)

	logger.Debug("frame rendered",
		zap.Int("meshlets_selected", selected),
		zap.Int("fragments_shaded", shaded),
		zap.Duration("elapsed", time.Since(start)),
	)
	return r.output
}
