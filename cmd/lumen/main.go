// Package main renders one frame of the demo scene through the meshlet
// pipeline and writes it out as a PNG.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/frame"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Lumen ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	tables, textures := buildScene()

	r, ditherIndex := renderer.New(renderer.Config{
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		ClearColor: vec4(cfg.Render.ClearColor),
	}, tables, textures)

	fc := &frame.Constants{
		LightPosition:         vec3(cfg.Light.Position),
		LightRange:            cfg.Light.Range,
		LightIntensity:        cfg.Light.Intensity,
		DitherTexture:         ditherIndex,
		ZNear:                 cfg.Camera.ZNear,
		ZFar:                  cfg.Camera.ZFar,
		FrustumCullMeshes:     cfg.Culling.FrustumMeshes,
		FrustumCullMeshlets:   cfg.Culling.FrustumMeshlets,
		OcclusionCullMeshes:   cfg.Culling.OcclusionMeshes,
		OcclusionCullMeshlets: cfg.Culling.OcclusionMeshlets,
		ResolutionX:           float32(cfg.Render.Width),
		ResolutionY:           float32(cfg.Render.Height),
	}

	eye := vec3(cfg.Camera.Eye)
	fc.EyePosition = eye
	fc.View = math.LookAt(eye, vec3(cfg.Camera.Target), math.Vec3{Y: 1})
	fovY := cfg.Camera.FovY * math32.Pi / 180
	fc.Projection = math.Perspective(fovY, fc.AspectRatioOr(1), fc.ZNear, fc.ZFar)
	fc.Finalize()

	out := r.RenderFrame(fc)

	if err := writePNG(cfg.Render.Output, out.ToRGBA()); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Render.Output, err)
	}
	logger.Info("frame written", zap.String("path", cfg.Render.Output))
	return nil
}

// buildScene assembles the demo: a rough floor, a metal cube and a
// dielectric sphere.
func buildScene() (*resources.Tables, *texture.Table) {
	s := scene.New()

	floor := resources.NewMaterial()
	floor.BaseColorFactor = math.Vec4{X: 0.6, Y: 0.6, Z: 0.62, W: 1}
	floor.RoughnessFactor = 0.9
	s.AddMesh(scene.Plane(), floor,
		math.RotateX(-math32.Pi/2).Mul(math.Scale(8, 8, 8)))

	cube := resources.NewMaterial()
	cube.BaseColorFactor = math.Vec4{X: 0.95, Y: 0.75, Z: 0.3, W: 1}
	cube.MetallicFactor = 1
	cube.RoughnessFactor = 0.3
	spin := math.QuatFromAxisAngle(math.Vec3{Y: 1}, math32.Pi/5)
	s.AddMesh(scene.Cube(), cube, math.Translate(-1.5, 1, 0).Mul(spin.ToMat4()))

	sphere := resources.NewMaterial()
	sphere.BaseColorFactor = math.Vec4{X: 0.7, Y: 0.15, Z: 0.15, W: 1}
	sphere.RoughnessFactor = 0.5
	s.AddMesh(scene.UVSphere(24, 48), sphere, math.Translate(1.5, 1, 0))

	return s.Tables(), &texture.Table{}
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func vec4(v [4]float32) math.Vec4 {
	return math.Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}
