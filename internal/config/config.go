// Package config handles renderer configuration loading and management.
package config

// Config holds all renderer settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Light   LightConfig   `yaml:"light"`
	Culling CullingConfig `yaml:"culling"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds output and framebuffer settings.
type RenderConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Output     string     `yaml:"output"` // PNG path for the rendered frame
	ClearColor [4]float32 `yaml:"clear_color"`
}

// CameraConfig holds view and projection settings.
type CameraConfig struct {
	Eye    [3]float32 `yaml:"eye"`
	Target [3]float32 `yaml:"target"`
	FovY   float32    `yaml:"fov_y"` // degrees
	ZNear  float32    `yaml:"z_near"`
	ZFar   float32    `yaml:"z_far"`
}

// LightConfig holds the punctual light settings.
type LightConfig struct {
	Position  [3]float32 `yaml:"position"`
	Range     float32    `yaml:"range"`
	Intensity float32    `yaml:"intensity"`
}

// CullingConfig toggles the visibility stages.
type CullingConfig struct {
	FrustumMeshes     bool `yaml:"frustum_meshes"`
	FrustumMeshlets   bool `yaml:"frustum_meshlets"`
	OcclusionMeshes   bool `yaml:"occlusion_meshes"`
	OcclusionMeshlets bool `yaml:"occlusion_meshlets"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:      1280,
			Height:     720,
			Output:     "frame.png",
			ClearColor: [4]float32{0.05, 0.05, 0.08, 1},
		},
		Camera: CameraConfig{
			Eye:    [3]float32{0, 2, 6},
			Target: [3]float32{0, 0, 0},
			FovY:   60,
			ZNear:  0.1,
			ZFar:   200,
		},
		Light: LightConfig{
			Position:  [3]float32{2, 4, 3},
			Range:     30,
			Intensity: 40,
		},
		Culling: CullingConfig{
			FrustumMeshes:   true,
			FrustumMeshlets: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
