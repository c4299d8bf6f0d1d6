package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Render.Width != 1280 || cfg.Render.Height != 720 {
		t.Errorf("default resolution = %dx%d, want 1280x720", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Output == "" {
		t.Error("default output path must not be empty")
	}
	if cfg.Camera.ZNear <= 0 || cfg.Camera.ZFar <= cfg.Camera.ZNear {
		t.Errorf("default depth range %v..%v invalid", cfg.Camera.ZNear, cfg.Camera.ZFar)
	}
	if cfg.Light.Range <= 0 || cfg.Light.Intensity <= 0 {
		t.Error("default light must be lit")
	}
	if !cfg.Culling.FrustumMeshlets {
		t.Error("meshlet frustum culling should default on")
	}
	if cfg.Culling.OcclusionMeshlets {
		t.Error("occlusion culling should default off")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %s, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
render:
  width: 640
  height: 360
light:
  intensity: 5
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Render.Width != 640 || cfg.Render.Height != 360 {
		t.Errorf("resolution = %dx%d, want 640x360", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Light.Intensity != 5 {
		t.Errorf("intensity = %v, want 5", cfg.Light.Intensity)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %s, want debug", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Camera.FovY != 60 {
		t.Errorf("fov = %v, want default 60", cfg.Camera.FovY)
	}
	if cfg.Render.Output != "frame.png" {
		t.Errorf("output = %s, want default", cfg.Render.Output)
	}
}

func TestLoadFromFileBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("render: ["), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := loadFromFile(Default(), path); err == nil {
		t.Error("malformed yaml must fail")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default()
	cfg.Render.Width = 512
	cfg.Camera.Eye = [3]float32{1, 2, 3}
	cfg.Culling.FrustumMeshlets = false

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if loaded.Render.Width != 512 {
		t.Errorf("width = %d, want 512", loaded.Render.Width)
	}
	if loaded.Camera.Eye != cfg.Camera.Eye {
		t.Errorf("eye = %v, want %v", loaded.Camera.Eye, cfg.Camera.Eye)
	}
	if loaded.Culling.FrustumMeshlets {
		t.Error("culling toggle lost in round trip")
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := Default()

	*flagDebug = true
	*flagWidth = 320
	*flagOutput = "out.png"
	*flagNoCull = true
	defer func() {
		*flagDebug = false
		*flagWidth = 0
		*flagOutput = ""
		*flagNoCull = false
	}()

	applyFlags(cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Render.Width != 320 {
		t.Errorf("width = %d, want 320", cfg.Render.Width)
	}
	if cfg.Render.Height != 720 {
		t.Errorf("height = %d, flags must not touch it", cfg.Render.Height)
	}
	if cfg.Render.Output != "out.png" {
		t.Errorf("output = %s, want out.png", cfg.Render.Output)
	}
	if cfg.Culling != (CullingConfig{}) {
		t.Errorf("culling = %+v, want all off", cfg.Culling)
	}
}
