package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagWidth  = flag.Int("width", 0, "Framebuffer width")
	flagHeight = flag.Int("height", 0, "Framebuffer height")
	flagOutput = flag.String("output", "", "Output PNG path")
	flagNoCull = flag.Bool("no-cull", false, "Disable all culling stages")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if *flagOutput != "" {
		cfg.Render.Output = *flagOutput
	}
	if *flagNoCull {
		cfg.Culling = CullingConfig{}
	}
}
