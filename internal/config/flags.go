package config

import "flag"

// Flags holds the command-line overrides. Zero values leave the config
// untouched.
type Flags struct {
	ConfigPath string
	Debug      bool
	Width      int
	Height     int
	NoGlow     bool
	NoBlur     bool
	BlurRadius int
	Silhouette string
	Output     string
	SaveConfig bool
}

// Bind registers the flags on fs
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging and outlines")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.BoolVar(&f.NoGlow, "no-glow", false, "Disable the glow filter")
	fs.BoolVar(&f.NoBlur, "no-blur", false, "Disable the blur filter")
	fs.IntVar(&f.BlurRadius, "blur", 0, "Blur radius in pixels")
	fs.StringVar(&f.Silhouette, "silhouette", "", "Silhouette mode: sampled, exact or tangent")
	fs.StringVar(&f.Output, "out", "lightmap.png", "Output PNG path (headless renderer)")
	fs.BoolVar(&f.SaveConfig, "save-config", false, "Write the effective config to the user config directory")
}

// ParseFlags binds Flags to the default command line and parses it.
// Call this early in main().
func ParseFlags() *Flags {
	f := &Flags{}
	f.Bind(flag.CommandLine)
	flag.Parse()
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Debug.ShowFPS = true
		cfg.Debug.OutlineLights = true
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.NoGlow {
		cfg.Post.GlowEnabled = false
	}
	if f.NoBlur {
		cfg.Post.BlurEnabled = false
	}
	if f.BlurRadius > 0 {
		cfg.Post.BlurRadius = f.BlurRadius
	}
	if f.Silhouette != "" {
		cfg.Scene.Silhouette = f.Silhouette
	}
}
