package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/presets"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

// styleFlags holds the per-field style overrides. A flag only applies when it
// was set on the command line, so presets and config files keep their values
// for everything else.
type styleFlags struct {
	preset     string
	look       int
	configPath string

	background  string
	transparent bool
	body        string
	eyeRing     string
	eyeCenter   string
	captionFg   string

	moduleShape    string
	eyeRingShape   string
	eyeCenterShape string

	fill        string
	moduleEmoji string
	moduleScale float64

	center      bool
	centerFrac  float64
	centerMode  string
	centerEmoji string
	centerScale float64

	caption     string
	captionFont string
}

func (f *styleFlags) register(cmd *cobra.Command) {
	d := styles.DefaultConfig()
	fs := cmd.Flags()

	fs.StringVar(&f.preset, "preset", "", "factory preset type: url, payment, wifi, contact, message")
	fs.IntVar(&f.look, "look", 0, "look index within the preset type (wraps around)")
	fs.StringVar(&f.configPath, "config", "", "TOML style file applied after the preset")

	fs.StringVar(&f.background, "bg", d.Colors.Background, "background color (none or transparent omits it)")
	fs.BoolVar(&f.transparent, "transparent", false, "omit the background")
	fs.StringVar(&f.body, "body", d.Colors.Body, "module color")
	fs.StringVar(&f.eyeRing, "eye-ring", d.Colors.EyeRing, "finder ring color")
	fs.StringVar(&f.eyeCenter, "eye-center", d.Colors.EyeCenter, "finder core color")
	fs.StringVar(&f.captionFg, "caption-color", d.Colors.Caption, "caption text color")

	fs.StringVar(&f.moduleShape, "module-shape", string(d.ModuleShape), "module shape: square, rounded, circle")
	fs.StringVar(&f.eyeRingShape, "eye-ring-shape", string(d.EyeRingShape), "finder ring shape: square, rounded, circle")
	fs.StringVar(&f.eyeCenterShape, "eye-center-shape", string(d.EyeCenterShape), "finder core shape: square, rounded, circle")

	fs.StringVar(&f.fill, "fill", string(d.ModuleFill), "module fill: shape or emoji")
	fs.StringVar(&f.moduleEmoji, "module-emoji", d.ModuleEmoji, "glyph drawn per module with --fill emoji")
	fs.Float64Var(&f.moduleScale, "module-scale", d.ModuleScale, "module size fraction, clamped to [0.6, 1]")

	fs.BoolVar(&f.center, "center", d.Center, "reserve a centered square for a logo")
	fs.Float64Var(&f.centerFrac, "center-frac", d.CenterFrac, "side of the reserved square as a fraction of the grid")
	fs.StringVar(&f.centerMode, "center-mode", string(d.CenterMode), "center content: none or emoji")
	fs.StringVar(&f.centerEmoji, "center-emoji", d.CenterEmoji, "glyph drawn in the reserved square")
	fs.Float64Var(&f.centerScale, "center-scale", d.CenterScale, "overlay size fraction of the reserved square")

	fs.StringVar(&f.caption, "caption", "", "caption below the code (25 characters are drawn)")
	fs.StringVar(&f.captionFont, "caption-font", d.CaptionFont, "caption font-family list")
}

// resolve builds the style: defaults, then the preset, then the config file,
// then every flag that was set explicitly.
func (f *styleFlags) resolve(cmd *cobra.Command) (styles.Config, error) {
	cfg := styles.DefaultConfig()
	if f.preset != "" {
		var err error
		if cfg, err = presets.Resolve(f.preset, f.look); err != nil {
			return cfg, err
		}
	}
	if f.configPath != "" {
		if err := loadStyleFile(cmd, f.configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	f.apply(cmd, &cfg)
	return cfg, cfg.Validate()
}

func (f *styleFlags) apply(cmd *cobra.Command, cfg *styles.Config) {
	changed := cmd.Flags().Changed
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}

	setString("bg", &cfg.Colors.Background, f.background)
	if changed("transparent") && f.transparent {
		cfg.Colors.Background = styles.None
	}
	setString("body", &cfg.Colors.Body, f.body)
	setString("eye-ring", &cfg.Colors.EyeRing, f.eyeRing)
	setString("eye-center", &cfg.Colors.EyeCenter, f.eyeCenter)
	setString("caption-color", &cfg.Colors.Caption, f.captionFg)

	if changed("module-shape") {
		cfg.ModuleShape = styles.ParseKind(f.moduleShape)
	}
	if changed("eye-ring-shape") {
		cfg.EyeRingShape = styles.ParseKind(f.eyeRingShape)
	}
	if changed("eye-center-shape") {
		cfg.EyeCenterShape = styles.ParseKind(f.eyeCenterShape)
	}

	if changed("fill") {
		cfg.ModuleFill = styles.ParseFillMode(f.fill)
	}
	setString("module-emoji", &cfg.ModuleEmoji, f.moduleEmoji)
	if changed("module-scale") {
		cfg.ModuleScale = f.moduleScale
	}

	if changed("center") {
		cfg.Center = f.center
	}
	if changed("center-frac") {
		cfg.CenterFrac = f.centerFrac
	}
	if changed("center-mode") {
		cfg.CenterMode = styles.ParseCenterMode(f.centerMode)
	}
	setString("center-emoji", &cfg.CenterEmoji, f.centerEmoji)
	if changed("center-scale") {
		cfg.CenterScale = f.centerScale
	}

	setString("caption", &cfg.Caption, f.caption)
	setString("caption-font", &cfg.CaptionFont, f.captionFont)
}

// loadStyleFile decodes a TOML style file over cfg. Keys the file does not
// mention keep their current values.
func loadStyleFile(cmd *cobra.Command, path string, cfg *styles.Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read style file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		loggerFromContext(cmd.Context()).Warn("unknown style keys ignored", "file", path, "keys", fmt.Sprint(undecoded))
	}
	return nil
}
