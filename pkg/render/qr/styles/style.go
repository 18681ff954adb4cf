// Package styles defines how a QR symbol looks: colors, module and eye
// shapes, emoji fill, the center overlay, and the caption.
//
// Every option degrades silently instead of failing. Unknown shape names draw
// squares, transparent sentinels draw nothing, and out-of-range scales are
// clamped. The options are:
//
//	Colors.Background   canvas fill; a sentinel omits the background rect
//	Colors.Body         fill of shape-mode modules
//	Colors.EyeRing      fill of the three 7×7 finder rings
//	Colors.EyeCenter    fill of the three 3×3 finder cores
//	Colors.Caption      caption text fill
//	ModuleShape         square | rounded | circle
//	EyeRingShape        square | rounded | circle
//	EyeCenterShape      square | rounded | circle
//	ModuleFill          shape (one combined path) | emoji (one glyph per module)
//	ModuleEmoji         glyph used by emoji fill
//	ModuleScale         module size fraction, clamped to [0.6, 1.0]; 0 means 1.0
//	Center              reserve a centered square free of body modules
//	CenterFrac          target side of that square, as a fraction of the grid
//	CenterMode          none | emoji
//	CenterEmoji         glyph (or raster asset) drawn in the reserved square
//	CenterScale         overlay size fraction of the square, in (0, 1]
//	Caption             text below the grid; at most 25 characters are drawn
//	CaptionFont         caption font-family list
package styles

import (
	"math"
	"strings"

	"github.com/matzehuels/emojiqr/pkg/errors"
)

// FillMode selects how body modules are drawn.
type FillMode string

const (
	FillShape FillMode = "shape"
	FillEmoji FillMode = "emoji"
)

// ParseFillMode ignores case; anything but "emoji" is FillShape.
func ParseFillMode(s string) FillMode {
	if strings.EqualFold(strings.TrimSpace(s), string(FillEmoji)) {
		return FillEmoji
	}
	return FillShape
}

func (m *FillMode) UnmarshalText(b []byte) error {
	*m = ParseFillMode(string(b))
	return nil
}

// CenterMode selects what is drawn inside the exclusion box.
type CenterMode string

const (
	CenterNone  CenterMode = "none"
	CenterEmoji CenterMode = "emoji"
)

// ParseCenterMode ignores case; anything but "emoji" is CenterNone.
func ParseCenterMode(s string) CenterMode {
	if strings.EqualFold(strings.TrimSpace(s), string(CenterEmoji)) {
		return CenterEmoji
	}
	return CenterNone
}

func (m *CenterMode) UnmarshalText(b []byte) error {
	*m = ParseCenterMode(string(b))
	return nil
}

// Colors holds the paint for each drawn layer.
type Colors struct {
	Background string `toml:"background" json:"background"`
	Body       string `toml:"body" json:"body"`
	EyeRing    string `toml:"eye_ring" json:"eye_ring"`
	EyeCenter  string `toml:"eye_center" json:"eye_center"`
	Caption    string `toml:"caption" json:"caption"`
}

// Config is the complete style of one render.
type Config struct {
	Colors Colors `toml:"colors" json:"colors"`

	ModuleShape    Kind `toml:"module_shape" json:"module_shape"`
	EyeRingShape   Kind `toml:"eye_ring_shape" json:"eye_ring_shape"`
	EyeCenterShape Kind `toml:"eye_center_shape" json:"eye_center_shape"`

	ModuleFill  FillMode `toml:"module_fill" json:"module_fill"`
	ModuleEmoji string   `toml:"module_emoji" json:"module_emoji"`
	ModuleScale float64  `toml:"module_scale" json:"module_scale"`

	Center      bool       `toml:"center" json:"center"`
	CenterFrac  float64    `toml:"center_frac" json:"center_frac"`
	CenterMode  CenterMode `toml:"center_mode" json:"center_mode"`
	CenterEmoji string     `toml:"center_emoji" json:"center_emoji"`
	CenterScale float64    `toml:"center_scale" json:"center_scale"`

	Caption     string `toml:"caption" json:"caption"`
	CaptionFont string `toml:"caption_font" json:"caption_font"`
}

const (
	ModuleScaleMin     = 0.6
	ModuleScaleMax     = 1.0
	DefaultModuleScale = 0.9
	DefaultCenterFrac  = 0.25
	DefaultCenterScale = 0.9
)

// DefaultConfig returns black square modules on white, no center box and
// no caption.
func DefaultConfig() Config {
	return Config{
		Colors: Colors{
			Background: "#ffffff",
			Body:       "#000000",
			EyeRing:    "#000000",
			EyeCenter:  "#000000",
			Caption:    "#000000",
		},
		ModuleShape:    Square,
		EyeRingShape:   Square,
		EyeCenterShape: Square,
		ModuleFill:     FillShape,
		ModuleEmoji:    "😀",
		ModuleScale:    DefaultModuleScale,
		CenterFrac:     DefaultCenterFrac,
		CenterMode:     CenterNone,
		CenterEmoji:    "😊",
		CenterScale:    DefaultCenterScale,
		CaptionFont:    DefaultCaptionFont,
	}
}

// ClampModuleScale clamps s to [0.6, 1.0]. Zero and NaN mean full size.
func ClampModuleScale(s float64) float64 {
	if s == 0 || math.IsNaN(s) {
		return ModuleScaleMax
	}
	return max(ModuleScaleMin, min(ModuleScaleMax, s))
}

// ClampCenterScale keeps s in (0, 1]. Values outside it, and NaN, mean full size.
func ClampCenterScale(s float64) float64 {
	if math.IsNaN(s) || s <= 0 || s > 1 {
		return 1
	}
	return s
}

// Validate checks the free-text fields and that every number is finite.
// Finite out-of-range values degrade at render time.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"module_scale", c.ModuleScale},
		{"center_frac", c.CenterFrac},
		{"center_scale", c.CenterScale},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be a finite number, got %v", f.name, f.v)
		}
	}
	if err := errors.ValidateGlyph(c.ModuleEmoji); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "module_emoji")
	}
	if err := errors.ValidateGlyph(c.CenterEmoji); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "center_emoji")
	}
	if strings.ContainsAny(c.CaptionFont, `<>"`) {
		return errors.New(errors.ErrCodeInvalidConfig, "caption_font contains markup characters")
	}
	return nil
}

// WantsCenterOverlay reports whether an overlay is drawn in the exclusion box.
func (c Config) WantsCenterOverlay() bool {
	return c.Center && ParseCenterMode(string(c.CenterMode)) == CenterEmoji && strings.TrimSpace(c.CenterEmoji) != ""
}

// HasCaption reports whether a caption band is reserved.
func (c Config) HasCaption() bool {
	return TruncateCaption(c.Caption) != ""
}
