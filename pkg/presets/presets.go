// Package presets resolves named factory looks into style configurations.
//
// The library is an explicit, versioned TOML document. A look is selected by
// payload type (URL, Payment, WiFi, Contact, Message) and index; the index
// wraps around the number of looks so every integer is valid.
//
//	cfg, err := presets.Resolve("wifi", 1) // the "SIGNAL" look
//
// The embedded factory library is used by the package-level functions.
// [Parse] loads a user library with the same schema.
package presets

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

// SupportedVersion is the library schema version this package understands.
const SupportedVersion = 1

//go:embed presets.toml
var factoryTOML []byte

// Look is one preset as stored in the library.
type Look struct {
	Caption        string  `toml:"caption"`
	CenterEmoji    string  `toml:"center_emoji"`
	Body           string  `toml:"body"`
	EyeRing        string  `toml:"eye_ring"`
	EyeCenter      string  `toml:"eye_center"`
	Background     string  `toml:"bg"`
	BgTransparent  bool    `toml:"bg_transparent"`
	ModuleShape    string  `toml:"module_shape"`
	EyeRingShape   string  `toml:"eye_ring_shape"`
	EyeCenterShape string  `toml:"eye_center_shape"`
	ModulesMode    string  `toml:"modules_mode"`
	ModulesEmoji   string  `toml:"modules_emoji"`
	ModulesScale   float64 `toml:"modules_scale"`
	CenterLogo     bool    `toml:"center_logo"`
	CenterMode     string  `toml:"center_mode"`
	CenterScale    float64 `toml:"center_scale"`
	CaptionColor   string  `toml:"caption_color"`
}

// Config converts the look into a style configuration. Fields the look does
// not set keep their styles.DefaultConfig values.
func (l Look) Config() styles.Config {
	cfg := styles.DefaultConfig()

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Colors.Background, l.Background)
	set(&cfg.Colors.Body, l.Body)
	set(&cfg.Colors.EyeRing, l.EyeRing)
	set(&cfg.Colors.EyeCenter, l.EyeCenter)
	set(&cfg.Colors.Caption, l.CaptionColor)
	if l.BgTransparent {
		cfg.Colors.Background = "transparent"
	}

	cfg.ModuleShape = styles.ParseKind(l.ModuleShape)
	cfg.EyeRingShape = styles.ParseKind(l.EyeRingShape)
	cfg.EyeCenterShape = styles.ParseKind(l.EyeCenterShape)
	cfg.ModuleFill = styles.ParseFillMode(l.ModulesMode)
	set(&cfg.ModuleEmoji, l.ModulesEmoji)
	if l.ModulesScale != 0 {
		cfg.ModuleScale = l.ModulesScale
	}

	cfg.Center = l.CenterLogo
	cfg.CenterMode = styles.ParseCenterMode(l.CenterMode)
	set(&cfg.CenterEmoji, l.CenterEmoji)
	if l.CenterScale != 0 {
		cfg.CenterScale = l.CenterScale
	}
	cfg.Caption = l.Caption
	return cfg
}

// Type is a payload type and its looks.
type Type struct {
	Name  string `toml:"name"`
	Looks []Look `toml:"looks"`
}

// Library is a parsed preset document.
type Library struct {
	Version int    `toml:"version"`
	Types   []Type `toml:"types"`
}

// Parse decodes and validates a preset library.
func Parse(data []byte) (*Library, error) {
	var lib Library
	if _, err := toml.Decode(string(data), &lib); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse preset library")
	}
	if lib.Version != SupportedVersion {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "preset library version %d not supported (want %d)", lib.Version, SupportedVersion)
	}
	seen := make(map[string]bool, len(lib.Types))
	for _, t := range lib.Types {
		key := strings.ToLower(t.Name)
		if key == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "preset type without name")
		}
		if seen[key] {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "duplicate preset type %q", t.Name)
		}
		if len(t.Looks) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "preset type %q has no looks", t.Name)
		}
		seen[key] = true
	}
	return &lib, nil
}

// TypeNames returns the type names in document order.
func (lib *Library) TypeNames() []string {
	names := make([]string, len(lib.Types))
	for i, t := range lib.Types {
		names[i] = t.Name
	}
	return names
}

// Find returns the type whose name matches kind, ignoring case.
func (lib *Library) Find(kind string) (*Type, bool) {
	for i := range lib.Types {
		if strings.EqualFold(lib.Types[i].Name, strings.TrimSpace(kind)) {
			return &lib.Types[i], true
		}
	}
	return nil, false
}

// Look returns the look at index, wrapping in both directions.
func (lib *Library) Look(kind string, index int) (Look, error) {
	t, ok := lib.Find(kind)
	if !ok {
		return Look{}, errors.New(errors.ErrCodePresetNotFound, "no presets for type %q (have %s)", kind, strings.Join(lib.TypeNames(), ", "))
	}
	n := len(t.Looks)
	return t.Looks[((index%n)+n)%n], nil
}

// Resolve returns the style for the look at index.
func (lib *Library) Resolve(kind string, index int) (styles.Config, error) {
	l, err := lib.Look(kind, index)
	if err != nil {
		return styles.Config{}, err
	}
	return l.Config(), nil
}

// Captions returns the look captions of kind, or nil for an unknown type.
func (lib *Library) Captions(kind string) []string {
	t, ok := lib.Find(kind)
	if !ok {
		return nil
	}
	out := make([]string, len(t.Looks))
	for i, l := range t.Looks {
		out[i] = l.Caption
		if out[i] == "" {
			out[i] = "Unnamed"
		}
	}
	return out
}

var factory = sync.OnceValues(func() (*Library, error) { return Parse(factoryTOML) })

// Factory returns the embedded library. It panics if the embedded document
// is invalid.
func Factory() *Library {
	lib, err := factory()
	if err != nil {
		panic(err)
	}
	return lib
}

// Version returns the embedded library version.
func Version() int { return Factory().Version }

// Types returns the embedded payload type names in document order.
func Types() []string { return Factory().TypeNames() }

// Looks returns the embedded look captions for kind.
func Looks(kind string) []string { return Factory().Captions(kind) }

// Resolve returns the embedded style for (kind, index).
func Resolve(kind string, index int) (styles.Config, error) {
	return Factory().Resolve(kind, index)
}
