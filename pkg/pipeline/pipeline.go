// Package pipeline runs the encode → render → convert pipeline for emojiqr.
//
// The CLI and the HTTP server both go through a [Runner], so caching, hooks
// and defaults behave the same everywhere.
//
// # Stages
//
//  1. Encode: content → module matrix (skip2/go-qrcode), cached per content and level
//  2. Render: matrix + style → SVG document (pkg/render/qr/sink)
//  3. Convert: SVG → PNG/PDF, or the geometry as JSON
//
// Artifacts are cached all-or-nothing under a hash of every input that
// affects them, so a repeated request with the same options is served
// without encoding or rendering.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, assets.NewDir("emoji_assets"), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Content: "https://example.com",
//	    Style:   cfg,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/emojiqr/pkg/cache"
	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/matrix"
	"github.com/matzehuels/emojiqr/pkg/render"
	"github.com/matzehuels/emojiqr/pkg/render/qr/layout"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

const (
	// DefaultModulePx is the default edge length of one module in pixels.
	DefaultModulePx = layout.DefaultModulePx

	// DefaultBorder is the default quiet zone in modules.
	DefaultBorder = layout.DefaultBorderModules

	// DefaultPNGWidth is the default PNG width in pixels.
	DefaultPNGWidth = render.DefaultPNGWidth

	// MinContrast is the body/background contrast ratio below which a
	// warning is reported. Scanners struggle under roughly 3:1.
	MinContrast = 3.0
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, lowercasing entries and
// dropping blanks and duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// Options configures one pipeline run.
type Options struct {
	Content string `json:"content"`
	Level   string `json:"level,omitempty"`

	// ModulePx is the module edge in pixels; zero selects DefaultModulePx.
	ModulePx int `json:"module_px,omitempty"`
	// Border is the quiet zone in modules; nil selects DefaultBorder and zero
	// draws no quiet zone.
	Border *int `json:"border,omitempty"`

	Style styles.Config `json:"style"`

	Formats  []string `json:"formats,omitempty"`
	PNGWidth int      `json:"png_width,omitempty"`
	Engine   string   `json:"engine,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"-"`

	Logger *log.Logger `json:"-"`

	// Matrix, when set, is rendered instead of encoding Content.
	Matrix *matrix.Matrix `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Matrix == nil {
		if err := errors.ValidateContent(o.Content); err != nil {
			return err
		}
	}
	level, err := matrix.ParseLevel(o.Level)
	if err != nil {
		return err
	}
	o.Level = string(level)

	switch {
	case o.ModulePx == 0:
		o.ModulePx = DefaultModulePx
	case o.ModulePx < 0:
		return errors.New(errors.ErrCodeInvalidInput, "module_px must be positive, got %d", o.ModulePx)
	}
	switch {
	case o.Border == nil:
		o.Border = Border(DefaultBorder)
	case *o.Border < 0:
		return errors.New(errors.ErrCodeInvalidInput, "border must not be negative, got %d", *o.Border)
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.PNGWidth == 0 {
		o.PNGWidth = DefaultPNGWidth
	}
	if o.PNGWidth < 1 || o.PNGWidth > render.MaxPNGWidth {
		return errors.New(errors.ErrCodeInvalidInput, "png width %d out of range [1, %d]", o.PNGWidth, render.MaxPNGWidth)
	}
	engine, err := render.ParseEngine(o.Engine)
	if err != nil {
		return err
	}
	o.Engine = string(engine)

	if o.Style == (styles.Config{}) {
		o.Style = styles.DefaultConfig()
	}
	if err := o.Style.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Border returns a pointer to n for Options.Border.
func Border(n int) *int { return &n }

// Geometry returns the pixel geometry of the options.
func (o *Options) Geometry() layout.Geometry {
	border := DefaultBorder
	if o.Border != nil {
		border = *o.Border
	}
	return layout.Geometry{ModulePx: o.ModulePx, BorderModules: border}.Normalize()
}

// RenderHash identifies everything that changes the rendered document.
func (o *Options) RenderHash() (string, error) {
	source := o.Content
	if o.Matrix != nil {
		text, err := o.Matrix.MarshalText()
		if err != nil {
			return "", err
		}
		source = "matrix:" + string(text)
	}
	return cache.HashJSON(struct {
		Source   string          `json:"source"`
		Level    string          `json:"level"`
		Geometry layout.Geometry `json:"geometry"`
		Style    styles.Config   `json:"style"`
	}{source, o.Level, o.Geometry(), o.Style})
}

// ShortHash returns at most the first n characters of h.
func ShortHash(h string, n int) string {
	if len(h) <= n {
		return h
	}
	return h[:n]
}

// ArtifactKeyOpts returns the cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.Width = o.PNGWidth
		opts.Engine = o.Engine
	}
	return opts
}

// Result holds the outputs of a run.
type Result struct {
	// Artifacts maps each requested format to its bytes.
	Artifacts map[string][]byte

	Width   int    // canvas width in pixels
	Height  int    // canvas height in pixels
	Side    int    // modules per side of the symbol
	Modules int    // body modules drawn
	Overlay string // center overlay kind: none, image or text

	RenderHash string

	// Warnings are non-fatal problems such as low contrast.
	Warnings []string

	Stats Stats

	// CacheHit reports that every artifact came from the cache.
	CacheHit bool
}

// Stats holds stage timings.
type Stats struct {
	EncodeTime  time.Duration
	RenderTime  time.Duration
	ConvertTime time.Duration
	MatrixHit   bool
}
