package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"os/exec"
	"strconv"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/emojiqr/pkg/errors"
)

// DefaultPNGWidth is the PNG output width when none is requested.
const DefaultPNGWidth = 1024

// MaxPNGWidth bounds rasterization memory (4 bytes per pixel).
const MaxPNGWidth = 8192

// Engine selects the SVG rasterizer.
type Engine string

const (
	// EngineAuto uses rsvg-convert when installed and the native rasterizer otherwise.
	EngineAuto Engine = "auto"
	// EngineNative rasterizes paths in-process. Text and embedded images are skipped.
	EngineNative Engine = "native"
	// EngineRSVG shells out to rsvg-convert, which also draws text and images.
	EngineRSVG Engine = "rsvg"
)

// ParseEngine parses an engine name; the empty string means EngineAuto.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(s); e {
	case "":
		return EngineAuto, nil
	case EngineAuto, EngineNative, EngineRSVG:
		return e, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown rasterizer %q (use auto, native or rsvg)", s)
}

// PNGOption configures ToPNG.
type PNGOption func(*pngConfig)

type pngConfig struct {
	engine Engine
}

// WithEngine selects the rasterizer.
func WithEngine(e Engine) PNGOption { return func(c *pngConfig) { c.engine = e } }

// HasRSVG reports whether rsvg-convert is on PATH.
func HasRSVG() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to a PNG width pixels wide. The height follows the
// document's aspect ratio. A width of 0 means DefaultPNGWidth.
func ToPNG(svg []byte, width int, opts ...PNGOption) ([]byte, error) {
	cfg := pngConfig{engine: EngineAuto}
	for _, opt := range opts {
		opt(&cfg)
	}
	if width == 0 {
		width = DefaultPNGWidth
	}
	if width < 1 || width > MaxPNGWidth {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png width %d out of range [1, %d]", width, MaxPNGWidth)
	}

	switch cfg.engine {
	case EngineRSVG:
		return rsvgConvert(svg, "png", "-w", strconv.Itoa(width))
	case EngineNative:
		return rasterize(svg, width)
	}
	if HasRSVG() {
		return rsvgConvert(svg, "png", "-w", strconv.Itoa(width))
	}
	return rasterize(svg, width)
}

// rasterize draws the document with oksvg. Elements oksvg does not support,
// such as <text> and <image>, are ignored.
func rasterize(svg []byte, width int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse svg")
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "svg has no usable viewBox")
	}

	height := max(1, int(math.Round(float64(width)*vh/vw)))
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !HasRSVG() {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Errorf("%v: %s", err, errBuf.String()), "rsvg-convert")
	}
	return out.Bytes(), nil
}
