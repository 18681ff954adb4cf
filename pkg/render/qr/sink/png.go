package sink

import (
	"github.com/matzehuels/emojiqr/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	width   int
	engine  render.Engine
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithWidth sets the PNG width in pixels (default 1024).
func WithWidth(w int) PNGOption {
	return func(r *pngRenderer) { r.width = w }
}

// WithEngine selects the rasterizer (default auto).
func WithEngine(e render.Engine) PNGOption {
	return func(r *pngRenderer) { r.engine = e }
}

// RenderPNG renders the grid as PNG via SVG conversion.
func RenderPNG(g Grid, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{width: render.DefaultPNGWidth, engine: render.EngineAuto}
	for _, opt := range opts {
		opt(&r)
	}
	svg, err := RenderSVG(g, r.svgOpts...)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, r.width, render.WithEngine(r.engine))
}
