package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/emojiqr/pkg/assets"
	"github.com/matzehuels/emojiqr/pkg/observability"
	"github.com/matzehuels/emojiqr/pkg/render"
	"github.com/matzehuels/emojiqr/pkg/render/qr/sink"
)

// SVGOptions returns the sink options for opts.
func SVGOptions(opts Options, store assets.Store) []sink.SVGOption {
	if store == nil {
		store = assets.None{}
	}
	return []sink.SVGOption{
		sink.WithStyle(opts.Style),
		sink.WithGeometry(opts.Geometry()),
		sink.WithAssets(store),
	}
}

// Render draws g once and converts the document into every requested format.
func Render(ctx context.Context, g sink.Grid, store assets.Store, opts Options) (*sink.Document, map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	svgOpts := SVGOptions(opts, store)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	doc, err := sink.Render(g, svgOpts...)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		start := time.Now()
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = doc.SVG
		case FormatPNG:
			data, err = render.ToPNG(doc.SVG, opts.PNGWidth, render.WithEngine(render.Engine(opts.Engine)))
		case FormatPDF:
			data, err = render.ToPDF(doc.SVG)
		case FormatJSON:
			data, err = sink.RenderJSON(g, svgOpts...)
		default:
			err = ValidateFormat(format)
		}
		hooks.OnConvert(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return doc, artifacts, nil
}
