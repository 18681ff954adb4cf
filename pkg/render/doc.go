// Package render turns QR module matrices into images.
//
// # Overview
//
// The compositor lives in the [qr] subpackages and produces SVG. This package
// converts that SVG into other formats:
//
//   - [ToPNG] rasterizes in-process with oksvg/rasterx, or with rsvg-convert
//     when it is installed and the document contains text or images
//   - [ToPDF] always uses rsvg-convert (from librsvg)
//
//	svg, err := sink.RenderSVG(m, sink.WithStyle(cfg))
//	png, err := render.ToPNG(svg, 1024)
//	pdf, err := render.ToPDF(svg)
//
// The native rasterizer ignores <text> and <image> elements, so emoji module
// fill, emoji center overlays and captions only appear in PNGs produced by
// rsvg-convert. Select the engine explicitly with [WithEngine].
//
// # QR Compositor
//
// Key subpackages:
//   - [qr/layout]: canvas size, finder eyes, center exclusion box
//   - [qr/styles]: colors, shapes, caption fitting
//   - [qr/sink]: SVG, PNG and PDF output
//
// [qr]: github.com/matzehuels/emojiqr/pkg/render/qr
// [qr/layout]: github.com/matzehuels/emojiqr/pkg/render/qr/layout
// [qr/styles]: github.com/matzehuels/emojiqr/pkg/render/qr/styles
// [qr/sink]: github.com/matzehuels/emojiqr/pkg/render/qr/sink
package render
