// Package sink provides output format renderers for styled QR symbols.
//
// # Overview
//
// A "sink" turns a module [Grid] plus a [styles.Config] and a
// [layout.Geometry] into a final output format:
//
//   - SVG: the composited vector document
//   - JSON: the computed geometry, for clients that draw themselves
//   - PNG: raster output via [render.ToPNG]
//   - PDF: print output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] writes one self-contained document. Layers are emitted in a
// fixed order so later layers sit on top:
//
//  1. Background rectangle (omitted when the background is transparent)
//  2. Body modules: one combined path, or one emoji text node per module
//  3. Finder eyes: ring (even-odd) and core for each of the three corners
//  4. Center overlay: embedded raster asset or emoji text
//  5. Caption text
//
// Body modules inside a finder eye or the center exclusion box are skipped.
// Rendering is deterministic: identical inputs produce identical bytes.
//
//	svg, err := sink.RenderSVG(m,
//	    sink.WithStyle(cfg),
//	    sink.WithGeometry(layout.Geometry{ModulePx: 18, BorderModules: 4}),
//	    sink.WithAssets(assets.NewDir("emoji_assets")),
//	)
//
// [Render] returns the same document together with its canvas size, the
// number of body modules drawn, and which overlay was used.
//
// # Errors
//
// The only error is INVALID_MATRIX, for a nil grid or one smaller than 7×7.
// Unknown shapes, transparent colors, out-of-range scales, long captions and
// missing assets all degrade silently.
//
// # PDF and PNG Output
//
//	png, err := sink.RenderPNG(m, sink.WithWidth(1024), sink.WithPNGSVGOptions(opts...))
//	pdf, err := sink.RenderPDF(m, sink.WithPDFSVGOptions(opts...))
//
// [render.ToPNG]: github.com/matzehuels/emojiqr/pkg/render
package sink
