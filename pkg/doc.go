// Package pkg provides the core libraries for emojiqr, a styled QR code compositor.
//
// # Overview
//
// emojiqr turns a payload into a QR module matrix and composes it into a vector
// image: shaped or emoji modules, styled finder eyes, an optional center overlay
// and a caption. The pkg directory is organized into these areas:
//
//  1. [payload] and [matrix] - what gets encoded and the resulting module grid
//  2. [render] - the SVG compositor and SVG to PNG/PDF conversion
//  3. [presets] - the factory look library
//  4. [pipeline] - orchestration (encode → render → convert) with caching
//  5. [cache], [assets], [observability], [errors] - shared infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	payload fields (url, wifi, vcard, ...)
//	         ↓
//	    [payload] package (build the encoded string)
//	         ↓
//	    [matrix] package (QR module matrix)
//	         ↓
//	    [render/qr/sink] package (SVG composition)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
//	content, _ := payload.Build("url", map[string]string{"url": "https://example.com"})
//	m, _ := matrix.Encode(content, matrix.LevelH)
//	cfg, _ := presets.Factory().Resolve("URL", 0)
//	svg, _ := sink.RenderSVG(m, sink.WithStyle(cfg))
//
// The [pipeline] package does the same behind a cache:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, assets.None{}, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Content: content, Formats: []string{"svg", "png"}})
//
// # Testing
//
//	go test ./pkg/...
//
// [payload]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/payload
// [matrix]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/matrix
// [render]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/render
// [render/qr/sink]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/render/qr/sink
// [presets]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/presets
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/cache
// [assets]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/assets
// [observability]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/emojiqr/pkg/errors
package pkg
