package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/emojiqr/pkg/assets"
	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/matrix"
	"github.com/matzehuels/emojiqr/pkg/render/qr/layout"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

// Grid is a read-only module matrix. *matrix.Matrix implements it.
type Grid interface {
	Width() int
	Height() int
	At(x, y int) bool
}

// Overlay reports what was drawn in the exclusion box.
type Overlay string

const (
	OverlayNone  Overlay = "none"
	OverlayImage Overlay = "image"
	OverlayText  Overlay = "text"
)

// Document is a rendered SVG with its measurements.
type Document struct {
	SVG     []byte
	Width   int     // canvas width in pixels
	Height  int     // canvas height in pixels
	Modules int     // body modules drawn (eyes excluded)
	Overlay Overlay // center overlay kind
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  styles.Config
	geom   layout.Geometry
	assets assets.Store
}

func WithStyle(c styles.Config) SVGOption      { return func(r *svgRenderer) { r.style = c } }
func WithGeometry(g layout.Geometry) SVGOption { return func(r *svgRenderer) { r.geom = g } }
func WithAssets(s assets.Store) SVGOption      { return func(r *svgRenderer) { r.assets = s } }

// RenderSVG renders g as a styled SVG document.
func RenderSVG(g Grid, opts ...SVGOption) ([]byte, error) {
	doc, err := Render(g, opts...)
	if err != nil {
		return nil, err
	}
	return doc.SVG, nil
}

// Render renders g and reports the canvas measurements. The only failure is
// a structurally invalid grid; every style problem degrades silently.
func Render(g Grid, opts ...SVGOption) (*Document, error) {
	if err := checkGrid(g); err != nil {
		return nil, err
	}
	r := newSVGRenderer(opts...)
	l := layout.Build(g.Width(), g.Height(), r.geom, layout.Options{
		Center:     r.style.Center,
		CenterFrac: r.style.CenterFrac,
		Caption:    r.style.HasCaption(),
	})

	doc := &Document{Width: l.CanvasWidth(), Height: l.CanvasHeight()}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		doc.Width, doc.Height, doc.Width, doc.Height)

	renderBackground(&buf, doc.Width, doc.Height, r.style.Colors.Background)
	doc.Modules = renderModules(&buf, g, l, r.style)
	renderEyes(&buf, l, r.style)
	doc.Overlay = renderOverlay(&buf, l, r.style, r.assets)
	renderCaption(&buf, l, r.style)

	buf.WriteString("</svg>\n")
	doc.SVG = buf.Bytes()
	return doc, nil
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		style:  styles.DefaultConfig(),
		geom:   layout.DefaultGeometry(),
		assets: assets.None{},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func checkGrid(g Grid) error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidMatrix, "matrix is nil")
	}
	if m, ok := g.(*matrix.Matrix); ok && m == nil {
		return errors.New(errors.ErrCodeInvalidMatrix, "matrix is nil")
	}
	w, h := g.Width(), g.Height()
	if w < matrix.MinSide || h < matrix.MinSide {
		return errors.New(errors.ErrCodeInvalidMatrix, "matrix is %dx%d, need at least %dx%d",
			w, h, matrix.MinSide, matrix.MinSide)
	}
	return nil
}

func renderBackground(buf *bytes.Buffer, w, h int, color string) {
	fill := styles.NormalizeColor(color)
	if fill == styles.None {
		return
	}
	fmt.Fprintf(buf, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n", w, h, styles.EscapeXML(fill))
}

// paint returns an escaped fill attribute value.
func paint(color string) string {
	return styles.EscapeXML(styles.NormalizeColor(color))
}
