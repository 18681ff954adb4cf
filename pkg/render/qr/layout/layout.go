// Package layout computes the geometry of a styled QR canvas: where the
// finder eyes sit, which modules the centered exclusion box reserves, and how
// large the canvas is once the quiet zone and caption band are added.
//
// Module coordinates count from the top-left module of the symbol, ignoring
// the quiet zone. Pixel coordinates count from the top-left of the canvas.
package layout

import "math"

const (
	DefaultModulePx      = 18
	DefaultBorderModules = 4

	// EyeSize is the side of a finder pattern in modules.
	EyeSize = 7

	captionGapRatio  = 0.06
	captionBandRatio = 0.12
)

// Geometry sets the pixel size of one module and the quiet-zone width.
type Geometry struct {
	ModulePx      int
	BorderModules int
}

// DefaultGeometry returns 18 px modules with a 4 module quiet zone.
func DefaultGeometry() Geometry {
	return Geometry{ModulePx: DefaultModulePx, BorderModules: DefaultBorderModules}
}

// Normalize clamps ModulePx to at least 1 and BorderModules to at least 0.
func (g Geometry) Normalize() Geometry {
	return Geometry{ModulePx: max(1, g.ModulePx), BorderModules: max(0, g.BorderModules)}
}

// Box is an inclusive rectangle in module coordinates.
type Box struct {
	Left, Top, Right, Bottom int
}

// Side returns the box width in modules.
func (b Box) Side() int { return b.Right - b.Left + 1 }

// Contains reports whether module (x, y) lies in the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.Left && x <= b.Right && y >= b.Top && y <= b.Bottom
}

// Eye is the top-left module of a finder pattern.
type Eye struct {
	X, Y int
}

// Box returns the 7×7 module region covered by the eye.
func (e Eye) Box() Box {
	return Box{Left: e.X, Top: e.Y, Right: e.X + EyeSize - 1, Bottom: e.Y + EyeSize - 1}
}

// Eyes returns the top-left, top-right and bottom-left finder positions.
func Eyes(width, height int) [3]Eye {
	return [3]Eye{{0, 0}, {width - EyeSize, 0}, {0, height - EyeSize}}
}

// CenterBox returns the odd-sided square centered on a width×height grid
// whose side is about frac of the shorter grid side. Non-positive or NaN frac
// means DefaultCenterFrac; frac above 1 is treated as 1.
func CenterBox(width, height int, frac float64) Box {
	if math.IsNaN(frac) || frac <= 0 {
		frac = DefaultCenterFrac
	}
	frac = min(frac, 1)

	short := min(width, height)
	d := max(1, int(math.Floor(float64(short)*frac)))
	if d%2 == 0 {
		d--
	}
	d = max(1, min(d, short))

	l := (width - d) / 2
	t := (height - d) / 2
	return Box{Left: l, Top: t, Right: l + d - 1, Bottom: t + d - 1}
}

// DefaultCenterFrac is the exclusion box fraction used when none is set.
const DefaultCenterFrac = 0.25

// Exclusion is the reserved center region in both unit systems.
type Exclusion struct {
	Box    Box
	SidePx float64 // side of the box in pixels
	CX, CY float64 // pixel center of the grid
}

// Layout is the full geometry of one render.
type Layout struct {
	Geometry

	// Symbol size in modules, without quiet zone.
	Width, Height int

	// Symbol plus quiet zone, in pixels.
	FullWidth, FullHeight int

	// Caption band below the symbol, in pixels. Both are zero without a caption.
	CaptionGap, CaptionBand int

	Eyes      [3]Eye
	Exclusion *Exclusion
}

// Options selects the optional regions of a layout.
type Options struct {
	Center     bool
	CenterFrac float64
	Caption    bool
}

// Build lays out a width×height symbol.
func Build(width, height int, g Geometry, opts Options) Layout {
	g = g.Normalize()
	px, b := g.ModulePx, g.BorderModules

	l := Layout{
		Geometry:   g,
		Width:      width,
		Height:     height,
		FullWidth:  (width + 2*b) * px,
		FullHeight: (height + 2*b) * px,
		Eyes:       Eyes(width, height),
	}

	if opts.Caption {
		gridW := float64(width * px)
		l.CaptionGap = int(gridW * captionGapRatio)
		l.CaptionBand = int(gridW * captionBandRatio)
	}

	if opts.Center {
		box := CenterBox(width, height, opts.CenterFrac)
		l.Exclusion = &Exclusion{
			Box:    box,
			SidePx: float64(box.Side() * px),
			CX:     float64(b*px) + float64(width*px)/2,
			CY:     float64(b*px) + float64(height*px)/2,
		}
	}
	return l
}

// CanvasWidth is the document width in pixels.
func (l Layout) CanvasWidth() int { return l.FullWidth }

// CanvasHeight is the document height in pixels, including any caption band.
func (l Layout) CanvasHeight() int { return l.FullHeight + l.CaptionGap + l.CaptionBand }

// GridWidth is the symbol width in pixels without the quiet zone.
func (l Layout) GridWidth() float64 { return float64(l.Width * l.ModulePx) }

// InEye reports whether module (x, y) belongs to a finder pattern.
func (l Layout) InEye(x, y int) bool {
	for _, e := range l.Eyes {
		if e.Box().Contains(x, y) {
			return true
		}
	}
	return false
}

// InExclusion reports whether module (x, y) is reserved by the center box.
func (l Layout) InExclusion(x, y int) bool {
	return l.Exclusion != nil && l.Exclusion.Box.Contains(x, y)
}

// Skip reports whether body fill must not be drawn at module (x, y).
// Eye and exclusion checks are independent; either one suppresses the module.
func (l Layout) Skip(x, y int) bool {
	return l.InEye(x, y) || l.InExclusion(x, y)
}

// Origin returns the canvas pixel position of the top-left corner of module (x, y).
func (l Layout) Origin(x, y int) (float64, float64) {
	return float64((x + l.BorderModules) * l.ModulePx), float64((y + l.BorderModules) * l.ModulePx)
}
