package styles

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// None is the SVG paint value for "draw nothing".
const None = "none"

// IsNone reports whether s is one of the transparent sentinels: empty,
// "none" or "transparent".
func IsNone(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", None, "transparent":
		return true
	}
	return false
}

// NormalizeColor converts a configured color into an SVG paint value.
// Sentinels become "none", hex colors become lowercase #rrggbb, and
// anything else (named colors, rgb() forms) passes through lowercased.
func NormalizeColor(s string) string {
	if IsNone(s) {
		return None
	}
	s = strings.TrimSpace(s)
	if c, err := colorful.Hex(s); err == nil {
		return c.Hex()
	}
	return strings.ToLower(s)
}

// Contrast returns the WCAG contrast ratio between two hex colors, from 1
// (identical luminance) to 21 (black on white). ok is false when either
// color is a sentinel or cannot be parsed. A transparent background is
// treated as white.
func Contrast(fg, bg string) (ratio float64, ok bool) {
	if IsNone(bg) {
		bg = "#ffffff"
	}
	if IsNone(fg) {
		return 0, false
	}
	f, err := colorful.Hex(NormalizeColor(fg))
	if err != nil {
		return 0, false
	}
	b, err := colorful.Hex(NormalizeColor(bg))
	if err != nil {
		return 0, false
	}
	lf, lb := luminance(f), luminance(b)
	return (math.Max(lf, lb) + 0.05) / (math.Min(lf, lb) + 0.05), true
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
