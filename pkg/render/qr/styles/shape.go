package styles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind selects the contour drawn for a module or finder-eye part.
type Kind string

const (
	Square  Kind = "square"
	Rounded Kind = "rounded"
	Circle  Kind = "circle"
)

// Kinds lists the supported shape kinds.
var Kinds = []Kind{Square, Rounded, Circle}

const roundedRadiusRatio = 0.22

// ParseKind maps a shape name to a Kind. Matching ignores case and
// surrounding space; anything unrecognized is Square.
func ParseKind(s string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Rounded, Circle:
		return k
	}
	return Square
}

// UnmarshalText lets TOML and flag values use any casing.
func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// Path returns a closed SVG path inscribed in the square [x, x+side] × [y, y+side].
// The same generator serves 1-module body cells and the 7, 5 and 3 module eye parts.
func Path(k Kind, x, y, side float64) string {
	switch ParseKind(string(k)) {
	case Circle:
		r := side / 2
		return fmt.Sprintf("M %s,%s m %s,0 a %s,%s 0 1,0 %s,0 a %s,%s 0 1,0 %s,0 Z",
			Num(x+r), Num(y+r), Num(-r), Num(r), Num(r), Num(side), Num(r), Num(r), Num(-side))
	case Rounded:
		return roundRect(x, y, side, side, side*roundedRadiusRatio)
	}
	return fmt.Sprintf("M%s,%s h%s v%s h%s Z", Num(x), Num(y), Num(side), Num(side), Num(-side))
}

// roundRect draws clockwise from the top edge. The radius is clamped so
// corners never overlap.
func roundRect(x, y, w, h, r float64) string {
	r = max(0, min(r, w/2, h/2))
	rs := Num(r)
	return fmt.Sprintf("M%s,%s H%s A%s,%s 0 0 1 %s,%s V%s A%s,%s 0 0 1 %s,%s H%s A%s,%s 0 0 1 %s,%s V%s A%s,%s 0 0 1 %s,%s Z",
		Num(x+r), Num(y), Num(x+w-r),
		rs, rs, Num(x+w), Num(y+r), Num(y+h-r),
		rs, rs, Num(x+w-r), Num(y+h), Num(x+r),
		rs, rs, Num(x), Num(y+h-r), Num(y+r),
		rs, rs, Num(x+r), Num(y))
}

// Num formats a coordinate with at most three decimals and no trailing zeros.
func Num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
