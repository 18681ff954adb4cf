package sink

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/emojiqr/pkg/render/qr/layout"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

// renderCaption centers the caption horizontally on the canvas and vertically
// in the band between the grid and the canvas bottom.
func renderCaption(buf *bytes.Buffer, l layout.Layout, c styles.Config) {
	text := styles.TruncateCaption(c.Caption)
	if text == "" {
		return
	}

	area := float64(l.CaptionGap + l.CaptionBand)
	fs := styles.CaptionFontSize(l.GridWidth(), area, utf8.RuneCountInString(text))
	x := float64(l.CanvasWidth()) / 2
	y := float64(l.FullHeight+l.CanvasHeight())/2 - fs*0.5

	font := strings.TrimSpace(c.CaptionFont)
	if font == "" {
		font = styles.DefaultCaptionFont
	}

	fmt.Fprintf(buf, `<text x="%.3f" y="%.3f" text-anchor="middle" alignment-baseline="middle" font-size="%.3fpx" font-family="%s" fill="%s">%s</text>`+"\n",
		x, y, fs, styles.EscapeXML(font), paint(c.Colors.Caption), styles.EscapeXML(text))
}
