package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/emojiqr/pkg/render/qr/layout"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

// renderModules draws every dark module outside the eyes and the exclusion
// box and returns how many were drawn. Shape fill shares a single path;
// emoji fill writes one text node per module.
func renderModules(buf *bytes.Buffer, g Grid, l layout.Layout, c styles.Config) int {
	px := float64(l.ModulePx)
	s := styles.ClampModuleScale(c.ModuleScale)
	side := px * s
	pad := (px - side) / 2

	glyph := strings.TrimSpace(c.ModuleEmoji)
	if styles.ParseFillMode(string(c.ModuleFill)) == styles.FillEmoji && glyph != "" {
		return renderEmojiModules(buf, g, l, styles.EscapeXML(glyph), side)
	}

	var parts []string
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !g.At(x, y) || l.Skip(x, y) {
				continue
			}
			ox, oy := l.Origin(x, y)
			parts = append(parts, styles.Path(c.ModuleShape, ox+pad, oy+pad, side))
		}
	}

	fmt.Fprintf(buf, `<g fill="%s">`+"\n", paint(c.Colors.Body))
	if len(parts) > 0 {
		fmt.Fprintf(buf, `<path d="%s"/>`+"\n", strings.Join(parts, " "))
	}
	buf.WriteString("</g>\n")
	return len(parts)
}

func renderEmojiModules(buf *bytes.Buffer, g Grid, l layout.Layout, glyph string, size float64) int {
	fmt.Fprintf(buf, `<g aria-label="modules-emoji" font-size="%.3fpx" text-anchor="middle" dominant-baseline="central" font-family="%s">`+"\n",
		size, styles.ModuleEmojiFont)

	half := float64(l.ModulePx) / 2
	n := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !g.At(x, y) || l.Skip(x, y) {
				continue
			}
			ox, oy := l.Origin(x, y)
			fmt.Fprintf(buf, `<text x="%.3f" y="%.3f">%s</text>`+"\n", ox+half, oy+half, glyph)
			n++
		}
	}
	buf.WriteString("</g>\n")
	return n
}
