package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/emojiqr/pkg/assets"
	"github.com/matzehuels/emojiqr/pkg/render/qr/layout"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

// glyphNudge lowers text glyphs by a fraction of the box side to offset the
// typical emoji baseline.
const glyphNudge = 0.02

// renderOverlay draws the center emoji inside the exclusion box, preferring
// a raster asset and falling back to a text glyph.
func renderOverlay(buf *bytes.Buffer, l layout.Layout, c styles.Config, store assets.Store) Overlay {
	ex := l.Exclusion
	if ex == nil || ex.SidePx <= 0 || !c.WantsCenterOverlay() {
		return OverlayNone
	}

	glyph := strings.TrimSpace(c.CenterEmoji)
	side := ex.SidePx * styles.ClampCenterScale(c.CenterScale)

	if blob, ok := assets.Resolve(store, glyph); ok {
		fmt.Fprintf(buf, `<image x="%.3f" y="%.3f" width="%.3f" height="%.3f" href="%s"/>`+"\n",
			ex.CX-side/2, ex.CY-side/2, side, side, assets.DataURI(blob))
		return OverlayImage
	}

	fmt.Fprintf(buf, `<text x="%.3f" y="%.3f" text-anchor="middle" dominant-baseline="central" font-size="%.3fpx" font-family="%s">%s</text>`+"\n",
		ex.CX, ex.CY+ex.SidePx*glyphNudge, side, styles.CenterEmojiFont, styles.EscapeXML(glyph))
	return OverlayText
}
