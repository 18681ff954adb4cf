package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/emojiqr/pkg/render/qr/layout"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

var eyeLabels = [3]string{"eye-top-left", "eye-top-right", "eye-bottom-left"}

// renderEyes draws all three finder patterns. Each is a 7-module ring with a
// 5-module hole (even-odd fill) and a 3-module core. Eyes are always drawn,
// even where the exclusion box overlaps them.
func renderEyes(buf *bytes.Buffer, l layout.Layout, c styles.Config) {
	px := float64(l.ModulePx)
	ring, core := paint(c.Colors.EyeRing), paint(c.Colors.EyeCenter)

	for i, e := range l.Eyes {
		x, y := l.Origin(e.X, e.Y)
		outer := styles.Path(c.EyeRingShape, x, y, 7*px)
		inner := styles.Path(c.EyeRingShape, x+px, y+px, 5*px)
		center := styles.Path(c.EyeCenterShape, x+2*px, y+2*px, 3*px)

		fmt.Fprintf(buf, `<g aria-label="%s">`+"\n", eyeLabels[i])
		fmt.Fprintf(buf, `<path d="%s %s" fill="%s" fill-rule="evenodd"/>`+"\n", outer, inner, ring)
		fmt.Fprintf(buf, `<path d="%s" fill="%s"/>`+"\n", center, core)
		buf.WriteString("</g>\n")
	}
}
