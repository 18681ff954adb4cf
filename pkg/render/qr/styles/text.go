package styles

import (
	"bytes"
	"encoding/xml"
	"strings"
	"unicode/utf8"
)

// CaptionMaxRunes is the number of caption characters that are drawn.
const CaptionMaxRunes = 25

const (
	captionPadRatio  = 0.06 // horizontal padding per side, of grid width
	captionCharWidth = 0.56 // average glyph width, of font size
	captionBandFill  = 0.60 // of caption area height
	captionGridCap   = 0.10 // of grid width
	captionFontMin   = 12.0
)

const (
	DefaultCaptionFont = "Work Sans, Inter, system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif"
	ModuleEmojiFont    = "Apple Color Emoji, Noto Color Emoji, Segoe UI Emoji, sans-serif"
	CenterEmojiFont    = "Apple Color Emoji, Noto Color Emoji, Segoe UI Emoji, EmojiOne Color, Twemoji, sans-serif"
)

// TruncateCaption trims surrounding space and keeps at most CaptionMaxRunes characters.
func TruncateCaption(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= CaptionMaxRunes {
		return s
	}
	r := []rune(s)
	return string(r[:CaptionMaxRunes])
}

// CaptionFontSize fits a caption of n characters under a grid gridW pixels
// wide, with areaH pixels between the grid and the canvas bottom. The result
// is the smaller of the width fit and the height fit, floored at 12.
func CaptionFontSize(gridW, areaH float64, n int) float64 {
	avail := max(1, gridW-2*gridW*captionPadRatio)
	byWidth := avail / max(1, captionCharWidth*float64(max(1, n)))
	byHeight := min(areaH*captionBandFill, gridW*captionGridCap)
	return max(captionFontMin, min(byWidth, byHeight))
}

// EscapeXML escapes s for use in element text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
