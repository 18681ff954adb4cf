package sink

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/matzehuels/emojiqr/pkg/render/qr/layout"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

type jsonOutput struct {
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	ModulePx  int            `json:"module_px"`
	Border    int            `json:"border_modules"`
	Modules   jsonSize       `json:"modules"`
	Eyes      []jsonPoint    `json:"eyes"`
	Exclusion *jsonExclusion `json:"exclusion,omitempty"`
	Caption   *jsonCaption   `json:"caption,omitempty"`
	Style     styles.Config  `json:"style"`
}

type jsonSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type jsonPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type jsonExclusion struct {
	Left   int     `json:"left"`
	Top    int     `json:"top"`
	Right  int     `json:"right"`
	Bottom int     `json:"bottom"`
	SidePx float64 `json:"side_px"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
}

type jsonCaption struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
	Gap      int     `json:"gap"`
	Band     int     `json:"band"`
}

// RenderJSON exports the computed geometry of a render without drawing it.
// It accepts the same options as [RenderSVG] and validates the grid the same way.
func RenderJSON(g Grid, opts ...SVGOption) ([]byte, error) {
	if err := checkGrid(g); err != nil {
		return nil, err
	}
	r := newSVGRenderer(opts...)
	l := layout.Build(g.Width(), g.Height(), r.geom, layout.Options{
		Center:     r.style.Center,
		CenterFrac: r.style.CenterFrac,
		Caption:    r.style.HasCaption(),
	})

	out := jsonOutput{
		Width:    l.CanvasWidth(),
		Height:   l.CanvasHeight(),
		ModulePx: l.ModulePx,
		Border:   l.BorderModules,
		Modules:  jsonSize{Width: l.Width, Height: l.Height},
		Style:    r.style,
	}
	for _, e := range l.Eyes {
		out.Eyes = append(out.Eyes, jsonPoint{X: e.X, Y: e.Y})
	}
	if ex := l.Exclusion; ex != nil {
		out.Exclusion = &jsonExclusion{
			Left: ex.Box.Left, Top: ex.Box.Top, Right: ex.Box.Right, Bottom: ex.Box.Bottom,
			SidePx: ex.SidePx, CX: ex.CX, CY: ex.CY,
		}
	}
	if text := styles.TruncateCaption(r.style.Caption); text != "" {
		out.Caption = &jsonCaption{
			Text:     text,
			FontSize: styles.CaptionFontSize(l.GridWidth(), float64(l.CaptionGap+l.CaptionBand), utf8.RuneCountInString(text)),
			Gap:      l.CaptionGap,
			Band:     l.CaptionBand,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
