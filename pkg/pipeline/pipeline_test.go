package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/emojiqr/pkg/assets"
	"github.com/matzehuels/emojiqr/pkg/cache"
	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/matrix"
	"github.com/matzehuels/emojiqr/pkg/observability"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"gif", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" SVG, png,,svg ,PDF")
	want := []string{"svg", "png", "pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFormats() = %v, want %v", got, want)
	}
	if got := ParseFormats(""); got != nil {
		t.Errorf("ParseFormats(\"\") = %v, want nil", got)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Content: "hello"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.ModulePx != DefaultModulePx {
		t.Errorf("ModulePx = %d, want %d", opts.ModulePx, DefaultModulePx)
	}
	if opts.Border == nil || *opts.Border != DefaultBorder {
		t.Errorf("Border = %v, want %d", opts.Border, DefaultBorder)
	}
	if opts.Level != "M" {
		t.Errorf("Level = %q, want M", opts.Level)
	}
	if !reflect.DeepEqual(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.PNGWidth != DefaultPNGWidth {
		t.Errorf("PNGWidth = %d, want %d", opts.PNGWidth, DefaultPNGWidth)
	}
	if opts.Engine != "auto" {
		t.Errorf("Engine = %q, want auto", opts.Engine)
	}
	if opts.Style != styles.DefaultConfig() {
		t.Errorf("Style = %+v, want defaults", opts.Style)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestOptionsBorder(t *testing.T) {
	tests := []struct {
		name   string
		border *int
		want   int
	}{
		{"unset", nil, DefaultBorder},
		{"zero", Border(0), 0},
		{"explicit", Border(2), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Content: "x", Border: tt.border, Level: "high"}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Fatal(err)
			}
			if g := opts.Geometry(); g.BorderModules != tt.want || g.ModulePx != DefaultModulePx {
				t.Errorf("Geometry() = %+v, want border %d", g, tt.want)
			}
			if opts.Level != "Q" {
				t.Errorf("Level = %q, want Q", opts.Level)
			}
		})
	}
}

func TestOptionsInvalid(t *testing.T) {
	long := styles.DefaultConfig()
	long.ModuleEmoji = strings.Repeat("a", 17)

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty content", Options{}, errors.ErrCodeInvalidPayload},
		{"bad level", Options{Content: "x", Level: "Z"}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Content: "x", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"negative module px", Options{Content: "x", ModulePx: -1}, errors.ErrCodeInvalidInput},
		{"negative border", Options{Content: "x", Border: Border(-1)}, errors.ErrCodeInvalidInput},
		{"png too wide", Options{Content: "x", PNGWidth: 100000}, errors.ErrCodeInvalidInput},
		{"bad engine", Options{Content: "x", Engine: "gpu"}, errors.ErrCodeInvalidInput},
		{"bad glyph", Options{Content: "x", Style: long}, errors.ErrCodeInvalidConfig},
		{"nan module scale", Options{Content: "x", Style: nonFinite(func(c *styles.Config) { c.ModuleScale = math.NaN() })}, errors.ErrCodeInvalidConfig},
		{"inf center frac", Options{Content: "x", Style: nonFinite(func(c *styles.Config) { c.CenterFrac = math.Inf(1) })}, errors.ErrCodeInvalidConfig},
		{"nan center scale", Options{Content: "x", Style: nonFinite(func(c *styles.Config) { c.CenterScale = math.NaN() })}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func nonFinite(set func(*styles.Config)) styles.Config {
	cfg := styles.DefaultConfig()
	set(&cfg)
	return cfg
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Content: "hello", Formats: []string{"png"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, opts) {
		t.Error("second ValidateAndSetDefaults() changed options")
	}
}

func TestRenderHash(t *testing.T) {
	base := func() Options {
		o := Options{Content: "hello"}
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		return o
	}

	hash := func(o Options) string {
		h, err := o.RenderHash()
		if err != nil {
			t.Fatalf("RenderHash() error: %v", err)
		}
		return h
	}

	a, b := base(), base()
	if hash(a) != hash(b) {
		t.Error("RenderHash() differs for equal options")
	}

	c := base()
	c.Content = "world"
	d := base()
	d.Style.Caption = "HI"
	e := base()
	e.ModulePx = 10
	for name, o := range map[string]Options{"content": c, "style": d, "geometry": e} {
		if hash(o) == hash(a) {
			t.Errorf("RenderHash() ignores %s", name)
		}
	}

	f := base()
	f.Formats = []string{"png", "pdf"}
	if hash(f) != hash(a) {
		t.Error("RenderHash() depends on output formats")
	}
}

func TestRenderHashNonFiniteStyle(t *testing.T) {
	o := Options{Content: "x", Style: nonFinite(func(c *styles.Config) { c.ModuleScale = math.NaN() })}
	if h, err := o.RenderHash(); err == nil {
		t.Errorf("RenderHash() = %q, want error", h)
	}
}

func TestExecuteNonFiniteStyle(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil, nil)
	r.AssetsID = "/srv/emoji_assets"

	cfg := styles.DefaultConfig()
	cfg.ModuleScale = math.NaN()
	cfg.CenterScale = math.NaN()
	for _, content := range []string{"first", "second"} {
		res, err := r.Execute(context.Background(), Options{Content: content, Style: cfg})
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Fatalf("Execute(%q) error = %v, want %v", content, err, errors.ErrCodeInvalidConfig)
		}
		if res != nil {
			t.Errorf("Execute(%q) = %+v, want nil result", content, res)
		}
	}
}

func TestShortHash(t *testing.T) {
	tests := []struct {
		h    string
		n    int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"ab", 3, "ab"},
		{"", 16, ""},
	}
	for _, tt := range tests {
		if got := ShortHash(tt.h, tt.n); got != tt.want {
			t.Errorf("ShortHash(%q, %d) = %q, want %q", tt.h, tt.n, got, tt.want)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Content: "x", PNGWidth: 512}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := opts.ArtifactKeyOpts("png"); got.Width != 512 || got.Engine != "auto" {
		t.Errorf("ArtifactKeyOpts(png) = %+v", got)
	}
	if got := opts.ArtifactKeyOpts("svg"); got != (cache.ArtifactKeyOpts{Format: "svg"}) {
		t.Errorf("ArtifactKeyOpts(svg) = %+v", got)
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil, nil)
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	defer r.Close()

	opts := Options{Content: "https://example.com", Formats: []string{"svg", "json"}}
	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheHit {
		t.Error("first run reported a cache hit")
	}
	if !bytes.HasPrefix(first.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact = %.40q", first.Artifacts["svg"])
	}
	var geom map[string]any
	if err := json.Unmarshal(first.Artifacts["json"], &geom); err != nil {
		t.Errorf("json artifact invalid: %v", err)
	}

	wantSide := (first.Side + 2*DefaultBorder) * DefaultModulePx
	if first.Side < matrix.StandardMinSide || first.Width != wantSide || first.Height != wantSide {
		t.Errorf("size = %dx%d side %d, want %d square", first.Width, first.Height, first.Side, wantSide)
	}
	if first.Modules == 0 {
		t.Error("Modules = 0")
	}
	if first.Overlay != "none" {
		t.Errorf("Overlay = %q, want none", first.Overlay)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run missed the cache")
	}
	if !bytes.Equal(second.Artifacts["svg"], first.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
	if second.Width != first.Width || second.Modules != first.Modules || second.Side != first.Side {
		t.Errorf("cached meta = %+v, want %+v", second, first)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh run reported a cache hit")
	}
	if third.Stats.MatrixHit {
		t.Error("refresh run read the matrix cache")
	}
}

func TestExecuteNewFormatMisses(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	if _, err := r.Execute(ctx, Options{Content: "abc"}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Content: "abc", Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("partial cache reported as hit")
	}
	if !res.Stats.MatrixHit {
		t.Error("matrix not reused from cache")
	}
}

func TestExecuteMatrix(t *testing.T) {
	rows := make([][]bool, 7)
	for y := range rows {
		rows[y] = make([]bool, 7)
		for x := range rows[y] {
			rows[y][x] = x == 0 || y == 0 || x == 6 || y == 6 || (x >= 2 && x <= 4 && y >= 2 && y <= 4)
		}
	}
	m, err := matrix.New(rows)
	if err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil, nil, nil).Execute(context.Background(), Options{Matrix: m, Border: Border(0), ModulePx: 10})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Side != 7 || res.Width != 70 || res.Height != 70 {
		t.Errorf("Execute() = side %d, %dx%d, want 7, 70x70", res.Side, res.Width, res.Height)
	}
}

func TestExecuteOverlayAsset(t *testing.T) {
	store := assets.Map{"1f60a": []byte("\x89PNG\r\n\x1a\nfake")}
	r := NewRunner(nil, nil, store, nil)

	cfg := styles.DefaultConfig()
	cfg.Center = true
	cfg.CenterMode = styles.CenterEmoji
	res, err := r.Execute(context.Background(), Options{Content: "hi", Level: "H", Style: cfg})
	if err != nil {
		t.Fatal(err)
	}
	if res.Overlay != "image" {
		t.Errorf("Overlay = %q, want image", res.Overlay)
	}
	if !bytes.Contains(res.Artifacts["svg"], []byte("data:image/png;base64,")) {
		t.Error("svg does not embed the asset")
	}
}

func TestExecuteNativePNG(t *testing.T) {
	res, err := NewRunner(nil, nil, nil, nil).Execute(context.Background(), Options{
		Content:  "png please",
		Formats:  []string{"png"},
		PNGWidth: 64,
		Engine:   "native",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact lacks PNG signature")
	}
}

func TestExecuteInvalid(t *testing.T) {
	_, err := NewRunner(nil, nil, nil, nil).Execute(context.Background(), Options{Content: ""})
	if !errors.Is(err, errors.ErrCodeInvalidPayload) {
		t.Errorf("Execute() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPayload)
	}
}

func TestContrastWarnings(t *testing.T) {
	cfg := styles.DefaultConfig()
	if w := contrastWarnings(cfg); len(w) != 0 {
		t.Errorf("black on white warned: %v", w)
	}

	cfg.Colors.Body = "#eeeeee"
	cfg.Caption = "HELLO"
	cfg.Colors.Caption = "#fafafa"
	if w := contrastWarnings(cfg); len(w) != 2 {
		t.Errorf("contrastWarnings() = %v, want 2 warnings", w)
	}

	cfg.Colors.Body = "none"
	cfg.Caption = ""
	if w := contrastWarnings(cfg); len(w) != 0 {
		t.Errorf("transparent body warned: %v", w)
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	renders  int
	converts []string
}

func (h *countingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.renders++
}

func (h *countingHooks) OnConvert(_ context.Context, format string, _ int, _ time.Duration, _ error) {
	h.converts = append(h.converts, format)
}

func TestExecuteHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	_, err := NewRunner(nil, nil, nil, nil).Execute(context.Background(), Options{
		Content: "hooks",
		Formats: []string{"svg", "json"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if hooks.renders != 1 {
		t.Errorf("renders = %d, want 1", hooks.renders)
	}
	if !reflect.DeepEqual(hooks.converts, []string{"svg", "json"}) {
		t.Errorf("converts = %v, want [svg json]", hooks.converts)
	}
}
