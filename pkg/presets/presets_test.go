package presets

import (
	"reflect"
	"testing"

	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

func TestFactoryLibrary(t *testing.T) {
	if _, err := Parse(factoryTOML); err != nil {
		t.Fatalf("embedded library invalid: %v", err)
	}
	if Version() != SupportedVersion {
		t.Errorf("Version() = %d, want %d", Version(), SupportedVersion)
	}

	want := []string{"URL", "Payment", "WiFi", "Contact", "Message"}
	if got := Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}

func TestLooks(t *testing.T) {
	tests := []struct {
		kind string
		want []string
	}{
		{"URL", []string{"EXPLORE", "GO", "VISIT"}},
		{"payment", []string{"SUPPORT", "PAY", "GIVE"}},
		{"WIFI", []string{"CONNECT", "SIGNAL"}},
		{"Contact", []string{"HELLO", "HEY"}},
		{"message", []string{"RESIST", "SAY HI"}},
		{"unknown", nil},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if got := Looks(tt.kind); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Looks(%q) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	cfg, err := Resolve("URL", 0)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if cfg.Caption != "EXPLORE" {
		t.Errorf("Caption = %q, want EXPLORE", cfg.Caption)
	}
	if cfg.CenterEmoji != "🧭" || cfg.ModuleEmoji != "🔗" {
		t.Errorf("emoji = %q/%q, want 🧭/🔗", cfg.CenterEmoji, cfg.ModuleEmoji)
	}
	if cfg.ModuleShape != styles.Rounded || cfg.EyeRingShape != styles.Square {
		t.Errorf("shapes = %v/%v, want rounded/square", cfg.ModuleShape, cfg.EyeRingShape)
	}
	if cfg.ModuleFill != styles.FillEmoji {
		t.Errorf("ModuleFill = %v, want %v", cfg.ModuleFill, styles.FillEmoji)
	}
	if !cfg.Center || cfg.CenterMode != styles.CenterEmoji {
		t.Errorf("center = %v/%v, want enabled emoji", cfg.Center, cfg.CenterMode)
	}
	if cfg.Colors.EyeCenter != "#7697bb" || cfg.Colors.Background != "#FFFFFF" {
		t.Errorf("colors = %+v", cfg.Colors)
	}
	if cfg.CenterFrac != styles.DefaultCenterFrac {
		t.Errorf("CenterFrac = %v, want default %v", cfg.CenterFrac, styles.DefaultCenterFrac)
	}
}

func TestResolveWraps(t *testing.T) {
	tests := []struct {
		kind    string
		index   int
		caption string
	}{
		{"WiFi", 0, "CONNECT"},
		{"WiFi", 1, "SIGNAL"},
		{"WiFi", 2, "CONNECT"},
		{"WiFi", -1, "SIGNAL"},
		{"URL", 7, "GO"},
		{"URL", -4, "VISIT"},
	}
	for _, tt := range tests {
		cfg, err := Resolve(tt.kind, tt.index)
		if err != nil {
			t.Fatalf("Resolve(%q, %d) error: %v", tt.kind, tt.index, err)
		}
		if cfg.Caption != tt.caption {
			t.Errorf("Resolve(%q, %d).Caption = %q, want %q", tt.kind, tt.index, cfg.Caption, tt.caption)
		}
	}
}

func TestResolveTransparentBackground(t *testing.T) {
	cfg, err := Resolve("Payment", 0)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !styles.IsNone(cfg.Colors.Background) {
		t.Errorf("Background = %q, want transparent sentinel", cfg.Colors.Background)
	}
	if cfg.ModuleFill != styles.FillShape {
		t.Errorf("ModuleFill = %v, want %v", cfg.ModuleFill, styles.FillShape)
	}
	if cfg.CenterScale != 0.85 {
		t.Errorf("CenterScale = %v, want 0.85", cfg.CenterScale)
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve("Bitcoin", 0)
	if !errors.Is(err, errors.ErrCodePresetNotFound) {
		t.Errorf("Resolve() code = %v, want %v", errors.GetCode(err), errors.ErrCodePresetNotFound)
	}
	if !errors.IsNotFound(err) {
		t.Error("IsNotFound() = false")
	}
}

func TestAllLooksValid(t *testing.T) {
	for _, kind := range Types() {
		for i := range Looks(kind) {
			cfg, err := Resolve(kind, i)
			if err != nil {
				t.Fatalf("Resolve(%q, %d) error: %v", kind, i, err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Resolve(%q, %d) invalid: %v", kind, i, err)
			}
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad toml", "version = "},
		{"missing version", "[[types]]\nname = \"URL\"\n[[types.looks]]\ncaption = \"X\"\n"},
		{"future version", "version = 2\n"},
		{"no looks", "version = 1\n[[types]]\nname = \"URL\"\n"},
		{"unnamed type", "version = 1\n[[types]]\n[[types.looks]]\ncaption = \"X\"\n"},
		{"duplicate type", "version = 1\n[[types]]\nname = \"URL\"\n[[types.looks]]\ncaption = \"X\"\n[[types]]\nname = \"url\"\n[[types.looks]]\ncaption = \"Y\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestParseCustomLibrary(t *testing.T) {
	doc := `version = 1
[[types]]
name = "Event"
  [[types.looks]]
  caption = "PARTY"
  modules_mode = "emoji"
  modules_emoji = "🎉"
  [[types.looks]]
`
	lib, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := lib.Captions("event"); !reflect.DeepEqual(got, []string{"PARTY", "Unnamed"}) {
		t.Errorf("Captions() = %v", got)
	}
	cfg, err := lib.Resolve("EVENT", 1)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	def := styles.DefaultConfig()
	if !reflect.DeepEqual(cfg, def) {
		t.Errorf("empty look = %+v, want defaults %+v", cfg, def)
	}
}
