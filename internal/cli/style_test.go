package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/presets"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

func resolveStyle(t *testing.T, args ...string) (styles.Config, error) {
	t.Helper()
	var f styleFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	cmd.SetContext(context.Background())
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error: %v", args, err)
	}
	return f.resolve(cmd)
}

func TestStyleResolveDefaults(t *testing.T) {
	got, err := resolveStyle(t)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if got != styles.DefaultConfig() {
		t.Errorf("resolve() = %+v, want DefaultConfig", got)
	}
}

func TestStyleResolveOrder(t *testing.T) {
	preset, err := presets.Resolve("wifi", 1)
	if err != nil {
		t.Fatal(err)
	}

	got, err := resolveStyle(t, "--preset", "wifi", "--look", "1")
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if got != preset {
		t.Errorf("resolve(preset) = %+v, want %+v", got, preset)
	}

	got, err = resolveStyle(t, "--preset", "wifi", "--look", "1", "--body", "#ff0000", "--module-shape", "circle")
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if got.Colors.Body != "#ff0000" || got.ModuleShape != styles.Circle {
		t.Errorf("flags not applied: body=%q shape=%q", got.Colors.Body, got.ModuleShape)
	}
	if got.Colors.Background != preset.Colors.Background || got.Caption != preset.Caption {
		t.Error("unset flags overrode the preset")
	}
}

func TestStyleResolveConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "look.toml")
	doc := `module_shape = "rounded"
module_fill = "emoji"
module_emoji = "🍀"
center = true

[colors]
body = "#123456"
background = "transparent"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := resolveStyle(t, "--config", path, "--body", "#abcdef")
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if got.ModuleShape != styles.Rounded || got.ModuleFill != styles.FillEmoji || got.ModuleEmoji != "🍀" || !got.Center {
		t.Errorf("config file not applied: %+v", got)
	}
	if got.Colors.Body != "#abcdef" {
		t.Errorf("Colors.Body = %q, want flag value #abcdef", got.Colors.Body)
	}
	if got.Colors.Background != "transparent" {
		t.Errorf("Colors.Background = %q, want transparent", got.Colors.Background)
	}
	if got.Colors.EyeRing != styles.DefaultConfig().Colors.EyeRing {
		t.Error("keys missing from the file should keep their defaults")
	}
}

func TestStyleResolveErrors(t *testing.T) {
	if _, err := resolveStyle(t, "--preset", "fax"); !errors.Is(err, errors.ErrCodePresetNotFound) {
		t.Errorf("resolve(unknown preset) error = %v, want PRESET_NOT_FOUND", err)
	}
	if _, err := resolveStyle(t, "--config", filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("resolve(missing config) error = %v, want INVALID_CONFIG", err)
	}
	if _, err := resolveStyle(t, "--caption-font", `x"><script>`); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("resolve(markup font) error = %v, want INVALID_CONFIG", err)
	}
}

func TestStyleTransparentFlag(t *testing.T) {
	got, err := resolveStyle(t, "--transparent")
	if err != nil {
		t.Fatal(err)
	}
	if !styles.IsNone(got.Colors.Background) {
		t.Errorf("Colors.Background = %q, want a transparent sentinel", got.Colors.Background)
	}
}
