package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/emojiqr/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheCommands(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	fc, err := cache.NewFileCache(filepath.Join(xdg, appName))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(context.Background(), key, []byte(key), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	var out strings.Builder
	root.SetOut(&out)

	root.SetArgs([]string{"cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if !strings.Contains(out.String(), filepath.Join(xdg, appName)) {
		t.Errorf("cache path output = %q", out.String())
	}

	out.Reset()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out.String(), "Cleared 3 cached entries") {
		t.Errorf("cache clear output = %q", out.String())
	}
	if _, hit, _ := fc.Get(context.Background(), "a"); hit {
		t.Error("entry survived cache clear")
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	c := New(os.Stderr, LogInfo)
	c.noCache = true
	if got, _ := c.newCache(ctx); got != cache.NewNullCache() {
		t.Errorf("newCache(no-cache) = %T, want NullCache", got)
	}

	c.noCache = false
	got, err := c.newCache(ctx)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	if _, ok := got.(*cache.FileCache); !ok {
		t.Errorf("newCache() = %T, want *FileCache", got)
	}

	c.redisURL = "redis://127.0.0.1:1/0"
	got, err = c.newCache(ctx)
	if err != nil {
		t.Fatalf("newCache(unreachable redis) error: %v", err)
	}
	if _, ok := got.(*cache.FileCache); !ok {
		t.Errorf("newCache(unreachable redis) = %T, want *FileCache fallback", got)
	}

	c.redisURL = "http://not-redis"
	if _, err := c.newCache(ctx); err == nil {
		t.Error("newCache(bad url) error = nil, want error")
	}
}
