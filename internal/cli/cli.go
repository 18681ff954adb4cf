// Package cli implements the emojiqr command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/emojiqr/pkg/assets"
	"github.com/matzehuels/emojiqr/pkg/buildinfo"
	"github.com/matzehuels/emojiqr/pkg/cache"
	"github.com/matzehuels/emojiqr/pkg/observability"
	"github.com/matzehuels/emojiqr/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "emojiqr"

	// envRedisURL overrides the --redis-url default.
	envRedisURL = "EMOJIQR_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	noCache  bool
	redisURL string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level every pipeline,
// cache and server event is logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "emojiqr renders styled QR codes with emoji modules",
		Long:         `emojiqr turns text, links, WiFi credentials, contacts and payments into styled QR codes: custom module and eye shapes, emoji fill, a centered logo and a caption.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")
	root.PersistentFlags().StringVar(&c.redisURL, "redis-url", os.Getenv(envRedisURL), "share the artifact cache through redis (redis://host:port/db)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache and the
// emoji asset directory.
func (c *CLI) newRunner(ctx context.Context, assetsDir string) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var store assets.Store = assets.None{}
	if assetsDir != "" && assets.Exists(assetsDir) {
		store = assets.NewMemo(assets.NewDir(assetsDir))
	} else if assetsDir != "" && assetsDir != assets.DefaultDir {
		c.Logger.Warn("asset directory not found, center emoji will be drawn as text", "dir", assetsDir)
	}
	runner := pipeline.NewRunner(cc, nil, store, c.Logger)
	if abs, err := filepath.Abs(assetsDir); err == nil && assets.Exists(assetsDir) {
		runner.AssetsID = abs
	}
	return runner, nil
}

// newCache picks redis when a URL is configured, falling back to the file
// cache if redis cannot be reached.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	if c.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, c.redisURL)
		if err == nil {
			c.Logger.Debug("using redis cache", "url", c.redisURL)
			return rc, nil
		}
		if !errors.Is(err, cache.ErrUnavailable) {
			return nil, err
		}
		c.Logger.Warn("redis unavailable, using file cache", "err", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/emojiqr/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
