package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dzazaleo/layerforge/pkg/buildinfo"
	"github.com/dzazaleo/layerforge/pkg/cache"
	"github.com/dzazaleo/layerforge/pkg/generate"
	"github.com/dzazaleo/layerforge/pkg/pipeline"
	"github.com/dzazaleo/layerforge/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "layerforge"
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
	Config Config
}

// New creates a new CLI instance with a default logger and configuration
// loaded from the user's config file (if present).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
	cfg, err := LoadConfig("")
	if err != nil {
		c.Logger.Warn("config file ignored", "error", err)
	} else {
		c.Config = cfg
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "layerforge",
		Short:        "Layerforge re-lays out layered designs for new canvases",
		Long:         `Layerforge is a CLI tool for procedurally remapping hierarchical visual designs into new target rectangles, applying layout strategies and compositing the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner wired from the loaded configuration:
// Redis or file cache, Mongo or in-memory store, OpenAI generation when a
// key is configured.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	pc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}

	var st store.Store
	if uri := c.Config.Store.MongoURI; uri != "" {
		st, err = store.NewMongoStore(ctx, uri, c.Config.Store.MongoDatabase)
		if err != nil {
			return nil, err
		}
	}

	var gen generate.Generator
	if key := c.Config.Generate.OpenAIKey; key != "" || os.Getenv("OPENAI_API_KEY") != "" {
		g, err := generate.NewOpenAIGenerator(key, c.Config.Generate.Model, c.Logger)
		if err == nil {
			gen = g
		} else {
			c.Logger.Warn("generation disabled", "error", err)
		}
	}

	return pipeline.NewRunner(pc, nil, st, gen, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.Config.Cache.RedisAddr; addr != "" {
		return cache.NewRedisCache(ctx, addr, c.Config.Cache.RedisPassword, c.Config.Cache.RedisDB)
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/layerforge/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPNG}
	}
	return strings.Split(s, ",")
}
