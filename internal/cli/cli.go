// Package cli implements the vitrin command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vitrinhq/vitrin/pkg/buildinfo"
	"github.com/vitrinhq/vitrin/pkg/cache"
	"github.com/vitrinhq/vitrin/pkg/catalog"
	"github.com/vitrinhq/vitrin/pkg/config"
	"github.com/vitrinhq/vitrin/pkg/pipeline"
	"github.com/vitrinhq/vitrin/pkg/render/sink"
	"github.com/vitrinhq/vitrin/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "vitrin"

	// envFile is loaded into the environment before the config file.
	envFile = ".env"
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

	// configPath is set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Vitrin renders product catalogs with a consistent header",
		Long: `Vitrin renders product catalogs for the editor preview, the public viewer
and PDF/PNG exports. Every surface resolves the catalog header (logo size,
logo and title placement) the same way, so a catalog looks identical
wherever it is opened.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./"+config.DefaultPath+" if present)")

	// Register all subcommands
	root.AddCommand(c.headerCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.parityCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig loads .env, then the config file named by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	if err := config.LoadEnv(envFile); err != nil {
		c.Logger.Warn("ignoring .env", "error", err)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured store and
// cache. noCache swaps the cache for a NullCache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cc := cfg.Cache
	if noCache {
		cc.Driver = config.CacheNone
	}
	ch, err := newCache(ctx, cc)
	if err != nil {
		st.Close()
		return nil, err
	}

	runner := pipeline.NewRunner(st, ch, nil, c.Logger)
	runner.Browser = newBrowser(cfg.Export)
	return runner, nil
}

// newLocalRunner creates a runner over an in-memory store for commands that
// read catalogs from files.
func (c *CLI) newLocalRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	local := *cfg
	local.Store = config.StoreConfig{Driver: store.DriverMemory}
	return c.newRunner(ctx, &local, noCache)
}

func newCache(ctx context.Context, cc config.CacheConfig) (cache.Cache, error) {
	switch cc.Driver {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		ch, err := cache.NewRedisCache(ctx, cc.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return ch, nil
	}
	dir := cc.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

func newBrowser(ec config.ExportConfig) *sink.Browser {
	opts := []sink.BrowserOption{sink.WithTimeout(ec.Timeout.Duration)}
	if ec.ChromePath != "" {
		opts = append(opts, sink.WithExecPath(ec.ChromePath))
	}
	return sink.NewBrowser(opts...)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/vitrin/).
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
// Catalog Helpers
// =============================================================================

// isCatalogFile reports whether ref names a catalog file on disk rather
// than a stored catalog id or slug.
func isCatalogFile(ref string) bool {
	if _, err := catalog.FormatFromPath(ref); err != nil {
		return false
	}
	info, err := os.Stat(ref)
	return err == nil && !info.IsDir()
}

// resolveCatalog reads ref from disk when it is a catalog file and from the
// runner's store otherwise.
func resolveCatalog(ctx context.Context, runner *pipeline.Runner, ref string) (*catalog.Catalog, error) {
	if isCatalogFile(ref) {
		c, err := catalog.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", ref, err)
		}
		return c, nil
	}
	return runner.Load(ctx, ref)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatHTML}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
