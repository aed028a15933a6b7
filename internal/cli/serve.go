package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitrinhq/vitrin/pkg/buildinfo"
	"github.com/vitrinhq/vitrin/pkg/config"
	"github.com/vitrinhq/vitrin/pkg/server"
	"github.com/vitrinhq/vitrin/pkg/store"
)

// serveOpts holds flags that override the config file.
type serveOpts struct {
	addr     string
	baseURL  string
	storeDSN string
	noCache  bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog HTTP server",
		Long: `Run the catalog HTTP server.

The server hosts the editor preview, the public viewer at /c/{slug} and the
PDF and PNG exports, all rendered through the same pipeline. Configuration
comes from vitrin.toml, .env and the environment; flags override both.`,
		Example: `  vitrin serve
  vitrin serve --addr :9090 --store vitrin.db
  DATABASE_URL=postgres://localhost/vitrin vitrin serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from server.addr, $PORT)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "public origin used in share links")
	cmd.Flags().StringVar(&opts.storeDSN, "store", "", "store dsn: sqlite path, postgres:// or mongodb:// URL")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newServerLogger(os.Stderr, cfg.Log, c.Logger.GetLevel())
	c.Logger = logger
	registerHooks(logger)

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if runner.Browser.ExecPath() == "" {
		logger.Warn("chrome not found, PDF and PNG exports will fail until CHROME_PATH is set")
	}

	srv := server.New(runner,
		server.WithLogger(logger),
		server.WithBaseURL(cfg.Server.BaseURL),
		server.WithRequestTimeout(cfg.Server.RequestTimeout.Duration),
		server.WithExport(cfg.Export.ShouldEmbedLogo(), cfg.Export.Scale, cfg.Export.Lang),
	)

	logger.Info("starting vitrin",
		"version", buildinfo.Version,
		"addr", cfg.Server.Addr,
		"store", describeStore(cfg.Store),
		"cache", cacheDriver(cfg.Cache, opts.noCache))
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout.Duration)
}

// applyServeFlags copies non-empty flags over the loaded config.
func applyServeFlags(cfg *config.Config, opts serveOpts) {
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.baseURL != "" {
		cfg.Server.BaseURL = opts.baseURL
	}
	if opts.storeDSN != "" {
		cfg.Store.DSN = opts.storeDSN
		cfg.Store.Driver = ""
	}
}

// describeStore names the store driver without leaking credentials in the dsn.
func describeStore(sc config.StoreConfig) string {
	if sc.Driver != "" {
		return sc.Driver
	}
	return store.InferDriver(sc.DSN)
}

func cacheDriver(cc config.CacheConfig, noCache bool) string {
	if noCache {
		return config.CacheNone
	}
	return cc.Driver
}
