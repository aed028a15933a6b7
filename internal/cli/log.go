// Package cli implements the vitrin command-line interface.
//
// This package provides commands for resolving catalog headers, rendering
// catalogs to HTML, JSON, PDF and PNG, checking that every surface agrees on
// the header, importing catalogs into a store and running the HTTP server.
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - header: Resolve logo heights and header layouts, or explore them interactively
//   - templates: List the catalog templates
//   - render: Render a catalog file or stored catalog
//   - parity: Compare the header frame across surfaces
//   - import: Load catalog files into the configured store
//   - serve: Run the HTTP server
//   - cache: Manage the local render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/vitrinhq/vitrin/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vitrinhq/vitrin/pkg/config"
	"github.com/vitrinhq/vitrin/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newServerLogger creates the logger used by serve. Unlike the interactive
// logger it honors the configured format, so deployments can ship JSON.
// A level more verbose than the current one is kept (--verbose wins).
func newServerLogger(w io.Writer, lc config.LogConfig, current log.Level) *log.Logger {
	level, err := log.ParseLevel(lc.Level)
	if err != nil || current < level {
		level = current
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
		Prefix:          appName,
	})
	switch lc.Format {
	case config.LogJSON:
		l.SetFormatter(log.JSONFormatter)
	case config.LogLogfmt:
		l.SetFormatter(log.LogfmtFormatter)
	}
	return l
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 7 pages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks forwards header and cache diagnostics to a logger. Layout
// fallbacks are warnings: they mean a stored catalog carries a value the
// editor no longer offers.
type logHooks struct {
	observability.NoopCacheHooks
	logger *log.Logger
}

func (h logHooks) OnUnknownSizeTier(tier string, fallback int) {
	h.logger.Warn("unknown logo size tier", "tier", tier, "height", fallback)
}

func (h logHooks) OnUnknownPosition(kind, value string) {
	h.logger.Warn("unknown header position", "kind", kind, "value", value)
}

func (h logHooks) OnCollision(logoPosition, titlePosition, finalTitlePosition string) {
	h.logger.Debug("header collision",
		"logo", logoPosition, "title", titlePosition, "moved_to", finalTitlePosition)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

// registerHooks installs logHooks as the process-wide layout and cache hooks.
func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetLayoutHooks(h)
	observability.SetCacheHooks(h)
}
