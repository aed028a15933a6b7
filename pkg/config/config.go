// Package config loads vitrin's configuration.
//
// Values come from, in increasing priority: built-in defaults, a TOML file
// (vitrin.toml), a .env file in development, and the process environment.
// Command-line flags override the result.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

// DefaultPath is the config file looked for when none is given.
const DefaultPath = "vitrin.toml"

// Cache drivers.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Log formats.
const (
	LogText   = "text"
	LogJSON   = "json"
	LogLogfmt = "logfmt"
)

var storeDrivers = []string{"", "memory", "sqlite", "postgres", "mongo"}

// Config is the full configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Export ExportConfig `toml:"export"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`

	// BaseURL is the public origin used in share links.
	BaseURL         string   `toml:"base_url"`
	RequestTimeout  Duration `toml:"request_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

type StoreConfig struct {
	// Driver is memory, sqlite, postgres or mongo. Empty infers it from DSN.
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

type CacheConfig struct {
	Driver    string `toml:"driver"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

type ExportConfig struct {
	ChromePath string   `toml:"chrome_path"`
	Timeout    Duration `toml:"timeout"`
	Scale      float64  `toml:"scale"`
	EmbedLogo  *bool    `toml:"embed_logo"`
	Lang       string   `toml:"lang"`
}

// ShouldEmbedLogo reports whether exports embed the normalized logo.
// Defaults to true.
func (e ExportConfig) ShouldEmbedLogo() bool {
	return e.EmbedLogo == nil || *e.EmbedLogo
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults fills unset fields.
func (c *Config) Defaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestTimeout.Duration == 0 {
		c.Server.RequestTimeout.Duration = 60 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheFile
	}
	if c.Export.Timeout.Duration == 0 {
		c.Export.Timeout.Duration = 30 * time.Second
	}
	if c.Export.Scale == 0 {
		c.Export.Scale = 2
	}
	if c.Export.Lang == "" {
		c.Export.Lang = "tr"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = LogText
	}
}

// Validate checks the configuration, reporting every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.BaseURL != "" {
		if err := verrors.ValidateURL(c.Server.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("server.base_url: %w", err))
		}
	}
	if err := verrors.ValidateOneOf("store.driver", c.Store.Driver, storeDrivers); err != nil {
		errs = append(errs, err)
	}
	if (c.Store.Driver == "postgres" || c.Store.Driver == "mongo") && c.Store.DSN == "" {
		errs = append(errs, fmt.Errorf("store.dsn is required for the %s driver", c.Store.Driver))
	}
	if err := verrors.ValidateOneOf("cache.driver", c.Cache.Driver, []string{CacheNone, CacheFile, CacheRedis}); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.Driver == CacheRedis && c.Cache.RedisAddr == "" {
		errs = append(errs, errors.New("cache.redis_addr is required for the redis cache"))
	}
	if c.Export.Timeout.Duration < 0 {
		errs = append(errs, errors.New("export.timeout must be positive"))
	}
	if c.Export.Scale <= 0 || c.Export.Scale > 4 {
		errs = append(errs, fmt.Errorf("export.scale must be in (0, 4], got %g", c.Export.Scale))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if err := verrors.ValidateOneOf("log.format", c.Log.Format, []string{LogText, LogJSON, LogLogfmt}); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// FromReader decodes TOML from r. Unknown keys are an error.
// Defaults are applied; the environment is not.
func FromReader(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, verrors.New(verrors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.Defaults()
	return &cfg, nil
}

// Load reads the config file at path, applies the environment and
// validates the result. A missing file at DefaultPath is not an error;
// a missing file at any other path is. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg *Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if cfg, err = FromReader(f); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		cfg = &Config{}
		cfg.Defaults()
	case errors.Is(err, os.ErrNotExist):
		return nil, verrors.Wrap(verrors.ErrCodeFileNotFound, err, "config file %s not found", path)
	default:
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads a .env file into the environment without overriding
// variables that are already set. It does nothing when ENV=production or
// when the file does not exist.
func LoadEnv(path string) error {
	if os.Getenv("ENV") == "production" {
		return nil
	}
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.Server.Addr, "VITRIN_ADDR")
	if _, ok := os.LookupEnv("VITRIN_ADDR"); !ok {
		if port := os.Getenv("PORT"); port != "" {
			c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
		}
	}
	set(&c.Server.BaseURL, "VITRIN_BASE_URL")
	set(&c.Store.Driver, "VITRIN_STORE_DRIVER")
	set(&c.Store.DSN, "VITRIN_STORE_DSN", "DATABASE_URL")
	set(&c.Cache.Driver, "VITRIN_CACHE_DRIVER")
	set(&c.Cache.RedisAddr, "VITRIN_REDIS_ADDR", "REDIS_URL")
	set(&c.Export.ChromePath, "CHROME_PATH")
	set(&c.Log.Level, "VITRIN_LOG_LEVEL")
}
