// Package config loads dressup settings from a TOML file, the environment,
// and an optional .env file in the working directory.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables. Values from .env are only applied to variables that are not
// already set in the process environment.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/dressup/pkg/cache"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/pipeline"
)

const appName = "dressup"

// Environment variables that override file settings.
const (
	EnvAssets    = "DRESSUP_ASSETS"
	EnvCache     = "DRESSUP_CACHE"
	EnvRedisAddr = "DRESSUP_REDIS_ADDR"
	EnvAddr      = "DRESSUP_ADDR"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultAddr is the listen address for the HTTP API.
const DefaultAddr = ":8080"

// Config is the full set of user settings.
type Config struct {
	AssetsRoot string   `toml:"assets_root"`
	Catalog    string   `toml:"catalog"`
	Rules      string   `toml:"rules"`
	Viewport   Viewport `toml:"viewport"`
	Cache      Cache    `toml:"cache"`
	Server     Server   `toml:"server"`
}

// Viewport is the stage size in pixels.
type Viewport struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Cache selects the persistent landmark and size cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Server configures `dressup serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration that decodes from strings such as "720h".
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

// Default returns the built-in settings.
func Default() Config {
	return Config{
		AssetsRoot: "assets",
		Viewport: Viewport{
			Width:  pipeline.DefaultViewportWidth,
			Height: pipeline.DefaultViewportHeight,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{cache.TTLLandmark},
		},
		Server: Server{Addr: DefaultAddr},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/dressup/config.toml, falling back to
// the user config directory.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads the config file at path on top of the defaults and applies
// environment overrides. An empty path means [DefaultPath]; a missing file
// at the default path is not an error, a missing explicit path is.
func Load(path string) (Config, error) {
	loadDotEnv(".env")

	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.parse(data); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
			}
		case stderrors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML data on top of the defaults without consulting the
// environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.parse(data); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) parse(data []byte) error {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAssets); v != "" {
		c.AssetsRoot = v
	}
	if v := getenv(EnvCache); v != "" {
		c.Cache.Backend = strings.ToLower(v)
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		if getenv(EnvCache) == "" {
			c.Cache.Backend = BackendRedis
		}
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := pipeline.ValidateViewport(c.Viewport.Width, c.Viewport.Height); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}

// CatalogSource returns the manifest path if set, else the assets root.
func (c Config) CatalogSource() string {
	if c.Catalog != "" {
		return c.Catalog
	}
	return c.AssetsRoot
}

// loadDotEnv applies a .env file without overriding variables that are
// already set. A missing file is ignored.
func loadDotEnv(path string) {
	_ = godotenv.Load(path)
}
