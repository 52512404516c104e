package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/dressup/pkg/cache"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/pipeline"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Viewport.Width != pipeline.DefaultViewportWidth || cfg.Viewport.Height != pipeline.DefaultViewportHeight {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
assets_root = "/srv/assets"
catalog = "/srv/catalog.toml"

[viewport]
width = 300
height = 400

[cache]
backend = "none"
ttl = "48h"

[server]
addr = ":9000"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AssetsRoot != "/srv/assets" {
		t.Errorf("assets_root = %q", cfg.AssetsRoot)
	}
	if cfg.CatalogSource() != "/srv/catalog.toml" {
		t.Errorf("CatalogSource = %q", cfg.CatalogSource())
	}
	if cfg.Viewport != (Viewport{300, 400}) {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Cache.Backend != BackendNone || cfg.Cache.TTL.Duration != 48*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", `assets_root = `, errors.ErrCodeInvalidFormat},
		{"unknown key", `colour = "red"`, errors.ErrCodeInvalidFormat},
		{"bad ttl", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidFormat},
		{"bad viewport", "[viewport]\nwidth = -1\nheight = 10", errors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidInput},
		{"redis without addr", "[cache]\nbackend = \"redis\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAssets:    "https://cdn.example.com/assets",
		EnvRedisAddr: "localhost:6379",
		EnvAddr:      ":7000",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	if cfg.AssetsRoot != env[EnvAssets] {
		t.Errorf("assets_root = %q", cfg.AssetsRoot)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v, redis addr alone should select redis", cfg.Cache)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	env[EnvCache] = "NONE"
	cfg = Default()
	cfg.applyEnv(func(k string) string { return env[k] })
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("explicit %s should win, got %q", EnvCache, cfg.Cache.Backend)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{EnvAssets, EnvCache, EnvRedisAddr, EnvAddr} {
		t.Setenv(k, "")
	}

	t.Run("missing default file", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.AssetsRoot != Default().AssetsRoot {
			t.Errorf("assets_root = %q", cfg.AssetsRoot)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("err = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("default path with env override", func(t *testing.T) {
		p, err := DefaultPath()
		if err != nil {
			t.Fatal(err)
		}
		if p != filepath.Join(dir, appName, "config.toml") {
			t.Errorf("DefaultPath = %q", p)
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("assets_root = \"from-file\"\n[server]\naddr = \":1\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(EnvAddr, ":2")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.AssetsRoot != "from-file" {
			t.Errorf("assets_root = %q", cfg.AssetsRoot)
		}
		if cfg.Server.Addr != ":2" {
			t.Errorf("addr = %q, env should override file", cfg.Server.Addr)
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(EnvAddr+"=:5555\n"+EnvAssets+"=dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAssets, "already-set")
	t.Setenv(EnvAddr, "")
	os.Unsetenv(EnvAddr)

	loadDotEnv(path)
	t.Cleanup(func() { os.Unsetenv(EnvAddr) })

	if got := os.Getenv(EnvAddr); got != ":5555" {
		t.Errorf("%s = %q, want value from .env", EnvAddr, got)
	}
	if got := os.Getenv(EnvAssets); got != "already-set" {
		t.Errorf("%s = %q, .env must not override the environment", EnvAssets, got)
	}

	loadDotEnv(filepath.Join(dir, "missing.env"))
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = BackendNone
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	cfg.Cache.Backend = BackendFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("file backend = %T", c)
	}
	c.Close()
}

func TestPlannerOptions(t *testing.T) {
	cfg := Default()
	cfg.Viewport = Viewport{320, 480}
	opts, err := cfg.PlannerOptions()
	if err != nil {
		t.Fatalf("PlannerOptions: %v", err)
	}
	if opts.Viewport.X != 320 || opts.Viewport.Y != 480 {
		t.Errorf("viewport = %v", opts.Viewport)
	}
	if opts.Rules == nil {
		t.Error("rules should default")
	}

	rules := filepath.Join(t.TempDir(), "rules.toml")
	data := "[[rule]]\ncategory = \"necklace\"\nanchor = \"torso\"\nwidth_factor = 0.5\nlift = 0.3\nz = 33\n"
	if err := os.WriteFile(rules, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Rules = rules
	if _, err := cfg.PlannerOptions(); err != nil {
		t.Errorf("with rules file: %v", err)
	}

	cfg.Rules = filepath.Join(t.TempDir(), "missing.toml")
	if _, err := cfg.PlannerOptions(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing rules err = %v", err)
	}
}

func TestKeyerScopedByAssetRoot(t *testing.T) {
	a, b := Default(), Default()
	a.AssetsRoot, b.AssetsRoot = "/srv/a", "/srv/b"
	if a.Keyer().SizeKey("up/tee.png") == b.Keyer().SizeKey("up/tee.png") {
		t.Error("different asset roots share size keys")
	}
	if a.Keyer().SizeKey("up/tee.png") != a.Keyer().SizeKey("up/tee.png") {
		t.Error("keys are not stable")
	}
}
