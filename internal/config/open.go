package config

import (
	"context"
	"image"

	"github.com/matzehuels/dressup/pkg/assets"
	"github.com/matzehuels/dressup/pkg/cache"
	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/pipeline"
	"github.com/matzehuels/dressup/pkg/placement"
)

// OpenCache constructs the configured persistent cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   c.Cache.RedisAddr,
			Prefix: appName + ":",
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(c.Cache.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// LoadCatalog loads the catalog from the manifest or the assets directory.
func (c Config) LoadCatalog() (*catalog.Catalog, error) {
	return catalog.LoadFile(c.CatalogSource())
}

// Fetcher returns the asset fetcher for the assets root.
func (c Config) Fetcher() assets.Fetcher {
	return assets.NewFetcher(c.AssetsRoot)
}

// PlannerOptions returns pipeline options with the configured viewport and
// placement rules (defaults overridden by the rules file, if any).
func (c Config) PlannerOptions() (pipeline.Options, error) {
	opts := pipeline.Options{Viewport: image.Pt(c.Viewport.Width, c.Viewport.Height)}
	if c.Rules != "" {
		rules, err := placement.LoadRules(c.Rules)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Rules = rules
	}
	return opts, opts.ValidateAndSetDefaults()
}

// Keyer scopes persistent cache keys by asset root, so roots with
// overlapping relative urls never share entries.
func (c Config) Keyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, cache.RootScope(c.AssetsRoot))
}
