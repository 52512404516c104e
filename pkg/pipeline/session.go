package pipeline

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dressup/pkg/assets"
	"github.com/matzehuels/dressup/pkg/cache"
	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/landmark"
	"github.com/matzehuels/dressup/pkg/observability"
)

// Session holds the catalog and the lazily loaded per-url data for one
// client. It is safe for concurrent use.
type Session struct {
	ID      string
	Catalog *catalog.Catalog

	fetcher assets.Fetcher
	store   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
	refresh bool
	ttl     time.Duration

	landmarks *assets.Memo[landmark.BodyMeta]
	sizes     *assets.Memo[image.Point]
	images    *assets.Memo[image.Image]

	scans   atomic.Int64
	fetches atomic.Int64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithCache sets the persistent second-tier cache.
func WithCache(c cache.Cache) SessionOption { return func(s *Session) { s.store = c } }

// WithKeyer sets the cache keyer.
func WithKeyer(k cache.Keyer) SessionOption { return func(s *Session) { s.keyer = k } }

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) SessionOption { return func(s *Session) { s.logger = l } }

// WithRefresh skips persistent cache reads; results are still written.
func WithRefresh() SessionOption { return func(s *Session) { s.refresh = true } }

// WithTTL overrides the persistent cache lifetime of landmark and size
// entries. Zero keeps the defaults.
func WithTTL(d time.Duration) SessionOption { return func(s *Session) { s.ttl = d } }

// WithID sets the session ID instead of a random UUID.
func WithID(id string) SessionOption { return func(s *Session) { s.ID = id } }

// NewSession creates a session over cat loading assets with fetcher.
func NewSession(cat *catalog.Catalog, fetcher assets.Fetcher, opts ...SessionOption) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Catalog:   cat,
		fetcher:   fetcher,
		landmarks: assets.NewMemo[landmark.BodyMeta](),
		sizes:     assets.NewMemo[image.Point](),
		images:    assets.NewMemo[image.Image](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.With("session", s.ID[:min(8, len(s.ID))])
	return s
}

func (s *Session) ttlOr(def time.Duration) time.Duration {
	if s.ttl > 0 {
		return s.ttl
	}
	return def
}

// Logger returns the session-scoped logger.
func (s *Session) Logger() *log.Logger { return s.logger }

// Scans returns how many base images this session has scanned.
func (s *Session) Scans() int64 { return s.scans.Load() }

// Fetches returns how many asset fetches this session has issued.
func (s *Session) Fetches() int64 { return s.fetches.Load() }

// Close releases the persistent cache.
func (s *Session) Close() error {
	return s.store.Close()
}

// BodyMeta returns the landmarks of a base image, scanning it at most once
// per session.
func (s *Session) BodyMeta(ctx context.Context, url string) (landmark.BodyMeta, error) {
	return s.landmarks.Get(ctx, url, func(ctx context.Context) (landmark.BodyMeta, error) {
		key := s.keyer.LandmarkKey(url, cache.LandmarkKeyOpts{Threshold: landmark.AlphaThreshold})
		var meta landmark.BodyMeta
		if s.cached(ctx, "landmark", key, &meta) {
			return meta, nil
		}

		img, err := s.Image(ctx, url)
		if err != nil {
			return landmark.BodyMeta{}, err
		}

		hooks := observability.Pipeline()
		hooks.OnScanStart(ctx, url)
		start := time.Now()
		meta = landmark.Scan(img)
		s.scans.Add(1)
		hooks.OnScanComplete(ctx, url, time.Since(start), nil)
		s.logger.Debug("scanned base image", "url", url, "width", meta.Width, "height", meta.Height, "duration", time.Since(start))

		s.persist(ctx, "landmark", key, meta, s.ttlOr(cache.TTLLandmark))
		return meta, nil
	})
}

// Size returns the intrinsic size of a garment image. Only the image header
// is decoded unless the image is already in memory.
func (s *Session) Size(ctx context.Context, url string) (image.Point, error) {
	return s.sizes.Get(ctx, url, func(ctx context.Context) (image.Point, error) {
		if img, ok := s.images.Peek(url); ok {
			return img.Bounds().Size(), nil
		}
		key := s.keyer.SizeKey(url)
		var size image.Point
		if s.cached(ctx, "size", key, &size) {
			return size, nil
		}

		data, err := s.fetch(ctx, url)
		if err != nil {
			return image.Point{}, err
		}
		size, err = assets.DecodeSize(data)
		if err != nil {
			return image.Point{}, err
		}
		s.persist(ctx, "size", key, size, s.ttlOr(cache.TTLSize))
		return size, nil
	})
}

// Image returns the decoded image for url.
func (s *Session) Image(ctx context.Context, url string) (image.Image, error) {
	return s.images.Get(ctx, url, func(ctx context.Context) (image.Image, error) {
		data, err := s.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return assets.DecodeImage(data)
	})
}

func (s *Session) fetch(ctx context.Context, url string) ([]byte, error) {
	s.fetches.Add(1)
	return s.fetcher.Fetch(ctx, url)
}

// cached reads key from the persistent cache into v.
func (s *Session) cached(ctx context.Context, keyType, key string, v any) bool {
	if s.refresh {
		return false
	}
	hooks := observability.Cache()
	data, hit, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key_type", keyType, "error", err)
		return false
	}
	if !hit || json.Unmarshal(data, v) != nil {
		hooks.OnCacheMiss(ctx, keyType)
		return false
	}
	hooks.OnCacheHit(ctx, keyType)
	return true
}

func (s *Session) persist(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("cache write failed", "key_type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
