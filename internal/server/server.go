// Package server exposes the outfit pipeline over HTTP.
//
// Routes:
//
//	GET  /ping            liveness
//	GET  /catalog         categories and items in codec order
//	POST /encode          selection -> code
//	GET  /decode/{code}   code -> selection
//	POST /plan            selection or code -> render plan (JSON)
//	POST /render          selection or code -> composite (PNG, or JSON with ?format=json)
//	GET  /metrics         Prometheus metrics, when a recorder is configured
//
// Each client is tracked by the X-Dressup-Session header. Requests without
// one get a new session whose ID is returned in the same header. Within a
// session, a plan that is overtaken by a newer one answers 409.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dressup/pkg/assets"
	"github.com/matzehuels/dressup/pkg/cache"
	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/metrics"
	"github.com/matzehuels/dressup/pkg/pipeline"
)

// Server defaults.
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1024
	shutdownTimeout    = 10 * time.Second
	maxBodyBytes       = 1 << 20
)

// Config wires a Server.
type Config struct {
	Catalog *catalog.Catalog
	Fetcher assets.Fetcher

	// Cache is shared by all sessions; nil disables persistence.
	Cache cache.Cache
	// Keyer scopes cache keys; nil uses the default keyer.
	Keyer cache.Keyer

	Options pipeline.Options
	Logger  *log.Logger

	// Metrics serves /metrics when set.
	Metrics *metrics.Recorder

	SessionTTL  time.Duration
	MaxSessions int
}

// Server is an http.Handler serving the dressup API.
type Server struct {
	cfg      Config
	logger   *log.Logger
	router   chi.Router
	sessions *sessions
}

// New validates cfg and builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Catalog == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "server: catalog is required")
	}
	if cfg.Fetcher == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "server: fetcher is required")
	}
	if err := cfg.Options.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}

	s := &Server{cfg: cfg, logger: cfg.Logger}
	s.sessions = newSessions(cfg.SessionTTL, cfg.MaxSessions, s.newPlanner)
	s.router = s.routes()
	return s, nil
}

func (s *Server) newPlanner(id string) *pipeline.Planner {
	sess := pipeline.NewSession(s.cfg.Catalog, s.cfg.Fetcher,
		pipeline.WithID(id),
		pipeline.WithCache(s.cfg.Cache),
		pipeline.WithKeyer(s.cfg.Keyer),
		pipeline.WithLogger(s.logger),
	)
	return pipeline.NewPlanner(sess, s.cfg.Options)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/ping", s.handlePing)
	r.Get("/catalog", s.handleCatalog)
	r.Post("/encode", s.handleEncode)
	r.Get("/decode/{code}", s.handleDecode)
	r.Post("/plan", s.handlePlan)
	r.Post("/render", s.handleRender)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics.Handler())
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int { return s.sessions.len() }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// logRequests logs one line per request at debug level, warn for 5xx.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("request failed", fields...)
			return
		}
		s.logger.Debug("request", fields...)
	})
}
