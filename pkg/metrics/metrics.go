// Package metrics implements the observability hooks with Prometheus
// collectors.
//
//	rec := metrics.NewRecorder()
//	rec.Install()
//	r.Handle("/metrics", rec.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/observability"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace sets the metric namespace. Default "dressup".
func WithNamespace(ns string) Option {
	return func(r *Recorder) {
		if ns != "" {
			r.namespace = ns
		}
	}
}

// WithRegistry registers collectors on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithBuckets sets latency histogram buckets in seconds.
func WithBuckets(b []float64) Option {
	return func(r *Recorder) {
		if len(b) > 0 {
			r.buckets = b
		}
	}
}

// Recorder collects pipeline, cache and fetch metrics.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	scans          *prometheus.CounterVec
	scanDuration   prometheus.Histogram
	plans          *prometheus.CounterVec
	planDuration   prometheus.Histogram
	planLayers     prometheus.Histogram
	omittedLayers  prometheus.Counter
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheOps       *prometheus.CounterVec
	cacheBytes     prometheus.Counter
	fetches        *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
}

// NewRecorder creates a Recorder with its collectors registered.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "dressup",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.init()
	return r
}

func (r *Recorder) init() {
	auto := promauto.With(r.registry)
	ns := r.namespace

	r.scans = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "landmark_scans_total",
		Help: "Base image landmark scans by result.",
	}, []string{"result"})
	r.scanDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns, Name: "landmark_scan_duration_seconds",
		Help: "Landmark scan latency.", Buckets: r.buckets,
	})
	r.plans = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "plans_total",
		Help: "Render plans by result (ok, stale, error).",
	}, []string{"result"})
	r.planDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns, Name: "plan_duration_seconds",
		Help: "Render plan latency including asset loads.", Buckets: r.buckets,
	})
	r.planLayers = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns, Name: "plan_layers",
		Help: "Layers per completed render plan.", Buckets: prometheus.LinearBuckets(0, 1, 12),
	})
	r.omittedLayers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "omitted_layers_total",
		Help: "Selected garments left out of a plan.",
	})
	r.renders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "renders_total",
		Help: "Rendered outputs by format and result.",
	}, []string{"format", "result"})
	r.renderDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns, Name: "render_duration_seconds",
		Help: "Render latency by format.", Buckets: r.buckets,
	}, []string{"format"})
	r.cacheOps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "cache_operations_total",
		Help: "Persistent cache operations by key type and op (hit, miss, set).",
	}, []string{"key_type", "op"})
	r.cacheBytes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: ns, Name: "cache_written_bytes_total",
		Help: "Bytes written to the persistent cache.",
	})
	r.fetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Name: "asset_fetches_total",
		Help: "Remote asset fetches by host and status.",
	}, []string{"host", "status"})
	r.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns, Name: "asset_fetch_duration_seconds",
		Help: "Remote asset fetch latency.", Buckets: r.buckets,
	})
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the collected metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Install registers r as the global pipeline, cache and HTTP hooks.
func (r *Recorder) Install() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errors.ErrCodeStale):
		return "stale"
	default:
		return "error"
	}
}

func (r *Recorder) OnScanStart(context.Context, string) {}

func (r *Recorder) OnScanComplete(_ context.Context, _ string, d time.Duration, err error) {
	r.scans.WithLabelValues(result(err)).Inc()
	r.scanDuration.Observe(d.Seconds())
}

func (r *Recorder) OnPlanStart(context.Context, uint64) {}

func (r *Recorder) OnPlanComplete(_ context.Context, _ uint64, layers, omitted int, d time.Duration, err error) {
	res := result(err)
	r.plans.WithLabelValues(res).Inc()
	r.planDuration.Observe(d.Seconds())
	if res == "ok" {
		r.planLayers.Observe(float64(layers))
		r.omittedLayers.Add(float64(omitted))
	}
}

func (r *Recorder) OnRenderStart(context.Context, string) {}

func (r *Recorder) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	r.renders.WithLabelValues(format, result(err)).Inc()
	r.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (r *Recorder) OnCacheHit(_ context.Context, keyType string) {
	r.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (r *Recorder) OnCacheMiss(_ context.Context, keyType string) {
	r.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (r *Recorder) OnCacheSet(_ context.Context, keyType string, size int) {
	r.cacheOps.WithLabelValues(keyType, "set").Inc()
	r.cacheBytes.Add(float64(size))
}

func (r *Recorder) OnRequest(context.Context, string, string, string) {}

func (r *Recorder) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	r.fetches.WithLabelValues(host, strconv.Itoa(status)).Inc()
	r.fetchDuration.Observe(d.Seconds())
}

func (r *Recorder) OnError(_ context.Context, _, host, _ string, _ error) {
	r.fetches.WithLabelValues(host, "error").Inc()
}

var (
	_ observability.PipelineHooks = (*Recorder)(nil)
	_ observability.CacheHooks    = (*Recorder)(nil)
	_ observability.HTTPHooks     = (*Recorder)(nil)
)
