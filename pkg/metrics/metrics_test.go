package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/observability"
)

func TestRecorderPlans(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder()

	r.OnPlanComplete(ctx, 1, 6, 1, time.Millisecond, nil)
	r.OnPlanComplete(ctx, 2, 0, 0, time.Millisecond, errors.New(errors.ErrCodeStale, "superseded"))
	r.OnPlanComplete(ctx, 3, 0, 0, time.Millisecond, io.ErrUnexpectedEOF)

	tests := []struct {
		result string
		want   float64
	}{
		{"ok", 1},
		{"stale", 1},
		{"error", 1},
	}
	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			if got := testutil.ToFloat64(r.plans.WithLabelValues(tt.result)); got != tt.want {
				t.Errorf("plans{%s} = %v, want %v", tt.result, got, tt.want)
			}
		})
	}
	if got := testutil.ToFloat64(r.omittedLayers); got != 1 {
		t.Errorf("omitted = %v, want 1", got)
	}
}

func TestRecorderCache(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder()

	r.OnCacheHit(ctx, "landmark")
	r.OnCacheMiss(ctx, "size")
	r.OnCacheMiss(ctx, "size")
	r.OnCacheSet(ctx, "size", 42)

	if got := testutil.ToFloat64(r.cacheOps.WithLabelValues("size", "miss")); got != 2 {
		t.Errorf("size misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.cacheBytes); got != 42 {
		t.Errorf("bytes = %v, want 42", got)
	}
}

func TestRecorderHandler(t *testing.T) {
	r := NewRecorder(WithNamespace("test"))
	r.OnScanComplete(context.Background(), "body/base.png", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `test_landmark_scans_total{result="ok"} 1`) {
		t.Errorf("metrics output missing scan counter:\n%s", body)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	r := NewRecorder()
	r.Install()
	if observability.Pipeline() != observability.PipelineHooks(r) {
		t.Error("Install did not register pipeline hooks")
	}
	if observability.Cache() != observability.CacheHooks(r) {
		t.Error("Install did not register cache hooks")
	}
}
