// Package pipeline turns outfit selections into render plans.
//
// A [Session] owns everything that is loaded lazily and kept for its
// lifetime: the catalog, the asset fetcher, and per-url memos of scanned
// landmarks, intrinsic sizes and decoded images. An optional persistent
// [cache.Cache] backs the landmark and size memos across sessions.
//
// A [Planner] runs the plan stage against a session:
//
//	sess := pipeline.NewSession(cat, assets.NewFetcher(root), pipeline.WithLogger(logger))
//	planner := pipeline.NewPlanner(sess, pipeline.Options{Viewport: image.Pt(600, 800)})
//	res, err := planner.Plan(ctx, sel)
//	if errors.Is(err, errors.ErrCodeStale) {
//	    // a newer Plan call has started; res is nil
//	}
//	png, err := sess.Render(ctx, res, pipeline.FormatPNG)
//
// Every Plan call takes a new generation number. Loads for a call run
// concurrently; once they settle, the result is applied only if no newer
// call has started. A superseded call returns [ErrSuperseded] and never
// touches [Planner.Current].
//
// Load failures degrade instead of failing: a base image that cannot be
// scanned yields an empty plan, and a garment that cannot be sized is left
// out and listed in the plan's omissions.
package pipeline

import (
	"fmt"
	"image"
	"time"

	"github.com/matzehuels/dressup/pkg/codec"
	"github.com/matzehuels/dressup/pkg/compose"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/outfit"
	"github.com/matzehuels/dressup/pkg/placement"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultViewportWidth is the default stage width in pixels.
	DefaultViewportWidth = 600

	// DefaultViewportHeight is the default stage height in pixels.
	DefaultViewportHeight = 800

	// DefaultConcurrency bounds parallel asset loads per plan.
	DefaultConcurrency = 8

	// MaxViewport bounds either viewport dimension.
	MaxViewport = 8192
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJSON: true,
}

// ErrSuperseded is returned by [Planner.Plan] when a newer call started
// before this one finished.
var ErrSuperseded error = errors.New(errors.ErrCodeStale, "plan superseded by a newer selection")

// =============================================================================
// Options
// =============================================================================

// Options configures a Planner.
type Options struct {
	// Viewport is the stage size the base image is letterboxed into.
	Viewport image.Point `json:"viewport"`

	// Rules overrides the placement table; nil uses placement.Defaults().
	Rules placement.Table `json:"-"`

	// Concurrency bounds parallel loads; zero uses DefaultConcurrency.
	Concurrency int `json:"concurrency,omitempty"`
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Viewport.X == 0 && o.Viewport.Y == 0 {
		o.Viewport = image.Pt(DefaultViewportWidth, DefaultViewportHeight)
	}
	if o.Rules == nil {
		o.Rules = placement.Defaults()
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
}

// Validate checks option ranges.
func (o *Options) Validate() error {
	if err := ValidateViewport(o.Viewport.X, o.Viewport.Y); err != nil {
		return err
	}
	if o.Rules != nil {
		if err := o.Rules.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, json)", format)
	}
	return nil
}

// ValidateViewport checks that both dimensions are in (0, MaxViewport].
func ValidateViewport(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxViewport || h > MaxViewport {
		return errors.New(errors.ErrCodeInvalidInput, "invalid viewport %dx%d (each side must be 1..%d)", w, h, MaxViewport)
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of one Plan call.
type Result struct {
	Generation uint64           `json:"generation"`
	Selection  outfit.Selection `json:"selection"`
	Code       codec.Code       `json:"code"`
	Plan       compose.Plan     `json:"plan"`
	Stats      Stats            `json:"stats"`
}

// Stats contains plan timing and load counts.
type Stats struct {
	LoadTime    time.Duration `json:"load_time"`
	ComposeTime time.Duration `json:"compose_time"`
	Loaded      int           `json:"loaded"`
	Failed      int           `json:"failed"`
}

func (s Stats) String() string {
	return fmt.Sprintf("loaded=%d failed=%d load=%s compose=%s", s.Loaded, s.Failed, s.LoadTime, s.ComposeTime)
}
