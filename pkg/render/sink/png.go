// Package sink renders composed plans to PNG and JSON.
package sink

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/dressup/pkg/compose"
	"github.com/matzehuels/dressup/pkg/errors"
)

// ImageLoader returns the decoded image for an asset url.
type ImageLoader func(ctx context.Context, url string) (image.Image, error)

// Option configures PNG rendering.
type Option func(*renderer)

type renderer struct {
	background color.Color
	filter     imaging.ResampleFilter
	logger     *log.Logger
}

// WithBackground fills the canvas with c before drawing. Default transparent.
func WithBackground(c color.Color) Option { return func(r *renderer) { r.background = c } }

// WithFilter sets the resampling filter for scaled layers. Default Lanczos.
func WithFilter(f imaging.ResampleFilter) Option { return func(r *renderer) { r.filter = f } }

// WithLogger logs skipped layers to l.
func WithLogger(l *log.Logger) Option { return func(r *renderer) { r.logger = l } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		background: color.Transparent,
		filter:     imaging.Lanczos,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Canvas draws plan onto a new image. The canvas is the stage viewport when
// the plan has one, otherwise the base image size. Layers whose image fails
// to load are skipped. An empty plan yields a canvas filled with the
// background.
func Canvas(ctx context.Context, plan compose.Plan, load ImageLoader, opts ...Option) (*image.NRGBA, error) {
	r := newRenderer(opts...)

	stage := compose.Stage{Scale: 1, ViewportWidth: plan.Width, ViewportHeight: plan.Height}
	if plan.Stage != nil {
		stage = *plan.Stage
	}
	if stage.ViewportWidth <= 0 || stage.ViewportHeight <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render: empty canvas %dx%d", stage.ViewportWidth, stage.ViewportHeight)
	}
	canvas := imaging.New(stage.ViewportWidth, stage.ViewportHeight, r.background)

	for _, layer := range plan.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := stage.Apply(layer.Placement)
		w, h := int(math.Round(t.Width)), int(math.Round(t.Height))
		if w <= 0 || h <= 0 {
			r.logger.Debug("skipping degenerate layer", "category", layer.Category, "url", layer.URL)
			continue
		}
		img, err := load(ctx, layer.URL)
		if err != nil {
			r.logger.Warn("skipping layer", "category", layer.Category, "url", layer.URL, "error", err)
			continue
		}
		if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
			img = imaging.Resize(img, w, h, r.filter)
		}
		pos := image.Pt(int(math.Round(t.X)), int(math.Round(t.Y)))
		canvas = imaging.Overlay(canvas, img, pos, 1.0)
	}
	return canvas, nil
}

// RenderPNG draws plan with [Canvas] and encodes it as PNG.
func RenderPNG(ctx context.Context, plan compose.Plan, load ImageLoader, opts ...Option) ([]byte, error) {
	canvas, err := Canvas(ctx, plan, load, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
