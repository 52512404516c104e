package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/observability"
	"github.com/matzehuels/dressup/pkg/render/sink"
)

// Render encodes res in format. PNG output draws each layer from the
// session's image memo.
func (s *Session) Render(ctx context.Context, res *Result, format string, opts ...sink.Option) ([]byte, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render: no plan")
	}
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatPNG:
		opts = append([]sink.Option{sink.WithLogger(s.logger)}, opts...)
		data, err = sink.RenderPNG(ctx, res.Plan, s.Image, opts...)
	case FormatJSON:
		data, err = sink.RenderJSON(res.Plan)
	}

	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("rendered plan", "format", format, "generation", res.Generation, "bytes", len(data), "duration", time.Since(start))
	return data, nil
}
