package pipeline

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/codec"
	"github.com/matzehuels/dressup/pkg/compose"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/landmark"
	"github.com/matzehuels/dressup/pkg/observability"
	"github.com/matzehuels/dressup/pkg/outfit"
)

// Planner computes render plans for successive selections against one
// session, discarding results that a newer selection has superseded.
type Planner struct {
	session *Session
	opts    Options

	gen     atomic.Uint64
	mu      sync.Mutex
	current *Result
}

// NewPlanner creates a planner. Invalid options are replaced by defaults;
// use [Options.ValidateAndSetDefaults] first to surface errors.
func NewPlanner(s *Session, opts Options) *Planner {
	opts.SetDefaults()
	if opts.Validate() != nil {
		opts = Options{}
		opts.SetDefaults()
	}
	return &Planner{session: s, opts: opts}
}

// Session returns the planner's session.
func (p *Planner) Session() *Session { return p.session }

// Generation returns the number of the most recently started Plan call.
func (p *Planner) Generation() uint64 { return p.gen.Load() }

// Current returns the most recently applied result, or nil.
func (p *Planner) Current() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Plan builds the render plan for sel. Required categories missing from
// sel default to the catalog's first item. If another Plan call starts
// before this one has finished loading, Plan returns [ErrSuperseded].
func (p *Planner) Plan(ctx context.Context, sel outfit.Selection) (*Result, error) {
	gen := p.gen.Add(1)
	hooks := observability.Pipeline()
	hooks.OnPlanStart(ctx, gen)
	start := time.Now()

	res, err := p.plan(ctx, gen, sel)
	layers, omitted := 0, 0
	if res != nil {
		layers, omitted = len(res.Plan.Layers), len(res.Plan.Omitted)
	}
	hooks.OnPlanComplete(ctx, gen, layers, omitted, time.Since(start), err)
	return res, err
}

func (p *Planner) plan(ctx context.Context, gen uint64, sel outfit.Selection) (*Result, error) {
	s := p.session
	logger := s.logger.With("generation", gen)
	if err := sel.Validate(s.Catalog); err != nil {
		return nil, err
	}
	sel = sel.WithDefaults(s.Catalog)

	loadStart := time.Now()
	l := p.load(ctx, sel)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loadTime := time.Since(loadStart)

	if p.gen.Load() != gen {
		logger.Debug("discarding superseded plan")
		return nil, ErrSuperseded
	}

	composeStart := time.Now()
	plan := compose.Compose(compose.Input{
		Selection: sel,
		Catalog:   s.Catalog,
		Body:      l.body,
		Sizes:     l.sizes,
		Rules:     p.opts.Rules,
		Viewport:  p.opts.Viewport,
	})
	for i, o := range plan.Omitted {
		if err, ok := l.failed[o.URL]; ok {
			plan.Omitted[i].Detail = errors.UserMessage(err)
		}
	}
	res := &Result{
		Generation: gen,
		Selection:  sel,
		Code:       codec.Encode(sel, s.Catalog),
		Plan:       plan,
		Stats: Stats{
			LoadTime:    loadTime,
			ComposeTime: time.Since(composeStart),
			Loaded:      l.loaded,
			Failed:      len(l.failed),
		},
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen.Load() != gen {
		logger.Debug("discarding superseded plan")
		return nil, ErrSuperseded
	}
	p.current = res
	logger.Debug("applied plan", "layers", len(plan.Layers), "omitted", len(plan.Omitted), "duration", loadTime)
	return res, nil
}

type loaded struct {
	body   *landmark.BodyMeta
	sizes  map[string]image.Point
	failed map[string]error
	loaded int
}

// load resolves the body landmarks and every selected garment size in
// parallel. Failures are collected, not returned.
func (p *Planner) load(ctx context.Context, sel outfit.Selection) loaded {
	s := p.session
	l := loaded{
		sizes:  make(map[string]image.Point),
		failed: make(map[string]error),
	}
	var mu sync.Mutex
	record := func(url string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			l.failed[url] = err
			return
		}
		l.loaded++
	}

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for _, cat := range catalog.Categories {
		url, ok := sel.Get(cat)
		if !ok {
			continue
		}
		if cat == catalog.Body {
			g.Go(func() error {
				meta, err := s.BodyMeta(ctx, url)
				if err != nil {
					s.logger.Warn("base image unavailable", "url", url, "error", err)
				} else {
					mu.Lock()
					l.body = &meta
					mu.Unlock()
				}
				record(url, err)
				return nil
			})
			continue
		}
		g.Go(func() error {
			size, err := s.Size(ctx, url)
			if err != nil {
				s.logger.Warn("garment unavailable", "category", cat, "url", url, "error", err)
			} else {
				mu.Lock()
				l.sizes[url] = size
				mu.Unlock()
			}
			record(url, err)
			return nil
		})
	}
	_ = g.Wait()
	return l
}
