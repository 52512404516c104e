// Package compose assembles placed garments into an ordered layer stack.
//
// Compose applies the garment exclusivity rules (a dress suppresses the top
// and bottom), the conditional footwear z-order (shoes tuck under jeans), and
// the omission rules: a layer without a classification, rule, intrinsic size
// or usable anchor is left out entirely and recorded in [Plan.Omitted].
package compose

import (
	"image"
	"sort"

	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/classify"
	"github.com/matzehuels/dressup/pkg/landmark"
	"github.com/matzehuels/dressup/pkg/outfit"
	"github.com/matzehuels/dressup/pkg/placement"
)

// Reason explains why a selected layer was omitted.
type Reason string

const (
	ReasonNoLandmarks  Reason = "no_landmarks"
	ReasonUnclassified Reason = "unclassified"
	ReasonNoRule       Reason = "no_rule"
	ReasonNoSize       Reason = "no_size"
	ReasonDegenerate   Reason = "degenerate"
	ReasonSuppressed   Reason = "suppressed"
)

// Layer is one positioned garment image.
type Layer struct {
	Category catalog.Category `json:"category"`
	Kind     classify.Kind    `json:"kind"`
	URL      string           `json:"url"`
	Z        int              `json:"z"`
	placement.Placement
}

// Omission records a selected garment that produced no layer.
type Omission struct {
	Category catalog.Category `json:"category"`
	URL      string           `json:"url"`
	Reason   Reason           `json:"reason"`
	Detail   string           `json:"detail,omitempty"`
}

// Plan is the composited result: layers in draw order (lowest z first).
type Plan struct {
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Layers  []Layer    `json:"layers"`
	Omitted []Omission `json:"omitted,omitempty"`
	Stage   *Stage     `json:"stage,omitempty"`
}

// Empty reports whether the plan has nothing to draw.
func (p *Plan) Empty() bool { return len(p.Layers) == 0 }

// Layer returns the layer for a category, if present.
func (p *Plan) Layer(cat catalog.Category) (Layer, bool) {
	for _, l := range p.Layers {
		if l.Category == cat {
			return l, true
		}
	}
	return Layer{}, false
}

// Input is everything Compose needs. Body is nil when the base image could
// not be scanned. Sizes maps garment url to intrinsic size; a url missing
// from Sizes has no resolved size.
type Input struct {
	Selection outfit.Selection
	Catalog   *catalog.Catalog
	Body      *landmark.BodyMeta
	Sizes     map[string]image.Point
	Rules     placement.Table
	Viewport  image.Point
}

// Compose builds the render plan for in.
func Compose(in Input) Plan {
	body, ok := in.Selection.Get(catalog.Body)
	if in.Body == nil {
		var plan Plan
		if ok {
			plan.Omitted = []Omission{{Category: catalog.Body, URL: body, Reason: ReasonNoLandmarks}}
		}
		return plan
	}
	if in.Rules == nil {
		in.Rules = placement.Defaults()
	}

	c := &composer{in: in, meta: *in.Body}
	plan := Plan{Width: c.meta.Width, Height: c.meta.Height}
	if ok {
		c.layers = append(c.layers, Layer{
			Category: catalog.Body,
			Kind:     classify.Default,
			URL:      body,
			Z:        placement.ZBody,
			Placement: placement.Placement{
				Scale:  1,
				Width:  float64(c.meta.Width),
				Height: float64(c.meta.Height),
			},
		})
	}

	shoesZ := placement.ZShoesOver
	switch b := outfit.BodyOf(in.Selection).(type) {
	case outfit.Dressed:
		for _, cat := range []catalog.Category{catalog.Up, catalog.Down} {
			if url, ok := in.Selection.Get(cat); ok {
				c.omit(cat, url, ReasonSuppressed)
			}
		}
		c.add(catalog.Stockings, 0)
		c.add(catalog.Socks, 0)
		c.add(catalog.Dress, 0)
	case outfit.Separates:
		if b.Down != "" && c.kind(catalog.Down, b.Down) == classify.Jeans {
			shoesZ = placement.ZShoesUnder
		}
		c.add(catalog.Down, 0)
		c.add(catalog.Stockings, 0)
		c.add(catalog.Socks, 0)
		c.add(catalog.Up, 0)
	}
	c.add(catalog.Shoes, shoesZ)
	c.add(catalog.Necklace, 0)
	c.add(catalog.Hair, 0)
	c.add(catalog.Hairclips, 0)
	c.add(catalog.Headphones, 0)

	sort.SliceStable(c.layers, func(i, j int) bool {
		return c.layers[i].Z < c.layers[j].Z
	})
	plan.Layers = c.layers
	plan.Omitted = c.omitted
	if !in.Viewport.Eq(image.Point{}) {
		if s, ok := Fit(c.meta.Width, c.meta.Height, in.Viewport.X, in.Viewport.Y); ok {
			plan.Stage = &s
		}
	}
	return plan
}

type composer struct {
	in      Input
	meta    landmark.BodyMeta
	layers  []Layer
	omitted []Omission
}

func (c *composer) kind(cat catalog.Category, url string) classify.Kind {
	if c.in.Catalog == nil {
		return classify.None
	}
	item, ok := c.in.Catalog.Item(cat, url)
	if !ok {
		return classify.None
	}
	return classify.Item(cat, &item)
}

func (c *composer) omit(cat catalog.Category, url string, r Reason) {
	c.omitted = append(c.omitted, Omission{Category: cat, URL: url, Reason: r})
}

// add places the selected garment of cat, if any. A non-zero z overrides
// the rule's z.
func (c *composer) add(cat catalog.Category, z int) {
	url, ok := c.in.Selection.Get(cat)
	if !ok {
		return
	}
	kind := c.kind(cat, url)
	if kind == classify.None {
		c.omit(cat, url, ReasonUnclassified)
		return
	}
	rule, ok := c.in.Rules.Lookup(cat, kind)
	if !ok {
		c.omit(cat, url, ReasonNoRule)
		return
	}
	size, ok := c.in.Sizes[url]
	if !ok {
		c.omit(cat, url, ReasonNoSize)
		return
	}

	var p placement.Placement
	if cat == catalog.Hair {
		p, ok = placement.PlaceHair(rule, c.meta.Zone(rule.Anchor), size)
	} else {
		p, ok = placement.Place(rule, c.meta.Zone(rule.Anchor), size)
	}
	if !ok {
		c.omit(cat, url, ReasonDegenerate)
		return
	}
	if z == 0 {
		z = rule.Z
	}
	c.layers = append(c.layers, Layer{Category: cat, Kind: kind, URL: url, Z: z, Placement: p})
}
