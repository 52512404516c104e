package placement

import (
	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/classify"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/landmark"
)

// Base z-order. Higher values are drawn later.
const (
	ZBody          = 1
	ZStockings     = 10
	ZSocks         = 11
	ZShoesUnder    = 12
	ZDown          = 20
	ZUp            = 30
	ZDress         = 30
	ZNecklace      = 33
	ZHair          = 40
	ZHeadAccessory = 45
	ZShoesOver     = 50
)

// Align selects how yBase is derived from the anchor region.
type Align string

const (
	AlignTop    Align = "top"
	AlignBottom Align = "bottom"
)

// Rule holds the tuned placement constants for one (category, kind).
type Rule struct {
	Anchor      landmark.Zone `toml:"anchor" json:"anchor"`
	Align       Align         `toml:"align" json:"align"`
	WidthFactor float64       `toml:"width_factor" json:"width_factor"`
	XNudge      float64       `toml:"x_nudge" json:"x_nudge"`
	YNudge      float64       `toml:"y_nudge" json:"y_nudge"`
	Lift        float64       `toml:"lift" json:"lift"`
	Z           int           `toml:"z" json:"z"`
}

// Key identifies a rule.
type Key struct {
	Category catalog.Category
	Kind     classify.Kind
}

// Table maps (category, kind) to its placement rule.
type Table map[Key]Rule

// Lookup returns the rule for a category and kind.
func (t Table) Lookup(cat catalog.Category, kind classify.Kind) (Rule, bool) {
	r, ok := t[Key{cat, kind}]
	return r, ok
}

// Clone returns a shallow copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Validate checks every rule in t.
func (t Table) Validate() error {
	for k, r := range t {
		if err := validateRule(k, r); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(k Key, r Rule) error {
	if !k.Category.Valid() {
		return errors.New(errors.ErrCodeInvalidRule, "unknown category %q", k.Category)
	}
	known := false
	for _, kind := range classify.Kinds(k.Category) {
		if kind == k.Kind {
			known = true
			break
		}
	}
	if !known {
		return errors.New(errors.ErrCodeInvalidRule, "%s has no kind %q", k.Category, k.Kind)
	}
	switch r.Anchor {
	case landmark.Head, landmark.Torso, landmark.Hips, landmark.Lower:
	default:
		return errors.New(errors.ErrCodeInvalidRule, "%s/%s: unknown anchor %q", k.Category, k.Kind, r.Anchor)
	}
	switch r.Align {
	case AlignTop, AlignBottom:
	default:
		return errors.New(errors.ErrCodeInvalidRule, "%s/%s: unknown align %q", k.Category, k.Kind, r.Align)
	}
	if k.Category != catalog.Hair && r.WidthFactor <= 0 {
		return errors.New(errors.ErrCodeInvalidRule, "%s/%s: width_factor must be positive", k.Category, k.Kind)
	}
	return nil
}

// Defaults returns the built-in rule table.
func Defaults() Table {
	return Table{
		{catalog.Hair, classify.Default}: {Anchor: landmark.Head, Align: AlignTop, XNudge: -3, YNudge: -10, Lift: 0.08, Z: ZHair},

		{catalog.Up, classify.Short}: {Anchor: landmark.Torso, Align: AlignTop, WidthFactor: 1.9, XNudge: 4, YNudge: -6, Lift: 0.1, Z: ZUp},
		{catalog.Up, classify.Long}:  {Anchor: landmark.Torso, Align: AlignTop, WidthFactor: 2.15, XNudge: 30, YNudge: -4, Lift: 0.1, Z: ZUp},

		{catalog.Down, classify.Jeans}: {Anchor: landmark.Hips, Align: AlignTop, WidthFactor: 1.55, XNudge: 2, YNudge: 6, Z: ZDown},
		{catalog.Down, classify.Skirt}: {Anchor: landmark.Hips, Align: AlignTop, WidthFactor: 1.7, YNudge: 4, Z: ZDown},

		{catalog.Dress, classify.Sleeves}:   {Anchor: landmark.Torso, Align: AlignTop, WidthFactor: 2.2, XNudge: 24, YNudge: -2, Lift: 0.12, Z: ZDress},
		{catalog.Dress, classify.NoSleeves}: {Anchor: landmark.Torso, Align: AlignTop, WidthFactor: 1.8, XNudge: 2, Lift: 0.12, Z: ZDress},

		{catalog.Shoes, classify.Short}: {Anchor: landmark.Lower, Align: AlignBottom, WidthFactor: 1.1, YNudge: 8, Z: ZShoesOver},
		{catalog.Shoes, classify.Long}:  {Anchor: landmark.Lower, Align: AlignBottom, WidthFactor: 1.15, YNudge: 6, Z: ZShoesOver},

		{catalog.Hairclips, classify.Default}:  {Anchor: landmark.Head, Align: AlignTop, WidthFactor: 1.2, XNudge: 6, YNudge: -4, Lift: 0.08, Z: ZHeadAccessory},
		{catalog.Headphones, classify.Default}: {Anchor: landmark.Head, Align: AlignTop, WidthFactor: 1.45, YNudge: 10, Lift: 0.1, Z: ZHeadAccessory},
		{catalog.Necklace, classify.Default}:   {Anchor: landmark.Torso, Align: AlignTop, WidthFactor: 0.9, YNudge: -12, Z: ZNecklace},
		{catalog.Stockings, classify.Default}:  {Anchor: landmark.Lower, Align: AlignTop, WidthFactor: 1.05, Z: ZStockings},
		{catalog.Socks, classify.Default}:      {Anchor: landmark.Lower, Align: AlignTop, WidthFactor: 0.95, YNudge: 40, Z: ZSocks},
	}
}
