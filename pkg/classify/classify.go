// Package classify maps garment labels to discrete style kinds.
//
// A kind selects the placement rule for a garment within its category. The
// rules are ordered substring tests on the lower-cased label; the first match
// wins and every classified category has a fallback kind, so a known label
// always classifies. Categories without style variants classify as
// [Default].
package classify

import (
	"strings"

	"github.com/matzehuels/dressup/pkg/catalog"
)

// Kind is a style classification of a garment within its category.
// The zero value means "not classified".
type Kind string

// Known kinds.
const (
	None      Kind = ""
	Default   Kind = "default"
	Short     Kind = "short"
	Long      Kind = "long"
	Jeans     Kind = "jeans"
	Skirt     Kind = "skirt"
	Sleeves   Kind = "sleeves"
	NoSleeves Kind = "no_sleeves"
)

func (k Kind) String() string {
	if k == None {
		return "none"
	}
	return string(k)
}

// Rule assigns Kind when the label contains any of Needles.
type Rule struct {
	Needles []string
	Kind    Kind
}

// Rules is an ordered rule list with a fallback kind.
type Rules struct {
	Match    []Rule
	Fallback Kind
}

// Apply returns the kind for label.
func (r Rules) Apply(label string) Kind {
	l := strings.ToLower(label)
	for _, m := range r.Match {
		for _, n := range m.Needles {
			if strings.Contains(l, n) {
				return m.Kind
			}
		}
	}
	return r.Fallback
}

// Table holds the rules for categories with style variants.
var Table = map[catalog.Category]Rules{
	catalog.Up: {
		Match:    []Rule{{Needles: []string{"shirt 2", "shirt_2"}, Kind: Long}},
		Fallback: Short,
	},
	catalog.Down: {
		Match:    []Rule{{Needles: []string{"jeans"}, Kind: Jeans}},
		Fallback: Skirt,
	},
	catalog.Dress: {
		Match:    []Rule{{Needles: []string{"dress 2", "dress_2", "sleeve", "long"}, Kind: Sleeves}},
		Fallback: NoSleeves,
	},
	catalog.Shoes: {
		Match:    []Rule{{Needles: []string{"shoes 3", "shoes_3", "boot", "long"}, Kind: Long}},
		Fallback: Short,
	},
}

// Classify returns the kind of a garment with the given label. Unknown
// categories return [None].
func Classify(cat catalog.Category, label string) Kind {
	if r, ok := Table[cat]; ok {
		return r.Apply(label)
	}
	if cat.Valid() {
		return Default
	}
	return None
}

// Item classifies a selected catalog item. A nil item (nothing selected, or
// a url missing from the catalog) returns [None].
func Item(cat catalog.Category, item *catalog.AssetItem) Kind {
	if item == nil {
		return None
	}
	return Classify(cat, item.Label)
}

// Kinds lists the kinds a category can classify as, fallback last.
func Kinds(cat catalog.Category) []Kind {
	r, ok := Table[cat]
	if !ok {
		if cat.Valid() {
			return []Kind{Default}
		}
		return nil
	}
	out := make([]Kind, 0, len(r.Match)+1)
	for _, m := range r.Match {
		out = append(out, m.Kind)
	}
	return append(out, r.Fallback)
}
