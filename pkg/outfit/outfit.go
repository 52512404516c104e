// Package outfit models a garment selection: which catalog item, if any, is
// worn in each category.
package outfit

import (
	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/errors"
)

// Selection maps a category to the selected item's URL. An absent key or an
// empty URL both mean "nothing selected".
type Selection map[catalog.Category]string

// Get returns the selected URL for a category and whether one is set.
func (s Selection) Get(c catalog.Category) (string, bool) {
	url, ok := s[c]
	return url, ok && url != ""
}

// Clone returns an independent copy without empty entries.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for c, url := range s {
		if url != "" {
			out[c] = url
		}
	}
	return out
}

// Equal reports whether two selections select the same URL in every category,
// treating absent and empty entries alike.
func (s Selection) Equal(o Selection) bool {
	for _, c := range catalog.Categories {
		a, _ := s.Get(c)
		b, _ := o.Get(c)
		if a != b {
			return false
		}
	}
	return true
}

// WithDefaults returns a copy where every required category that is unset or
// not present in cat resolves to the category's first item.
func (s Selection) WithDefaults(cat *catalog.Catalog) Selection {
	out := s.Clone()
	for _, c := range catalog.Categories {
		if !c.Required() {
			continue
		}
		if url, ok := out.Get(c); ok && cat.Index(c, url) >= 0 {
			continue
		}
		if first, ok := cat.First(c); ok {
			out[c] = first.URL
		} else {
			delete(out, c)
		}
	}
	return out
}

// Validate checks that every key is a known category and every selected URL
// exists in cat.
func (s Selection) Validate(cat *catalog.Catalog) error {
	for c, url := range s {
		if !c.Valid() {
			return errors.New(errors.ErrCodeInvalidSelection, "unknown category: %q", c)
		}
		if url == "" {
			continue
		}
		if cat.Index(c, url) < 0 {
			return errors.New(errors.ErrCodeInvalidSelection, "%s item %q is not in the catalog", c, url)
		}
	}
	return nil
}
