package catalog

import (
	"strings"

	"github.com/matzehuels/dressup/pkg/errors"
)

// Category names a garment slot on the character.
type Category string

// Garment categories, in codec field order.
const (
	Body       Category = "body"
	Hair       Category = "hair"
	Shoes      Category = "shoes"
	Up         Category = "up"
	Down       Category = "down"
	Dress      Category = "dress"
	Hairclips  Category = "hairclips"
	Headphones Category = "headphones"
	Necklace   Category = "necklace"
	Stockings  Category = "stockings"
	Socks      Category = "socks"
)

// Categories lists every category in codec field order.
// Callers must not modify the returned slice.
var Categories = []Category{
	Body, Hair, Shoes, Up, Down, Dress,
	Hairclips, Headphones, Necklace, Stockings, Socks,
}

// Required reports whether c must always resolve to a concrete item.
func (c Category) Required() bool {
	return c == Body || c == Hair || c == Shoes
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// String returns the category name.
func (c Category) String() string { return string(c) }

// ParseCategory converts a case-insensitive name into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", errors.New(errors.ErrCodeInvalidCategory, "unknown category: %q", s)
	}
	return c, nil
}
