package outfit

import (
	"strings"

	"github.com/matzehuels/dressup/pkg/catalog"
)

// None is the reference that clears an optional category.
const None = "none"

// Apply returns a copy of s with refs layered on top. Keys are category
// names; values are item urls or labels resolved with [catalog.Catalog.Resolve].
// An empty value leaves the category unchanged and None clears an optional
// one. Required categories always fall back to their first item.
func (s Selection) Apply(cat *catalog.Catalog, refs map[string]string) (Selection, error) {
	out := s.Clone()
	for name, ref := range refs {
		c, err := catalog.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		ref = strings.TrimSpace(ref)
		switch {
		case ref == "":
		case strings.EqualFold(ref, None):
			delete(out, c)
		default:
			it, err := cat.Resolve(c, ref)
			if err != nil {
				return nil, err
			}
			out[c] = it.URL
		}
	}
	return out.WithDefaults(cat), nil
}
