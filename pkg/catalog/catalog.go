package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matzehuels/dressup/pkg/errors"
)

// AssetItem is a single selectable garment image. URL is the identity key.
type AssetItem struct {
	URL         string `json:"url"`
	Label       string `json:"label"`
	PrettyLabel string `json:"pretty_label"`
}

// Catalog maps each category to its ordered items. A Catalog is immutable
// after construction and safe for concurrent reads.
type Catalog struct {
	items map[Category][]AssetItem
	index map[Category]map[string]int
}

// New builds a catalog from unordered per-category items. Items with an
// unknown category are rejected. Duplicate URLs within a category are dropped
// (first occurrence wins), a missing PrettyLabel is derived from the label,
// and each category is sorted with [Less].
func New(entries map[Category][]AssetItem) (*Catalog, error) {
	c := &Catalog{
		items: make(map[Category][]AssetItem, len(Categories)),
		index: make(map[Category]map[string]int, len(Categories)),
	}
	for cat := range entries {
		if !cat.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidCategory, "unknown category: %q", cat)
		}
	}

	for _, cat := range Categories {
		seen := make(map[string]bool)
		var list []AssetItem
		for _, it := range entries[cat] {
			if it.URL == "" || seen[it.URL] {
				continue
			}
			seen[it.URL] = true
			if it.Label == "" {
				it.Label = labelFromPath(it.URL)
			}
			if it.PrettyLabel == "" {
				it.PrettyLabel = PrettyLabel(it.Label)
			}
			list = append(list, it)
		}
		sortItems(list)

		idx := make(map[string]int, len(list))
		for i, it := range list {
			idx[it.URL] = i
		}
		c.items[cat] = list
		c.index[cat] = idx
	}
	return c, nil
}

// sortItems orders items by label using a root-locale collation with numeric
// ordering ("shirt 2" < "shirt 10"), falling back to URL for equal labels.
func sortItems(items []AssetItem) {
	col := newCollator()
	sort.SliceStable(items, func(i, j int) bool {
		return less(col, items[i], items[j])
	})
}

func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric)
}

func less(col *collate.Collator, a, b AssetItem) bool {
	if r := col.CompareString(a.Label, b.Label); r != 0 {
		return r < 0
	}
	return a.URL < b.URL
}

// Less reports whether a sorts before b in catalog order.
func Less(a, b AssetItem) bool {
	return less(newCollator(), a, b)
}

// Items returns the ordered items of a category. The returned slice is shared
// and must not be modified.
func (c *Catalog) Items(cat Category) []AssetItem {
	if c == nil {
		return nil
	}
	return c.items[cat]
}

// Len returns the number of items in a category.
func (c *Catalog) Len(cat Category) int {
	return len(c.Items(cat))
}

// At returns the i-th item of a category. A nil catalog is empty.
func (c *Catalog) At(cat Category, i int) (AssetItem, bool) {
	list := c.Items(cat)
	if i < 0 || i >= len(list) {
		return AssetItem{}, false
	}
	return list[i], true
}

// First returns the first item of a category, if any.
func (c *Catalog) First(cat Category) (AssetItem, bool) {
	return c.At(cat, 0)
}

// Index returns the position of url within a category, or -1.
func (c *Catalog) Index(cat Category, url string) int {
	if c == nil {
		return -1
	}
	if i, ok := c.index[cat][url]; ok {
		return i
	}
	return -1
}

// Item returns the item with the given url in a category.
func (c *Catalog) Item(cat Category, url string) (AssetItem, bool) {
	return c.At(cat, c.Index(cat, url))
}

// Total returns the number of items across all categories.
func (c *Catalog) Total() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, list := range c.items {
		n += len(list)
	}
	return n
}

// Resolve finds an item in a category by url or by label. Labels match the
// raw or pretty label case-insensitively. When nothing matches, the error
// suggests the closest label by edit distance.
func (c *Catalog) Resolve(cat Category, ref string) (AssetItem, error) {
	if it, ok := c.Item(cat, ref); ok {
		return it, nil
	}
	want := strings.ToLower(strings.TrimSpace(ref))
	for _, it := range c.items[cat] {
		if strings.ToLower(it.Label) == want || strings.ToLower(it.PrettyLabel) == want {
			return it, nil
		}
	}

	if s, ok := c.suggest(cat, want); ok {
		return AssetItem{}, errors.New(errors.ErrCodeAssetNotFound,
			"no %s item %q (did you mean %q?)", cat, ref, s)
	}
	return AssetItem{}, errors.New(errors.ErrCodeAssetNotFound, "no %s item %q", cat, ref)
}

// suggest returns the label closest to want within a tolerance that grows
// with the label length.
func (c *Catalog) suggest(cat Category, want string) (string, bool) {
	best, bestDist := "", -1
	for _, it := range c.items[cat] {
		d := levenshtein.ComputeDistance(want, strings.ToLower(it.Label))
		if bestDist < 0 || d < bestDist {
			best, bestDist = it.Label, d
		}
	}
	if bestDist < 0 || bestDist > suggestLimit(len(best)) {
		return "", false
	}
	return best, true
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
