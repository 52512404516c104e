// Package catalog holds the ordered, per-category list of selectable garment
// assets.
//
// The order of a category's items is the coordinate system of the outfit
// codec: an outfit code only decodes to the outfit it was encoded from when
// both sides use an identically ordered catalog. [New] therefore always
// deduplicates by URL and sorts by label using a numeric-aware collation with
// a URL tie-break, so the same input set yields the same order regardless of
// the order it was discovered in.
//
// # Loading
//
// Catalogs can be built from a directory tree (one subdirectory per category),
// a TOML manifest or a JSON manifest:
//
//	cat, err := catalog.LoadDir(os.DirFS("assets"))
//	cat, err := catalog.LoadFile("catalog.toml")
//
// # Categories
//
// The eleven categories are fixed and ordered; see [Categories]. The first
// three ([Body], [Hair], [Shoes]) are required: an outfit always resolves them
// to a concrete item.
package catalog
