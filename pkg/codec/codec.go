// Package codec packs an outfit selection into a single 28-bit integer.
//
// Each category occupies a fixed-width bit field, packed from bit 0 upwards in
// [catalog.Categories] order:
//
//	body:3 hair:3 shoes:3 up:3 down:3 dress:3
//	hairclips:2 headphones:2 necklace:2 stockings:2 socks:2
//
// A field holds the selected item's catalog index plus one. Zero means "none"
// for optional categories and "the first item" for required ones. The code
// space is the catalog order itself, so encoder and decoder must share an
// identically ordered catalog.
//
// Neither direction fails: unknown URLs and out-of-range field values degrade
// to the category default so that stale codes still decode to a wearable
// outfit.
package codec

import (
	"strconv"
	"strings"

	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/outfit"
)

// Code is a packed outfit. Valid codes never exceed MaxCode.
type Code uint32

// Field describes one category's slot within a Code.
type Field struct {
	Category catalog.Category
	Offset   uint
	Bits     uint
}

// Max returns the largest value the field can hold.
func (f Field) Max() uint32 { return 1<<f.Bits - 1 }

// Layout lists every field in packing order.
var Layout = buildLayout()

// Bits is the total width of a Code.
const Bits = 28

// MaxCode is the largest valid Code.
const MaxCode Code = 1<<Bits - 1

var widths = map[catalog.Category]uint{
	catalog.Body:       3,
	catalog.Hair:       3,
	catalog.Shoes:      3,
	catalog.Up:         3,
	catalog.Down:       3,
	catalog.Dress:      3,
	catalog.Hairclips:  2,
	catalog.Headphones: 2,
	catalog.Necklace:   2,
	catalog.Stockings:  2,
	catalog.Socks:      2,
}

func buildLayout() []Field {
	fields := make([]Field, 0, len(catalog.Categories))
	var off uint
	for _, c := range catalog.Categories {
		fields = append(fields, Field{Category: c, Offset: off, Bits: widths[c]})
		off += widths[c]
	}
	return fields
}

// Encode packs a selection using cat's ordering.
func Encode(sel outfit.Selection, cat *catalog.Catalog) Code {
	var code uint32
	for _, f := range Layout {
		code |= fieldValue(f, sel, cat) << f.Offset
	}
	return Code(code)
}

func fieldValue(f Field, sel outfit.Selection, cat *catalog.Catalog) uint32 {
	idx := -1
	if url, ok := sel.Get(f.Category); ok {
		idx = cat.Index(f.Category, url)
	}

	var v int
	switch {
	case idx >= 0:
		v = idx + 1
	case f.Category.Required():
		v = 1
	default:
		v = 0
	}
	return uint32(min(max(v, 0), int(f.Max())))
}

// Decode unpacks a code using cat's ordering. Bits above MaxCode are ignored.
func Decode(code Code, cat *catalog.Catalog) outfit.Selection {
	sel := make(outfit.Selection)
	for _, f := range Layout {
		v := Extract(code, f)
		if it, ok := cat.At(f.Category, int(v)-1); v > 0 && ok {
			sel[f.Category] = it.URL
			continue
		}
		if !f.Category.Required() {
			continue
		}
		if first, ok := cat.First(f.Category); ok {
			sel[f.Category] = first.URL
		}
	}
	return sel
}

// Extract returns the raw value of one field.
func Extract(code Code, f Field) uint32 {
	return uint32(code) >> f.Offset & f.Max()
}

// Fields returns the raw value of every field keyed by category.
func Fields(code Code) map[catalog.Category]uint32 {
	out := make(map[catalog.Category]uint32, len(Layout))
	for _, f := range Layout {
		out[f.Category] = Extract(code, f)
	}
	return out
}

// Parse reads a code written in decimal or with a 0x, 0o or 0b prefix.
// Values above MaxCode are rejected.
func Parse(s string) (Code, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidCode, err, "invalid outfit code %q", s)
	}
	if v > uint64(MaxCode) {
		return 0, errors.New(errors.ErrCodeInvalidCode, "outfit code %d exceeds %d", v, MaxCode)
	}
	return Code(v), nil
}
