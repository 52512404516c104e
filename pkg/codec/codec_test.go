package codec

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/outfit"
)

// buildCatalog creates n items per category labelled "<cat> 01".."<cat> n".
func buildCatalog(t *testing.T, n map[catalog.Category]int) *catalog.Catalog {
	t.Helper()
	entries := make(map[catalog.Category][]catalog.AssetItem)
	for c, count := range n {
		for i := 1; i <= count; i++ {
			label := fmt.Sprintf("%s %02d", c, i)
			entries[c] = append(entries[c], catalog.AssetItem{URL: fmt.Sprintf("%s/%02d.png", c, i), Label: label})
		}
	}
	cat, err := catalog.New(entries)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func fullCatalog(t *testing.T) *catalog.Catalog {
	n := make(map[catalog.Category]int)
	for _, c := range catalog.Categories {
		n[c] = 4
	}
	return buildCatalog(t, n)
}

func url(t *testing.T, cat *catalog.Catalog, c catalog.Category, i int) string {
	t.Helper()
	it, ok := cat.At(c, i)
	if !ok {
		t.Fatalf("no item %s[%d]", c, i)
	}
	return it.URL
}

func TestLayout(t *testing.T) {
	wantOffsets := []uint{0, 3, 6, 9, 12, 15, 18, 20, 22, 24, 26}
	if len(Layout) != len(wantOffsets) {
		t.Fatalf("Layout has %d fields, want %d", len(Layout), len(wantOffsets))
	}
	for i, f := range Layout {
		if f.Category != catalog.Categories[i] {
			t.Errorf("field %d category = %s, want %s", i, f.Category, catalog.Categories[i])
		}
		if f.Offset != wantOffsets[i] {
			t.Errorf("%s offset = %d, want %d", f.Category, f.Offset, wantOffsets[i])
		}
	}
	last := Layout[len(Layout)-1]
	if last.Offset+last.Bits != Bits {
		t.Errorf("layout width = %d, want %d", last.Offset+last.Bits, Bits)
	}
}

func TestEncodeScenario(t *testing.T) {
	cat := fullCatalog(t)
	sel := outfit.Selection{
		catalog.Body:  url(t, cat, catalog.Body, 2),
		catalog.Hair:  url(t, cat, catalog.Hair, 0),
		catalog.Shoes: url(t, cat, catalog.Shoes, 1),
		catalog.Dress: url(t, cat, catalog.Dress, 0),
	}

	code := Encode(sel, cat)

	want := Code(3<<0 | 1<<3 | 2<<6 | 1<<15)
	if code != want {
		t.Fatalf("Encode() = %d (%028b), want %d (%028b)", code, code, want, want)
	}

	fields := Fields(code)
	wantFields := map[catalog.Category]uint32{
		catalog.Body: 3, catalog.Hair: 1, catalog.Shoes: 2, catalog.Dress: 1,
	}
	for _, c := range catalog.Categories {
		if fields[c] != wantFields[c] {
			t.Errorf("field %s = %d, want %d", c, fields[c], wantFields[c])
		}
	}
}

func TestEncodeRequiredDefaults(t *testing.T) {
	cat := fullCatalog(t)
	code := Encode(outfit.Selection{catalog.Up: "nope.png"}, cat)

	fields := Fields(code)
	for _, c := range catalog.Categories {
		want := uint32(0)
		if c.Required() {
			want = 1
		}
		if fields[c] != want {
			t.Errorf("field %s = %d, want %d", c, fields[c], want)
		}
	}
}

func TestEncodeClampsToFieldWidth(t *testing.T) {
	cat := buildCatalog(t, map[catalog.Category]int{catalog.Socks: 6, catalog.Body: 10})
	sel := outfit.Selection{
		catalog.Socks: url(t, cat, catalog.Socks, 5),
		catalog.Body:  url(t, cat, catalog.Body, 9),
	}
	fields := Fields(Encode(sel, cat))
	if fields[catalog.Socks] != 3 {
		t.Errorf("socks field = %d, want clamp to 3", fields[catalog.Socks])
	}
	if fields[catalog.Body] != 7 {
		t.Errorf("body field = %d, want clamp to 7", fields[catalog.Body])
	}
}

func TestDecodeZeroFields(t *testing.T) {
	cat := fullCatalog(t)
	sel := Decode(0, cat)

	for _, c := range catalog.Categories {
		got, ok := sel.Get(c)
		if c.Required() {
			if want := url(t, cat, c, 0); got != want {
				t.Errorf("required %s decoded to %q, want first item %q", c, got, want)
			}
			continue
		}
		if ok {
			t.Errorf("optional %s decoded to %q, want none", c, got)
		}
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	cat := buildCatalog(t, map[catalog.Category]int{
		catalog.Body: 2, catalog.Hair: 2, catalog.Shoes: 2, catalog.Up: 2,
	})
	// body=7, up=5: both beyond a two-item catalog
	code := Code(7<<0 | 5<<9)
	sel := Decode(code, cat)

	if got := sel[catalog.Body]; got != url(t, cat, catalog.Body, 0) {
		t.Errorf("out-of-range body = %q, want first item", got)
	}
	if _, ok := sel.Get(catalog.Up); ok {
		t.Error("out-of-range optional field should decode to none")
	}
}

func TestDecodeEmptyRequiredCategory(t *testing.T) {
	cat := buildCatalog(t, map[catalog.Category]int{catalog.Body: 1})
	sel := Decode(0, cat)
	if _, ok := sel.Get(catalog.Hair); ok {
		t.Error("required category with no items cannot resolve")
	}
	if _, ok := sel.Get(catalog.Body); !ok {
		t.Error("body should resolve to its only item")
	}
}

func TestNilCatalog(t *testing.T) {
	sel := outfit.Selection{catalog.Body: "body/01.png", catalog.Up: "up/01.png"}
	fields := Fields(Encode(sel, nil))
	for _, c := range catalog.Categories {
		want := uint32(0)
		if c.Required() {
			want = 1
		}
		if fields[c] != want {
			t.Errorf("%s field = %d, want %d", c, fields[c], want)
		}
	}

	if got := Decode(MaxCode, nil); len(got) != 0 {
		t.Errorf("Decode with nil catalog = %v, want empty", got)
	}
}

func TestDecodeIgnoresHighBits(t *testing.T) {
	cat := fullCatalog(t)
	base := Code(2 | 1<<9)
	if !Decode(base|^MaxCode, cat).Equal(Decode(base, cat)) {
		t.Error("bits above the 28-bit layout must not affect decoding")
	}
}

func TestRoundTrip(t *testing.T) {
	sizes := []map[catalog.Category]int{
		{catalog.Body: 1, catalog.Hair: 1, catalog.Shoes: 1},
		{catalog.Body: 7, catalog.Hair: 7, catalog.Shoes: 7, catalog.Up: 7, catalog.Down: 7, catalog.Dress: 7,
			catalog.Hairclips: 3, catalog.Headphones: 3, catalog.Necklace: 3, catalog.Stockings: 3, catalog.Socks: 3},
		{catalog.Body: 3, catalog.Hair: 5, catalog.Shoes: 2, catalog.Up: 4, catalog.Socks: 1},
	}
	rng := rand.New(rand.NewPCG(1, 2))

	for i, n := range sizes {
		cat := buildCatalog(t, n)
		for trial := 0; trial < 200; trial++ {
			sel := make(outfit.Selection)
			for _, c := range catalog.Categories {
				count := cat.Len(c)
				if count == 0 {
					continue
				}
				// optional categories are left empty a third of the time
				pick := rng.IntN(count + 1)
				if pick == count {
					if c.Required() {
						pick = 0
					} else {
						continue
					}
				}
				sel[c] = url(t, cat, c, pick)
			}

			got := Decode(Encode(sel, cat), cat)
			if !got.Equal(sel) {
				t.Fatalf("catalog %d trial %d: Decode(Encode(%v)) = %v", i, trial, sel, got)
			}
		}
	}
}

func TestMaxCode(t *testing.T) {
	cat := buildCatalog(t, map[catalog.Category]int{
		catalog.Body: 8, catalog.Hair: 8, catalog.Shoes: 8, catalog.Up: 8, catalog.Down: 8, catalog.Dress: 8,
		catalog.Hairclips: 4, catalog.Headphones: 4, catalog.Necklace: 4, catalog.Stockings: 4, catalog.Socks: 4,
	})
	sel := make(outfit.Selection)
	for _, c := range catalog.Categories {
		sel[c] = url(t, cat, c, cat.Len(c)-1)
	}
	if code := Encode(sel, cat); code != MaxCode {
		t.Errorf("Encode(all last) = %d, want %d", code, MaxCode)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Code
		wantErr bool
	}{
		{"0", 0, false},
		{"593", 593, false},
		{" 593\n", 593, false},
		{"0x251", 593, false},
		{"268435455", MaxCode, false},
		{"268435456", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidCode) {
					t.Errorf("Parse(%q) err = %v, want INVALID_CODE", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Parse(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}

func ExampleEncode() {
	cat, _ := catalog.New(map[catalog.Category][]catalog.AssetItem{
		catalog.Body:  {{URL: "body/base.png"}},
		catalog.Hair:  {{URL: "hair/bob.png"}, {URL: "hair/long.png"}},
		catalog.Shoes: {{URL: "shoes/flats.png"}},
		catalog.Up:    {{URL: "up/tee.png"}},
	})
	code := Encode(outfit.Selection{catalog.Hair: "hair/long.png", catalog.Up: "up/tee.png"}, cat)
	fmt.Println(code)
	fmt.Println(Decode(code, cat)[catalog.Hair])
	// Output:
	// 593
	// hair/long.png
}
