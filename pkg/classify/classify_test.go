package classify

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/dressup/pkg/catalog"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		cat   catalog.Category
		label string
		want  Kind
	}{
		{catalog.Up, "shirt 2 blue", Long},
		{catalog.Up, "SHIRT_2", Long},
		{catalog.Up, "tee", Short},
		{catalog.Up, "shirt 1", Short},
		{catalog.Down, "Blue Jeans", Jeans},
		{catalog.Down, "pleated skirt", Skirt},
		{catalog.Down, "cargo shorts", Skirt},
		{catalog.Dress, "dress_2", Sleeves},
		{catalog.Dress, "Dress 2 red", Sleeves},
		{catalog.Dress, "long gown", Sleeves},
		{catalog.Dress, "sleeveless", Sleeves},
		{catalog.Dress, "dress 1", NoSleeves},
		{catalog.Shoes, "shoes_3", Long},
		{catalog.Shoes, "snow boots", Long},
		{catalog.Shoes, "long socks shoes", Long},
		{catalog.Shoes, "sneakers", Short},
		{catalog.Hair, "ponytail", Default},
		{catalog.Necklace, "pearls", Default},
		{catalog.Body, "", Default},
		{catalog.Category("cape"), "long", None},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.cat, tt.label), func(t *testing.T) {
			if got := Classify(tt.cat, tt.label); got != tt.want {
				t.Errorf("Classify(%s, %q) = %s, want %s", tt.cat, tt.label, got, tt.want)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	r := Rules{
		Match: []Rule{
			{Needles: []string{"a"}, Kind: Long},
			{Needles: []string{"ab"}, Kind: Short},
		},
		Fallback: Default,
	}
	if got := r.Apply("AB"); got != Long {
		t.Errorf("Apply = %s, want %s", got, Long)
	}
	if got := r.Apply("zzz"); got != Default {
		t.Errorf("Apply = %s, want fallback", got)
	}
}

func TestItem(t *testing.T) {
	if got := Item(catalog.Up, nil); got != None {
		t.Errorf("Item(nil) = %s, want none", got)
	}
	it := &catalog.AssetItem{URL: "up/shirt_2.png", Label: "shirt_2"}
	if got := Item(catalog.Up, it); got != Long {
		t.Errorf("Item = %s, want %s", got, Long)
	}
}

func TestKinds(t *testing.T) {
	if got, want := Kinds(catalog.Down), []Kind{Jeans, Skirt}; !slices.Equal(got, want) {
		t.Errorf("Kinds(down) = %v, want %v", got, want)
	}
	if got, want := Kinds(catalog.Socks), []Kind{Default}; !slices.Equal(got, want) {
		t.Errorf("Kinds(socks) = %v, want %v", got, want)
	}
	if got := Kinds("cape"); got != nil {
		t.Errorf("Kinds(cape) = %v, want nil", got)
	}
}

func TestKindString(t *testing.T) {
	if None.String() != "none" || NoSleeves.String() != "no_sleeves" {
		t.Errorf("String() = %q, %q", None.String(), NoSleeves.String())
	}
}
