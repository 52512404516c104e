package placement

import (
	"image"

	"github.com/matzehuels/dressup/pkg/landmark"
)

// Placement is a resolved layer transform in base-image pixel space.
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Scale  float64 `json:"scale"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Place positions a garment of intrinsic size against its anchor region.
// It reports false when the size or region is degenerate.
func Place(r Rule, region landmark.Region, size image.Point) (Placement, bool) {
	if size.X <= 0 || size.Y <= 0 || region.Width() <= 0 || r.WidthFactor <= 0 {
		return Placement{}, false
	}
	scale := region.Width() * r.WidthFactor / float64(size.X)
	w := float64(size.X) * scale
	h := float64(size.Y) * scale

	var yBase float64
	switch r.Align {
	case AlignBottom:
		yBase = float64(region.Bottom) - h
	default:
		yBase = float64(region.Top) - region.Height()*r.Lift
	}
	return Placement{
		X:      region.CenterX() - w/2 + r.XNudge,
		Y:      yBase + r.YNudge,
		Scale:  scale,
		Width:  w,
		Height: h,
	}, true
}

// PlaceHair positions a hair layer at its natural size, centered on the head
// and raised by Lift times the hair height.
func PlaceHair(r Rule, head landmark.Region, size image.Point) (Placement, bool) {
	if size.X <= 0 || size.Y <= 0 {
		return Placement{}, false
	}
	w, h := float64(size.X), float64(size.Y)
	return Placement{
		X:      head.CenterX() - w/2 + r.XNudge,
		Y:      float64(head.Top) - h*r.Lift + r.YNudge,
		Scale:  1,
		Width:  w,
		Height: h,
	}, true
}
