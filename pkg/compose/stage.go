package compose

import "github.com/matzehuels/dressup/pkg/placement"

// Stage letterboxes the base image into a viewport: a uniform scale and a
// centering offset, both in viewport pixels.
type Stage struct {
	ViewportWidth  int     `json:"viewport_width"`
	ViewportHeight int     `json:"viewport_height"`
	Scale          float64 `json:"scale"`
	OffsetX        float64 `json:"offset_x"`
	OffsetY        float64 `json:"offset_y"`
}

// Fit computes the stage for a bw×bh base image in a vw×vh viewport.
// It reports false if any dimension is not positive.
func Fit(bw, bh, vw, vh int) (Stage, bool) {
	if bw <= 0 || bh <= 0 || vw <= 0 || vh <= 0 {
		return Stage{}, false
	}
	s := min(float64(vw)/float64(bw), float64(vh)/float64(bh))
	return Stage{
		ViewportWidth:  vw,
		ViewportHeight: vh,
		Scale:          s,
		OffsetX:        (float64(vw) - float64(bw)*s) / 2,
		OffsetY:        (float64(vh) - float64(bh)*s) / 2,
	}, true
}

// Apply maps a base-space placement into viewport space.
func (s Stage) Apply(p placement.Placement) placement.Placement {
	return placement.Placement{
		X:      p.X*s.Scale + s.OffsetX,
		Y:      p.Y*s.Scale + s.OffsetY,
		Scale:  p.Scale * s.Scale,
		Width:  p.Width * s.Scale,
		Height: p.Height * s.Scale,
	}
}
