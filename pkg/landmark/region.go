package landmark

// Region is an axis-aligned rectangle in the base image's pixel space.
// Right and Bottom are exclusive, so a single opaque pixel at (x, y) yields
// {x, x+1, y, y+1}.
type Region struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Width returns the horizontal span.
func (r Region) Width() float64 { return float64(r.Right - r.Left) }

// Height returns the vertical span.
func (r Region) Height() float64 { return float64(r.Bottom - r.Top) }

// CenterX returns the horizontal center.
func (r Region) CenterX() float64 { return float64(r.Left+r.Right) / 2 }

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Zone names one of the four anatomical landmark regions.
type Zone string

// Landmark zones.
const (
	Head  Zone = "head"
	Torso Zone = "torso"
	Hips  Zone = "hips"
	Lower Zone = "lower"
)

// Zones lists the zones in scan order.
var Zones = []Zone{Head, Torso, Hips, Lower}

// BodyMeta holds the landmark regions of a base character image.
type BodyMeta struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Head   Region `json:"head"`
	Torso  Region `json:"torso"`
	Hips   Region `json:"hips"`
	Lower  Region `json:"lower"`
}

// Zone returns the region for z. Unknown zones return the zero Region.
func (m BodyMeta) Zone(z Zone) Region {
	switch z {
	case Head:
		return m.Head
	case Torso:
		return m.Torso
	case Hips:
		return m.Hips
	case Lower:
		return m.Lower
	}
	return Region{}
}

func (m *BodyMeta) set(z Zone, r Region) {
	switch z {
	case Head:
		m.Head = r
	case Torso:
		m.Torso = r
	case Hips:
		m.Hips = r
	case Lower:
		m.Lower = r
	}
}
