// Package landmark derives anatomical landmark regions from a base character
// image by inspecting its alpha channel.
//
// Each zone is searched within a fixed proportional window of the image; the
// zone's region is the tight bounding box of the pixels in that window whose
// alpha exceeds [AlphaThreshold]. A window with no such pixel falls back to a
// fixed proportional rectangle so that placement always has a usable anchor.
package landmark

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// AlphaThreshold is the alpha value (0-255) a pixel must exceed to count as
// part of the character.
const AlphaThreshold = 10

// Window is a rectangle expressed as fractions of the full image size.
type Window struct {
	X0, X1, Y0, Y1 float64
}

// rect converts the window into pixel bounds for a w×h image.
func (f Window) rect(w, h int) (x0, x1, y0, y1 int) {
	x0 = clamp(int(math.Round(f.X0*float64(w))), 0, w)
	x1 = clamp(int(math.Round(f.X1*float64(w))), x0, w)
	y0 = clamp(int(math.Round(f.Y0*float64(h))), 0, h)
	y1 = clamp(int(math.Round(f.Y1*float64(h))), y0, h)
	return
}

func (f Window) region(w, h int) Region {
	x0, x1, y0, y1 := f.rect(w, h)
	return Region{Left: x0, Right: x1, Top: y0, Bottom: y1}
}

// SearchWindows are the per-zone scan windows.
var SearchWindows = map[Zone]Window{
	Head:  {X0: 0.35, X1: 0.68, Y0: 0, Y1: 0.18},
	Torso: {X0: 0.3, X1: 0.7, Y0: 0.16, Y1: 0.55},
	Hips:  {X0: 0.3, X1: 0.7, Y0: 0.3, Y1: 0.66},
	Lower: {X0: 0.25, X1: 0.75, Y0: 0.42, Y1: 0.98},
}

// Fallbacks are the regions used when a zone's window is fully transparent.
var Fallbacks = map[Zone]Window{
	Head:  {X0: 0.4, X1: 0.6, Y0: 0.02, Y1: 0.16},
	Torso: {X0: 0.36, X1: 0.64, Y0: 0.18, Y1: 0.5},
	Hips:  {X0: 0.34, X1: 0.66, Y0: 0.42, Y1: 0.62},
	Lower: {X0: 0.32, X1: 0.68, Y0: 0.55, Y1: 0.97},
}

// Scan computes the landmark regions of img. It visits every pixel of each
// search window once.
func Scan(img image.Image) BodyMeta {
	px := toNRGBA(img)
	w, h := px.Rect.Dx(), px.Rect.Dy()
	meta := BodyMeta{Width: w, Height: h}

	for _, z := range Zones {
		r, ok := opaqueBounds(px, SearchWindows[z])
		if !ok {
			r = Fallbacks[z].region(w, h)
		}
		meta.set(z, r)
	}
	return meta
}

// opaqueBounds returns the tight bounding box of pixels above the alpha
// threshold within win, in full-image coordinates.
func opaqueBounds(px *image.NRGBA, win Window) (Region, bool) {
	w, h := px.Rect.Dx(), px.Rect.Dy()
	x0, x1, y0, y1 := win.rect(w, h)

	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := -1, -1
	for y := y0; y < y1; y++ {
		row := px.Pix[y*px.Stride:]
		for x := x0; x < x1; x++ {
			if row[x*4+3] <= AlphaThreshold {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return Region{}, false
	}
	return Region{Left: minX, Right: maxX + 1, Top: minY, Bottom: maxY + 1}, true
}

// toNRGBA returns img as a zero-origin NRGBA buffer, converting if needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
