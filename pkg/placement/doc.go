// Package placement computes where and how large a garment layer is drawn.
//
// Every garment is anchored to one landmark region of the base image. The
// layer is scaled uniformly so that its rendered width is a fixed multiple of
// the region width, centered on the region, and shifted by tuned nudges:
//
//	scale = region.Width() × WidthFactor / intrinsicWidth
//	x     = region.CenterX() − intrinsicWidth×scale/2 + XNudge
//	y     = yBase + YNudge
//
// yBase is region.Top − region.Height()×Lift for top-aligned rules, or
// region.Bottom − renderedHeight for bottom-aligned rules (footwear).
//
// Hair is special: it keeps its natural size ([PlaceHair]).
//
// The tuned constants live in a [Table] keyed by (category, kind). The
// built-in table is [Defaults]; [ParseRules] overlays entries from TOML.
package placement
