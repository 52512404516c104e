// Package pkg provides the core libraries for dressup, a layered paper-doll
// outfit compositor.
//
// # Overview
//
// A catalog of garment images is grouped into categories. A selection picks
// at most one item per category; the pipeline measures the base character,
// places every garment relative to its landmarks and composites the layers
// in z-order. Selections round-trip through a compact integer code.
//
// # Architecture
//
//	Catalog + Selection
//	         ↓
//	    [pipeline] (load body landmarks and garment sizes, memoized)
//	         ↓
//	    [placement] (anchor rules → per-layer rectangles)
//	         ↓
//	    [compose] (body exclusivity, z-order, viewport stage)
//	         ↓
//	    [render/sink] (PNG or JSON)
//
// # Quick Start
//
//	cat, _ := catalog.LoadFile("assets")
//	sess := pipeline.NewSession(cat, assets.NewFetcher("assets"))
//	defer sess.Close()
//
//	planner := pipeline.NewPlanner(sess, pipeline.Options{})
//	res, _ := planner.Plan(ctx, outfit.Selection{catalog.Up: "up/tee.png"})
//	png, _ := sess.Render(ctx, res, pipeline.FormatPNG)
//
// # Packages
//
//   - [catalog]: categories, asset items, labels and catalog loading
//   - [outfit]: selections, defaults and the dress/separates body rule
//   - [codec]: packing selections into 28-bit outfit codes
//   - [landmark]: alpha-channel scan of the base image
//   - [classify]: sleeve and length classification of garments
//   - [placement]: anchor rules and placement math
//   - [compose]: render plan assembly
//   - [assets]: fetching and decoding images with a per-session memo
//   - [cache]: persistent landmark and size cache (file, Redis, null)
//   - [pipeline]: sessions, the planner and stale-result suppression
//   - [render/sink]: PNG and JSON output
//   - [errors]: coded errors shared by every package
//   - [metrics] and [observability]: Prometheus hooks
//   - [buildinfo]: version information
//
// [catalog]: github.com/matzehuels/dressup/pkg/catalog
// [outfit]: github.com/matzehuels/dressup/pkg/outfit
// [codec]: github.com/matzehuels/dressup/pkg/codec
// [landmark]: github.com/matzehuels/dressup/pkg/landmark
// [classify]: github.com/matzehuels/dressup/pkg/classify
// [placement]: github.com/matzehuels/dressup/pkg/placement
// [compose]: github.com/matzehuels/dressup/pkg/compose
// [assets]: github.com/matzehuels/dressup/pkg/assets
// [cache]: github.com/matzehuels/dressup/pkg/cache
// [pipeline]: github.com/matzehuels/dressup/pkg/pipeline
// [render/sink]: github.com/matzehuels/dressup/pkg/render/sink
// [errors]: github.com/matzehuels/dressup/pkg/errors
// [metrics]: github.com/matzehuels/dressup/pkg/metrics
// [observability]: github.com/matzehuels/dressup/pkg/observability
// [buildinfo]: github.com/matzehuels/dressup/pkg/buildinfo
package pkg
