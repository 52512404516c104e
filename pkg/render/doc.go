// Package render turns composed render plans into output artifacts.
//
// The [sink] subpackage holds the output formats:
//   - PNG: every layer resized and overlaid onto a viewport canvas
//   - JSON: the plan itself, for clients that draw layers themselves
//
//	plan := compose.Compose(in)
//	png, err := sink.RenderPNG(ctx, plan, session.Image)
//	doc, err := sink.RenderJSON(plan)
//
// [sink]: github.com/matzehuels/dressup/pkg/render/sink
package render
