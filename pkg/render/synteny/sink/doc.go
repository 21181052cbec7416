// Package sink turns a synteny [layout.Layout] into output formats.
//
// # Overview
//
// Every sink reads the ordered draw-list returned by [layout.Layout.Shapes],
// so all formats agree on geometry and colors:
//
//   - SVG: [RenderSVG], styled by a [styles.Style], optionally with a legend
//     panel and hover highlighting
//   - PNG: [RenderPNG], rasterized in-process with fogleman/gg
//   - JSON: [RenderJSON], the draw-list plus legend and row summaries for
//     external renderers
//
// Basic usage:
//
//	svg := sink.RenderSVG(l, sink.WithLegend(), sink.WithHover())
//	png, err := sink.RenderPNG(l, sink.WithScale(2))
//
// # Hidden Shapes
//
// Row frames and glyph outlines are hover affordances. [RenderSVG] keeps
// them only with [WithHover]; [RenderPNG] never draws them; [RenderJSON]
// exports them flagged as hidden unless [WithoutHidden] is given.
//
// [layout.Layout]: github.com/matzehuels/geco/pkg/render/synteny/layout.Layout
// [layout.Layout.Shapes]: github.com/matzehuels/geco/pkg/render/synteny/layout.Layout.Shapes
// [styles.Style]: github.com/matzehuels/geco/pkg/render/synteny/styles.Style
package sink
