// Package synteny renders genomic-context drawings.
//
// A drawing is produced in three steps:
//
//	l, err := layout.Build(ds, params, layout.WithSeed(7))
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(l, sink.WithStyle(styles.Simple{}))
//
// # Subpackages
//
//   - [layout]: row and glyph placement, palettes, scales and the draw-list.
//   - [styles]: visual themes writing draw-list shapes as SVG.
//   - [sink]: SVG, PNG and JSON output.
//
// [layout]: github.com/matzehuels/geco/pkg/render/synteny/layout
// [styles]: github.com/matzehuels/geco/pkg/render/synteny/styles
// [sink]: github.com/matzehuels/geco/pkg/render/synteny/sink
package synteny
