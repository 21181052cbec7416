// Package layout computes synteny rows for genomic-context drawings.
//
// # Overview
//
// Every central gene of a [genome.Dataset] becomes one row. Its neighborhood
// is normalized so the central gene reads on the forward strand, then the
// genes inside the [notation.Window] are placed as arrow glyphs: first the
// central gene and its downstream neighbors from left to right, then the
// upstream neighbors from right to left.
//
// # Placement Modes
//
//   - Grid (default): position p occupies slot p+upstream of a fixed grid.
//   - Collapsed ([Options.CollapseDist]): glyphs are chained with a fixed
//     2px gap.
//   - Proportional ([Options.ScaleDist]): glyphs are chained with gaps taken
//     from the distance scale, and widths from the size scale.
//
// Chained glyphs hand their trailing edge to the next one; absent genes and
// genes marked "NA" are skipped without moving the cursor.
//
// # Coloring
//
// The categories of the chosen notation are collected over the whole window
// and given colors from a shuffled pool ([palette.Build]). A glyph body is
// split into one bar per category; the arrow head takes the color of the
// category at its 5' end, the first one on the reverse strand and the last
// one on the forward strand.
//
// # Vertical Placement
//
// Rows are stacked by index unless a [Resolver] positions them, typically
// from the leaves of a phylogenetic tree ([newick.Ordinates]).
//
// # Output
//
// [Build] returns a [Layout] holding rows, glyphs, legends and frame
// geometry. [Layout.Shapes] flattens it into a draw-list that the sinks in
// [render/synteny/sink] turn into SVG, PNG or JSON.
//
// [newick.Ordinates]: github.com/matzehuels/geco/pkg/newick
// [render/synteny/sink]: github.com/matzehuels/geco/pkg/render/synteny/sink
package layout
