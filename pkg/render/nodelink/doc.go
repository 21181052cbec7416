// Package nodelink renders phylogenetic trees as node-link diagrams.
//
// # Overview
//
// The synteny layout only needs leaf positions from a tree (see
// [newick.Ordinates]). This package draws the tree itself with Graphviz for
// the `geco tree` command and the tree endpoint of the API: leaves are
// plain labels sharing the rightmost rank, inner nodes are points, and
// edges carry no arrow heads.
//
// # Usage
//
//	root, err := newick.Parse(text)
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: branch lengths on edges and support values on inner nodes
//   - Highlight: leaf names drawn in the anchor color
//
// # Dependencies
//
// [RenderSVG] uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process through WebAssembly; no system Graphviz install is needed.
//
// [newick.Ordinates]: github.com/matzehuels/geco/pkg/newick.Ordinates
package nodelink
