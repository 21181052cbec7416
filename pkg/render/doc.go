// Package render groups the visualization packages of geco.
//
// # Overview
//
// Rendering is split in two families:
//
//   - Synteny drawings (in [synteny] and its subpackages): the layout engine
//     computes rows of gene arrows, [synteny/styles] writes them as SVG and
//     [synteny/sink] produces SVG, PNG and JSON
//   - Tree diagrams (in [nodelink]): a Newick tree drawn with Graphviz
//
// Both families are pure functions of their inputs; fetching, caching and
// format selection live in [pipeline].
//
// [synteny]: github.com/matzehuels/geco/pkg/render/synteny
// [synteny/styles]: github.com/matzehuels/geco/pkg/render/synteny/styles
// [synteny/sink]: github.com/matzehuels/geco/pkg/render/synteny/sink
// [nodelink]: github.com/matzehuels/geco/pkg/render/nodelink
// [pipeline]: github.com/matzehuels/geco/pkg/pipeline
package render
