// Package pkg provides the core libraries of geco, the genomic context
// viewer.
//
// # Overview
//
// geco draws the genomic neighborhoods of a set of central genes as aligned
// synteny rows. Every gene becomes an arrow colored by its functional
// annotation, and an optional tree of the central genes orders the rows.
//
// # Architecture
//
// The data flow through geco:
//
//	REST backend / MongoDB / dataset file
//	         ↓
//	    [fetch], [source] (dataset, tree, color pool, taxonomy labels)
//	         ↓
//	    [genome], [notation] (typed neighborhoods, identifier extraction)
//	         ↓
//	    [render/synteny/layout] (rows, glyphs, legends, scale bar)
//	         ↓
//	    [render/synteny/sink] (SVG, PNG, JSON draw-list)
//
// [pipeline] runs these stages with caching for both the CLI and the HTTP
// API.
//
// # Main Packages
//
// ## Domain
//
// [genome] - Central genes and their neighborhoods, decoded with the order
// of the source JSON preserved.
//
// [notation] - Identifiers of flat (KEGG, Pfam) and hierarchical (eggNOG)
// annotations, taxonomic levels and the neighborhood window.
//
// [palette] - Color pools, seeded shuffling and category assignment.
//
// [scale] - Gene widths proportional to sequence length or distance.
//
// [newick] - Newick tree parsing and leaf ordering.
//
// ## Visualization
//
// [render/synteny/layout] - The synteny layout engine.
//
// [render/synteny/styles] - Visual styles of gene glyphs.
//
// [render/synteny/sink] - Output formats (SVG, PNG, JSON).
//
// [render/nodelink] - Tree diagrams using Graphviz.
//
// ## Infrastructure
//
// [fetch] - REST backend client with concurrent loading and stale-result
// protection.
//
// [source] - Dataset sources: remote backend, local files, MongoDB.
//
// [cache] - File, memory, Redis and null caches with key derivation.
//
// [config] - TOML configuration.
//
// [errors] - Structured error codes shared by CLI and API.
//
// [observability] - Hooks for fetch, layout, render, cache and HTTP events.
//
// # Common Workflows
//
// Draw a dataset file:
//
//	ds, _ := local.ReadDataset("context.json")
//	l, _ := layout.Build(ds, layout.Params{Notation: "KEGG"})
//	svg := sink.RenderSVG(l)
//
// Query a backend:
//
//	client := fetch.NewClient("http://localhost:8000/gmgfam")
//	runner := pipeline.NewRunner(nil, nil, source.NewRemote(client), logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Query: fetch.Query{Kind: fetch.KindCluster, IDs: []string{"COG0001"}},
//	})
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/notation/...  # Specific package
//	go test -run Example        # Examples only
//
// [genome]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/genome
// [notation]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/notation
// [palette]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/palette
// [scale]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/scale
// [newick]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/newick
// [render/synteny/layout]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/render/synteny/layout
// [render/synteny/styles]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/render/synteny/styles
// [render/synteny/sink]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/render/synteny/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/render/nodelink
// [fetch]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/fetch
// [source]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/geco/pkg/pipeline
package pkg
