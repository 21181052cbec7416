package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/geco/pkg/cache"
	"github.com/matzehuels/geco/pkg/config"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/notation"
	"github.com/matzehuels/geco/pkg/pipeline"
	"github.com/matzehuels/geco/pkg/render/synteny/layout"
	"github.com/matzehuels/geco/pkg/source"
	"github.com/matzehuels/geco/pkg/source/local"
)

// =============================================================================
// Input Flags
// =============================================================================

// inputFlags locate the data of one drawing: a dataset file with optional
// companion files, or a query against the configured backend.
type inputFlags struct {
	dataset string
	tree    string
	colors  string
	labels  string

	query   string
	kind    string
	cutoff  int
	source  string
	refresh bool
}

func (in *inputFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&in.tree, "tree", "", "Newick tree file of the central genes")
	f.StringVar(&in.colors, "colors", "", "color pool file or URL")
	f.StringVar(&in.labels, "labels", "", "taxonomy level labels file (JSON object)")
	f.StringVarP(&in.query, "query", "q", "", "cluster, gene or comma-separated gene list to fetch")
	f.StringVar(&in.kind, "kind", "", "query kind: cluster (default), unigene, list, plain")
	f.IntVar(&in.cutoff, "cutoff", 0, "maximum number of contexts fetched (0: backend default)")
	f.StringVar(&in.source, "source", "", "dataset source for queries: remote, mongo (default from config)")
	f.BoolVar(&in.refresh, "refresh", false, "bypass cached backend responses")
}

// bind takes the positional dataset argument, if any.
func (in *inputFlags) bind(args []string) error {
	if len(args) > 0 {
		in.dataset = args[0]
	}
	if in.dataset == "" && in.query == "" {
		return fmt.Errorf("a dataset file or --query is required")
	}
	if in.dataset != "" && in.query != "" {
		return fmt.Errorf("a dataset file and --query are mutually exclusive")
	}
	return validateSource(in.source)
}

// validateSource checks a --source value; empty selects the configured one.
func validateSource(s string) error {
	switch s {
	case "", config.SourceRemote, config.SourceMongo:
		return nil
	}
	return fmt.Errorf("invalid source: %s (must be %q or %q)", s, config.SourceRemote, config.SourceMongo)
}

func (in *inputFlags) localSource(logger *log.Logger) source.Source {
	return &local.Source{
		Dataset: in.dataset,
		Tree:    in.tree,
		Colors:  in.colors,
		Labels:  in.labels,
		Logger:  logger,
	}
}

// fetchQuery returns the query of the drawing. A dataset file is named by
// the hash of its content so cached layouts follow edits of the file.
func (in *inputFlags) fetchQuery() (fetch.Query, error) {
	if in.dataset != "" {
		data, err := os.ReadFile(in.dataset)
		if err != nil {
			return fetch.Query{}, fmt.Errorf("read dataset: %w", err)
		}
		return fetch.Query{Kind: fetch.KindPlain, IDs: []string{"file-" + cache.Hash(data)[:16]}}, nil
	}

	var ids []string
	for _, id := range strings.Split(in.query, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	kind := in.kind
	if kind == "" {
		kind = fetch.KindCluster
		if len(ids) > 1 {
			kind = fetch.KindList
		}
	}
	q := fetch.Query{Kind: kind, IDs: ids, Cutoff: in.cutoff}
	return q, q.Validate()
}

// name is the base name of derived output files.
func (in *inputFlags) name() string {
	if in.dataset != "" {
		return strings.TrimSuffix(in.dataset, filepath.Ext(in.dataset))
	}
	return strings.NewReplacer(",", "_", "/", "_").Replace(in.query)
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags hold the parameter set of a drawing. A --params TOML file is
// the base; flags given on the command line override it.
type layoutFlags struct {
	params string

	notation    string
	upstream    int
	downstream  int
	taxlevel    string
	tpredLevel  string
	showTree    bool
	showName    bool
	collapse    bool
	scaleDist   bool
	scaleSize   bool
	customScale float64
	nContig     bool
	anchor      bool
	showPos     bool
	taxPred     bool

	width    float64
	viewport float64
	seed     uint64
}

func (lf *layoutFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&lf.params, "params", "", "TOML file with the full parameter set (fields included)")
	f.StringVarP(&lf.notation, "notation", "n", pipeline.DefaultNotation, "annotation system coloring the genes")
	f.IntVar(&lf.upstream, "upstream", pipeline.DefaultNSide, "genes drawn upstream of the central gene")
	f.IntVar(&lf.downstream, "downstream", pipeline.DefaultNSide, "genes drawn downstream of the central gene")
	f.StringVar(&lf.taxlevel, "taxlevel", "", "level of a hierarchical notation (empty: any level)")
	f.StringVar(&lf.tpredLevel, "tpred-level", "", "level of the taxonomic prediction track")
	f.BoolVar(&lf.showTree, "show-tree", false, "order rows by the tree of the central genes")
	f.BoolVar(&lf.showName, "show-name", false, "label genes with their preferred name")
	f.BoolVar(&lf.collapse, "collapse", false, "chain genes by their genomic distance")
	f.BoolVar(&lf.scaleDist, "scale-dist", false, "draw distances proportionally (implies --scale-size)")
	f.BoolVar(&lf.scaleSize, "scale-size", false, "draw gene widths proportionally to their size")
	f.Float64Var(&lf.customScale, "custom-scale", 0, "base pairs per pixel for proportional drawing")
	f.BoolVar(&lf.nContig, "n-contig", false, "show the number of contexts per central gene")
	f.BoolVar(&lf.anchor, "highlight-anchor", false, "outline the central genes")
	f.BoolVar(&lf.showPos, "show-pos", false, "add the relative position track")
	f.BoolVar(&lf.taxPred, "tax-prediction", false, "add the taxonomic prediction track")
	f.Float64Var(&lf.width, "width", 0, "content width (0: derived from the viewport)")
	f.Float64Var(&lf.viewport, "viewport", 0, "viewport width (default from config)")
	f.Uint64Var(&lf.seed, "seed", 0, "palette seed (0: random, never cached; default from config)")
}

// apply fills the layout part of opts. Values of the configuration file
// apply when the matching flag was not given.
func (lf *layoutFlags) apply(flags *pflag.FlagSet, cfg *config.Config, opts *pipeline.Options) error {
	set := func(name string) bool { return lf.params == "" || flags.Changed(name) }

	if lf.params != "" {
		if _, err := toml.DecodeFile(lf.params, &opts.Params); err != nil {
			return fmt.Errorf("read params %s: %w", lf.params, err)
		}
	}
	p := &opts.Params
	if set("notation") {
		p.Notation = lf.notation
	}
	if lf.params == "" || p.NSide == (notation.Window{}) {
		p.NSide = notation.Window{Upstream: lf.upstream, Downstream: lf.downstream}
	}
	if flags.Changed("upstream") {
		p.NSide.Upstream = lf.upstream
	}
	if flags.Changed("downstream") {
		p.NSide.Downstream = lf.downstream
	}
	if set("taxlevel") {
		p.TaxLevel = lf.taxlevel
	}
	if set("tpred-level") {
		p.TpredLevel = lf.tpredLevel
	}

	o := &p.Options
	for _, b := range []struct {
		flag string
		dst  *bool
		val  bool
	}{
		{"show-tree", &o.ShowTree, lf.showTree},
		{"show-name", &o.ShowName, lf.showName},
		{"collapse", &o.CollapseDist, lf.collapse},
		{"scale-dist", &o.ScaleDist, lf.scaleDist},
		{"scale-size", &o.ScaleSize, lf.scaleSize},
		{"n-contig", &o.NContig, lf.nContig},
		{"highlight-anchor", &o.HighlightAnchor, lf.anchor},
	} {
		if set(b.flag) {
			*b.dst = b.val
		}
	}
	if set("custom-scale") {
		o.CustomScale = lf.customScale
	}
	*o = o.Normalize()

	if len(p.Fields) == 0 {
		p.Fields = layout.Tracks(layout.TrackSet{
			ShowPos:    lf.showPos,
			NContig:    o.NContig,
			TaxPred:    lf.taxPred,
			TpredLevel: p.TpredLevel,
		})
	}

	opts.Width = lf.width
	opts.Viewport = lf.viewport
	if !flags.Changed("viewport") && cfg.Render.Width > 0 {
		opts.Viewport = float64(cfg.Render.Width)
	}
	opts.Seed = lf.seed
	if !flags.Changed("seed") {
		opts.Seed = cfg.Render.Seed
	}
	return nil
}

// =============================================================================
// Options Assembly
// =============================================================================

// options assembles the pipeline options of a command.
func (c *CLI) options(cmd *cobra.Command, in *inputFlags, lf *layoutFlags) (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	q, err := in.fetchQuery()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Query:   q,
		Colors:  in.colors,
		Labels:  true,
		Refresh: in.refresh,
		Style:   cfg.Render.Style,
		Logger:  c.Logger,
	}
	if opts.Colors == "" && in.dataset == "" {
		opts.Colors = cfg.Render.Colors
	}
	if err := lf.apply(cmd.Flags(), cfg, &opts); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}
