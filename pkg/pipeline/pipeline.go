// Package pipeline runs the geco load → layout → render pipeline.
//
// This package is shared by the CLI and the HTTP API so both draw the same
// pictures from the same options.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read the dataset and the optional tree, color pool and taxonomy
//     labels from a [source.Source] or from inline options
//  2. Layout: build the synteny draw-list with [layout.Build]
//  3. Render: turn the layout into SVG, PNG or JSON, or the tree into DOT
//     or SVG
//
// Each stage can be run on its own or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, src, logger)
//	opts := pipeline.Options{
//	    Query:   fetch.Query{Kind: fetch.KindCluster, IDs: []string{"COG0001"}},
//	    Params:  layout.Params{Notation: "KEGG", NSide: notation.Window{Upstream: 5, Downstream: 5}},
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Layouts and artifacts are cached only for seeded runs: without a seed
// every draw shuffles its palette afresh.
package pipeline

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geco/pkg/cache"
	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/genome"
	"github.com/matzehuels/geco/pkg/notation"
	"github.com/matzehuels/geco/pkg/render/synteny/layout"
	"github.com/matzehuels/geco/pkg/render/synteny/styles"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultNotation is the annotation system drawn when none is given.
	DefaultNotation = "KEGG"

	// DefaultNSide is the number of neighbors drawn on each side.
	DefaultNSide = 10

	// DefaultStyle is the default visual style.
	DefaultStyle = "simple"

	// DefaultPNGScale is the default PNG resolution multiplier.
	DefaultPNGScale = 2.0

	// TTL of cached layouts and artifacts.
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"

	// Tree formats need a tree in the bundle.
	FormatDOT     = "dot"
	FormatTreeSVG = "tree.svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatJSON:    true,
	FormatDOT:     true,
	FormatTreeSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one drawing. It is the JSON body
// of the API's render and layout endpoints.
type Options struct {
	// Load options. An inline dataset takes precedence over the query.
	Query   fetch.Query     `json:"query"`
	Dataset json.RawMessage `json:"dataset,omitempty"`
	Newick  string          `json:"newick,omitempty"`
	Colors  string          `json:"colors,omitempty"`
	Pool    []string        `json:"pool,omitempty"`
	Labels  bool            `json:"labels,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`

	// Layout options
	Params   layout.Params `json:"params"`
	Width    float64       `json:"width,omitempty"`
	Viewport float64       `json:"viewport,omitempty"`
	Seed     uint64        `json:"seed,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Style     string   `json:"style,omitempty"`
	Legend    bool     `json:"legend,omitempty"`
	Hover     bool     `json:"hover,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	Highlight []string `json:"highlight,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Caller string      `json:"-"` // scopes stale-result detection of remote loads

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Bundle holds what the load stage produced.
	Bundle *fetch.Bundle

	// DatasetKey identifies the dataset in cache keys.
	DatasetKey string

	// Layout is the synteny draw-list.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings collects load and layout warnings.
	Warnings []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount   int
	GlyphCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every artifact came from the cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return gerrors.New(gerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, json, dot, tree.svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if _, ok := styles.ByName(style); !ok || style == "" {
		return gerrors.New(gerrors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: %s)", style, strings.Join(styles.Names(), ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a dataset can be located.
func (o *Options) ValidateForLoad() error {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.HasInlineDataset() {
		return nil
	}
	if len(o.Query.IDs) == 0 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "query or dataset is required")
	}
	if o.Query.Kind == "" {
		o.Query.Kind = fetch.KindCluster
	}
	return o.Query.Validate()
}

// HasInlineDataset reports whether the dataset travels with the options.
func (o *Options) HasInlineDataset() bool {
	raw := strings.TrimSpace(string(o.Dataset))
	return raw != "" && raw != "null"
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Params.Notation == "" {
		o.Params.Notation = DefaultNotation
	}
	if o.Params.NSide == (notation.Window{}) {
		o.Params.NSide = notation.Window{Upstream: DefaultNSide, Downstream: DefaultNSide}
	}
	if o.Viewport == 0 {
		o.Viewport = layout.DefaultViewport
	}
	o.Params = o.Params.Normalize()
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := gerrors.ValidateNotation(o.Params.Notation); err != nil {
		return err
	}
	if o.Width < 0 || o.Viewport < 0 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "width and viewport must not be negative")
	}
	if err := o.Params.Validate(); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "invalid parameters")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "png scale must be positive")
	}
	return ValidateStyle(o.Style)
}

// Cacheable reports whether layouts of these options are reproducible.
func (o *Options) Cacheable() bool { return o.Seed != 0 }

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(b *fetch.Bundle) cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Params:   o.Params,
		Width:    o.Width,
		Viewport: o.Viewport,
		Seed:     o.Seed,
		Pool:     strings.Join(b.Colors, ","),
	}
	if b.Tree != nil {
		k.TreeHash = cache.Hash([]byte(b.TreeText))
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Style: o.Style, Legend: o.Legend, Hover: o.Hover}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// treeFormat reports whether format renders the tree rather than the layout.
func treeFormat(format string) bool {
	return format == FormatDOT || format == FormatTreeSVG
}

// LevelsOf lists the levels of a hierarchical notation in ds, with their
// labels where known.
func LevelsOf(ds *genome.Dataset, notationName string, labels map[string]string) []Level {
	keys := notation.Levels(ds, notationName)
	out := make([]Level, len(keys))
	for i, k := range keys {
		out[i] = Level{ID: k, Name: labels[k]}
	}
	return out
}

// Level is one taxonomic level of a hierarchical notation.
type Level struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
