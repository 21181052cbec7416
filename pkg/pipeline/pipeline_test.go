package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/geco/pkg/cache"
	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/genome"
	"github.com/matzehuels/geco/pkg/notation"
	"github.com/matzehuels/geco/pkg/palette"
	"github.com/matzehuels/geco/pkg/render/synteny/layout"
	"github.com/matzehuels/geco/pkg/source"
)

const testDataset = `{
	"c1": {"neighborhood": {
		"-1": {"gene": "u1", "strand": "+", "start": 10, "end": 60, "KEGG": "K00002"},
		"0": {"gene": "c1", "strand": "+", "start": 100, "end": 200, "KEGG": "K00001",
			"eggNOG": {"2": {"COG1@2": {"id": "COG1@2", "description": "one"}}, "1": {"ENOG1@1": {"id": "ENOG1@1"}}}},
		"1": {"gene": "d1", "strand": "-", "start": 250, "end": 300}
	}},
	"c2": {"neighborhood": {
		"0": {"gene": "c2", "strand": "-", "start": 100, "end": 200, "KEGG": "K00001"}
	}}
}`

func inlineOptions() Options {
	return Options{
		Dataset: json.RawMessage(testDataset),
		Params:  layout.Params{Notation: "KEGG", NSide: notation.Window{Upstream: 1, Downstream: 1}},
		Seed:    7,
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"dot", false},
		{"tree.svg", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !gerrors.Is(err, gerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, gerrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"print", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Query: fetch.Query{IDs: []string{"COG0001"}}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Query.Kind != fetch.KindCluster {
		t.Errorf("Query.Kind = %q, want cluster", opts.Query.Kind)
	}
	if opts.Params.Notation != DefaultNotation || opts.Params.NSide.Upstream != DefaultNSide {
		t.Errorf("Params = %+v", opts.Params)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG || opts.Style != DefaultStyle {
		t.Errorf("render defaults = %v %q", opts.Formats, opts.Style)
	}
	if opts.Logger == nil || opts.Viewport != layout.DefaultViewport || opts.Scale != DefaultPNGScale {
		t.Error("runtime defaults not applied")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code gerrors.Code
	}{
		{"nothing to load", Options{}, gerrors.ErrCodeInvalidInput},
		{"bad query", Options{Query: fetch.Query{IDs: []string{"../etc"}}}, gerrors.ErrCodeInvalidQuery},
		{"bad notation", Options{Dataset: json.RawMessage(`{}`), Params: layout.Params{Notation: "1x"}}, gerrors.ErrCodeInvalidNotation},
		{"bad format", Options{Dataset: json.RawMessage(`{}`), Formats: []string{"gif"}}, gerrors.ErrCodeInvalidFormat},
		{"bad style", Options{Dataset: json.RawMessage(`{}`), Style: "neon"}, gerrors.ErrCodeInvalidStyle},
		{"negative width", Options{Dataset: json.RawMessage(`{}`), Width: -1}, gerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !gerrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteInline(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	opts := inlineOptions()
	opts.Formats = []string{FormatSVG, FormatJSON, FormatPNG}
	opts.Legend = true

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.RowCount != 2 || res.Stats.GlyphCount != 4 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if !json.Valid(res.Artifacts[FormatJSON]) {
		t.Error("json artifact is not valid JSON")
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact missing")
	}
	if !strings.HasPrefix(res.DatasetKey, "inline:") {
		t.Errorf("DatasetKey = %s", res.DatasetKey)
	}
	if row, ok := res.Layout.Row("c2"); !ok || !row.Swapped {
		t.Error("reverse anchored row should be swapped")
	}
}

func TestExecuteCaching(t *testing.T) {
	mc, err := cache.NewMemoryCache(64)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(mc, nil, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, inlineOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run cannot hit the cache")
	}
	second, err := r.Execute(ctx, inlineOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second seeded run CacheInfo = %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	refresh := inlineOptions()
	refresh.Refresh = true
	if res, _ := r.Execute(ctx, refresh); res.CacheInfo.LayoutHit {
		t.Error("refresh must bypass the cache")
	}

	unseeded := inlineOptions()
	unseeded.Seed = 0
	for range 2 {
		res, err := r.Execute(ctx, unseeded)
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if res.CacheInfo.LayoutHit {
			t.Error("unseeded layouts are never cached")
		}
	}
}

func TestExecuteTreeFormats(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	opts := inlineOptions()
	opts.Formats = []string{FormatDOT}

	_, err := r.Execute(context.Background(), opts)
	if !gerrors.IsNotFound(err) {
		t.Errorf("dot without tree err = %v", err)
	}

	opts.Newick = "(c1:1,c2:1);"
	opts.Params.Options.ShowTree = true
	opts.Highlight = []string{"c1"}
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	dot := string(res.Artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "digraph") || !strings.Contains(dot, "c1") {
		t.Errorf("dot = %s", dot)
	}
	if !res.Layout.Params.Options.ShowTree {
		t.Error("tree should stay enabled when a tree is given")
	}
	if res.Layout.FrameWidth != layout.ContextWidth(layout.DefaultViewport, true) {
		t.Errorf("FrameWidth = %v, want tree width", res.Layout.FrameWidth)
	}
}

type stubSource struct {
	bundle *fetch.Bundle
	err    error
	got    source.Request
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(_ context.Context, req source.Request) (*fetch.Bundle, error) {
	s.got = req
	return s.bundle, s.err
}

func TestExecuteSource(t *testing.T) {
	ds, err := genome.ParseJSON([]byte(testDataset))
	if err != nil {
		t.Fatal(err)
	}
	src := &stubSource{bundle: &fetch.Bundle{
		Dataset:  ds,
		Colors:   palette.DefaultPool,
		Labels:   map[string]string{"2": "Bacteria"},
		Warnings: []string{"tree unavailable"},
	}}
	r := NewRunner(nil, nil, src, nil)

	opts := Options{
		Query:  fetch.Query{Kind: fetch.KindCluster, IDs: []string{"COG0001"}, Cutoff: 5},
		Params: layout.Params{Notation: "eggNOG", TaxLevel: "2", Options: layout.Options{ShowTree: true}},
		Colors: "colors.txt",
		Labels: true,
	}
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !src.got.Tree || src.got.Colors != "colors.txt" || !src.got.Labels || src.got.Query.Cutoff != 5 {
		t.Errorf("source request = %+v", src.got)
	}
	if res.Layout.Legend.Title != "eggNOG (Bacteria)" {
		t.Errorf("Legend.Title = %q", res.Layout.Legend.Title)
	}
	if len(res.Warnings) < 2 {
		t.Errorf("Warnings = %v, want the source warning and the missing tree", res.Warnings)
	}
	if strings.HasPrefix(res.DatasetKey, "inline") {
		t.Errorf("DatasetKey = %s", res.DatasetKey)
	}

	src.err = gerrors.New(gerrors.ErrCodeDatasetNotFound, "nothing")
	if _, err := r.Execute(context.Background(), opts); !gerrors.Is(err, gerrors.ErrCodeDatasetNotFound) {
		t.Errorf("source failure err = %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	opts := Options{Query: fetch.Query{Kind: fetch.KindCluster, IDs: []string{"Q"}}}
	if _, err := Load(ctx, nil, opts); !gerrors.Is(err, gerrors.ErrCodeInvalidInput) {
		t.Errorf("no source err = %v", err)
	}

	bad := []Options{
		{Dataset: json.RawMessage(`[1]`)},
		{Dataset: json.RawMessage(`{}`)},
		{Dataset: json.RawMessage(testDataset), Pool: []string{"#nothex"}},
	}
	for _, o := range bad {
		if _, err := Load(ctx, nil, o); err == nil {
			t.Errorf("Load(%s, pool %v) should fail", o.Dataset, o.Pool)
		}
	}

	b, err := Load(ctx, nil, Options{Dataset: json.RawMessage(testDataset), Newick: "((", Pool: []string{"#ABCDEF"}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Tree != nil || len(b.Warnings) != 1 {
		t.Errorf("malformed inline tree should degrade to a warning: %v", b.Warnings)
	}
	if len(b.Colors) != 1 || b.Colors[0] != "#abcdef" {
		t.Errorf("Colors = %v", b.Colors)
	}
}

func TestLabelFields(t *testing.T) {
	p := layout.Params{Fields: layout.Tracks(layout.TrackSet{TaxPred: true, TpredLevel: "2"})}
	got := labelFields(p, map[string]string{"2": "Bacteria"})
	if got.Fields[0].Title != "Taxonomic prediction (Bacteria)" {
		t.Errorf("Title = %q", got.Fields[0].Title)
	}
	if p.Fields[0].Title != "Taxonomic prediction (2)" {
		t.Error("labelFields must not modify its input")
	}
}

func TestLevelsOf(t *testing.T) {
	ds, _ := genome.ParseJSON([]byte(testDataset))
	levels := LevelsOf(ds, "eggNOG", map[string]string{"1": "root"})
	if len(levels) != 2 || levels[0] != (Level{ID: "1", Name: "root"}) || levels[1] != (Level{ID: "2"}) {
		t.Errorf("LevelsOf = %+v", levels)
	}
}

func TestRunnerClose(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if _, err := r.Execute(context.Background(), Options{}); err == nil || errors.Unwrap(err) == nil {
		t.Errorf("invalid options err = %v", err)
	}
}
