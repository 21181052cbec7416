package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/geco/pkg/genome"
	"github.com/matzehuels/geco/pkg/notation"
	"github.com/matzehuels/geco/pkg/palette"
	"github.com/matzehuels/geco/pkg/scale"
)

func parse(t *testing.T, src string) *genome.Dataset {
	t.Helper()
	ds, err := genome.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	return ds
}

func build(t *testing.T, ds *genome.Dataset, p Params, opts ...Option) Layout {
	t.Helper()
	l, err := Build(ds, p, append([]Option{WithSeed(1)}, opts...)...)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return l
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func positions(r Row) []int {
	var out []int
	for _, g := range r.Glyphs {
		out = append(out, g.Pos)
	}
	return out
}

const twoGenes = `{"g0": {"neighborhood": {
	"0": {"gene": "g0", "strand": "+", "start": 100, "end": 200, "size": 100},
	"1": {"gene": "g1", "strand": "-", "start": 250, "end": 300, "size": 50}
}}}`

func TestBuildScaledDistance(t *testing.T) {
	ds := parse(t, twoGenes)
	p := Params{Notation: "KEGG", NSide: notation.Window{Upstream: 0, Downstream: 1}, Options: Options{ScaleDist: true}}
	l := build(t, ds, p)

	if l.GlyphCount() != 2 {
		t.Fatalf("GlyphCount() = %d, want 2", l.GlyphCount())
	}
	row := l.Rows[0]
	g0, _ := row.Glyph(0)
	g1, _ := row.Glyph(1)

	want, err := scale.Build([]float64{100, 50}, scale.Geometry{W: l.Rect.W, PH: l.Rect.PH}, scale.Config{ScaleDist: true})
	if err != nil {
		t.Fatalf("scale.Build: %v", err)
	}
	// Smallest gene maps to 2/5*20 + 10 = 18 px.
	if !near(g1.Gap, want.Dist(50)) || !near(g1.Gap, 18) {
		t.Errorf("gap = %v, want distScale(50) = %v", g1.Gap, want.Dist(50))
	}
	if g1.X0 <= g0.XF {
		t.Errorf("g1 starts at %v, not right of g0's trailing edge %v", g1.X0, g0.XF)
	}
	if !l.Params.Options.ScaleSize || !l.Params.Options.HighlightAnchor {
		t.Error("scale_dist should force scale_size and highlight_anchor")
	}
	if !g0.Anchor || g1.Anchor {
		t.Error("only the central gene carries the anchor stroke")
	}
	if l.ScaleBar == nil {
		t.Error("proportional layouts carry a scale bar")
	}
	if l.AnchorBox != nil {
		t.Error("no anchor box under scale_dist")
	}
}

func TestBuildSkipsMissingNeighbor(t *testing.T) {
	ds := parse(t, `{"g0": {"neighborhood": {
		"0": {"gene": "g0", "strand": "+", "start": 100, "end": 200, "size": 100},
		"1": {"gene": "NA", "unigene": "NA"}
	}}}`)
	p := Params{Notation: "KEGG", NSide: notation.Window{Downstream: 1}, Options: Options{ScaleDist: true}}
	l := build(t, ds, p)

	if l.GlyphCount() != 1 {
		t.Fatalf("GlyphCount() = %d, want 1", l.GlyphCount())
	}
	g0 := l.Rows[0].Glyphs[0]
	if g0.Pos != 0 || l.Bounds.Sup != g0.XF {
		t.Errorf("Bounds.Sup = %v, want position 0 trailing edge %v", l.Bounds.Sup, g0.XF)
	}
}

const fiveGenes = `{"c": {"neighborhood": {
	"-2": {"gene": "m2", "strand": "+", "start": 0, "end": 100, "size": 100},
	"-1": {"gene": "m1", "strand": "-", "start": 150, "end": 250, "size": 100},
	"0": {"gene": "c", "strand": "+", "start": 300, "end": 400, "size": 100},
	"1": {"gene": "p1", "strand": "-", "start": 450, "end": 550, "size": 100},
	"2": {"gene": "p2", "strand": "+", "start": 600, "end": 700, "size": 100},
	"3": {"gene": "outside", "strand": "+", "start": 750, "end": 850, "size": 100}
}}}`

func TestBuildVisitOrder(t *testing.T) {
	ds := parse(t, fiveGenes)
	p := Params{Notation: "KEGG", NSide: notation.Window{Upstream: 2, Downstream: 2}, Options: Options{ScaleDist: true}}
	l := build(t, ds, p)
	row := l.Rows[0]

	got := positions(row)
	want := []int{0, 1, 2, -1, -2}
	if len(got) != len(want) {
		t.Fatalf("positions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("positions = %v, want %v", got, want)
		}
		if id := row.Glyphs[i].ID; id != "idx"+string(rune('0'+i)) {
			t.Errorf("glyph %d id = %s", i, id)
		}
	}

	gs := row.Glyphs
	if !(gs[0].XF < gs[1].XF && gs[1].XF < gs[2].XF) {
		t.Errorf("downstream edges not increasing: %v %v %v", gs[0].XF, gs[1].XF, gs[2].XF)
	}
	if !(gs[3].XF > gs[4].XF) {
		t.Errorf("upstream edges not decreasing: %v %v", gs[3].XF, gs[4].XF)
	}
	for _, g := range gs[1:] {
		if g.Gap <= 0 {
			t.Errorf("glyph %d gap = %v, want > 0", g.Pos, g.Gap)
		}
	}
	if l.Bounds.Inf != gs[4].XF || l.Bounds.Sup != gs[2].XF {
		t.Errorf("Bounds = %+v", l.Bounds)
	}
	if !near(l.FrameWidth, l.Bounds.Sup-l.Bounds.Inf+DefaultMargin.Left) {
		t.Errorf("FrameWidth = %v, want span plus margin", l.FrameWidth)
	}
	if !near(l.Translate.X, -l.Bounds.Inf+DefaultMargin.Left) {
		t.Errorf("Translate.X = %v", l.Translate.X)
	}
}

func TestBuildCollapsedGap(t *testing.T) {
	ds := parse(t, fiveGenes)
	p := Params{Notation: "KEGG", NSide: notation.Window{Upstream: 2, Downstream: 2}, Options: Options{CollapseDist: true}}
	l := build(t, ds, p)
	for _, g := range l.Rows[0].Glyphs {
		want := float64(collapseGap)
		if g.Pos == 0 {
			want = 0
		}
		if g.Gap != want {
			t.Errorf("pos %d gap = %v, want %v", g.Pos, g.Gap, want)
		}
	}
	if l.AnchorBox == nil {
		t.Error("collapsed layout without size scaling keeps the anchor box")
	}
}

func TestBuildGrid(t *testing.T) {
	ds := parse(t, fiveGenes)
	p := Params{Notation: "KEGG", NSide: notation.Window{Upstream: 1, Downstream: 1}}
	l := build(t, ds, p, WithWidth(305))

	if l.Rect.W != 100 {
		t.Fatalf("Rect.W = %v, want 100", l.Rect.W)
	}
	want := map[int]float64{-1: 0, 0: 100, 1: 200}
	for _, g := range l.Rows[0].Glyphs {
		if g.X0 != want[g.Pos] {
			t.Errorf("pos %d x0 = %v, want %v", g.Pos, g.X0, want[g.Pos])
		}
		if g.Gap != 0 {
			t.Errorf("grid glyphs have no gap, got %v", g.Gap)
		}
	}
	g0, _ := l.Rows[0].Glyph(0)
	if g0.XF != 188 {
		t.Errorf("forward trailing edge = %v, want x0 + w - ph + 2ph/5 = 188", g0.XF)
	}
	if l.FrameWidth != 305 || l.Translate.X != DefaultMargin.Left {
		t.Errorf("frame = %v translate %v", l.FrameWidth, l.Translate)
	}
	if len(l.AnchorBox) != 4 || !near(l.AnchorBox[0].X, 100-20.0/3) {
		t.Errorf("AnchorBox = %v", l.AnchorBox)
	}
	if l.ScaleBar != nil {
		t.Error("grid layout without size scaling has no scale bar")
	}
}

func TestBuildStrandSwap(t *testing.T) {
	ds := parse(t, `{"r": {"neighborhood": {
		"-1": {"gene": "left", "strand": "+"},
		"0": {"gene": "r", "strand": "-"},
		"1": {"gene": "right", "strand": "-"}
	}}}`)
	p := Params{Notation: "KEGG", NSide: notation.Window{Upstream: 1, Downstream: 1}}
	l := build(t, ds, p)

	row := l.Rows[0]
	if !row.Swapped {
		t.Error("row with a reverse central gene should be swapped")
	}
	tests := []struct {
		pos    int
		gene   string
		strand genome.Strand
	}{
		{0, "r", genome.Forward},
		{1, "left", genome.Reverse},
		{-1, "right", genome.Forward},
	}
	for _, tt := range tests {
		g, ok := row.Glyph(tt.pos)
		if !ok {
			t.Fatalf("no glyph at %d", tt.pos)
		}
		if g.Gene != tt.gene || g.Strand != tt.strand {
			t.Errorf("pos %d = %s %v, want %s %v", tt.pos, g.Gene, g.Strand, tt.gene, tt.strand)
		}
	}
	if anchor, _ := ds.Entries[0].Neighborhood.Anchor(); anchor.Strand != genome.Reverse {
		t.Error("Build must not modify the input dataset")
	}
}

func TestBuildFill(t *testing.T) {
	ds := parse(t, `{"c": {"neighborhood": {
		"0": {"gene": "c", "strand": "+", "KEGG": {"K1": {"id": "K1"}, "K2": {"id": "K2"}}},
		"1": {"gene": "d", "strand": "-", "KEGG": {"K1": {"id": "K1"}, "K2": {"id": "K2"}}},
		"2": {"gene": "e", "strand": "+"}
	}}}`)
	pal := palette.Build([]string{"K1", "K2"}, []string{"#111111", "#222222"}, palette.WithSeed(3))
	p := Params{Notation: "KEGG", NSide: notation.Window{Downstream: 2}}
	l := build(t, ds, p, WithPalette(pal))
	row := l.Rows[0]

	fwd, _ := row.Glyph(0)
	if fwd.Fill != pal.Color("K2") {
		t.Errorf("forward fill = %s, want last id color %s", fwd.Fill, pal.Color("K2"))
	}
	rev, _ := row.Glyph(1)
	if rev.Fill != pal.Color("K1") {
		t.Errorf("reverse fill = %s, want first id color %s", rev.Fill, pal.Color("K1"))
	}
	if len(fwd.Bars) != 2 || fwd.Bars[0].Fill != pal.Color("K1") || fwd.Bars[1].Fill != pal.Color("K2") {
		t.Errorf("bars = %+v", fwd.Bars)
	}
	if !near(fwd.Bars[1].X-fwd.Bars[0].X, (fwd.W-l.Rect.PH)/2) {
		t.Error("bars should split the glyph body evenly")
	}

	none, _ := row.Glyph(2)
	if none.Fill != palette.NoData || len(none.Bars) != 1 || none.IDs[0] != "" {
		t.Errorf("unannotated gene = fill %s bars %d ids %v", none.Fill, len(none.Bars), none.IDs)
	}

	if len(l.Legend.Entries) != 2 || l.Legend.Title != "KEGG" {
		t.Errorf("Legend = %+v", l.Legend)
	}
}

func TestBuildMissingAnchorRow(t *testing.T) {
	ds := parse(t, `{
		"broken": {"neighborhood": {"1": {"gene": "x", "strand": "+"}}},
		"ok": {"neighborhood": {"0": {"gene": "ok", "strand": "+"}}}
	}`)
	l := build(t, ds, Params{Notation: "KEGG", NSide: notation.Window{Downstream: 1}})

	if len(l.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(l.Rows))
	}
	if l.Rows[0].Err == "" || len(l.Rows[0].Glyphs) != 0 {
		t.Errorf("row without anchor = %+v", l.Rows[0])
	}
	if l.Rows[1].Err != "" || len(l.Rows[1].Glyphs) != 1 {
		t.Errorf("following row = %+v", l.Rows[1])
	}
	if l.Rows[1].Ordinate != DefaultOrdinate(l.Rect, 1, 1) {
		t.Errorf("row 1 ordinate = %v", l.Rows[1].Ordinate)
	}
}

func TestBuildRecoversRowPanic(t *testing.T) {
	ds := parse(t, `{
		"a": {"neighborhood": {"0": {"gene": "a", "strand": "+"}}},
		"b": {"neighborhood": {"0": {"gene": "b", "strand": "+"}}}
	}`)
	getter := func(g *genome.Gene, n, lvl string) *notation.Categories {
		if g.ID == "a" {
			panic("bad annotation")
		}
		return notation.Identifiers(g, n, lvl)
	}
	l := build(t, ds, Params{Notation: "KEGG"}, WithIdentifierGetter(getter))
	if l.Rows[0].Err != "bad annotation" {
		t.Errorf("row a err = %q", l.Rows[0].Err)
	}
	if len(l.Rows[1].Glyphs) != 1 {
		t.Error("a failing row must not stop the next one")
	}
}

func TestBuildOrdinate(t *testing.T) {
	ds := parse(t, twoGenes)
	resolve := func(id string, row int) (float64, bool) {
		return 321, id == "g0"
	}
	p := Params{Notation: "KEGG", NSide: notation.Window{Downstream: 1}, Options: Options{ShowTree: true}}
	l := build(t, ds, p, WithOrdinate(resolve))
	if l.Rows[0].Ordinate != 321 || l.LargestOrdinate != 321 {
		t.Errorf("ordinate = %v", l.Rows[0].Ordinate)
	}
	if l.FrameWidth != ContextWidth(DefaultViewport, true) {
		t.Errorf("FrameWidth = %v, want tree width", l.FrameWidth)
	}
	if l.FrameHeight != 321+20+bottomSpace {
		t.Errorf("FrameHeight = %v", l.FrameHeight)
	}

	noTree := build(t, ds, p)
	if noTree.Params.Options.ShowTree || len(noTree.Warnings) == 0 {
		t.Error("tree without positions should be disabled with a warning")
	}
	if noTree.FrameWidth != ContextWidth(DefaultViewport, false) {
		t.Errorf("FrameWidth = %v, want wide layout", noTree.FrameWidth)
	}
}

func TestBuildNameLabel(t *testing.T) {
	ds := parse(t, `{"c": {"neighborhood": {
		"0": {"gene": "c", "strand": "+", "preferred_name": "abcdefghijklmnop"},
		"1": {"gene": "d", "strand": "+", "preferred_name": "NA"}
	}}}`)
	p := Params{Notation: "KEGG", NSide: notation.Window{Downstream: 1}, Options: Options{ShowName: true}}
	l := build(t, ds, p, WithWidth(205))

	g0, _ := l.Rows[0].Glyph(0)
	if g0.Label == nil || g0.Label.Text != "abcdefg" {
		t.Fatalf("label = %+v, want 7 characters", g0.Label)
	}
	if g0.Label.X != g0.X0+50-10 {
		t.Errorf("label x = %v", g0.Label.X)
	}
	if g1, _ := l.Rows[0].Glyph(1); g1.Label != nil {
		t.Error("sentinel names are not shown")
	}
}

func TestBuildTracks(t *testing.T) {
	ds := parse(t, `{"c": {"neighborhood": {
		"n": "3",
		"0": {"gene": "c", "strand": "+", "start": 1234, "end": 2000,
			"tax_prediction": {"2": {"Bacteria@2": {"id": "Bacteria", "description": "bacteria"}}}},
		"1": {"gene": "d", "strand": "-", "start": 2100, "end": 2900}
	}}}`)
	fields := Tracks(TrackSet{ShowPos: true, NContig: true, TaxPred: true, TpredLevel: "2"})
	p := Params{Notation: "KEGG", NSide: notation.Window{Downstream: 1}, Fields: fields}
	l := build(t, ds, p, WithWidth(205))

	if l.NField != 4 {
		t.Fatalf("NField = %d, want 4", l.NField)
	}
	row := l.Rows[0]
	y := row.Ordinate
	g0, _ := row.Glyph(0)

	var tax *Circle
	for i, c := range g0.Circles {
		if c.Field == FieldTaxPrediction {
			tax = &g0.Circles[i]
		}
	}
	if tax == nil || tax.ID != "idBacteria@2" || tax.CY != y+20*3+DefaultCircleRadius {
		t.Fatalf("tax circle = %+v", tax)
	}
	if len(l.FieldLegends) != 1 || l.FieldLegends[0].Entries[0].Color != tax.Fill {
		t.Errorf("field legend = %+v", l.FieldLegends)
	}

	if len(g0.Texts) != 1 || g0.Texts[0].Text != "1234" || g0.Texts[0].X != g0.X0 {
		t.Errorf("position text = %+v", g0.Texts)
	}
	g1, _ := row.Glyph(1)
	if want := g1.X0 + g1.W - 20 - 5*4; g1.Texts[0].X != want {
		t.Errorf("reverse position text x = %v, want %v", g1.Texts[0].X, want)
	}

	if len(row.Texts) != 1 || row.Texts[0].Text != "3" {
		t.Fatalf("contig text = %+v", row.Texts)
	}
	if want := y + 20/1.7 + 20*2; row.Texts[0].Y != want {
		t.Errorf("contig text y = %v, want %v", row.Texts[0].Y, want)
	}
}

func TestParamsNormalizeContigTrack(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		want   []string // names by slot
	}{
		{"no fields", nil, []string{FieldNContig}},
		{"after position", Tracks(TrackSet{ShowPos: true, TaxPred: true}), []string{FieldShowPos, FieldNContig, FieldTaxPrediction}},
		{"before others", Tracks(TrackSet{TaxPred: true}), []string{FieldNContig, FieldTaxPrediction}},
		{"already present", Tracks(TrackSet{NContig: true}), []string{FieldNContig}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Params{Notation: "KEGG", Fields: tt.fields, Options: Options{NContig: true}}
			p := in.Normalize()
			if len(p.Fields) != len(tt.want) {
				t.Fatalf("fields = %+v", p.Fields)
			}
			for i, f := range p.Fields {
				if f.Name != tt.want[i] || f.Y != i+1 {
					t.Errorf("field %d = %s@%d, want %s@%d", i, f.Name, f.Y, tt.want[i], i+1)
				}
			}
			if err := p.Validate(); err != nil {
				t.Errorf("normalized params invalid: %v", err)
			}
		})
	}

	p := Params{Notation: "KEGG"}.Normalize()
	if len(p.Fields) != 0 {
		t.Errorf("contig track added without the option: %+v", p.Fields)
	}
}

func TestBuildContigOption(t *testing.T) {
	ds := parse(t, `{"c": {"neighborhood": {
		"n": "4",
		"0": {"gene": "c", "strand": "+", "start": 10, "end": 200}
	}}}`)
	l := build(t, ds, Params{Notation: "KEGG", Options: Options{NContig: true}})
	if l.NField != 2 {
		t.Fatalf("NField = %d, want 2", l.NField)
	}
	if texts := l.Rows[0].Texts; len(texts) != 1 || texts[0].Text != "4" {
		t.Errorf("contig text = %+v", texts)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(&genome.Dataset{}, Params{Notation: "KEGG"}); !errors.Is(err, ErrNoRows) {
		t.Errorf("empty dataset err = %v", err)
	}
	ds := parse(t, twoGenes)
	bad := []Params{
		{},
		{Notation: "KEGG", NSide: notation.Window{Upstream: -1}},
		{Notation: "KEGG", Fields: []Field{{Name: "x", Rep: "square", Y: 1}}},
		{Notation: "KEGG", Fields: []Field{{Name: "x", Rep: RepText, Y: 0}}},
	}
	for _, p := range bad {
		if _, err := Build(ds, p); err == nil {
			t.Errorf("Build(%+v) should fail", p)
		}
	}
}

func TestBuildEmptyScaleWarns(t *testing.T) {
	ds := parse(t, `{"c": {"neighborhood": {"0": {"gene": "c", "strand": "+"}}}}`)
	l := build(t, ds, Params{Notation: "KEGG", Options: Options{ScaleSize: true}})
	if len(l.Warnings) == 0 {
		t.Error("missing sizes should produce a scaling warning")
	}
	if l.GlyphCount() != 1 {
		t.Error("a scaling failure must not abort the draw")
	}
}
