package layout

import (
	"testing"

	"github.com/matzehuels/geco/pkg/notation"
)

func countKinds(shapes []Shape) map[string]int {
	n := make(map[string]int)
	for _, s := range shapes {
		n[s.Kind+"/"+s.Class]++
	}
	return n
}

func TestShapes(t *testing.T) {
	ds := parse(t, twoGenes)
	p := Params{Notation: "KEGG", NSide: notation.Window{Downstream: 1}, Options: Options{ScaleDist: true, ShowName: true}}
	l := build(t, ds, p)
	shapes := l.Shapes()
	got := countKinds(shapes)

	want := map[string]int{
		"path/" + ClassRowFrame:     1,
		"rect/" + ClassBar:          2,
		"path/" + ClassArrow:        2,
		"path/" + ClassStroke:       2,
		"path/" + ClassAnchorStroke: 1,
		"line/" + ClassScale:        3,
		"text/" + ClassScale:        1,
	}
	for k, n := range want {
		if got[k] != n {
			t.Errorf("%s: got %d shapes, want %d", k, got[k], n)
		}
	}
	if got["path/"+ClassAnchorBox] != 0 {
		t.Error("no anchor box under scale_dist")
	}

	g0, _ := l.Rows[0].Glyph(0)
	for _, s := range shapes {
		if s.Kind == KindRect && s.Gene == "g0" {
			if !near(s.X, g0.X0+l.Translate.X) || !near(s.Y, g0.Y+l.Translate.Y) {
				t.Errorf("bar at (%v, %v), want translated glyph origin", s.X, s.Y)
			}
		}
		if s.Class == ClassStroke && !s.Hidden {
			t.Error("hover outlines are hidden")
		}
	}
}

func TestShapesGridAnchorBox(t *testing.T) {
	ds := parse(t, twoGenes)
	l := build(t, ds, Params{Notation: "KEGG", NSide: notation.Window{Downstream: 1}})
	got := countKinds(l.Shapes())
	if got["path/"+ClassAnchorBox] != 1 {
		t.Error("grid layout draws the anchor box")
	}
	if got["line/"+ClassScale] != 0 {
		t.Error("grid layout has no scale bar")
	}
}

func TestTracks(t *testing.T) {
	f := Tracks(TrackSet{NContig: true, TaxPred: true, TpredLevel: "class"})
	if len(f) != 2 || f[0].Name != FieldNContig || f[0].Y != 1 || f[1].Y != 2 || f[1].Level != "class" {
		t.Errorf("Tracks = %+v", f)
	}
	if f[1].Title != "Taxonomic prediction (class)" {
		t.Errorf("title = %q", f[1].Title)
	}
}

func TestContextWidth(t *testing.T) {
	tests := []struct {
		viewport float64
		tree     bool
		want     float64
	}{
		{1920, true, 1000},
		{2400, true, 1200},
		{1920, false, 1420},
		{800, false, 1000},
	}
	for _, tt := range tests {
		if got := ContextWidth(tt.viewport, tt.tree); got != tt.want {
			t.Errorf("ContextWidth(%v, %v) = %v, want %v", tt.viewport, tt.tree, got, tt.want)
		}
	}
}
