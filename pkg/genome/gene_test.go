package genome

import (
	"encoding/json"
	"testing"
)

const sampleGene = `{
	"gene": "g1",
	"strand": -1,
	"start": "250",
	"end": 300,
	"size": 50,
	"preferred_name": "dnaA",
	"GMGFam": "F0001",
	"KEGG": {
		"K00002": {"id": "K00002", "description": "second"},
		"K00001": {"id": "K00001", "description": "first"},
		"scores": {"K00001": 0.9},
		"prediction": "K00001"
	},
	"eggNOG": {
		"2": {"COG0001@2": {"id": "COG0001", "description": "bacterial"}},
		"1": {"COG0001@1": {"id": "COG0001", "description": "root"}, "COG0002@1": {"id": "COG0002"}},
		"scores": {"2": 1}
	},
	"tax_prediction": {
		"phylum": {"Firmicutes": {"id": "Firmicutes", "percentage": 87.5}}
	}
}`

func TestGeneUnmarshal(t *testing.T) {
	var g Gene
	if err := json.Unmarshal([]byte(sampleGene), &g); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if g.ID != "g1" || g.Strand != Reverse {
		t.Errorf("got id=%q strand=%v", g.ID, g.Strand)
	}
	if g.Start != 250 || g.End != 300 {
		t.Errorf("coordinates = %d..%d, want 250..300", g.Start, g.End)
	}
	if !g.HasSize || g.Size != 50 {
		t.Errorf("size = %v (has=%v)", g.Size, g.HasSize)
	}
	if g.Name() != "dnaA" {
		t.Errorf("Name() = %q", g.Name())
	}

	want := []string{"GMGFam", "KEGG", "eggNOG", "tax_prediction"}
	got := g.Annotations()
	if len(got) != len(want) {
		t.Fatalf("Annotations() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Annotations()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGeneAnnotationKinds(t *testing.T) {
	var g Gene
	if err := json.Unmarshal([]byte(sampleGene), &g); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	tests := []struct {
		notation string
		kind     Kind
	}{
		{"GMGFam", KindScalar},
		{"KEGG", KindFlat},
		{"eggNOG", KindHierarchical},
		{"tax_prediction", KindHierarchical},
	}
	for _, tt := range tests {
		a, ok := g.Annotation(tt.notation)
		if !ok {
			t.Errorf("%s: missing annotation", tt.notation)
			continue
		}
		if a.Kind() != tt.kind {
			t.Errorf("%s: kind = %v, want %v", tt.notation, a.Kind(), tt.kind)
		}
	}

	kegg, _ := g.Annotation("KEGG")
	flat := kegg.(Flat)
	if flat.Len() != 2 {
		t.Fatalf("KEGG entries = %d, want 2 (reserved keys excluded)", flat.Len())
	}
	if flat.Entries[0].Key != "K00002" {
		t.Errorf("KEGG order not preserved: first = %q", flat.Entries[0].Key)
	}
	if _, ok := flat.Reserved[KeyScores]; !ok {
		t.Error("scores should be kept aside")
	}
	if _, ok := flat.Reserved[KeyPrediction]; !ok {
		t.Error("prediction should be kept aside")
	}

	egg, _ := g.Annotation("eggNOG")
	h := egg.(Hierarchical)
	if keys := h.LevelKeys(); len(keys) != 2 || keys[0] != "1" || keys[1] != "2" {
		t.Errorf("eggNOG levels = %v, want [1 2]", keys)
	}
	lvl, ok := h.Level("1")
	if !ok || lvl.Len() != 2 {
		t.Fatalf("level 1 = %+v", lvl)
	}
	if n, _ := lvl.Get("COG0001@1"); n.ID != "COG0001" || n.Description != "root" {
		t.Errorf("descriptor = %+v", n)
	}

	tax, _ := g.Annotation("tax_prediction")
	phylum, _ := tax.(Hierarchical).Level("phylum")
	if n, _ := phylum.Get("Firmicutes"); n.Percentage != 87.5 {
		t.Errorf("percentage = %v", n.Percentage)
	}
}

func TestGeneUnmarshalLenient(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		check func(t *testing.T, g Gene)
	}{
		{
			name: "unigene fallback",
			in:   `{"unigene": "u1", "strand": "+"}`,
			check: func(t *testing.T, g Gene) {
				if g.ID != "u1" {
					t.Errorf("ID = %q, want u1", g.ID)
				}
			},
		},
		{
			name: "invalid strand reads forward",
			in:   `{"gene": "x", "strand": "?"}`,
			check: func(t *testing.T, g Gene) {
				if g.Strand != Forward {
					t.Errorf("Strand = %v", g.Strand)
				}
			},
		},
		{
			name: "null annotation dropped",
			in:   `{"gene": "x", "KEGG": null}`,
			check: func(t *testing.T, g Gene) {
				if _, ok := g.Annotation("KEGG"); ok {
					t.Error("null annotation should be dropped")
				}
			},
		},
		{
			name: "empty eggNOG is hierarchical",
			in:   `{"gene": "x", "eggNOG": {}}`,
			check: func(t *testing.T, g Gene) {
				a, ok := g.Annotation("eggNOG")
				if !ok || a.Kind() != KindHierarchical {
					t.Errorf("eggNOG = %v", a)
				}
			},
		},
		{
			name: "missing gene",
			in:   `{"gene": "NA"}`,
			check: func(t *testing.T, g Gene) {
				if !g.IsMissing() {
					t.Error("NA gene should be missing")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Gene
			if err := json.Unmarshal([]byte(tt.in), &g); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			tt.check(t, g)
		})
	}
}

func TestIsSentinel(t *testing.T) {
	for _, s := range []string{"", "NA"} {
		if !IsSentinel(s) {
			t.Errorf("IsSentinel(%q) = false", s)
		}
	}
	if IsSentinel("K00001") {
		t.Error("IsSentinel(K00001) = true")
	}
}
