package genome

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDataset = `{
	"zeta": {"neighborhood": {
		"0": {"gene": "zeta", "strand": "-", "start": 100, "end": 200},
		"1": {"gene": "z1", "strand": "+", "start": 250, "end": 300},
		"n": 3
	}},
	"alpha": {
		"-1": {"gene": "a0", "strand": 1, "start": 10, "end": 90},
		"0": {"gene": "alpha", "strand": 1, "start": 100, "end": 200},
		"label": "ignored"
	}
}`

func TestParseJSONKeepsOrder(t *testing.T) {
	ds, err := ParseJSON([]byte(sampleDataset))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got := ds.IDs(); len(got) != 2 || got[0] != "zeta" || got[1] != "alpha" {
		t.Fatalf("IDs() = %v, want [zeta alpha]", got)
	}

	zeta, _ := ds.Entry("zeta")
	if zeta.NContig != "3" {
		t.Errorf("NContig = %q, want 3", zeta.NContig)
	}
	if len(zeta.Neighborhood) != 2 {
		t.Errorf("zeta neighborhood size = %d", len(zeta.Neighborhood))
	}

	alpha, _ := ds.Entry("alpha")
	if g := alpha.Neighborhood[-1]; g == nil || g.ID != "a0" {
		t.Errorf("alpha[-1] = %+v", g)
	}
	if len(alpha.Neighborhood) != 2 {
		t.Errorf("non-positional keys should be ignored, got %d genes", len(alpha.Neighborhood))
	}
}

func TestDecodeObjectPropertyOrder(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"document order", `{"b": 1, "a": 2}`, []string{"b", "a"}},
		{"integer keys first, ascending", `{"x": 0, "300": 1, "20": 2, "0": 3}`, []string{"0", "20", "300", "x"}},
		{"non-canonical integers keep document order", `{"07": 0, "-1": 1, "1.5": 2, "3": 3}`, []string{"3", "07", "-1", "1.5"}},
		{"above the index range", `{"4294967295": 0, "4294967294": 1}`, []string{"4294967294", "4294967295"}},
		{"repeated key keeps first position", `{"a": 1, "b": 2, "a": 3}`, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, err := decodeObject([]byte(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, m := range members {
				got = append(got, m.Key)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("keys = %v, want %v", got, tt.want)
			}
		})
	}

	members, _ := decodeObject([]byte(`{"a": 1, "a": 3}`))
	if string(members[0].Value) != "3" {
		t.Errorf("repeated key value = %s, want the last one", members[0].Value)
	}
}

func TestFlatAnnotationNumericKeys(t *testing.T) {
	var g Gene
	if err := g.UnmarshalJSON([]byte(`{"gene": "g", "strand": "+",
		"Pfam": {"300": {"id": "300"}, "20": {"id": "20"}}}`)); err != nil {
		t.Fatal(err)
	}
	a, _ := g.Annotation("Pfam")
	flat, ok := a.(Flat)
	if !ok || len(flat.Entries) != 2 {
		t.Fatalf("Pfam = %#v", a)
	}
	if flat.Entries[0].Key != "20" || flat.Entries[1].Key != "300" {
		t.Errorf("entries = %s, %s; want 20, 300", flat.Entries[0].Key, flat.Entries[1].Key)
	}
}

func TestDatasetNormalize(t *testing.T) {
	ds, err := ParseJSON([]byte(sampleDataset))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if n := ds.Normalize(); n != 1 {
		t.Fatalf("Normalize() = %d, want 1", n)
	}
	zeta, _ := ds.Entry("zeta")
	if !zeta.Swapped {
		t.Error("zeta should be marked swapped")
	}
	if g := zeta.Neighborhood[-1]; g == nil || g.ID != "z1" || g.Strand != Reverse {
		t.Errorf("zeta[-1] = %+v, want z1 on reverse", g)
	}
	if n := ds.Normalize(); n != 0 {
		t.Errorf("second Normalize() = %d, want 0", n)
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"array", `[1, 2]`},
		{"truncated", `{"a": {"0": {"gene": "a"}`},
		{"scalar entry", `{"a": 3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.json")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("Len() = %d", ds.Len())
	}

	if _, err := ReadJSON(strings.NewReader("")); err == nil {
		t.Error("empty input should fail")
	}
}
