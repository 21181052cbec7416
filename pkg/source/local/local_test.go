package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/palette"
	"github.com/matzehuels/geco/pkg/source"
)

const dataset = `{"g1": {"neighborhood": {"0": {"gene": "g1", "strand": "+"}}},
	"g2": {"neighborhood": {"0": {"gene": "g2", "strand": "-"}}}}`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	s := &Source{
		Dataset: write(t, dir, "ctx.json", dataset),
		Tree:    write(t, dir, "tree.nwk", "(g1:1,g2:1);\n"),
		Colors:  write(t, dir, "colors.txt", `['#112233']`),
		Labels:  write(t, dir, "labels.json", `{"2": "Bacteria"}`),
	}
	var _ source.Source = s

	b, err := s.Load(context.Background(), source.Request{Tree: true, Labels: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Dataset.Len() != 2 {
		t.Errorf("Dataset.Len() = %d, want 2", b.Dataset.Len())
	}
	if b.Tree == nil || b.TreeText != "(g1:1,g2:1);" {
		t.Errorf("tree = %v %q", b.Tree, b.TreeText)
	}
	if len(b.Colors) != 1 || b.Colors[0] != "#112233" {
		t.Errorf("Colors = %v", b.Colors)
	}
	if b.Labels["2"] != "Bacteria" {
		t.Errorf("Labels = %v", b.Labels)
	}
	if len(b.Warnings) != 0 {
		t.Errorf("Warnings = %v", b.Warnings)
	}
}

func TestLoadDegrades(t *testing.T) {
	dir := t.TempDir()
	s := &Source{
		Dataset: write(t, dir, "ctx.json", dataset),
		Tree:    write(t, dir, "tree.nwk", "((a,b);"),
	}
	b, err := s.Load(context.Background(), source.Request{Tree: true, Colors: filepath.Join(dir, "missing.txt")})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Tree != nil {
		t.Error("malformed tree should be dropped")
	}
	if len(b.Colors) != len(palette.DefaultPool) {
		t.Error("missing colors file should fall back to the built-in pool")
	}
	if len(b.Warnings) != 2 {
		t.Errorf("Warnings = %v, want 2", b.Warnings)
	}

	noTree, err := New(s.Dataset).Load(context.Background(), source.Request{Tree: true})
	if err != nil || len(noTree.Warnings) != 1 {
		t.Errorf("tree without file: err %v warnings %v", err, noTree.Warnings)
	}
}

func TestReadDatasetErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		code gerrors.Code
	}{
		{"empty path", "", gerrors.ErrCodeInvalidPath},
		{"missing", filepath.Join(dir, "nope.json"), gerrors.ErrCodeFileNotFound},
		{"malformed", write(t, dir, "bad.json", `[1]`), gerrors.ErrCodeInvalidDataset},
		{"no genes", write(t, dir, "empty.json", `{}`), gerrors.ErrCodeDatasetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(tt.path)
			if !gerrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New("x.json").Load(ctx, source.Request{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
