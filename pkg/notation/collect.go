package notation

import (
	"github.com/matzehuels/geco/pkg/genome"
)

// Window bounds the visible relative positions around each central gene.
type Window struct {
	Upstream   int `json:"upstream" toml:"upstream"`
	Downstream int `json:"downstream" toml:"downstream"`
}

// Contains reports whether pos lies in [-Upstream, Downstream].
func (w Window) Contains(pos int) bool {
	return pos >= -w.Upstream && pos <= w.Downstream
}

// Collect gathers the categories of every gene inside the window across the
// whole dataset, in first-seen order. A repeated id keeps its first position
// and takes the last description seen. Sentinel ids are never returned.
//
// Collect reads neighborhoods as stored; normalize the dataset first so the
// window matches what the layout engine visits.
func Collect(ds *genome.Dataset, notation, taxlevel string, w Window) *Categories {
	out := NewCategories()
	if ds == nil {
		return out
	}
	for _, e := range ds.Entries {
		for _, pos := range e.Neighborhood.Window(w.Upstream, w.Downstream) {
			g := e.Neighborhood[pos]
			if g.IsMissing() {
				continue
			}
			collectGene(out, g, notation, taxlevel)
		}
	}
	out.Delete("")
	out.Delete(genome.Missing)
	return out
}

func collectGene(out *Categories, g *genome.Gene, notation, taxlevel string) {
	a, ok := g.Annotation(notation)
	if !ok {
		return
	}
	switch v := a.(type) {
	case genome.Hierarchical:
		for _, l := range v.Levels {
			switch {
			case taxlevel == AnyLevel:
				for _, e := range l.Flat.Entries {
					out.Set(e.Notation.ID, e.Notation.Description)
				}
			case l.Key == taxlevel:
				for _, e := range l.Flat.Entries {
					out.Set(e.Key, e.Notation.Description)
				}
			}
		}
	case genome.Flat:
		for _, e := range v.Entries {
			out.Set(e.Key, e.Notation.Description)
		}
	case genome.Scalar:
		if v.Value != "" {
			out.Set(v.Value, "")
		}
	}
}

// Levels lists the taxonomic levels recorded for a hierarchical notation
// across the dataset, in first-seen order. Flat and scalar notations have no
// levels.
func Levels(ds *genome.Dataset, notation string) []string {
	if ds == nil {
		return nil
	}
	seen := make(map[string]bool)
	var levels []string
	for _, e := range ds.Entries {
		for _, pos := range e.Neighborhood.Positions() {
			a, ok := e.Neighborhood[pos].Annotation(notation)
			if !ok {
				continue
			}
			h, ok := a.(genome.Hierarchical)
			if !ok {
				continue
			}
			for _, k := range h.LevelKeys() {
				if k == genome.KeyScores || seen[k] {
					continue
				}
				seen[k] = true
				levels = append(levels, k)
			}
		}
	}
	return levels
}
