package notation

import (
	"github.com/matzehuels/geco/pkg/genome"
)

// AnyLevel selects every taxonomic level of a hierarchical notation.
const AnyLevel = ""

// Identifiers returns the ordered categories of gene for a notation system.
//
//   - Hierarchical: with taxlevel == [AnyLevel] every level is flattened,
//     keyed by descriptor id; otherwise the categories recorded at taxlevel.
//   - Flat: every category, reserved keys excluded.
//   - Scalar: a single category with an empty description.
//
// A nil gene or an absent notation yields an empty mapping.
func Identifiers(gene *genome.Gene, notation, taxlevel string) *Categories {
	out := NewCategories()
	a, ok := gene.Annotation(notation)
	if !ok {
		return out
	}

	switch v := a.(type) {
	case genome.Hierarchical:
		if taxlevel == AnyLevel {
			for _, l := range v.Levels {
				for _, e := range l.Flat.Entries {
					out.Set(e.Notation.ID, e.Notation.Description)
				}
			}
			return out
		}
		if flat, ok := v.Level(taxlevel); ok {
			for _, e := range flat.Entries {
				out.Set(e.Key, e.Notation.Description)
			}
		}
	case genome.Flat:
		for _, e := range v.Entries {
			out.Set(e.Key, e.Notation.Description)
		}
	case genome.Scalar:
		out.Set(v.Value, "")
	}
	return out
}

// Getter extracts categories from a gene; [Identifiers] is the default.
type Getter func(gene *genome.Gene, notation, taxlevel string) *Categories
