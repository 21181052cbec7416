package genome

import (
	"fmt"
	"strconv"
)

// Missing is the identifier the backend uses for an empty neighborhood slot.
const Missing = "NA"

// Gene is one genomic feature of a neighborhood.
type Gene struct {
	ID            string
	Unigene       string
	Strand        Strand
	Start, End    int64
	Size          float64
	HasSize       bool
	PreferredName string
	Code          string
	NContig       string

	annotations map[string]Annotation
	order       []string
}

// IsMissing reports whether the record stands for an absent gene.
func (g *Gene) IsMissing() bool {
	return g == nil || g.ID == Missing || g.Unigene == Missing
}

// Name returns the display name: preferred name, then code, then id.
func (g *Gene) Name() string {
	switch {
	case !IsSentinel(g.PreferredName):
		return g.PreferredName
	case !IsSentinel(g.Code):
		return g.Code
	default:
		return g.ID
	}
}

// StartText renders the start coordinate for position tracks.
func (g *Gene) StartText() string {
	return strconv.FormatInt(g.Start, 10)
}

// Annotation returns the annotation recorded under the given notation system.
func (g *Gene) Annotation(notation string) (Annotation, bool) {
	if g == nil {
		return nil, false
	}
	a, ok := g.annotations[notation]
	return a, ok
}

// Annotations lists the notation systems present on the gene, in source order.
func (g *Gene) Annotations() []string {
	return append([]string(nil), g.order...)
}

// SetAnnotation attaches or replaces an annotation.
func (g *Gene) SetAnnotation(notation string, a Annotation) {
	if g.annotations == nil {
		g.annotations = make(map[string]Annotation)
	}
	if _, ok := g.annotations[notation]; !ok {
		g.order = append(g.order, notation)
	}
	g.annotations[notation] = a
}

// clone returns a shallow copy; annotations are shared read-only.
func (g *Gene) clone() *Gene {
	c := *g
	return &c
}

// UnmarshalJSON decodes a gene record, normalizing strand and coordinates and
// classifying every unknown key as an annotation.
func (g *Gene) UnmarshalJSON(data []byte) error {
	members, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("gene: %w", err)
	}
	*g = Gene{}
	for _, m := range members {
		switch m.Key {
		case "gene":
			g.ID, _ = scalarString(m.Value)
		case "unigene":
			g.Unigene, _ = scalarString(m.Value)
		case "strand":
			if err := g.Strand.UnmarshalJSON(m.Value); err != nil {
				g.Strand = Forward
			}
		case "start":
			if f, ok := scalarFloat(m.Value); ok {
				g.Start = int64(f)
			}
		case "end":
			if f, ok := scalarFloat(m.Value); ok {
				g.End = int64(f)
			}
		case "size":
			if f, ok := scalarFloat(m.Value); ok && f != 0 {
				g.Size, g.HasSize = f, true
			}
		case "preferred_name":
			g.PreferredName, _ = scalarString(m.Value)
		case "code":
			g.Code, _ = scalarString(m.Value)
		case "n_contig":
			g.NContig, _ = scalarString(m.Value)
		default:
			if a, ok := parseAnnotation(m.Key, m.Value); ok {
				g.SetAnnotation(m.Key, a)
			}
		}
	}
	if g.ID == "" {
		g.ID = g.Unigene
	}
	return nil
}
