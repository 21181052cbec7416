package layout

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/geco/pkg/notation"
)

// Track representations.
const (
	RepCircle = "circle"
	RepText   = "text"
)

// Well-known track names.
const (
	FieldShowPos       = "showPos"
	FieldNContig       = "n"
	FieldTaxPrediction = "tax_prediction"
)

// DefaultCircleRadius is the radius of circle track markers.
const DefaultCircleRadius = 7

// Field is an extra per-gene track drawn below the gene row. Y is the
// 1-based vertical slot of the track.
type Field struct {
	Name   string  `json:"name" toml:"name"`
	Rep    string  `json:"rep" toml:"rep"`
	Y      int     `json:"y" toml:"y"`
	Level  string  `json:"level,omitempty" toml:"level"`
	Text   string  `json:"text,omitempty" toml:"text"`
	Radius float64 `json:"radius,omitempty" toml:"radius"`
	Title  string  `json:"title,omitempty" toml:"title"`
}

// Options are the display toggles of one draw.
type Options struct {
	ShowTree        bool    `json:"show_tree" toml:"show_tree"`
	ShowName        bool    `json:"show_name" toml:"show_name"`
	CollapseDist    bool    `json:"collapse_dist" toml:"collapse_dist"`
	ScaleDist       bool    `json:"scale_dist" toml:"scale_dist"`
	ScaleSize       bool    `json:"scale_size" toml:"scale_size"`
	CustomScale     float64 `json:"custom_scale,omitempty" toml:"custom_scale"`
	NContig         bool    `json:"n_contig" toml:"n_contig"`
	HighlightAnchor bool    `json:"highlight_anchor" toml:"highlight_anchor"`
}

// Normalize applies the option dependencies: proportional distances imply
// size scaling and a highlighted anchor.
func (o Options) Normalize() Options {
	if o.ScaleDist {
		o.ScaleSize = true
		o.HighlightAnchor = true
	}
	return o
}

// Chained reports whether glyphs are chained by genomic distance rather
// than placed on the fixed grid.
func (o Options) Chained() bool { return o.ScaleDist || o.CollapseDist }

// Params is the full parameter set of one draw.
type Params struct {
	Notation   string          `json:"notation" toml:"notation"`
	NSide      notation.Window `json:"nside" toml:"nside"`
	TaxLevel   string          `json:"taxlevel,omitempty" toml:"taxlevel"`
	TpredLevel string          `json:"tpred_level,omitempty" toml:"tpred_level"`
	Fields     []Field         `json:"fields,omitempty" toml:"fields"`
	Options    Options         `json:"options" toml:"options"`
}

// Normalize applies the option dependencies and adds the contig count track
// when Options.NContig asks for it and Fields lacks one. The track takes the
// slot after the position track; later slots move down by one.
func (p Params) Normalize() Params {
	p.Options = p.Options.Normalize()
	if !p.Options.NContig {
		return p
	}
	if _, ok := p.Field(FieldNContig); ok {
		return p
	}
	slot := 1
	if f, ok := p.Field(FieldShowPos); ok {
		slot = f.Y + 1
	}
	fields := make([]Field, 0, len(p.Fields)+1)
	for _, f := range p.Fields {
		if f.Y >= slot {
			f.Y++
		}
		fields = append(fields, f)
	}
	fields = append(fields, Field{Name: FieldNContig, Rep: RepText, Y: slot})
	slices.SortStableFunc(fields, func(a, b Field) int { return cmp.Compare(a.Y, b.Y) })
	p.Fields = fields
	return p
}

// Validate checks the parameters before a draw.
func (p Params) Validate() error {
	if p.Notation == "" {
		return fmt.Errorf("notation is required")
	}
	if p.NSide.Upstream < 0 || p.NSide.Downstream < 0 {
		return fmt.Errorf("nside must be non-negative, got %d/%d", p.NSide.Upstream, p.NSide.Downstream)
	}
	if p.Options.CustomScale < 0 {
		return fmt.Errorf("custom scale must be positive, got %v", p.Options.CustomScale)
	}
	seen := make(map[string]bool, len(p.Fields))
	for _, f := range p.Fields {
		if f.Name == "" {
			return fmt.Errorf("field without a name")
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		if f.Rep != RepCircle && f.Rep != RepText {
			return fmt.Errorf("field %q: representation must be %q or %q", f.Name, RepCircle, RepText)
		}
		if f.Y < 1 {
			return fmt.Errorf("field %q: slot must be >= 1", f.Name)
		}
	}
	return nil
}

// Field returns the track with the given name.
func (p Params) Field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// NField is the number of vertical slots a row takes: the gene track plus
// one per field.
func (p Params) NField() int { return len(p.Fields) + 1 }

// TrackSet selects the standard tracks.
type TrackSet struct {
	ShowPos    bool
	NContig    bool
	TaxPred    bool
	TpredLevel string
}

// Tracks returns the standard fields in slot order: genomic position, contig
// count, then the taxonomic prediction circles.
func Tracks(ts TrackSet) []Field {
	var fields []Field
	add := func(f Field) {
		f.Y = len(fields) + 1
		fields = append(fields, f)
	}
	if ts.ShowPos {
		add(Field{Name: FieldShowPos, Rep: RepText})
	}
	if ts.NContig {
		add(Field{Name: FieldNContig, Rep: RepText})
	}
	if ts.TaxPred {
		add(Field{
			Name:   FieldTaxPrediction,
			Rep:    RepCircle,
			Level:  ts.TpredLevel,
			Radius: DefaultCircleRadius,
			Title:  fmt.Sprintf("Taxonomic prediction (%s)", ts.TpredLevel),
		})
	}
	return fields
}
