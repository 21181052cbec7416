package layout

import "github.com/matzehuels/geco/pkg/genome"

// Layout is the result of one draw. Coordinates of rows and glyphs are in
// content space; Translate maps content space onto the frame.
type Layout struct {
	FrameWidth  float64 `json:"width"`
	FrameHeight float64 `json:"height"`
	Translate   Point   `json:"translate"`
	Margin      Margin  `json:"margin"`
	Rect        Rect    `json:"rect"`
	NField      int     `json:"nfield"`
	Params      Params  `json:"params"`

	Rows      []Row     `json:"rows"`
	AnchorBox []Point   `json:"anchor_box,omitempty"`
	ScaleBar  *ScaleBar `json:"scale_bar,omitempty"`

	Legend       Legend   `json:"legend"`
	FieldLegends []Legend `json:"field_legends,omitempty"`

	Bounds          Bounds   `json:"bounds"`
	LargestOrdinate float64  `json:"largest_ordinate"`
	Warnings        []string `json:"warnings,omitempty"`
}

// Row is the synteny row of one central gene.
type Row struct {
	ID       string  `json:"id"`
	Index    int     `json:"index"`
	Ordinate float64 `json:"ordinate"`
	Swapped  bool    `json:"swapped,omitempty"`
	Frame    []Point `json:"frame,omitempty"`
	Glyphs   []Glyph `json:"glyphs,omitempty"`
	Texts    []Text  `json:"texts,omitempty"`
	Err      string  `json:"error,omitempty"`
}

// Glyph is the arrow of one gene.
type Glyph struct {
	ID     string        `json:"id"`
	Gene   string        `json:"gene"`
	Pos    int           `json:"pos"`
	Strand genome.Strand `json:"strand"`

	X0  float64 `json:"x0"`  // left edge of the glyph body
	XF  float64 `json:"xf"`  // trailing edge handed to the next glyph
	Gap float64 `json:"gap"` // distance to the previous trailing edge
	Y   float64 `json:"y"`
	W   float64 `json:"w"` // glyph width, arrow padding included
	H   float64 `json:"h"`

	Fill    string   `json:"fill"`
	IDs     []string `json:"ids"`
	Bars    []Bar    `json:"bars"`
	Arrow   []Point  `json:"arrow"`
	Outline []Point  `json:"outline"`
	Anchor  bool     `json:"anchor,omitempty"`
	Label   *Text    `json:"label,omitempty"`
	Circles []Circle `json:"circles,omitempty"`
	Texts   []Text   `json:"texts,omitempty"`
}

// Bar is one colored slice of a glyph body.
type Bar struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	Fill string  `json:"fill"`
}

// Circle is a marker on a circle track.
type Circle struct {
	Field string  `json:"field,omitempty"`
	ID    string  `json:"id,omitempty"`
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
	R     float64 `json:"r"`
	Fill  string  `json:"fill"`
}

// Text is a label.
type Text struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Text  string  `json:"text"`
	Class string  `json:"class,omitempty"`
}

// ScaleBar is the base-pair ruler drawn under proportional layouts.
type ScaleBar struct {
	X1    float64 `json:"x1"`
	X2    float64 `json:"x2"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Legend lists the categories of a notation with their colors.
type Legend struct {
	Title   string        `json:"title"`
	Field   string        `json:"field,omitempty"`
	Entries []LegendEntry `json:"entries"`
}

// LegendEntry is one category of a legend.
type LegendEntry struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

// GlyphCount returns the number of glyphs over all rows.
func (l Layout) GlyphCount() int {
	n := 0
	for _, r := range l.Rows {
		n += len(r.Glyphs)
	}
	return n
}

// Row returns the row of a central gene.
func (l Layout) Row(id string) (Row, bool) {
	for _, r := range l.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Glyph returns the glyph at a relative position of the row.
func (r Row) Glyph(pos int) (Glyph, bool) {
	for _, g := range r.Glyphs {
		if g.Pos == pos {
			return g, true
		}
	}
	return Glyph{}, false
}
