package layout

// Shape kinds of the draw-list.
const (
	KindRect   = "rect"
	KindPath   = "path"
	KindCircle = "circle"
	KindText   = "text"
	KindLine   = "line"
)

// Shape classes. Hidden shapes are hover affordances a static sink may skip.
const (
	ClassRowFrame     = "row-frame"
	ClassBar          = "bar"
	ClassArrow        = "arrow"
	ClassStroke       = "stroke"
	ClassAnchorStroke = "anchor-stroke"
	ClassAnchorBox    = "anchor-box"
	ClassName         = "notation"
	ClassTrack        = "track"
	ClassScale        = "scale"
)

// Palette of the non-category elements.
const (
	HighlightColor = "#ff8c00"
	DarkGray       = "#5d5d5d"
	Sand           = "#f9f4e8"
)

// Shape is one drawing primitive in frame coordinates.
type Shape struct {
	Kind   string  `json:"kind"`
	Class  string  `json:"class,omitempty"`
	ID     string  `json:"id,omitempty"`
	Gene   string  `json:"gene,omitempty"`
	Row    string  `json:"row,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	R      float64 `json:"r,omitempty"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
	Points []Point `json:"points,omitempty"`
	Fill   string  `json:"fill,omitempty"`
	Stroke string  `json:"stroke,omitempty"`
	Text   string  `json:"text,omitempty"`
	Hidden bool    `json:"hidden,omitempty"`
}

// Shapes flattens the layout into an ordered draw-list. Rows come first in
// dataset order, each glyph as bars, arrow head, outline and tracks; the
// anchor box and the scale bar close the list.
func (l Layout) Shapes() []Shape {
	dx, dy := l.Translate.X, l.Translate.Y
	move := func(pts []Point) []Point {
		out := make([]Point, len(pts))
		for i, p := range pts {
			out[i] = Point{p.X + dx, p.Y + dy}
		}
		return out
	}
	text := func(t Text, row, gene string) Shape {
		return Shape{Kind: KindText, Class: t.Class, Row: row, Gene: gene, X: t.X + dx, Y: t.Y + dy, Text: t.Text, Fill: DarkGray}
	}

	var out []Shape
	for _, r := range l.Rows {
		if len(r.Frame) > 0 {
			out = append(out, Shape{Kind: KindPath, Class: ClassRowFrame, Row: r.ID, Points: move(r.Frame), Stroke: HighlightColor, Hidden: true})
		}
		for _, g := range r.Glyphs {
			for _, b := range g.Bars {
				out = append(out, Shape{
					Kind: KindRect, Class: ClassBar, ID: g.ID, Gene: g.Gene, Row: r.ID,
					X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H, Fill: b.Fill, Text: b.ID,
				})
			}
			out = append(out,
				Shape{Kind: KindPath, Class: ClassArrow, ID: g.ID, Gene: g.Gene, Row: r.ID, Points: move(g.Arrow), Fill: g.Fill},
				Shape{Kind: KindPath, Class: ClassStroke, ID: g.ID, Gene: g.Gene, Row: r.ID, Points: move(g.Outline), Stroke: DarkGray, Hidden: true},
			)
			if g.Anchor {
				out = append(out, Shape{Kind: KindPath, Class: ClassAnchorStroke, ID: g.ID, Gene: g.Gene, Row: r.ID, Points: move(g.Outline), Stroke: DarkGray})
			}
			if g.Label != nil {
				s := text(*g.Label, r.ID, g.Gene)
				s.ID, s.Fill = g.ID, Sand
				out = append(out, s)
			}
			for _, c := range g.Circles {
				out = append(out, Shape{Kind: KindCircle, Class: ClassTrack, ID: c.ID, Gene: g.Gene, Row: r.ID, X: c.CX + dx, Y: c.CY + dy, R: c.R, Fill: c.Fill, Text: c.Field})
			}
			for _, t := range g.Texts {
				out = append(out, text(t, r.ID, g.Gene))
			}
		}
		for _, t := range r.Texts {
			out = append(out, text(t, r.ID, ""))
		}
	}

	if len(l.AnchorBox) > 0 {
		out = append(out, Shape{Kind: KindPath, Class: ClassAnchorBox, Points: move(l.AnchorBox), Stroke: DarkGray})
	}
	if sb := l.ScaleBar; sb != nil {
		out = append(out,
			Shape{Kind: KindLine, Class: ClassScale, X: sb.X1, Y: sb.Y, X2: sb.X2, Y2: sb.Y, Stroke: DarkGray},
			Shape{Kind: KindLine, Class: ClassScale, X: sb.X1, Y: sb.Y + 5, X2: sb.X1, Y2: sb.Y - 5, Stroke: DarkGray},
			Shape{Kind: KindLine, Class: ClassScale, X: sb.X2, Y: sb.Y + 5, X2: sb.X2, Y2: sb.Y - 5, Stroke: DarkGray},
			Shape{Kind: KindText, Class: ClassScale, X: sb.X1 + (sb.X2-sb.X1)/2, Y: sb.Y - 7, Text: sb.Label, Fill: DarkGray},
		)
	}
	return out
}
