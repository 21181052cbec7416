package layout

import "math"

// Rect is the geometry unit of a gene glyph.
type Rect struct {
	W  float64 `json:"w"`  // glyph width
	H  float64 `json:"h"`  // row height
	PH float64 `json:"ph"` // horizontal padding reserved for the arrow head
	PV float64 `json:"pv"` // vertical padding
}

// Margin surrounds the drawing.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Point is a vertex of a path.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds tracks the horizontal extent reached by chained glyphs.
type Bounds struct {
	Inf float64 `json:"inf"`
	Sup float64 `json:"sup"`
}

const (
	rowHeight   = 20
	padH        = 20
	padV        = 5
	collapseGap = 2
	baseOffset  = 13
	initialInf  = 100000
	minWidth    = 1000
	treeReserve = 1200
	wideReserve = 500
	nameCharPx  = 13.5
	posCharPx   = 5
	posMarkerR  = 3
	bottomSpace = 65
)

// DefaultMargin is the margin of every drawing.
var DefaultMargin = Margin{Top: 5, Right: 5, Bottom: 10, Left: 10}

// DefaultViewport is the viewport width assumed when none is given.
const DefaultViewport = 1920

// ContextWidth derives the drawing width from the viewport width. A tree
// next to the rows takes more room.
func ContextWidth(viewport float64, tree bool) float64 {
	if tree {
		return math.Max(viewport-treeReserve, minWidth)
	}
	return math.Max(viewport-wideReserve, minWidth)
}

// NewRect returns the reference rectangle for a drawing of the given width
// showing upstream+downstream+1 genes per row.
func NewRect(width float64, up, down int, m Margin) Rect {
	return Rect{
		W:  (width - m.Right) / float64(up+down+1),
		H:  rowHeight,
		PH: padH,
		PV: padV,
	}
}

// arrowTip is how far the arrow head sticks out of the glyph body.
func (r Rect) arrowTip() float64 { return 2 * r.PH / 5 }

// DefaultOrdinate is the top of row index when no tree positions it.
func DefaultOrdinate(r Rect, nfield, row int) float64 {
	return baseOffset + r.PV + float64(row)*(r.H*float64(nfield)+r.PV-5)
}
