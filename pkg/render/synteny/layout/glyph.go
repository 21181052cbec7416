package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/geco/pkg/genome"
)

// glyph places one gene. origin is the chained start position; nil places
// the glyph on the fixed grid.
func (e *engine) glyph(en *genome.Entry, pos int, g *genome.Gene, y float64, origin *float64) Glyph {
	r := e.rect
	tip := r.arrowTip()
	gw := r.W
	if e.p.Options.ScaleSize && g.HasSize {
		gw = e.scales.Size(g.Size)
	}

	var x0, xf float64
	if origin != nil {
		x0, xf = *origin, *origin
		switch {
		case pos < 0:
			x0 += -gw + r.PH
			xf = x0 - tip
			if !g.Strand.IsReverse() {
				x0 -= tip
			}
		case g.Strand.IsReverse():
			x0 += tip
			xf = x0 + gw - r.PH
		default:
			xf += gw - r.PH + tip
		}
	} else {
		x0 = float64(pos+e.p.NSide.Upstream)*r.W + math.Abs(r.W/2-gw/2)
		xf = gridEdge(x0, gw, r, g.Strand, pos)
	}

	gl := Glyph{
		ID:     fmt.Sprintf("idx%d", e.counter),
		Gene:   g.ID,
		Pos:    pos,
		Strand: g.Strand,
		X0:     x0,
		XF:     xf,
		Y:      y,
		W:      gw,
		H:      r.H - r.PV,
	}
	e.counter++
	e.minLeft = math.Min(e.minLeft, x0-tip)

	ids := e.b.getter(g, e.p.Notation, e.p.TaxLevel).IDs()
	if len(ids) == 0 || genome.IsSentinel(ids[0]) {
		gl.Fill = e.fn.NoDataColor()
		ids = []string{""}
	} else if g.Strand.IsReverse() {
		gl.Fill = e.fn.Color(ids[0])
	} else {
		gl.Fill = e.fn.Color(ids[len(ids)-1])
	}
	gl.IDs = ids

	bw := (gw - r.PH) / float64(len(ids))
	for i, id := range ids {
		gl.Bars = append(gl.Bars, Bar{
			ID:   id,
			X:    x0 + bw*float64(i),
			Y:    y,
			W:    bw,
			H:    r.H - r.PV,
			Fill: e.fn.Color(id),
		})
	}

	gl.Arrow, gl.Outline = arrowPaths(r, gw, x0, y, g.Strand)
	gl.Anchor = pos == 0 && e.p.Options.HighlightAnchor

	if e.p.Options.ShowName && !genome.IsSentinel(g.PreferredName) {
		gl.Label = &Text{
			X:     x0 + gw/2 - r.PH/2,
			Y:     y + r.H/1.7,
			Text:  truncate(g.PreferredName, int(math.Floor(gw/nameCharPx))),
			Class: "notation",
		}
	}

	for _, f := range e.p.Fields {
		switch {
		case f.Rep == RepCircle:
			c, ok := e.circle(f, g, x0, gw, y)
			if ok {
				gl.Circles = append(gl.Circles, c)
			}
		case f.Name == FieldShowPos && g.Start != 0:
			t, c := e.position(f, g, x0, gw, y)
			gl.Texts = append(gl.Texts, t)
			gl.Circles = append(gl.Circles, c)
		}
	}
	return gl
}

const markerColor = "#000000"

// gridEdge is the trailing edge of a grid-placed glyph: its right extent
// downstream, its left extent upstream, arrow tip included.
func gridEdge(x0, gw float64, r Rect, s genome.Strand, pos int) float64 {
	if pos < 0 {
		if s.IsReverse() {
			return x0 - r.arrowTip()
		}
		return x0
	}
	right := x0 + gw - r.PH
	if !s.IsReverse() {
		right += r.arrowTip()
	}
	return right
}

// arrowPaths returns the arrow head triangle and the glyph outline. The head
// points left for the reverse strand and right for the forward strand.
func arrowPaths(r Rect, gw, x0, y float64, s genome.Strand) (arrow, outline []Point) {
	tip := r.arrowTip()
	mid := y + (r.H-r.PV)/2
	bottom := y + r.H - r.PV
	body := x0 + gw - r.PH

	if s.IsReverse() {
		arrow = []Point{{x0 + 1, y - .8}, {x0 - tip, mid}, {x0 + 1, bottom + .8}}
		outline = []Point{{x0, y}, {x0 - tip, mid}, {x0, bottom}, {body, bottom}, {body, y}}
		return arrow, outline
	}
	arrow = []Point{{body - 1, y - .8}, {body + tip, mid}, {body - 1, bottom + .8}}
	outline = []Point{{body, y}, {body + tip, mid}, {body, bottom}, {x0, bottom}, {x0, y}}
	return arrow, outline
}

func (e *engine) circle(f Field, g *genome.Gene, x0, gw, y float64) (Circle, bool) {
	ids := e.b.getter(g, f.Name, f.Level).IDs()
	if len(ids) == 0 {
		return Circle{}, false
	}
	radius := f.Radius
	if radius <= 0 {
		radius = DefaultCircleRadius
	}
	id := ids[0]
	return Circle{
		Field: f.Name,
		ID:    "id" + id,
		CX:    x0 + gw/2 - e.rect.PH/2,
		CY:    y + e.rect.H*float64(f.Y) + radius,
		R:     radius,
		Fill:  e.fields[f.Name].Color(id),
	}, true
}

// position renders the start coordinate track: the coordinate and a marker
// on the 5' end of the gene.
func (e *engine) position(f Field, g *genome.Gene, x0, gw, y float64) (Text, Circle) {
	r := e.rect
	start := g.StartText()
	cx, tx := x0, x0
	if g.Strand.IsReverse() {
		cx += gw - r.PH
		tx = cx - posCharPx*float64(len(start))
	}
	slot := y + r.H*float64(f.Y+1)
	return Text{X: tx, Y: slot - r.H/6, Text: start, Class: "position"},
		Circle{Field: f.Name, CX: cx, CY: slot - r.H*3/4, R: posMarkerR, Fill: markerColor}
}

// contigText is the contig count printed next to the central gene.
func (e *engine) contigText(en *genome.Entry, g *genome.Gene, y float64) []Text {
	f, ok := e.p.Field(FieldNContig)
	if !ok {
		return nil
	}
	n := en.NContig
	if n == "" {
		n = g.NContig
	}
	if n == "" {
		n = " "
	}
	r := e.rect
	x := float64(e.p.NSide.Upstream)*r.W + r.W/2 - r.PH/1.4 - 2.5*float64(len(n)-1)
	return []Text{{
		X:     x,
		Y:     y + r.H/1.7 + r.H*float64(f.Y),
		Text:  n + f.Text,
		Class: "n-contig",
	}}
}

func truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
