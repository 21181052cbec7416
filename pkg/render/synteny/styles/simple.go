package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

const hoverCSS = `
    .stroke, .row-frame { transition: opacity 0.3s; }
    g.glyph:hover .stroke { opacity: 1; }
    g.row:hover .row-frame { opacity: 1; }
    .notation { font-family: sans-serif; font-size: 11px; text-anchor: middle; pointer-events: none; }
    .position, .n-contig { font-family: sans-serif; font-size: 0.7em; }
    .scale { font-family: sans-serif; font-size: 0.9em; text-anchor: middle; }`

// Simple is the default interactive look.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", hoverCSS)
}

func (Simple) RenderRect(buf *bytes.Buffer, s layout.Shape) {
	fmt.Fprintf(buf, `  <rect id="%s" class="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		EscapeXML(s.ID), ClassList(s), num(s.X), num(s.Y), num(s.W), num(s.H), EscapeXML(s.Fill))
}

func (Simple) RenderPath(buf *bytes.Buffer, s layout.Shape) {
	fill := s.Fill
	if fill == "" {
		fill = "none"
	}
	opacity := ""
	if s.Hidden {
		opacity = ` opacity="0"`
	}
	stroke := ""
	if s.Stroke != "" {
		stroke = fmt.Sprintf(` stroke="%s" stroke-width="1.5"`, EscapeXML(s.Stroke))
	}
	fmt.Fprintf(buf, `  <path id="%s" class="%s" d="%s" fill="%s"%s%s/>`+"\n",
		EscapeXML(s.ID), ClassList(s), PathData(s.Points), EscapeXML(fill), stroke, opacity)
}

func (Simple) RenderCircle(buf *bytes.Buffer, s layout.Shape) {
	fmt.Fprintf(buf, `  <circle id="%s" class="%s" cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
		EscapeXML(s.ID), ClassList(s), num(s.X), num(s.Y), num(s.R), EscapeXML(s.Fill))
}

func (Simple) RenderText(buf *bytes.Buffer, s layout.Shape) {
	fmt.Fprintf(buf, `  <text class="%s" x="%s" y="%s" fill="%s">%s</text>`+"\n",
		EscapeXML(s.Class), num(s.X), num(s.Y), EscapeXML(s.Fill), EscapeXML(s.Text))
}

func (Simple) RenderLine(buf *bytes.Buffer, s layout.Shape) {
	fmt.Fprintf(buf, `  <line class="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		EscapeXML(s.Class), num(s.X), num(s.Y), num(s.X2), num(s.Y2), EscapeXML(s.Stroke))
}
