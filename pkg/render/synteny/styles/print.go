package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

const printCSS = `
    text { font-family: Helvetica, Arial, sans-serif; }
    .notation { font-size: 11px; text-anchor: middle; }
    .position, .n-contig { font-size: 8px; }
    .scale { font-size: 10px; text-anchor: middle; }`

// Print is a static look for figures: hover shapes are dropped and every
// glyph gets a thin dark outline.
type Print struct{}

func (Print) Name() string { return "print" }

func (Print) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", printCSS)
}

func (Print) RenderRect(buf *bytes.Buffer, s layout.Shape) {
	Simple{}.RenderRect(buf, s)
}

func (Print) RenderPath(buf *bytes.Buffer, s layout.Shape) {
	if s.Hidden {
		return
	}
	if s.Class == layout.ClassArrow {
		s.Stroke = s.Fill
	}
	Simple{}.RenderPath(buf, s)
}

func (Print) RenderCircle(buf *bytes.Buffer, s layout.Shape) {
	fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s" fill="%s" stroke="#333" stroke-width="0.5"/>`+"\n",
		num(s.X), num(s.Y), num(s.R), EscapeXML(s.Fill))
}

func (Print) RenderText(buf *bytes.Buffer, s layout.Shape) {
	if s.Class == layout.ClassName {
		s.Fill = "#333"
	}
	Simple{}.RenderText(buf, s)
}

func (Print) RenderLine(buf *bytes.Buffer, s layout.Shape) {
	Simple{}.RenderLine(buf, s)
}
