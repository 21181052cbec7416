package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/geco/pkg/render/synteny/layout"
	"github.com/matzehuels/geco/pkg/render/synteny/styles"
)

const legendInteractionCSS = `
    .highlight { stroke: #ff8c00; stroke-width: 2; }
    .legend-entry { cursor: pointer; font-family: sans-serif; font-size: 12px; }`

const legendInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.id' + id).forEach(el => el.classList.add('highlight'));
    }
    function clearHighlight() {
      document.querySelectorAll('.highlight').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.legend-entry').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.id));
      el.addEventListener('mouseleave', clearHighlight);
    });`

const (
	legendGap     = 20
	legendRow     = 18
	legendSwatch  = 12
	legendCharPx  = 7
	legendMaxText = 48
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  styles.Style
	legend bool
	hover  bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithLegend() SVGOption              { return func(r *svgRenderer) { r.legend = true } }
func WithHover() SVGOption               { return func(r *svgRenderer) { r.hover = true } }

// RenderSVG writes the layout as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	legends := legendsOf(l)
	width, height := l.FrameWidth, l.FrameHeight
	if r.legend && len(legends) > 0 {
		lw, lh := legendSize(legends)
		width += legendGap + lw
		height = max(height, lh)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	r.style.RenderDefs(&buf)
	renderShapes(&buf, r.style, l.Shapes(), r.hover)

	if r.legend && len(legends) > 0 {
		renderLegends(&buf, legends, l.FrameWidth+legendGap)
	}
	if r.hover {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", legendInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", legendInteractionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderShapes groups the draw-list by row and by gene so hover rules can
// target a whole glyph.
func renderShapes(buf *bytes.Buffer, st styles.Style, shapes []layout.Shape, hover bool) {
	var row, gene string
	inRow, inGlyph := false, false
	closeGlyph := func() {
		if inGlyph {
			buf.WriteString("  </g>\n")
			inGlyph = false
		}
	}
	closeRow := func() {
		closeGlyph()
		if inRow {
			buf.WriteString("  </g>\n")
			inRow = false
		}
	}

	for _, s := range shapes {
		if s.Hidden && !hover {
			continue
		}
		if s.Row != row {
			closeRow()
			row, gene = s.Row, ""
			if row != "" {
				fmt.Fprintf(buf, "  <g class=\"row\" data-row=\"%s\">\n", styles.EscapeXML(row))
				inRow = true
			}
		}
		if s.Gene != gene {
			closeGlyph()
			gene = s.Gene
			if gene != "" {
				fmt.Fprintf(buf, "  <g class=\"glyph\" data-gene=\"%s\">\n", styles.EscapeXML(gene))
				inGlyph = true
			}
		}
		styles.Render(st, buf, s)
	}
	closeRow()
}

func legendsOf(l layout.Layout) []layout.Legend {
	var out []layout.Legend
	if len(l.Legend.Entries) > 0 {
		out = append(out, l.Legend)
	}
	for _, fl := range l.FieldLegends {
		if len(fl.Entries) > 0 {
			out = append(out, fl)
		}
	}
	return out
}

func legendLabel(e layout.LegendEntry) string {
	s := e.ID
	if e.Description != "" {
		s += "  " + e.Description
	}
	if r := []rune(s); len(r) > legendMaxText {
		s = string(r[:legendMaxText-3]) + "..."
	}
	return s
}

func legendSize(legends []layout.Legend) (w, h float64) {
	h = legendGap
	for _, lg := range legends {
		w = max(w, float64(len([]rune(lg.Title)))*legendCharPx)
		for _, e := range lg.Entries {
			w = max(w, legendSwatch+6+float64(len([]rune(legendLabel(e))))*legendCharPx)
		}
		h += legendRow * float64(len(lg.Entries)+2)
	}
	return w + legendGap, h
}

func renderLegends(buf *bytes.Buffer, legends []layout.Legend, x float64) {
	y := float64(legendGap)
	for _, lg := range legends {
		fmt.Fprintf(buf, "  <g class=\"legend\" data-field=\"%s\">\n", styles.EscapeXML(lg.Field))
		fmt.Fprintf(buf, "    <text class=\"legend-title\" x=\"%.2f\" y=\"%.2f\" font-family=\"sans-serif\" font-weight=\"bold\" font-size=\"13px\">%s</text>\n",
			x, y, styles.EscapeXML(lg.Title))
		y += legendRow
		for _, e := range lg.Entries {
			id := styles.EscapeXML(strings.ReplaceAll(e.ID, "@", ""))
			fmt.Fprintf(buf, "    <g class=\"legend-entry\" data-id=\"%s\">\n", id)
			fmt.Fprintf(buf, "      <rect x=\"%.2f\" y=\"%.2f\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n",
				x, y-legendSwatch+2, legendSwatch, legendSwatch, styles.EscapeXML(e.Color))
			fmt.Fprintf(buf, "      <text x=\"%.2f\" y=\"%.2f\">%s</text>\n",
				x+legendSwatch+6, y, styles.EscapeXML(legendLabel(e)))
			buf.WriteString("    </g>\n")
			y += legendRow
		}
		buf.WriteString("  </g>\n")
		y += legendRow
	}
}
