package styles

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// PathData encodes a closed polygon as SVG path data.
func PathData(pts []layout.Point) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(p.X))
		b.WriteByte(' ')
		b.WriteString(num(p.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

// ClassList joins the shape class with the category classes used by legend
// highlighting, e.g. "stroke idK00001 ordG1".
func ClassList(s layout.Shape) string {
	parts := []string{s.Class}
	if s.Text != "" && (s.Kind == layout.KindRect || s.Kind == layout.KindCircle) {
		parts = append(parts, "id"+strings.ReplaceAll(s.Text, "@", ""))
	}
	if s.Row != "" {
		parts = append(parts, "ord"+s.Row)
	}
	return EscapeXML(strings.Join(parts, " "))
}
