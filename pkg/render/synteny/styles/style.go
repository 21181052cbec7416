// Package styles writes draw-list shapes as SVG elements.
//
// A [Style] decides how each kind of [layout.Shape] looks. [Simple]
// reproduces the interactive look, with hover outlines kept in the document
// and revealed by CSS; [Print] drops the hover affordances and uses flat
// strokes suited to static figures.
package styles

import (
	"bytes"

	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

// Style defines the visual appearance of a synteny drawing.
type Style interface {
	// Name identifies the style in configuration and cache keys.
	Name() string
	// RenderDefs writes <defs> and <style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderRect writes a glyph bar.
	RenderRect(buf *bytes.Buffer, s layout.Shape)
	// RenderPath writes arrows, outlines, row frames and the anchor box.
	RenderPath(buf *bytes.Buffer, s layout.Shape)
	// RenderCircle writes a track marker.
	RenderCircle(buf *bytes.Buffer, s layout.Shape)
	// RenderText writes a label.
	RenderText(buf *bytes.Buffer, s layout.Shape)
	// RenderLine writes a scale bar segment.
	RenderLine(buf *bytes.Buffer, s layout.Shape)
}

// Render dispatches s to the method of st matching its kind.
func Render(st Style, buf *bytes.Buffer, s layout.Shape) {
	switch s.Kind {
	case layout.KindRect:
		st.RenderRect(buf, s)
	case layout.KindPath:
		st.RenderPath(buf, s)
	case layout.KindCircle:
		st.RenderCircle(buf, s)
	case layout.KindText:
		st.RenderText(buf, s)
	case layout.KindLine:
		st.RenderLine(buf, s)
	}
}

// ByName returns the style registered under name.
func ByName(name string) (Style, bool) {
	switch name {
	case "", "simple":
		return Simple{}, true
	case "print":
		return Print{}, true
	}
	return nil, false
}

// Names lists the available styles.
func Names() []string { return []string{"simple", "print"} }
