package sink

import (
	"encoding/json"

	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

type JSONOption func(*jsonOutput)

// WithJSONStyle records the style the draw-list was meant for.
func WithJSONStyle(s string) JSONOption { return func(o *jsonOutput) { o.Style = s } }

// WithJSONSeed records the palette seed so a draw can be reproduced.
func WithJSONSeed(seed uint64) JSONOption { return func(o *jsonOutput) { o.Seed = seed } }

// WithoutHidden drops hover-only shapes from the export.
func WithoutHidden() JSONOption { return func(o *jsonOutput) { o.dropHidden = true } }

type jsonOutput struct {
	Width        float64         `json:"width"`
	Height       float64         `json:"height"`
	Style        string          `json:"style,omitempty"`
	Seed         uint64          `json:"seed,omitempty"`
	Params       layout.Params   `json:"params"`
	Shapes       []layout.Shape  `json:"shapes"`
	Rows         []jsonRow       `json:"rows"`
	Legend       layout.Legend   `json:"legend"`
	FieldLegends []layout.Legend `json:"field_legends,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`

	dropHidden bool
}

type jsonRow struct {
	ID       string  `json:"id"`
	Index    int     `json:"index"`
	Ordinate float64 `json:"ordinate"`
	Swapped  bool    `json:"swapped,omitempty"`
	Glyphs   int     `json:"glyphs"`
	Error    string  `json:"error,omitempty"`
}

// RenderJSON exports the draw-list with legends and per-row summaries.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	out := jsonOutput{
		Width:        l.FrameWidth,
		Height:       l.FrameHeight,
		Params:       l.Params,
		Legend:       l.Legend,
		FieldLegends: l.FieldLegends,
		Warnings:     l.Warnings,
	}
	for _, opt := range opts {
		opt(&out)
	}

	shapes := l.Shapes()
	out.Shapes = make([]layout.Shape, 0, len(shapes))
	for _, s := range shapes {
		if s.Hidden && out.dropHidden {
			continue
		}
		out.Shapes = append(out.Shapes, s)
	}

	out.Rows = make([]jsonRow, len(l.Rows))
	for i, r := range l.Rows {
		out.Rows[i] = jsonRow{
			ID:       r.ID,
			Index:    r.Index,
			Ordinate: r.Ordinate,
			Swapped:  r.Swapped,
			Glyphs:   len(r.Glyphs),
			Error:    r.Err,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
