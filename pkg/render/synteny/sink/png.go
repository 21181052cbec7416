package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithBackground sets the canvas color (default white).
func WithBackground(hex string) PNGOption {
	return func(r *pngRenderer) { r.background = hex }
}

// RenderPNG rasterizes the layout. Hover-only shapes are not drawn.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("png: invalid scale %v", r.scale)
	}
	w := int(math.Ceil(l.FrameWidth * r.scale))
	h := int(math.Ceil(l.FrameHeight * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("png: empty frame %.0fx%.0f", l.FrameWidth, l.FrameHeight)
	}

	dc := gg.NewContext(w, h)
	if err := setColor(dc, r.background); err != nil {
		return nil, err
	}
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	dc.SetFontFace(basicfont.Face7x13)

	for _, s := range l.Shapes() {
		if s.Hidden {
			continue
		}
		if err := drawShape(dc, s); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("png: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func drawShape(dc *gg.Context, s layout.Shape) error {
	switch s.Kind {
	case layout.KindRect:
		dc.DrawRectangle(s.X, s.Y, s.W, s.H)
		return fill(dc, s.Fill)
	case layout.KindPath:
		if len(s.Points) == 0 {
			return nil
		}
		dc.NewSubPath()
		dc.MoveTo(s.Points[0].X, s.Points[0].Y)
		for _, p := range s.Points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		if s.Fill != "" {
			if err := setColor(dc, s.Fill); err != nil {
				return err
			}
			dc.FillPreserve()
		}
		if s.Stroke != "" {
			if err := setColor(dc, s.Stroke); err != nil {
				return err
			}
			dc.SetLineWidth(1.5)
			dc.StrokePreserve()
		}
		dc.ClearPath()
	case layout.KindCircle:
		dc.DrawCircle(s.X, s.Y, s.R)
		return fill(dc, s.Fill)
	case layout.KindLine:
		if err := setColor(dc, s.Stroke); err != nil {
			return err
		}
		dc.SetLineWidth(1.5)
		dc.DrawLine(s.X, s.Y, s.X2, s.Y2)
		dc.Stroke()
	case layout.KindText:
		if err := setColor(dc, s.Fill); err != nil {
			return err
		}
		ax := 0.0
		if s.Class == layout.ClassName || s.Class == layout.ClassScale {
			ax = 0.5
		}
		dc.DrawStringAnchored(s.Text, s.X, s.Y, ax, 0)
	}
	return nil
}

func fill(dc *gg.Context, hex string) error {
	if err := setColor(dc, hex); err != nil {
		return err
	}
	dc.Fill()
	return nil
}

func setColor(dc *gg.Context, hex string) error {
	if hex == "" {
		hex = layout.DarkGray
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("png: color %q: %w", hex, err)
	}
	dc.SetRGB(c.R, c.G, c.B)
	return nil
}
