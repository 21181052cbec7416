package layout

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geco/pkg/genome"
	"github.com/matzehuels/geco/pkg/notation"
	"github.com/matzehuels/geco/pkg/palette"
	"github.com/matzehuels/geco/pkg/scale"
)

// Resolver returns the top of the row of a central gene. A false return
// falls back to linear stacking by row index.
type Resolver func(geneID string, row int) (float64, bool)

// Option configures [Build].
type Option func(*builder)

type builder struct {
	width     float64
	viewport  float64
	pool      []string
	seed      *uint64
	fnPalette *palette.Palette
	fieldPals map[string]*palette.Palette
	ordinate  Resolver
	scales    *scale.Scales
	getter    notation.Getter
	logger    *log.Logger
}

// WithWidth fixes the drawing width instead of deriving it from the viewport.
func WithWidth(w float64) Option { return func(b *builder) { b.width = w } }

// WithViewport sets the viewport width the drawing width is derived from.
func WithViewport(w float64) Option { return func(b *builder) { b.viewport = w } }

// WithPool sets the color pool palettes are drawn from.
func WithPool(colors []string) Option { return func(b *builder) { b.pool = colors } }

// WithSeed makes every palette shuffle of the draw reproducible.
func WithSeed(seed uint64) Option { return func(b *builder) { b.seed = &seed } }

// WithPalette uses p for the main notation instead of building one.
func WithPalette(p *palette.Palette) Option { return func(b *builder) { b.fnPalette = p } }

// WithFieldPalette uses p for the circle track of the named field.
func WithFieldPalette(field string, p *palette.Palette) Option {
	return func(b *builder) {
		if b.fieldPals == nil {
			b.fieldPals = make(map[string]*palette.Palette)
		}
		b.fieldPals[field] = p
	}
}

// WithOrdinate aligns rows with externally placed positions, e.g. tree leaves.
func WithOrdinate(r Resolver) Option { return func(b *builder) { b.ordinate = r } }

// WithScales uses precomputed size and distance scales.
func WithScales(s scale.Scales) Option { return func(b *builder) { b.scales = &s } }

// WithIdentifierGetter replaces [notation.Identifiers] for glyph coloring.
func WithIdentifierGetter(g notation.Getter) Option { return func(b *builder) { b.getter = g } }

// WithLogger reports warnings and skipped rows to l.
func WithLogger(l *log.Logger) Option { return func(b *builder) { b.logger = l } }

// ErrNoRows is returned when the dataset has no central gene.
var ErrNoRows = errors.New("layout: dataset has no central genes")

// Build lays out every central gene of ds as one synteny row.
//
// The dataset is not modified: each neighborhood is normalized into a copy
// before anything reads strands or positions. Palettes and scales are built
// once for the draw unless supplied through options. A row that cannot be
// laid out is recorded with its error and the next row proceeds.
func Build(ds *genome.Dataset, p Params, opts ...Option) (Layout, error) {
	if ds.Len() == 0 {
		return Layout{}, ErrNoRows
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return Layout{}, fmt.Errorf("layout: %w", err)
	}
	b := builder{viewport: DefaultViewport, pool: palette.DefaultPool, getter: notation.Identifiers}
	for _, opt := range opts {
		opt(&b)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	if b.getter == nil {
		b.getter = notation.Identifiers
	}

	e := newEngine(normalized(ds), p, &b)
	e.run()
	return e.out, nil
}

// normalized returns a view of ds whose neighborhoods all read with the
// central gene on the forward strand.
func normalized(ds *genome.Dataset) *genome.Dataset {
	view := &genome.Dataset{Entries: make([]*genome.Entry, 0, len(ds.Entries))}
	for _, e := range ds.Entries {
		c := *e
		c.Neighborhood, c.Swapped = e.Neighborhood.Normalize()
		c.Swapped = c.Swapped || e.Swapped
		view.Entries = append(view.Entries, &c)
	}
	return view
}

type engine struct {
	ds     *genome.Dataset
	p      Params
	b      *builder
	out    Layout
	rect   Rect
	width  float64
	nfield int

	fn     *palette.Palette
	fields map[string]*palette.Palette
	scales scale.Scales

	counter int
	minLeft float64
}

// cursor is the running position of a row pass.
type cursor struct {
	xf         float64
	start, end float64
}

func newEngine(ds *genome.Dataset, p Params, b *builder) *engine {
	e := &engine{ds: ds, p: p, b: b, nfield: p.NField(), minLeft: math.Inf(1)}

	tree := p.Options.ShowTree
	if tree && b.ordinate == nil {
		e.warn("tree requested without leaf positions; drawing without tree")
		tree = false
		e.p.Options.ShowTree = false
	}
	e.width = b.width
	if e.width <= 0 {
		e.width = ContextWidth(b.viewport, tree)
	}
	e.rect = NewRect(e.width, p.NSide.Upstream, p.NSide.Downstream, DefaultMargin)

	e.out = Layout{
		Margin: DefaultMargin,
		Rect:   e.rect,
		NField: e.nfield,
		Params: e.p,
		Bounds: Bounds{Inf: initialInf, Sup: 0},
	}
	return e
}

func (e *engine) warn(msg string, kv ...any) {
	e.b.logger.Warn(msg, kv...)
	e.out.Warnings = append(e.out.Warnings, msg)
}

func (e *engine) paletteOptions() []palette.Option {
	if e.b.seed == nil {
		return nil
	}
	return []palette.Option{palette.WithSeed(*e.b.seed)}
}

func (e *engine) buildPalettes() {
	unique := notation.Collect(e.ds, e.p.Notation, e.p.TaxLevel, e.p.NSide)
	e.fn = e.b.fnPalette
	if e.fn == nil {
		e.fn = palette.Build(unique.IDs(), e.b.pool, e.paletteOptions()...)
	}
	if e.fn.Exhausted() {
		e.b.logger.Debug("palette cycles", "categories", len(e.fn.Domain()), "colors", len(e.fn.Range()))
	}
	e.out.Legend = legendOf(e.p.Notation, "", unique, e.fn)

	e.fields = make(map[string]*palette.Palette)
	for _, f := range e.p.Fields {
		if f.Rep != RepCircle {
			continue
		}
		fu := notation.Collect(e.ds, f.Name, f.Level, e.p.NSide)
		fp := e.b.fieldPals[f.Name]
		if fp == nil {
			fp = palette.Build(fu.IDs(), e.b.pool, e.paletteOptions()...)
		}
		e.fields[f.Name] = fp
		title := f.Title
		if title == "" {
			title = f.Name
		}
		e.out.FieldLegends = append(e.out.FieldLegends, legendOf(title, f.Name, fu, fp))
	}
}

func legendOf(title, field string, c *notation.Categories, p *palette.Palette) Legend {
	l := Legend{Title: title, Field: field, Entries: make([]LegendEntry, 0, c.Len())}
	for _, id := range c.IDs() {
		desc, _ := c.Get(id)
		l.Entries = append(l.Entries, LegendEntry{ID: id, Description: desc, Color: p.Color(id)})
	}
	return l
}

// windowSizes returns the sizes of the genes visible in the draw.
func (e *engine) windowSizes() []float64 {
	var sizes []float64
	for _, en := range e.ds.Entries {
		for _, pos := range en.Neighborhood.Window(e.p.NSide.Upstream, e.p.NSide.Downstream) {
			g := en.Neighborhood[pos]
			if g.IsMissing() || !g.HasSize {
				continue
			}
			sizes = append(sizes, g.Size)
		}
	}
	return sizes
}

func (e *engine) buildScales() {
	if e.b.scales != nil {
		e.scales = *e.b.scales
		return
	}
	s, err := scale.Build(e.windowSizes(),
		scale.Geometry{W: e.rect.W, PH: e.rect.PH},
		scale.Config{ScaleDist: e.p.Options.ScaleDist, CustomScale: e.p.Options.CustomScale})
	switch {
	case err != nil && (e.p.Options.ScaleSize || e.p.Options.ScaleDist):
		e.warn("something went wrong while scaling", "err", err)
	case err != nil:
		e.b.logger.Debug("scales unavailable", "err", err)
	}
	e.scales = s
}

func (e *engine) run() {
	e.buildPalettes()
	e.buildScales()

	for i, en := range e.ds.Entries {
		row := e.layoutRow(i, en)
		if row.Err != "" {
			e.b.logger.Warn("row skipped", "gene", en.ID, "err", row.Err)
		}
		e.out.Rows = append(e.out.Rows, row)
	}
	e.finish()
}

func (e *engine) ordinate(id string, row int) float64 {
	if e.b.ordinate != nil {
		if y, ok := e.b.ordinate(id, row); ok {
			return y
		}
	}
	return DefaultOrdinate(e.rect, e.nfield, row)
}

func (e *engine) layoutRow(index int, en *genome.Entry) (row Row) {
	y := e.ordinate(en.ID, index)
	e.out.LargestOrdinate = math.Max(e.out.LargestOrdinate, y)
	row = Row{ID: en.ID, Index: index, Ordinate: y, Swapped: en.Swapped}

	defer func() {
		if r := recover(); r != nil {
			row.Err = fmt.Sprint(r)
		}
	}()

	anchor, ok := en.Neighborhood.Anchor()
	if !ok {
		row.Err = "no central gene at position 0"
		return row
	}
	row.Frame = e.rowFrame(y)

	initial := cursor{
		xf:    (e.width-DefaultMargin.Right)/2 - e.rect.W/2,
		start: float64(anchor.Start),
		end:   float64(anchor.End),
	}
	chained := e.p.Options.Chained()

	last := initial
	for pos := 0; pos <= e.p.NSide.Downstream; pos++ {
		g := en.Neighborhood[pos]
		if g.IsMissing() {
			continue
		}
		var origin *float64
		gap := 0.0
		if chained {
			if pos != 0 {
				gap = e.downstreamGap(g, last)
			}
			x := last.xf + gap
			origin = &x
		}
		gl := e.glyph(en, pos, g, y, origin)
		gl.Gap = gap
		if pos == 0 {
			row.Texts = append(row.Texts, e.contigText(en, g, y)...)
		}
		row.Glyphs = append(row.Glyphs, gl)
		last = cursor{xf: gl.XF, start: float64(g.Start), end: float64(g.End)}
		e.out.Bounds.Sup = math.Max(e.out.Bounds.Sup, gl.XF)
	}

	last = initial
	for pos := -1; pos >= -e.p.NSide.Upstream; pos-- {
		g := en.Neighborhood[pos]
		if g.IsMissing() {
			continue
		}
		var origin *float64
		gap := 0.0
		if chained {
			gap = e.upstreamGap(g, last)
			x := last.xf - gap
			origin = &x
		}
		gl := e.glyph(en, pos, g, y, origin)
		gl.Gap = gap
		row.Glyphs = append(row.Glyphs, gl)
		last = cursor{xf: gl.XF, start: float64(g.Start), end: float64(g.End)}
		e.out.Bounds.Inf = math.Min(e.out.Bounds.Inf, gl.XF)
	}
	return row
}

func (e *engine) downstreamGap(g *genome.Gene, last cursor) float64 {
	if !e.p.Options.ScaleDist {
		return collapseGap
	}
	start, end := float64(g.Start), float64(g.End)
	if start < last.start {
		return e.scales.Dist(last.start - end)
	}
	return e.scales.Dist(start - last.end)
}

func (e *engine) upstreamGap(g *genome.Gene, last cursor) float64 {
	if !e.p.Options.ScaleDist {
		return collapseGap
	}
	start, end := float64(g.Start), float64(g.End)
	if start > last.start {
		return e.scales.Dist(start - last.end)
	}
	return e.scales.Dist(last.start - end)
}

// rowFrame is the outline highlighting a whole row.
func (e *engine) rowFrame(y float64) []Point {
	left := -e.rect.PH / 2
	right := e.width - DefaultMargin.Right - e.rect.PH/2
	top := y - e.rect.PV/2 + 1
	bottom := y + e.rect.H*float64(e.nfield) - e.rect.PV/2 - 1
	return []Point{{left, top}, {right, top}, {right, bottom}, {left, bottom}}
}

func (e *engine) finish() {
	l := &e.out
	r := e.rect
	o := e.p.Options
	nf := float64(e.nfield)
	bottom := l.LargestOrdinate + r.H*nf

	if !((o.CollapseDist && o.ScaleSize) || o.ScaleDist) {
		left := float64(e.p.NSide.Upstream)*r.W - r.PH/3
		right := float64(e.p.NSide.Upstream+1)*r.W - r.PH/2
		l.AnchorBox = []Point{{left, 10}, {left, bottom + 2}, {right, bottom + 2}, {right, 10}}
	}

	l.FrameHeight = bottom + bottomSpace
	l.FrameWidth = e.width
	l.Translate = Point{X: DefaultMargin.Left, Y: DefaultMargin.Top}
	if o.ScaleDist {
		inf := l.Bounds.Inf
		if inf > l.Bounds.Sup {
			inf = e.minLeft
		}
		if !math.IsInf(inf, 0) {
			l.FrameWidth = l.Bounds.Sup - inf + DefaultMargin.Left
			l.Translate.X = -inf + DefaultMargin.Left
		}
	}

	if (o.ScaleDist || o.ScaleSize) && e.scales.DistScale != (scale.Linear{}) {
		l.ScaleBar = e.scaleBar(l.FrameHeight - 25)
	}
}

// scaleBar places the ruler in frame coordinates at the left margin.
func (e *engine) scaleBar(y float64) *ScaleBar {
	d := e.scales.DistScale
	ticks := scale.BarTicks(d.Domain[0], d.Domain[1])
	length := d.At(ticks[1]) - d.At(ticks[0])
	return &ScaleBar{
		X1:    DefaultMargin.Left,
		X2:    DefaultMargin.Left + length,
		Y:     y,
		Value: ticks[1],
		Label: fmt.Sprintf("%gbp", ticks[1]),
	}
}
