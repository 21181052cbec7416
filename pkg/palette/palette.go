// Package palette assigns colors to categorical identifiers.
//
// A [Palette] is built once per draw: the color pool is shuffled with a
// Fisher-Yates permutation and handed out to the category domain in
// insertion order. Within one draw the id -> color correspondence is fixed,
// so glyphs and legend agree; a new draw may reshuffle.
//
// When the domain is larger than the pool, colors cycle: the i-th id gets
// pool[i % len(pool)] of the shuffled pool. Ids outside the domain, and the
// "no annotation" sentinels, get the neutral [NoData] color.
package palette

import (
	"math/rand/v2"
	"time"

	"github.com/matzehuels/geco/pkg/genome"
)

// NoData is the neutral fill for genes without a category.
const NoData = "#d3d3d3"

// Option configures [Build].
type Option func(*builder)

type builder struct {
	rng    *rand.Rand
	noData string
}

// WithSeed makes the shuffle reproducible.
func WithSeed(seed uint64) Option {
	return func(b *builder) { b.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// WithRand uses the given source for the shuffle.
func WithRand(r *rand.Rand) Option { return func(b *builder) { b.rng = r } }

// WithNoData overrides the neutral color.
func WithNoData(color string) Option { return func(b *builder) { b.noData = color } }

// Palette maps category ids to colors for one draw.
type Palette struct {
	domain []string
	colors map[string]string
	rng    []string
	noData string
}

// Build assigns colors from pool to ids. Duplicate ids and sentinels are
// dropped from the domain; pool is not modified.
func Build(ids []string, pool []string, opts ...Option) *Palette {
	b := builder{noData: NoData}
	for _, opt := range opts {
		opt(&b)
	}
	if b.rng == nil {
		now := uint64(time.Now().UnixNano())
		b.rng = rand.New(rand.NewPCG(now, now>>7))
	}

	p := &Palette{
		colors: make(map[string]string, len(ids)),
		rng:    Shuffle(pool, b.rng),
		noData: b.noData,
	}
	for _, id := range ids {
		if genome.IsSentinel(id) {
			continue
		}
		if _, ok := p.colors[id]; ok {
			continue
		}
		color := p.noData
		if len(p.rng) > 0 {
			color = p.rng[len(p.domain)%len(p.rng)]
		}
		p.domain = append(p.domain, id)
		p.colors[id] = color
	}
	return p
}

// Shuffle returns a uniformly permuted copy of colors (Fisher-Yates).
func Shuffle(colors []string, r *rand.Rand) []string {
	out := append([]string(nil), colors...)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Color returns the color of id, or the no-data color when id is a sentinel
// or outside the domain.
func (p *Palette) Color(id string) string {
	if p == nil {
		return NoData
	}
	if c, ok := p.colors[id]; ok {
		return c
	}
	return p.noData
}

// Has reports whether id belongs to the domain.
func (p *Palette) Has(id string) bool {
	if p == nil {
		return false
	}
	_, ok := p.colors[id]
	return ok
}

// Domain returns the ids in assignment order.
func (p *Palette) Domain() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.domain...)
}

// Range returns the shuffled pool.
func (p *Palette) Range() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.rng...)
}

// NoDataColor returns the neutral color of this palette.
func (p *Palette) NoDataColor() string {
	if p == nil {
		return NoData
	}
	return p.noData
}

// Exhausted reports whether some colors are reused because the domain is
// larger than the pool.
func (p *Palette) Exhausted() bool {
	return p != nil && len(p.domain) > len(p.rng)
}
