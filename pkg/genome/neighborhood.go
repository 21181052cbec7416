package genome

import (
	"maps"
	"slices"
)

// Neighborhood maps relative positions to genes. Position 0 is the central
// gene; negative positions are upstream.
type Neighborhood map[int]*Gene

// Anchor returns the central gene.
func (n Neighborhood) Anchor() (*Gene, bool) {
	g, ok := n[0]
	return g, ok && g != nil
}

// Positions returns the occupied positions in increasing order.
func (n Neighborhood) Positions() []int {
	return slices.Sorted(maps.Keys(n))
}

// Window returns the occupied positions within [-upstream, downstream].
func (n Neighborhood) Window(upstream, downstream int) []int {
	var out []int
	for _, p := range n.Positions() {
		if p >= -upstream && p <= downstream {
			out = append(out, p)
		}
	}
	return out
}

// IsCanonical reports whether the neighborhood reads left to right, i.e. the
// central gene is on the forward strand. A neighborhood without an anchor is
// treated as canonical.
func (n Neighborhood) IsCanonical() bool {
	g, ok := n.Anchor()
	return !ok || !g.Strand.IsReverse()
}

// Normalize returns a neighborhood whose central gene is on the forward
// strand. When the anchor is reverse, every strand is flipped and every
// position p moves to -p; the returned genes are copies. A canonical
// neighborhood is returned unchanged with swapped=false, so applying
// Normalize twice has the same effect as applying it once.
func (n Neighborhood) Normalize() (out Neighborhood, swapped bool) {
	if n.IsCanonical() {
		return n, false
	}
	out = make(Neighborhood, len(n))
	for p, g := range n {
		if g == nil {
			out[-p] = nil
			continue
		}
		c := g.clone()
		c.Strand = c.Strand.Flip()
		out[-p] = c
	}
	return out, true
}
