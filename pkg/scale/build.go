package scale

import "fmt"

// Geometry is the part of the reference rectangle the scales depend on.
type Geometry struct {
	W  float64 // reference glyph width
	PH float64 // horizontal padding reserved for the arrow head
}

// Config selects the scaling policy.
type Config struct {
	ScaleDist   bool    // gaps proportional to genomic distance
	CustomScale float64 // overrides the pixel width of the smallest gene when > 0
}

// Scales are the size and distance scales of one draw.
type Scales struct {
	Size Func
	Dist Func

	// DistScale is the linear scale behind Dist; zero when the builder fell
	// back to identity.
	DistScale Linear
	Extent    [2]float64
}

// Warning reports a non-fatal scale-building failure. The accompanying
// Scales are identity functions.
type Warning struct {
	Reason string
}

func (w *Warning) Error() string { return "scale: " + w.Reason }

// IdentityScales returns scales that leave lengths untouched.
func IdentityScales() Scales {
	return Scales{Size: Identity, Dist: Identity}
}

// Build derives the scales from the gene sizes visible in one draw.
//
// The smallest gene is drawn (2/5)*ph + 10 pixels wide, or CustomScale when
// set, and the largest proportionally to it. Without ScaleDist the range is
// fixed to [ph + w/5, w] and Size equals Dist; with it, Size adds the part of
// the padding the arrow head does not use.
//
// Sizes that are NaN, infinite or non-positive are ignored. When none is
// left, Build returns identity scales and a *Warning.
func Build(sizes []float64, g Geometry, cfg Config) (Scales, error) {
	usable := make([]float64, 0, len(sizes))
	for _, s := range sizes {
		if s > 0 {
			usable = append(usable, s)
		}
	}
	lo, hi, ok := Extent(usable)
	if !ok {
		return IdentityScales(), &Warning{Reason: fmt.Sprintf("no usable gene size among %d values", len(sizes))}
	}

	r0 := (2.0/5)*g.PH + 10
	if cfg.CustomScale > 0 {
		r0 = cfg.CustomScale
	}
	r1 := NewLinear(0, lo, 0, r0).At(hi)
	if !cfg.ScaleDist {
		r0, r1 = g.PH+g.W/5, g.W
	}

	dist := NewLinear(lo, hi, r0, r1)
	s := Scales{
		Dist:      dist.At,
		DistScale: dist,
		Extent:    [2]float64{lo, hi},
	}
	if cfg.ScaleDist {
		arrow := (2.0 / 5) * g.PH
		s.Size = func(x float64) float64 { return dist.At(x) - arrow + g.PH }
	} else {
		s.Size = dist.At
	}
	return s, nil
}
