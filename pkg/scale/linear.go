// Package scale maps genomic lengths to pixel widths.
//
// [Linear] is a continuous linear scale with the conventions of d3's
// scale.linear: a degenerate domain maps every input to the start of the
// range, and inputs outside the domain extrapolate. [Build] derives the
// size and distance scales the synteny layout uses from the gene sizes of
// one draw.
package scale

import "math"

// Func maps a domain value to a range value.
type Func func(float64) float64

// Identity returns its input.
func Identity(x float64) float64 { return x }

// Linear is a linear map from Domain to Range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear returns the linear scale [d0, d1] -> [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// At maps x through the scale.
func (l Linear) At(x float64) float64 {
	span := l.Domain[1] - l.Domain[0]
	if span == 0 || math.IsNaN(span) {
		return l.Range[0]
	}
	t := (x - l.Domain[0]) / span
	return l.Range[0] + t*(l.Range[1]-l.Range[0])
}

// Func returns the scale as a plain function.
func (l Linear) Func() Func { return l.At }

// Invert maps a range value back to the domain.
func (l Linear) Invert(y float64) float64 {
	span := l.Range[1] - l.Range[0]
	if span == 0 {
		return l.Domain[0]
	}
	t := (y - l.Range[0]) / span
	return l.Domain[0] + t*(l.Domain[1]-l.Domain[0])
}

// Ticks returns roughly count evenly spaced round values inside the domain.
func (l Linear) Ticks(count int) []float64 {
	return Ticks(l.Domain[0], l.Domain[1], count)
}

// Extent returns the minimum and maximum of values, ignoring NaN. ok is false
// when no finite value is present.
func Extent(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi, ok
}
