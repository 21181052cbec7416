package scale

import "math"

// Ticks returns round tick values covering [lo, hi], aiming for count ticks.
// The step is a power of ten times 1, 2 or 5, as in d3 v3.
func Ticks(lo, hi float64, count int) []float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	step := tickStep(lo, hi, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}
	start := math.Ceil(lo/step) * step
	stop := math.Floor(hi/step)*step + step*.5

	var ticks []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		ticks = append(ticks, v)
	}
	return ticks
}

func tickStep(lo, hi float64, count int) float64 {
	if count <= 0 {
		count = 10
	}
	span := hi - lo
	if span <= 0 {
		return 0
	}
	m := float64(count)
	step := math.Pow(10, math.Floor(math.Log10(span/m)))
	switch err := m / span * step; {
	case err <= .15:
		step *= 10
	case err <= .35:
		step *= 5
	case err <= .75:
		step *= 2
	}
	return step
}

// BarTicks returns the two values a scale bar spans: 0 and one tick step.
// A domain yielding a single tick uses that tick as the bar length.
func BarTicks(lo, hi float64) [2]float64 {
	t := Ticks(lo, hi, 2)
	switch {
	case len(t) >= 2 && t[1]-t[0] != 0:
		return [2]float64{0, t[1] - t[0]}
	case len(t) >= 1:
		return [2]float64{0, t[0]}
	default:
		return [2]float64{0, 0}
	}
}
