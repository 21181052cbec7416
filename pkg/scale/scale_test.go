package scale

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLinear(t *testing.T) {
	tests := []struct {
		name string
		l    Linear
		in   float64
		want float64
	}{
		{"midpoint", NewLinear(0, 10, 0, 100), 5, 50},
		{"offset", NewLinear(50, 100, 18, 36), 50, 18},
		{"extrapolate", NewLinear(0, 10, 0, 100), 20, 200},
		{"reversed range", NewLinear(0, 10, 100, 0), 2, 80},
		{"degenerate domain", NewLinear(7, 7, 3, 9), 1000, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.l.At(tt.in); !near(got, tt.want) {
				t.Errorf("At(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLinearInvert(t *testing.T) {
	l := NewLinear(50, 100, 18, 36)
	if got := l.Invert(l.At(75)); !near(got, 75) {
		t.Errorf("Invert(At(75)) = %v", got)
	}
}

func TestExtent(t *testing.T) {
	lo, hi, ok := Extent([]float64{3, math.NaN(), -1, 8})
	if !ok || lo != -1 || hi != 8 {
		t.Errorf("Extent = %v, %v, %v", lo, hi, ok)
	}
	if _, _, ok := Extent(nil); ok {
		t.Error("Extent(nil) should not be ok")
	}
}

func TestBuildScaleDist(t *testing.T) {
	s, err := Build([]float64{100, 50}, Geometry{W: 200, PH: 20}, Config{ScaleDist: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Smallest gene: 2/5*20 + 10 = 18 px, largest proportionally 36 px.
	if got := s.Dist(50); !near(got, 18) {
		t.Errorf("Dist(50) = %v, want 18", got)
	}
	if got := s.Dist(100); !near(got, 36) {
		t.Errorf("Dist(100) = %v, want 36", got)
	}
	if got := s.Size(50); !near(got, 18-8+20) {
		t.Errorf("Size(50) = %v, want 30", got)
	}
	if s.Extent != [2]float64{50, 100} {
		t.Errorf("Extent = %v", s.Extent)
	}
}

func TestBuildCustomScale(t *testing.T) {
	s, err := Build([]float64{10, 40}, Geometry{W: 200, PH: 20}, Config{ScaleDist: true, CustomScale: 5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !near(s.Dist(10), 5) || !near(s.Dist(40), 20) {
		t.Errorf("Dist(10), Dist(40) = %v, %v, want 5, 20", s.Dist(10), s.Dist(40))
	}
}

func TestBuildFixedRange(t *testing.T) {
	s, err := Build([]float64{300, 100, 200}, Geometry{W: 100, PH: 20}, Config{CustomScale: 99})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !near(s.Size(100), 40) || !near(s.Size(300), 100) {
		t.Errorf("Size(100), Size(300) = %v, %v, want 40, 100", s.Size(100), s.Size(300))
	}
	if !near(s.Size(200), s.Dist(200)) {
		t.Error("Size must equal Dist without proportional distances")
	}
}

func TestBuildEmptyFallsBack(t *testing.T) {
	for _, sizes := range [][]float64{nil, {0, -5}, {math.NaN()}} {
		s, err := Build(sizes, Geometry{W: 100, PH: 20}, Config{ScaleDist: true})
		var w *Warning
		if !errors.As(err, &w) {
			t.Fatalf("Build(%v) err = %v, want *Warning", sizes, err)
		}
		if s.Size(123) != 123 || s.Dist(7) != 7 {
			t.Errorf("Build(%v) should fall back to identity", sizes)
		}
	}
}

func TestBuildSingleSize(t *testing.T) {
	s, err := Build([]float64{500}, Geometry{W: 100, PH: 20}, Config{ScaleDist: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !near(s.Dist(500), 18) || !near(s.Dist(9000), 18) {
		t.Errorf("a single size should map everything to the smallest width")
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		lo, hi float64
		n      int
		want   []float64
	}{
		{0, 10, 2, []float64{0, 5, 10}},
		{50, 100, 2, []float64{60, 80, 100}},
		{-30, 30, 3, []float64{-20, 0, 20}},
		{120, 980, 2, []float64{500}},
		{5, 5, 2, nil},
	}
	for _, tt := range tests {
		got := Ticks(tt.lo, tt.hi, tt.n)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Ticks(%v, %v, %d) = %v, want %v", tt.lo, tt.hi, tt.n, got, tt.want)
		}
	}
}

func TestBarTicks(t *testing.T) {
	if got := BarTicks(50, 100); got != [2]float64{0, 20} {
		t.Errorf("BarTicks(50, 100) = %v", got)
	}
	if got := BarTicks(120, 980); got != [2]float64{0, 500} {
		t.Errorf("BarTicks(120, 980) = %v", got)
	}
}
