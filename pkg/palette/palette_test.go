package palette

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"
)

var pool = []string{"#111111", "#222222", "#333333", "#444444"}

func TestBuildStableWithinDraw(t *testing.T) {
	p := Build([]string{"a", "b", "c"}, pool, WithSeed(7))
	for _, id := range []string{"a", "b", "c"} {
		if p.Color(id) != p.Color(id) {
			t.Errorf("Color(%s) not stable", id)
		}
		if !slices.Contains(pool, p.Color(id)) {
			t.Errorf("Color(%s) = %s, not from pool", id, p.Color(id))
		}
	}
	if p.Color("a") == p.Color("b") || p.Color("b") == p.Color("c") {
		t.Error("distinct ids should get distinct colors while the pool lasts")
	}
}

func TestBuildSeedReproducible(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	p1 := Build(ids, pool, WithSeed(42))
	p2 := Build(ids, pool, WithSeed(42))
	for _, id := range ids {
		if p1.Color(id) != p2.Color(id) {
			t.Errorf("same seed gave different colors for %s", id)
		}
	}
}

func TestBuildDomain(t *testing.T) {
	p := Build([]string{"b", "", "a", "NA", "b"}, pool, WithSeed(1))
	if got := p.Domain(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Domain() = %v, want [b a]", got)
	}
	if !p.Has("a") || p.Has("NA") {
		t.Error("sentinels must stay out of the domain")
	}
}

func TestColorNoData(t *testing.T) {
	p := Build([]string{"a"}, pool, WithSeed(1))
	for _, id := range []string{"", "NA", "unknown"} {
		if got := p.Color(id); got != NoData {
			t.Errorf("Color(%q) = %s, want %s", id, got, NoData)
		}
	}

	custom := Build([]string{"a"}, pool, WithSeed(1), WithNoData("#ffffff"))
	if custom.Color("zz") != "#ffffff" {
		t.Errorf("custom no-data color not used")
	}

	var nilPalette *Palette
	if nilPalette.Color("a") != NoData {
		t.Error("nil palette should answer the no-data color")
	}
}

func TestBuildCyclesWhenExhausted(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	p := Build(ids, pool, WithSeed(3))
	if !p.Exhausted() {
		t.Error("Exhausted() = false with 6 ids and 4 colors")
	}
	rng := p.Range()
	for i, id := range ids {
		if want := rng[i%len(rng)]; p.Color(id) != want {
			t.Errorf("Color(%s) = %s, want %s", id, p.Color(id), want)
		}
	}
}

func TestBuildEmptyPool(t *testing.T) {
	p := Build([]string{"a", "b"}, nil)
	if p.Color("a") != NoData {
		t.Errorf("empty pool should map to no-data, got %s", p.Color("a"))
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	in := []string{"a", "b", "c", "d", "e"}
	out := Shuffle(in, r)
	if !reflect.DeepEqual(in, []string{"a", "b", "c", "d", "e"}) {
		t.Error("Shuffle modified its input")
	}
	sorted := slices.Clone(out)
	slices.Sort(sorted)
	if !reflect.DeepEqual(sorted, in) {
		t.Errorf("Shuffle(%v) = %v, not a permutation", in, out)
	}
}

func TestParsePool(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{"json", `["#FF0000", "#00ff00"]`, []string{"#ff0000", "#00ff00"}, false},
		{"single quotes", "['#0000ff',\n '#abc',]", []string{"#0000ff", "#aabbcc"}, false},
		{"not an array", `"#ff0000"`, nil, true},
		{"empty", `[]`, nil, true},
		{"bad color", `["#zzzzzz"]`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePool(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePool = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultPoolValid(t *testing.T) {
	if len(DefaultPool) != 34 {
		t.Errorf("len(DefaultPool) = %d", len(DefaultPool))
	}
	seen := map[string]bool{}
	for _, c := range DefaultPool {
		if seen[c] {
			t.Errorf("duplicate color %s", c)
		}
		seen[c] = true
	}
}
