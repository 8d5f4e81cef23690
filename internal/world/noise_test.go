package world

import (
	"math"
	"testing"

	"github.com/ojrac/opensimplex-go"
)

func TestHashDeterministic(t *testing.T) {
	for i := range 100 {
		if Hash3(i, 2*i, -i, 42) != Hash3(i, 2*i, -i, 42) {
			t.Fatalf("Hash3 not deterministic at %d", i)
		}
	}
	if Hash(7, 1) == Hash(7, 2) {
		t.Errorf("Hash ignores seed")
	}
	if Hash2(1, 0, 9) == Hash2(0, 1, 9) {
		t.Errorf("Hash2 symmetric in x and z")
	}
	if Hash3(1, 0, 0, 9) == Hash3(0, 1, 0, 9) || Hash3(0, 1, 0, 9) == Hash3(0, 0, 1, 9) {
		t.Errorf("Hash3 does not separate axes")
	}
}

func TestUnitFloatRange(t *testing.T) {
	for _, h := range []uint32{0, 1, 1 << 31, math.MaxUint32} {
		v := UnitFloat(h)
		if v < 0 || v >= 1 {
			t.Errorf("UnitFloat(%d) = %g, outside [0,1)", h, v)
		}
	}
}

func TestPerlinRangeAndContinuity(t *testing.T) {
	const step = 1e-3
	for i := range 2000 {
		x := float64(i)*0.173 - 100
		y := float64(i)*0.311 - 50
		v := Perlin2D(x, y, 7)
		if v < 0 || v > 1 {
			t.Fatalf("Perlin2D(%g,%g) = %g, outside [0,1]", x, y, v)
		}
		if d := math.Abs(Perlin2D(x+step, y, 7) - v); d > 0.01 {
			t.Fatalf("Perlin2D jumps by %g over %g at (%g,%g)", d, step, x, y)
		}
	}
	// Lattice points have zero offset, so every gradient dot is zero.
	if v := Perlin2D(3, -4, 11); math.Abs(v-0.5) > 1e-9 {
		t.Errorf("Perlin2D at lattice point = %g, want 0.5", v)
	}
}

func TestFractalRange(t *testing.T) {
	sources := map[string]Noise2D{
		"perlin":  Perlin{Seed: 3},
		"simplex": opensimplex.NewNormalized(3),
	}
	for name, n := range sources {
		for i := range 500 {
			x, y := float64(i)*0.37, float64(i)*-0.29
			v := Fractal(n, x, y, 4, 2, 0.5)
			if v < 0 || v > 1 {
				t.Fatalf("%s: Fractal(%g,%g) = %g, outside [0,1]", name, x, y, v)
			}
		}
	}
	if v := Fractal(Perlin{}, 1, 1, 0, 2, 0.5); v != 0 {
		t.Errorf("Fractal with no octaves = %g, want 0", v)
	}
}
