package world

import (
	"math"
)

// Deterministic integer hashing and gradient noise for terrain.
// Nothing here reads the clock or a global RNG: equal inputs give equal
// outputs on every run.

const (
	bitNoise1 = 0xB5297A4D
	bitNoise2 = 0x68E31DA4
	bitNoise3 = 0x1B56C4E9

	primeY = 198491317
	primeZ = 6542989
)

// Hash mixes n with seed (multiply-xor-shift avalanche).
func Hash(n, seed uint32) uint32 {
	n *= bitNoise1
	n += seed
	n ^= n >> 8
	n += bitNoise2
	n ^= n << 8
	n *= bitNoise3
	n ^= n >> 8
	return n
}

// Hash2 hashes a 2D lattice point.
func Hash2(x, z int, seed uint32) uint32 {
	return Hash(uint32(int32(x))+primeY*uint32(int32(z)), seed)
}

// Hash3 hashes a 3D lattice point.
func Hash3(x, y, z int, seed uint32) uint32 {
	return Hash(uint32(int32(x))+primeY*uint32(int32(y))+primeZ*uint32(int32(z)), seed)
}

// UnitFloat maps a hash onto [0,1).
func UnitFloat(h uint32) float64 {
	return float64(h) / (1 << 32)
}

// Noise2D is a smooth 2D noise source with values in [0,1].
type Noise2D interface {
	Eval2(x, y float64) float64
}

// Perlin is seeded 2D gradient noise.
type Perlin struct {
	Seed uint32
}

// Eval2 implements Noise2D.
func (p Perlin) Eval2(x, y float64) float64 {
	return Perlin2D(x, y, p.Seed)
}

// Perlin2D samples gradient noise at (x, y). Result is in [0,1].
func Perlin2D(x, y float64, seed uint32) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix, iy := int(x0), int(y0)

	wx := smoothstep(x - x0)
	wy := smoothstep(y - y0)

	a := gradientDot(ix, iy, x, y, seed)
	b := gradientDot(ix+1, iy, x, y, seed)
	top := lerp(a, b, wx)

	a = gradientDot(ix, iy+1, x, y, seed)
	b = gradientDot(ix+1, iy+1, x, y, seed)
	bottom := lerp(a, b, wx)

	v := (lerp(top, bottom, wy) + 1) / 2
	return clamp01(v)
}

// Fractal sums octaves of n at rising frequency and falling amplitude,
// normalised back to [0,1].
func Fractal(n Noise2D, x, y float64, octaves int, lacunarity, persistence float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for range octaves {
		sum += n.Eval2(x*frequency, y*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return clamp01(sum / norm)
}

// gradientDot dots the hashed unit gradient at lattice point (ix, iy)
// with the offset from that point to (x, y).
func gradientDot(ix, iy int, x, y float64, seed uint32) float64 {
	angle := 2 * math.Pi * UnitFloat(Hash2(ix, iy, seed))
	gx, gy := math.Cos(angle), math.Sin(angle)
	return (x-float64(ix))*gx + (y-float64(iy))*gy
}

// smoothstep is the cubic fade 3t^2 - 2t^3.
func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
