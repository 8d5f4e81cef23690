package world

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// TerrainGenerator fills chunks with terrain.
type TerrainGenerator interface {
	// Generate assigns every cell of c for the chunk at world offset
	// (offsetX, offsetZ) and moves c to that coord.
	Generate(c *Chunk, offsetX, offsetZ int) error
	// HeightAt returns the surface height of world column (x, z).
	HeightAt(worldX, worldZ int) int
}

// NoiseKind selects the heightfield noise source.
type NoiseKind string

const (
	NoisePerlin  NoiseKind = "perlin"
	NoiseSimplex NoiseKind = "simplex"
)

// TerrainParams configures Generator.
type TerrainParams struct {
	Seed  int64
	Noise NoiseKind

	Scale       float64 // world blocks per noise unit
	Octaves     int
	Lacunarity  float64
	Persistence float64
	Offset      float64 // shifts sampling away from the noise origin

	BaseHeight int
	Amplitude  float64
	WaterLevel int
	DirtDepth  int // cells of dirt/sand under the surface block
	OreRarity  int // one stone cell in OreRarity becomes ore
}

// DefaultTerrainParams returns the canonical 16x256x16 world settings.
func DefaultTerrainParams() TerrainParams {
	return TerrainParams{
		Seed:        1337,
		Noise:       NoisePerlin,
		Scale:       32,
		Octaves:     4,
		Lacunarity:  2,
		Persistence: 0.5,
		Offset:      256,
		BaseHeight:  4,
		Amplitude:   32,
		WaterLevel:  14,
		DirtDepth:   3,
		OreRarity:   256,
	}
}

// Validate checks the parameters can drive a generator.
func (p TerrainParams) Validate() error {
	switch {
	case p.Noise != NoisePerlin && p.Noise != NoiseSimplex:
		return fmt.Errorf("%w: unknown noise %q", ErrInvalidConfig, p.Noise)
	case p.Scale <= 0:
		return fmt.Errorf("%w: scale must be positive, got %g", ErrInvalidConfig, p.Scale)
	case p.Octaves < 1:
		return fmt.Errorf("%w: octaves must be at least 1, got %d", ErrInvalidConfig, p.Octaves)
	case p.Lacunarity <= 0 || p.Persistence <= 0:
		return fmt.Errorf("%w: lacunarity and persistence must be positive", ErrInvalidConfig)
	case p.WaterLevel < 0 || p.WaterLevel >= ChunkHeight:
		return fmt.Errorf("%w: water level %d outside [0,%d)", ErrInvalidConfig, p.WaterLevel, ChunkHeight)
	case p.BaseHeight < 0 || p.BaseHeight >= ChunkHeight:
		return fmt.Errorf("%w: base height %d outside [0,%d)", ErrInvalidConfig, p.BaseHeight, ChunkHeight)
	case p.DirtDepth < 0:
		return fmt.Errorf("%w: dirt depth must not be negative", ErrInvalidConfig)
	case p.OreRarity < 1:
		return fmt.Errorf("%w: ore rarity must be at least 1, got %d", ErrInvalidConfig, p.OreRarity)
	}
	return nil
}

// Generator produces layered-noise terrain.
type Generator struct {
	p       TerrainParams
	noise   Noise2D
	oreSeed uint32
}

// NewGenerator builds a generator from p.
func NewGenerator(p TerrainParams) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{p: p, oreSeed: Hash(uint32(p.Seed), uint32(p.Seed>>32)+1)}
	switch p.Noise {
	case NoiseSimplex:
		g.noise = opensimplex.NewNormalized(p.Seed)
	default:
		g.noise = Perlin{Seed: uint32(p.Seed) ^ uint32(p.Seed>>32)}
	}
	return g, nil
}

// Params returns the generator's configuration.
func (g *Generator) Params() TerrainParams { return g.p }

// HeightAt computes the surface height (block Y) of world column (x, z).
func (g *Generator) HeightAt(worldX, worldZ int) int {
	nx := (float64(worldX) + g.p.Offset) / g.p.Scale
	nz := (float64(worldZ) + g.p.Offset) / g.p.Scale
	n := Fractal(g.noise, nx, nz, g.p.Octaves, g.p.Lacunarity, g.p.Persistence)
	h := g.p.BaseHeight + int(math.Floor(g.p.Amplitude*n))
	return min(max(h, 0), ChunkHeight-1)
}

// Generate fills every cell of c for the chunk at (offsetX, offsetZ).
func (g *Generator) Generate(c *Chunk, offsetX, offsetZ int) error {
	coord := ChunkCoord{X: offsetX, Z: offsetZ}
	if !coord.Aligned() {
		return fmt.Errorf("generate %v: %w", coord, ErrUnaligned)
	}
	c.Coord = coord

	for x := range ChunkWidth {
		for z := range ChunkDepth {
			wx, wz := offsetX+x, offsetZ+z
			height := g.HeightAt(wx, wz)
			for y := range ChunkHeight {
				c.set(x, y, z, g.classify(wx, y, wz, height))
			}
			// Beach columns get a sand top whatever the banding chose.
			if height == g.p.WaterLevel+1 {
				c.set(x, height, z, BlockSand)
			}
		}
	}
	return nil
}

// classify picks the block of cell y in a column whose surface is height.
func (g *Generator) classify(wx, y, wz, height int) BlockID {
	water := g.p.WaterLevel
	switch {
	case y > height:
		if y <= water {
			return BlockWater
		}
		return BlockAir
	case y == height:
		switch {
		case height == water:
			return BlockWater
		case height < water:
			return BlockSand
		}
		return BlockGrass
	case y >= height-g.p.DirtDepth:
		if height <= water+1 {
			return BlockSand
		}
		return BlockDirt
	default:
		if Hash3(wx, y, wz, g.oreSeed)%uint32(g.p.OreRarity) == 0 {
			return BlockOres
		}
		return BlockStone
	}
}

// FlatGenerator builds a level world: grass at height, dirt beneath,
// stone below that.
type FlatGenerator struct {
	height int
}

// NewFlatGenerator creates a flat generator with its surface at height.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{height: min(max(height, 0), ChunkHeight-1)}
}

// HeightAt implements TerrainGenerator.
func (g *FlatGenerator) HeightAt(_, _ int) int { return g.height }

// Generate implements TerrainGenerator.
func (g *FlatGenerator) Generate(c *Chunk, offsetX, offsetZ int) error {
	coord := ChunkCoord{X: offsetX, Z: offsetZ}
	if !coord.Aligned() {
		return fmt.Errorf("generate %v: %w", coord, ErrUnaligned)
	}
	c.Coord = coord
	for y := range ChunkHeight {
		id := BlockAir
		switch {
		case y == g.height:
			id = BlockGrass
		case y < g.height && y >= g.height-3:
			id = BlockDirt
		case y < g.height:
			id = BlockStone
		}
		for z := range ChunkDepth {
			for x := range ChunkWidth {
				c.set(x, y, z, id)
			}
		}
	}
	return nil
}
