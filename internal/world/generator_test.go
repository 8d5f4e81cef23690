package world

import (
	"errors"
	"testing"
)

func TestGeneratorDeterministic(t *testing.T) {
	for _, kind := range []NoiseKind{NoisePerlin, NoiseSimplex} {
		p := DefaultTerrainParams()
		p.Noise = kind
		g1, err := NewGenerator(p)
		if err != nil {
			t.Fatalf("NewGenerator(%s): %v", kind, err)
		}
		g2, _ := NewGenerator(p)

		a, b := NewChunk(ChunkCoord{}), NewChunk(ChunkCoord{})
		if err := g1.Generate(a, -48, 32); err != nil {
			t.Fatal(err)
		}
		if err := g2.Generate(b, -48, 32); err != nil {
			t.Fatal(err)
		}
		if a.Digest() != b.Digest() {
			t.Errorf("%s: same seed and coord produced different chunks", kind)
		}
		if a.Coord != (ChunkCoord{X: -48, Z: 32}) {
			t.Errorf("%s: Generate left coord %v", kind, a.Coord)
		}

		p.Seed++
		g3, _ := NewGenerator(p)
		c := NewChunk(ChunkCoord{})
		_ = g3.Generate(c, -48, 32)
		if c.Digest() == a.Digest() {
			t.Errorf("%s: different seeds produced identical chunks", kind)
		}
	}
}

func TestGeneratorColumnLayers(t *testing.T) {
	g, err := NewGenerator(DefaultTerrainParams())
	if err != nil {
		t.Fatal(err)
	}
	p := g.Params()
	c := NewChunk(ChunkCoord{})
	if err := g.Generate(c, 0, 0); err != nil {
		t.Fatal(err)
	}
	for x := range ChunkWidth {
		for z := range ChunkDepth {
			h := g.HeightAt(x, z)
			for y := range ChunkHeight {
				b := c.at(x, y, z)
				switch {
				case y > h && y <= p.WaterLevel:
					if b != BlockWater {
						t.Fatalf("(%d,%d,%d) = %v, want water above height %d", x, y, z, b, h)
					}
				case y > h:
					if b != BlockAir {
						t.Fatalf("(%d,%d,%d) = %v, want air above height %d", x, y, z, b, h)
					}
				case y == h && h > p.WaterLevel+1:
					if b != BlockGrass {
						t.Fatalf("(%d,%d,%d) = %v, want grass top", x, y, z, b)
					}
				case y == h && h == p.WaterLevel:
					if b != BlockWater {
						t.Fatalf("(%d,%d,%d) = %v, want water at the water level", x, y, z, b)
					}
				case y == h:
					if b != BlockSand {
						t.Fatalf("(%d,%d,%d) = %v, want sand top", x, y, z, b)
					}
				case y < h-p.DirtDepth:
					if b != BlockStone && b != BlockOres {
						t.Fatalf("(%d,%d,%d) = %v, want stone or ore", x, y, z, b)
					}
				}
			}
		}
	}
}

func TestGeneratorBeachOverride(t *testing.T) {
	p := DefaultTerrainParams()
	p.Amplitude = 0
	p.BaseHeight = p.WaterLevel + 1
	g, err := NewGenerator(p)
	if err != nil {
		t.Fatal(err)
	}
	c := NewChunk(ChunkCoord{})
	_ = g.Generate(c, 16, 16)
	for x := range ChunkWidth {
		for z := range ChunkDepth {
			if b := c.at(x, p.WaterLevel+1, z); b != BlockSand {
				t.Fatalf("beach top (%d,%d) = %v, want sand", x, z, b)
			}
			if b := c.at(x, p.WaterLevel+2, z); b != BlockAir {
				t.Fatalf("above beach (%d,%d) = %v, want air", x, z, b)
			}
			if b := c.at(x, p.WaterLevel, z); b != BlockSand {
				t.Fatalf("under beach (%d,%d) = %v, want sand", x, z, b)
			}
		}
	}
}

func TestGeneratorUnderwaterAndLand(t *testing.T) {
	p := DefaultTerrainParams()
	p.Amplitude = 0
	p.BaseHeight = p.WaterLevel - 4
	sea, _ := NewGenerator(p)
	c := NewChunk(ChunkCoord{})
	_ = sea.Generate(c, 0, 0)
	if b := c.at(5, p.WaterLevel, 5); b != BlockWater {
		t.Errorf("water level cell = %v, want water", b)
	}
	if b := c.at(5, p.WaterLevel+1, 5); b != BlockAir {
		t.Errorf("above water = %v, want air", b)
	}
	if b := c.at(5, p.BaseHeight, 5); b != BlockSand {
		t.Errorf("sea floor = %v, want sand", b)
	}

	p.BaseHeight = p.WaterLevel + 10
	land, _ := NewGenerator(p)
	_ = land.Generate(c, 0, 0)
	if b := c.at(5, p.BaseHeight, 5); b != BlockGrass {
		t.Errorf("land top = %v, want grass", b)
	}
	if b := c.at(5, p.BaseHeight-1, 5); b != BlockDirt {
		t.Errorf("under grass = %v, want dirt", b)
	}
}

func TestGeneratorSurfaceAtWaterLevel(t *testing.T) {
	p := DefaultTerrainParams()
	p.Amplitude = 0
	p.BaseHeight = p.WaterLevel
	g, err := NewGenerator(p)
	if err != nil {
		t.Fatal(err)
	}
	if h := g.HeightAt(0, 0); h != p.WaterLevel {
		t.Fatalf("HeightAt = %d, want %d", h, p.WaterLevel)
	}
	c := NewChunk(ChunkCoord{})
	_ = g.Generate(c, 0, 0)
	for x := range ChunkWidth {
		for z := range ChunkDepth {
			if b := c.at(x, p.WaterLevel, z); b != BlockWater {
				t.Fatalf("(%d,%d) at water level = %v, want water", x, z, b)
			}
			if b := c.at(x, p.WaterLevel+1, z); b != BlockAir {
				t.Fatalf("(%d,%d) above water = %v, want air", x, z, b)
			}
			if b := c.at(x, p.WaterLevel-1, z); b != BlockSand {
				t.Fatalf("(%d,%d) under water = %v, want sand", x, z, b)
			}
		}
	}
}

func TestGeneratorOreRarity(t *testing.T) {
	p := DefaultTerrainParams()
	p.OreRarity = 1
	g, _ := NewGenerator(p)
	c := NewChunk(ChunkCoord{})
	_ = g.Generate(c, 0, 0)
	for _, b := range c.ActiveBlocks() {
		if b == BlockStone {
			t.Fatalf("found stone with ore rarity 1")
		}
	}
}

func TestGeneratorRejectsUnaligned(t *testing.T) {
	g, _ := NewGenerator(DefaultTerrainParams())
	if err := g.Generate(NewChunk(ChunkCoord{}), 3, 0); !errors.Is(err, ErrUnaligned) {
		t.Errorf("Generate(3,0) err = %v, want ErrUnaligned", err)
	}
	if err := NewFlatGenerator(4).Generate(NewChunk(ChunkCoord{}), 0, -5); !errors.Is(err, ErrUnaligned) {
		t.Errorf("flat Generate(0,-5) err = %v, want ErrUnaligned", err)
	}
}

func TestTerrainParamsValidate(t *testing.T) {
	bad := []func(*TerrainParams){
		func(p *TerrainParams) { p.Noise = "value" },
		func(p *TerrainParams) { p.Scale = 0 },
		func(p *TerrainParams) { p.Octaves = 0 },
		func(p *TerrainParams) { p.WaterLevel = ChunkHeight },
		func(p *TerrainParams) { p.OreRarity = 0 },
		func(p *TerrainParams) { p.DirtDepth = -1 },
	}
	for i, mutate := range bad {
		p := DefaultTerrainParams()
		mutate(&p)
		if _, err := NewGenerator(p); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d: err = %v, want ErrInvalidConfig", i, err)
		}
	}
}

func TestFlatGeneratorLayout(t *testing.T) {
	g := NewFlatGenerator(10)
	c := NewChunk(ChunkCoord{})
	if err := g.Generate(c, -16, 0); err != nil {
		t.Fatal(err)
	}
	want := map[int]BlockID{11: BlockAir, 10: BlockGrass, 9: BlockDirt, 7: BlockDirt, 6: BlockStone, 0: BlockStone}
	for y, id := range want {
		if b := c.at(0, y, 15); b != id {
			t.Errorf("y=%d: %v, want %v", y, b, id)
		}
	}
	if g.HeightAt(123, -9) != 10 {
		t.Errorf("HeightAt = %d, want 10", g.HeightAt(123, -9))
	}
}

func BenchmarkGenerateChunk(b *testing.B) {
	g, _ := NewGenerator(DefaultTerrainParams())
	c := NewChunk(ChunkCoord{})
	for i := 0; b.Loop(); i++ {
		_ = g.Generate(c, (i%64)*ChunkWidth, 0)
	}
}
