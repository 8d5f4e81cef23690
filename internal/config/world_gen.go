package config

import (
	"fmt"

	"blockworld/internal/world"
)

// Generator names accepted by terrain.generator.
const (
	GeneratorNoise = "noise"
	GeneratorFlat  = "flat"
)

// TerrainConfig holds world generation settings.
type TerrainConfig struct {
	Generator  string `yaml:"generator"`
	FlatHeight int    `yaml:"flat_height"`

	Seed        int64   `yaml:"seed"`
	Noise       string  `yaml:"noise"` // perlin or simplex
	Scale       float64 `yaml:"scale"`
	Octaves     int     `yaml:"octaves"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Persistence float64 `yaml:"persistence"`
	Offset      float64 `yaml:"offset"`
	BaseHeight  int     `yaml:"base_height"`
	Amplitude   float64 `yaml:"amplitude"`
	WaterLevel  int     `yaml:"water_level"`
	DirtDepth   int     `yaml:"dirt_depth"`
	OreRarity   int     `yaml:"ore_rarity"`
}

// Params converts the noise settings.
func (t TerrainConfig) Params() world.TerrainParams {
	return world.TerrainParams{
		Seed:        t.Seed,
		Noise:       world.NoiseKind(t.Noise),
		Scale:       t.Scale,
		Octaves:     t.Octaves,
		Lacunarity:  t.Lacunarity,
		Persistence: t.Persistence,
		Offset:      t.Offset,
		BaseHeight:  t.BaseHeight,
		Amplitude:   t.Amplitude,
		WaterLevel:  t.WaterLevel,
		DirtDepth:   t.DirtDepth,
		OreRarity:   t.OreRarity,
	}
}

// NewGenerator builds the configured terrain generator.
func (t TerrainConfig) NewGenerator() (world.TerrainGenerator, error) {
	switch t.Generator {
	case GeneratorFlat:
		return world.NewFlatGenerator(t.FlatHeight), nil
	case GeneratorNoise:
		return world.NewGenerator(t.Params())
	default:
		return nil, fmt.Errorf("%w: unknown generator %q", world.ErrInvalidConfig, t.Generator)
	}
}

func (t TerrainConfig) validate() error {
	switch t.Generator {
	case GeneratorFlat:
		if t.FlatHeight < 0 || t.FlatHeight >= world.ChunkHeight {
			return fmt.Errorf("%w: flat height %d outside [0,%d)", world.ErrInvalidConfig, t.FlatHeight, world.ChunkHeight)
		}
		return nil
	case GeneratorNoise:
		return t.Params().Validate()
	default:
		return fmt.Errorf("%w: unknown generator %q", world.ErrInvalidConfig, t.Generator)
	}
}
